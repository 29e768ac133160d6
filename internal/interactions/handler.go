package interactions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayush/bookshelf/internal/api"
	"github.com/ayush/bookshelf/internal/auth"
	"github.com/ayush/bookshelf/internal/models"
	"github.com/ayush/bookshelf/internal/store"
	"github.com/ayush/bookshelf/internal/validate"
)

// InteractionStore defines the interface for interaction persistence.
type InteractionStore interface {
	List(ctx context.Context) ([]models.Interaction, error)
	GetByBook(ctx context.Context, bookID string) (*models.Interaction, error)
	Create(ctx context.Context, rec *models.Interaction) error
	AddLike(ctx context.Context, bookID string, e models.Entry) error
	RemoveLike(ctx context.Context, bookID, username string) error
	AddRead(ctx context.Context, bookID string, e models.Entry) error
}

// Handler holds interaction HTTP handlers.
type Handler struct {
	interactions InteractionStore
	log          zerolog.Logger
}

func NewHandler(interactions InteractionStore, log zerolog.Logger) *Handler {
	return &Handler{interactions: interactions, log: log}
}

// Summarize computes the per-book aggregate for each record, preserving
// store order. numberOfInteractions is always likeCount + readCount.
func Summarize(recs []models.Interaction) []models.Aggregate {
	aggs := make([]models.Aggregate, 0, len(recs))
	for _, rec := range recs {
		aggs = append(aggs, models.Aggregate{
			BookID:               rec.BookID,
			Likes:                rec.Likes,
			Reads:                rec.Reads,
			LikeCount:            len(rec.Likes),
			ReadCount:            len(rec.Reads),
			NumberOfInteractions: len(rec.Likes) + len(rec.Reads),
		})
	}
	return aggs
}

// List returns the aggregate summary for every interaction record.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.interactions.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list interactions")
		api.Unexpected(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "All Interactions",
		"data":    map[string]interface{}{"interactions": Summarize(recs)},
	})
}

// Like toggles the requester's like on a book: the first call adds a
// like entry, the second removes it.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		api.Error(w, http.StatusBadRequest, "Authorization header is required")
		return
	}

	var req models.InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	rec, err := h.interactions.GetByBook(r.Context(), req.BookID)
	if errors.Is(err, store.ErrNoRecord) {
		rec := &models.Interaction{
			BookID: req.BookID,
			Likes:  []models.Entry{{Username: claims.Username, At: time.Now()}},
			Reads:  []models.Entry{},
		}
		if err := h.interactions.Create(r.Context(), rec); err != nil {
			h.log.Error().Err(err).Msg("create interaction record")
			api.Unexpected(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]string{"message": "You liked this book"})
		return
	}
	if err != nil {
		api.Unexpected(w, err)
		return
	}

	if hasEntry(rec.Likes, claims.Username) {
		if err := h.interactions.RemoveLike(r.Context(), req.BookID, claims.Username); err != nil {
			h.log.Error().Err(err).Msg("remove like")
			api.Unexpected(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]string{"message": "You disliked this book"})
		return
	}

	e := models.Entry{Username: claims.Username, At: time.Now()}
	if err := h.interactions.AddLike(r.Context(), req.BookID, e); err != nil {
		h.log.Error().Err(err).Msg("add like")
		api.Unexpected(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "You liked this book"})
}

// Read records that the requester read a book. Reads are monotonic per
// user: a repeat read is a no-op.
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		api.Error(w, http.StatusBadRequest, "Authorization header is required")
		return
	}

	var req models.InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	rec, err := h.interactions.GetByBook(r.Context(), req.BookID)
	if errors.Is(err, store.ErrNoRecord) {
		rec := &models.Interaction{
			BookID: req.BookID,
			Likes:  []models.Entry{},
			Reads:  []models.Entry{{Username: claims.Username, At: time.Now()}},
		}
		if err := h.interactions.Create(r.Context(), rec); err != nil {
			h.log.Error().Err(err).Msg("create interaction record")
			api.Unexpected(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]string{"message": "You read this book"})
		return
	}
	if err != nil {
		api.Unexpected(w, err)
		return
	}

	if hasEntry(rec.Reads, claims.Username) {
		api.JSON(w, http.StatusOK, map[string]string{"message": "You already read this book"})
		return
	}

	e := models.Entry{Username: claims.Username, At: time.Now()}
	if err := h.interactions.AddRead(r.Context(), req.BookID, e); err != nil {
		h.log.Error().Err(err).Msg("add read")
		api.Unexpected(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "You read this book"})
}

func hasEntry(entries []models.Entry, username string) bool {
	for _, e := range entries {
		if e.Username == username {
			return true
		}
	}
	return false
}
