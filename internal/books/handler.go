package books

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ayush/bookshelf/internal/api"
	"github.com/ayush/bookshelf/internal/auth"
	"github.com/ayush/bookshelf/internal/models"
	"github.com/ayush/bookshelf/internal/store"
	"github.com/ayush/bookshelf/internal/validate"
)

const (
	aggregateCacheKey = "cache:interactions"
	aggregateCacheTTL = 30 * time.Second
)

// BookStore defines the interface for book persistence.
type BookStore interface {
	Insert(ctx context.Context, book *models.Book) (*models.Book, error)
	ListNew(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	GetByTitle(ctx context.Context, title string) (*models.Book, error)
	Update(ctx context.Context, id, title, story string) (*models.Book, error)
	Delete(ctx context.Context, id string) error
}

// Cache is the optional short-lived cache consulted by Top before the
// aggregate fetch.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Handler holds book HTTP handlers.
type Handler struct {
	books  BookStore
	client *Client
	cache  Cache
	log    zerolog.Logger
}

func NewHandler(books BookStore, client *Client, cache Cache, log zerolog.Logger) *Handler {
	return &Handler{books: books, client: client, cache: cache, log: log}
}

// New returns all books, newest first.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListNew(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list books")
		api.Unexpected(w, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "New Books",
		"data":    map[string]interface{}{"book": books},
	})
}

// Top returns all books ranked by total interaction count. Aggregates
// and books are fetched from the service's own public endpoints and
// joined by book id.
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	aggs, err := h.fetchAggregates(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("fetch aggregates")
		api.Unexpected(w, err)
		return
	}
	books, err := h.client.ListNewBooks(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("fetch books")
		api.Unexpected(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Top Books",
		"data":    map[string]interface{}{"top_books": Rank(books, aggs)},
	})
}

// fetchAggregates consults the cache first; cache failures are logged
// and the fetch proceeds as if there were no cache.
func (h *Handler) fetchAggregates(ctx context.Context) ([]models.Aggregate, error) {
	if h.cache != nil {
		payload, err := h.cache.Get(ctx, aggregateCacheKey)
		if err != nil {
			h.log.Debug().Err(err).Msg("aggregate cache get")
		} else if payload != nil {
			var aggs []models.Aggregate
			if json.Unmarshal(payload, &aggs) == nil {
				return aggs, nil
			}
		}
	}

	aggs, err := h.client.ListAggregates(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if payload, err := json.Marshal(aggs); err == nil {
			if err := h.cache.Set(ctx, aggregateCacheKey, payload, aggregateCacheTTL); err != nil {
				h.log.Debug().Err(err).Msg("aggregate cache set")
			}
		}
	}
	return aggs, nil
}

// Publish stores a new book owned by the requester.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		api.Error(w, http.StatusBadRequest, "Authorization header is required")
		return
	}

	var req models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	if _, err := h.books.GetByTitle(r.Context(), req.Title); err == nil {
		api.Error(w, http.StatusBadRequest, "Same title book already exists")
		return
	} else if !errors.Is(err, store.ErrBookNotFound) {
		api.Unexpected(w, err)
		return
	}

	book, err := h.books.Insert(r.Context(), &models.Book{
		Title:    req.Title,
		Story:    req.Story,
		UserID:   claims.ID,
		Username: claims.Username,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("insert book")
		api.Unexpected(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Book published successfully",
		"data":    map[string]interface{}{"book": book},
	})
}

// Update rewrites the title and story of a book the requester owns.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	book, err := h.books.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrBookNotFound) {
		api.Error(w, http.StatusBadRequest, "Book not found")
		return
	}
	if err != nil {
		api.Unexpected(w, err)
		return
	}
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok || claims.ID != book.UserID {
		api.Error(w, http.StatusBadRequest, "You are not authorized to update this book")
		return
	}

	var req models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(&req); errs != nil {
		api.ValidationFailed(w, errs)
		return
	}

	// Duplicate-title check excludes the book being updated, so saving
	// with an unchanged title stays possible.
	existing, err := h.books.GetByTitle(r.Context(), req.Title)
	if err == nil && existing.ID != book.ID {
		api.Error(w, http.StatusBadRequest, "Same title book already exists")
		return
	}
	if err != nil && !errors.Is(err, store.ErrBookNotFound) {
		api.Unexpected(w, err)
		return
	}

	updated, err := h.books.Update(r.Context(), id, req.Title, req.Story)
	if err != nil {
		h.log.Error().Err(err).Msg("update book")
		api.Unexpected(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Book updated successfully",
		"book":    updated,
	})
}

// Delete removes a book the requester owns and returns the deleted snapshot.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	book, err := h.books.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrBookNotFound) {
		api.Error(w, http.StatusBadRequest, "Book not found")
		return
	}
	if err != nil {
		api.Unexpected(w, err)
		return
	}
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok || claims.ID != book.UserID {
		api.Error(w, http.StatusBadRequest, "You are not authorized to delete this book")
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		h.log.Error().Err(err).Msg("delete book")
		api.Unexpected(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Book deleted successfully",
		"data":    map[string]interface{}{"book": book},
	})
}
