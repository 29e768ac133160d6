package books

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/bookshelf/internal/auth"
	"github.com/ayush/bookshelf/internal/models"
	"github.com/ayush/bookshelf/internal/store"
)

// fakeBookStore keeps books in memory, newest first on ListNew.
type fakeBookStore struct {
	books []*models.Book
}

func (s *fakeBookStore) Insert(ctx context.Context, book *models.Book) (*models.Book, error) {
	book.ID = primitive.NewObjectID()
	book.Published = time.Now()
	s.books = append(s.books, book)
	return book, nil
}

func (s *fakeBookStore) ListNew(ctx context.Context) ([]models.Book, error) {
	out := make([]models.Book, 0, len(s.books))
	for i := len(s.books) - 1; i >= 0; i-- {
		out = append(out, *s.books[i])
	}
	return out, nil
}

func (s *fakeBookStore) GetByID(ctx context.Context, id string) (*models.Book, error) {
	for _, b := range s.books {
		if b.ID.Hex() == id {
			c := *b
			return &c, nil
		}
	}
	return nil, store.ErrBookNotFound
}

func (s *fakeBookStore) GetByTitle(ctx context.Context, title string) (*models.Book, error) {
	for _, b := range s.books {
		if b.Title == title {
			c := *b
			return &c, nil
		}
	}
	return nil, store.ErrBookNotFound
}

func (s *fakeBookStore) Update(ctx context.Context, id, title, story string) (*models.Book, error) {
	for _, b := range s.books {
		if b.ID.Hex() == id {
			b.Title = title
			b.Story = story
			c := *b
			return &c, nil
		}
	}
	return nil, store.ErrBookNotFound
}

func (s *fakeBookStore) Delete(ctx context.Context, id string) error {
	for i, b := range s.books {
		if b.ID.Hex() == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return nil
		}
	}
	return nil
}

func newBookHandler(fake *fakeBookStore) *Handler {
	return NewHandler(fake, NewClient("http://unused.invalid"), nil, zerolog.Nop())
}

func doBook(t *testing.T, h http.HandlerFunc, method string, body interface{}, id string, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/", reader)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

var (
	alice = &auth.Claims{ID: "u-1", Username: "alice"}
	bob   = &auth.Claims{ID: "u-2", Username: "bob"}
)

func TestPublish(t *testing.T) {
	fake := &fakeBookStore{}
	h := newBookHandler(fake)

	rec := doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "S1"}, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, fake.books, 1)
	assert.Equal(t, "u-1", fake.books[0].UserID)
	assert.Equal(t, "alice", fake.books[0].Username)
	assert.False(t, fake.books[0].Published.IsZero())
}

func TestPublishEmptyTitle(t *testing.T) {
	h := newBookHandler(&fakeBookStore{})

	rec := doBook(t, h.Publish, http.MethodPost, models.BookRequest{Story: "S1"}, "", alice)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title")
}

func TestPublishDuplicateTitle(t *testing.T) {
	fake := &fakeBookStore{}
	h := newBookHandler(fake)

	rec := doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "S1"}, "", alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "other"}, "", bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Same title book already exists")
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	fake := &fakeBookStore{}
	h := newBookHandler(fake)
	doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "S1"}, "", alice)

	rec := doBook(t, h.Update, http.MethodPut, models.BookRequest{Title: "T2", Story: "S2"},
		fake.books[0].ID.Hex(), bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized")
}

func TestUpdateUnknownBook(t *testing.T) {
	h := newBookHandler(&fakeBookStore{})

	rec := doBook(t, h.Update, http.MethodPut, models.BookRequest{Title: "T2", Story: "S2"},
		primitive.NewObjectID().Hex(), alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book not found")
}

func TestUpdateKeepingSameTitle(t *testing.T) {
	fake := &fakeBookStore{}
	h := newBookHandler(fake)
	doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "S1"}, "", alice)

	rec := doBook(t, h.Update, http.MethodPut, models.BookRequest{Title: "T1", Story: "rewritten"},
		fake.books[0].ID.Hex(), alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rewritten", fake.books[0].Story)
}

func TestUpdateToTakenTitle(t *testing.T) {
	fake := &fakeBookStore{}
	h := newBookHandler(fake)
	doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "S1"}, "", alice)
	doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T2", Story: "S2"}, "", alice)

	rec := doBook(t, h.Update, http.MethodPut, models.BookRequest{Title: "T1", Story: "S2"},
		fake.books[1].ID.Hex(), alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Same title book already exists")
}

func TestDeleteByNonOwnerForbidden(t *testing.T) {
	fake := &fakeBookStore{}
	h := newBookHandler(fake)
	doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "S1"}, "", alice)

	rec := doBook(t, h.Delete, http.MethodDelete, nil, fake.books[0].ID.Hex(), bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized")
	assert.Len(t, fake.books, 1)
}

func TestDeleteByOwner(t *testing.T) {
	fake := &fakeBookStore{}
	h := newBookHandler(fake)
	doBook(t, h.Publish, http.MethodPost, models.BookRequest{Title: "T1", Story: "S1"}, "", alice)

	rec := doBook(t, h.Delete, http.MethodDelete, nil, fake.books[0].ID.Hex(), alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book deleted successfully")
	assert.Empty(t, fake.books)
}
