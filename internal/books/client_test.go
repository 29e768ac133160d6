package books

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/bookshelf/internal/models"
)

// fakeUpstream serves the two endpoints Top fetches and counts hits.
type fakeUpstream struct {
	mu               sync.Mutex
	interactionHits  int
	aggs             []models.Aggregate
	books            []models.Book
	failInteractions bool
}

func (u *fakeUpstream) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/interactions", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.interactionHits++
		fail := u.failInteractions
		u.mu.Unlock()
		if fail {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "All Interactions",
			"data":    map[string]interface{}{"interactions": u.aggs},
		})
	})
	mux.HandleFunc("/contents/new", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "New Books",
			"data":    map[string]interface{}{"book": u.books},
		})
	})
	return httptest.NewServer(mux)
}

// memCache is an in-memory stand-in for the Redis aggregate cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = payload
	return nil
}

func TestTopRanksAcrossServices(t *testing.T) {
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()
	upstream := &fakeUpstream{
		aggs: []models.Aggregate{
			{BookID: id1.Hex(), LikeCount: 1, ReadCount: 0, NumberOfInteractions: 1},
			{BookID: id2.Hex(), LikeCount: 2, ReadCount: 2, NumberOfInteractions: 4},
		},
		books: []models.Book{
			{ID: id1, Title: "first"},
			{ID: id2, Title: "second"},
		},
	}
	srv := upstream.server()
	defer srv.Close()

	h := NewHandler(&fakeBookStore{}, NewClient(srv.URL), nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Top(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			TopBooks []models.RankedBook `json:"top_books"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Top Books", resp.Message)
	require.Len(t, resp.Data.TopBooks, 2)
	assert.Equal(t, "second", resp.Data.TopBooks[0].Title)
	assert.Equal(t, 4, resp.Data.TopBooks[0].NumberOfInteractions)
	assert.Equal(t, "first", resp.Data.TopBooks[1].Title)
}

func TestTopUpstreamFailure(t *testing.T) {
	upstream := &fakeUpstream{failInteractions: true}
	srv := upstream.server()
	defer srv.Close()

	h := NewHandler(&fakeBookStore{}, NewClient(srv.URL), nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Top(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTopUsesAggregateCache(t *testing.T) {
	id := primitive.NewObjectID()
	upstream := &fakeUpstream{
		aggs:  []models.Aggregate{{BookID: id.Hex(), NumberOfInteractions: 1}},
		books: []models.Book{{ID: id, Title: "cached"}},
	}
	srv := upstream.server()
	defer srv.Close()

	h := NewHandler(&fakeBookStore{}, NewClient(srv.URL), newMemCache(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.Top(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	assert.Equal(t, 1, upstream.interactionHits)
}

func TestClientListAggregates(t *testing.T) {
	id := primitive.NewObjectID()
	upstream := &fakeUpstream{
		aggs: []models.Aggregate{{BookID: id.Hex(), LikeCount: 2, ReadCount: 1, NumberOfInteractions: 3}},
	}
	srv := upstream.server()
	defer srv.Close()

	aggs, err := NewClient(srv.URL).ListAggregates(context.Background())
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, id.Hex(), aggs[0].BookID)
	assert.Equal(t, 3, aggs[0].NumberOfInteractions)
}

func TestClientConnectionRefused(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").ListAggregates(context.Background())
	assert.Error(t, err)
}
