package books

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/bookshelf/internal/models"
)

func TestRankJoinsByBookID(t *testing.T) {
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()
	id3 := primitive.NewObjectID()

	books := []models.Book{
		{ID: id1, Title: "quiet"},
		{ID: id2, Title: "popular"},
		{ID: id3, Title: "middling"},
	}
	// Deliberately not in the same order as the books.
	aggs := []models.Aggregate{
		{BookID: id3.Hex(), LikeCount: 1, ReadCount: 1, NumberOfInteractions: 2},
		{BookID: id2.Hex(), LikeCount: 3, ReadCount: 2, NumberOfInteractions: 5},
	}

	ranked := Rank(books, aggs)
	require.Len(t, ranked, 3)

	assert.Equal(t, "popular", ranked[0].Title)
	assert.Equal(t, 5, ranked[0].NumberOfInteractions)
	assert.Equal(t, "middling", ranked[1].Title)
	assert.Equal(t, "quiet", ranked[2].Title)
	assert.Equal(t, 0, ranked[2].NumberOfInteractions)
}

func TestRankIgnoresAggregatesForDeletedBooks(t *testing.T) {
	id := primitive.NewObjectID()
	books := []models.Book{{ID: id, Title: "alive"}}
	aggs := []models.Aggregate{
		{BookID: id.Hex(), NumberOfInteractions: 1},
		{BookID: primitive.NewObjectID().Hex(), NumberOfInteractions: 9},
	}

	ranked := Rank(books, aggs)
	require.Len(t, ranked, 1)
	assert.Equal(t, "alive", ranked[0].Title)
	assert.Equal(t, 1, ranked[0].NumberOfInteractions)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, nil))
}
