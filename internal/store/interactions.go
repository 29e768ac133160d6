package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/bookshelf/internal/models"
)

// InteractionStore handles per-book like/read records in MongoDB.
type InteractionStore struct {
	col *mongo.Collection
}

func NewInteractionStore(db *mongo.Database) *InteractionStore {
	return &InteractionStore{col: db.Collection("interactions")}
}

// List returns every interaction record in store-native order.
func (s *InteractionStore) List(ctx context.Context) ([]models.Interaction, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.Interaction
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// GetByBook returns the record for a book, or ErrNoRecord if none has
// been created yet.
func (s *InteractionStore) GetByBook(ctx context.Context, bookID string) (*models.Interaction, error) {
	var rec models.Interaction
	err := s.col.FindOne(ctx, bson.M{"book_id": bookID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a fresh record for a book.
func (s *InteractionStore) Create(ctx context.Context, rec *models.Interaction) error {
	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

// AddLike appends a like entry to the book's record.
func (s *InteractionStore) AddLike(ctx context.Context, bookID string, e models.Entry) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"book_id": bookID},
		bson.M{"$push": bson.M{"likes": e}})
	return err
}

// RemoveLike drops the named user's like entry, if present.
func (s *InteractionStore) RemoveLike(ctx context.Context, bookID, username string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"book_id": bookID},
		bson.M{"$pull": bson.M{"likes": bson.M{"username": username}}})
	return err
}

// AddRead appends a read entry to the book's record.
func (s *InteractionStore) AddRead(ctx context.Context, bookID string, e models.Entry) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"book_id": bookID},
		bson.M{"$push": bson.M{"reads": e}})
	return err
}
