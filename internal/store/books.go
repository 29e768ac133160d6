package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/bookshelf/internal/models"
)

// BookStore handles book CRUD in MongoDB.
type BookStore struct {
	col *mongo.Collection
}

func NewBookStore(db *mongo.Database) *BookStore {
	return &BookStore{col: db.Collection("books")}
}

// Insert persists a new book and returns it with its assigned id.
func (s *BookStore) Insert(ctx context.Context, book *models.Book) (*models.Book, error) {
	book.Published = time.Now()
	res, err := s.col.InsertOne(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	book.ID = res.InsertedID.(primitive.ObjectID)
	return book, nil
}

// ListNew returns all books ordered by publish time, newest first.
func (s *BookStore) ListNew(ctx context.Context) ([]models.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "published", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *BookStore) GetByID(ctx context.Context, id string) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBookNotFound
	}
	var book models.Book
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *BookStore) GetByTitle(ctx context.Context, title string) (*models.Book, error) {
	var book models.Book
	err := s.col.FindOne(ctx, bson.M{"title": title}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update rewrites title and story only and returns the updated book.
func (s *BookStore) Update(ctx context.Context, id, title, story string) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBookNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"title": title, "story": story}},
		opts,
	).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	return &book, nil
}

func (s *BookStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBookNotFound
	}
	_, err = s.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
