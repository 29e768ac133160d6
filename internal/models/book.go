package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a published item stored in MongoDB.
type Book struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty"`
	Title     string             `json:"title"     bson:"title"`
	Story     string             `json:"story"     bson:"story"`
	UserID    string             `json:"userId"    bson:"user_id"`
	Username  string             `json:"username"  bson:"username"`
	Published time.Time          `json:"published" bson:"published"`
}

// BookRequest is the JSON body for publish and update.
type BookRequest struct {
	Title string `json:"title" validate:"required"`
	Story string `json:"story" validate:"required"`
}

// RankedBook is a book joined with its interaction counts for /contents/top.
type RankedBook struct {
	Book
	LikeCount            int `json:"likeCount"`
	ReadCount            int `json:"readCount"`
	NumberOfInteractions int `json:"numberOfInteractions"`
}
