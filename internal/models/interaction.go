package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry records one user's like or read with its timestamp.
// A book holds at most one entry per username in each list.
type Entry struct {
	Username string    `json:"username" bson:"username"`
	At       time.Time `json:"at"       bson:"at"`
}

// Interaction is the per-book record of likes and reads, created lazily
// on the first like or read.
type Interaction struct {
	ID     primitive.ObjectID `json:"-"      bson:"_id,omitempty"`
	BookID string             `json:"bookId" bson:"book_id"`
	Reads  []Entry            `json:"reads"  bson:"reads"`
	Likes  []Entry            `json:"likes"  bson:"likes"`
}

// Aggregate is the computed per-book interaction summary returned by
// GET /interactions. The _id key mirrors the record's book id.
type Aggregate struct {
	BookID               string  `json:"_id"`
	Likes                []Entry `json:"likes"`
	Reads                []Entry `json:"reads"`
	LikeCount            int     `json:"likeCount"`
	ReadCount            int     `json:"readCount"`
	NumberOfInteractions int     `json:"numberOfInteractions"`
}

// InteractionRequest is the JSON body for like and read.
type InteractionRequest struct {
	BookID string `json:"bookId" validate:"required"`
}
