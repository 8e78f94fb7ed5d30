package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a platform-wide testimonial, submitted without login
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// FoodReview is a logged-in user's review of a single menu item. The
// item's aggregate rating is recomputed whenever one is added.
type FoodReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	ItemID    primitive.ObjectID `bson:"item" json:"item"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
