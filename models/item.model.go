package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item represents a dish on a restaurant's menu
type Item struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	Rating       float64            `bson:"rating" json:"rating"`
	TotalReviews int                `bson:"total_reviews" json:"total_reviews"`
	Hearts       int                `bson:"hearts" json:"hearts"`
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Restaurant   primitive.ObjectID `bson:"restaurant" json:"restaurant"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
