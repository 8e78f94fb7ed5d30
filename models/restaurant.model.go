package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restaurant represents a restaurant and its menu
type Restaurant struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string               `bson:"name" json:"name"`
	Address      string               `bson:"address" json:"address"`
	Cuisine      string               `bson:"cuisine" json:"cuisine"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL     string               `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Rating       float64              `bson:"rating" json:"rating"`
	TotalReviews int                  `bson:"total_reviews" json:"total_reviews"`
	OpeningHours string               `bson:"opening_hours,omitempty" json:"opening_hours,omitempty"`
	Menu         []primitive.ObjectID `bson:"menu" json:"menu"`
	Owner        primitive.ObjectID   `bson:"owner,omitempty" json:"owner,omitempty"`
	Status       string               `bson:"status" json:"status"` // "approved" once created through the application workflow
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// RestaurantWithMenu is the read shape returned by restaurant listings,
// with menu item documents joined in place of the reference list.
type RestaurantWithMenu struct {
	Restaurant `bson:",inline"`
	MenuItems  []Item `bson:"menu_items" json:"menu_items"`
}
