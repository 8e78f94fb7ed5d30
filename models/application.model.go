package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restaurant application statuses
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// RestaurantApplication is a prospective owner's request to join the
// platform. The password is stored bcrypt-hashed so the owner account
// can be created on approval.
type RestaurantApplication struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantName string             `bson:"restaurant_name" json:"restaurant_name"`
	OwnerName      string             `bson:"owner_name" json:"owner_name"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone" json:"phone"`
	Address        string             `bson:"address" json:"address"`
	Cuisine        string             `bson:"cuisine" json:"cuisine"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Password       string             `bson:"password" json:"-"`
	ImageURL       string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
