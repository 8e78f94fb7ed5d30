package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order workflow statuses. Any admin-authorized caller may set any of
// these; transitions are not validated against an adjacency table.
const (
	StatusProcessing     = "processing"
	StatusConfirmed      = "confirmed"
	StatusOutForDelivery = "outForDelivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// ValidOrderStatus reports whether s is a known order workflow status.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusConfirmed, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderLineItem is a snapshot of the purchased item at checkout time.
// Prices are never recomputed from the live item document afterwards.
type OrderLineItem struct {
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	RestaurantID primitive.ObjectID `bson:"restaurant_id,omitempty" json:"restaurant_id,omitempty"`
}

// OrderLine pairs an item snapshot with the ordered quantity
type OrderLine struct {
	Item     OrderLineItem `bson:"item" json:"item"`
	Quantity int           `bson:"quantity" json:"quantity"`
}

// Order represents a placed order with denormalized customer details
type Order struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user" json:"user"`

	// Customer information, snapshotted from the checkout form
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email" json:"email"`

	// Shipping information
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	ZipCode string `bson:"zip_code" json:"zip_code"`

	Items []OrderLine `bson:"items" json:"items"`

	// Payment details
	PaymentMethod string `bson:"payment_method" json:"payment_method"`
	PaymentStatus string `bson:"payment_status" json:"payment_status"`
	SessionID     string `bson:"session_id,omitempty" json:"session_id,omitempty"`

	// Totals, computed once at checkout
	Subtotal float64 `bson:"subtotal" json:"subtotal"`
	Tax      float64 `bson:"tax" json:"tax"`
	Shipping float64 `bson:"shipping" json:"shipping"`
	Total    float64 `bson:"total" json:"total"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
