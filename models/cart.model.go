package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one (user, item, quantity) entry. There is at most one
// entry per user and item; adding the same item again increments the
// quantity, and an entry whose quantity would drop below one is removed.
type CartItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID   primitive.ObjectID `bson:"user" json:"user"`
	ItemID   primitive.ObjectID `bson:"item" json:"item"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// PopulatedCartItem is the read shape returned to clients, with the
// referenced item document joined in.
type PopulatedCartItem struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Item     *Item              `bson:"item_doc,omitempty" json:"item"`
	Quantity int                `bson:"quantity" json:"quantity"`
}
