package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kmroja/QuickBite-backend/middleware"
	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

// CartController handles cart requests. Every route is authenticated
// and scoped to the caller's own entries.
type CartController struct {
	Carts *mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client) *CartController {
	return &CartController{
		Carts: utils.Collection(client, "cartitems"),
	}
}

// GetCart returns the caller's cart entries with item documents joined
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user": user.ID}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "items",
			"localField":   "item",
			"foreignField": "_id",
			"as":           "item_doc",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$item_doc",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cursor, err := cc.Carts.Aggregate(ctx, pipeline)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	defer cursor.Close(ctx)

	entries := []models.PopulatedCartItem{}
	if err := cursor.All(ctx, &entries); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading cart")
		return
	}

	utils.JSON(w, http.StatusOK, entries)
}

// AddToCart adds an item to the caller's cart. An existing (user, item)
// entry is incremented instead of duplicated; an increment that would
// take the quantity below one removes the entry.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.ItemID == "" || req.Quantity == 0 {
		utils.Error(w, http.StatusBadRequest, "itemId and a non-zero quantity are required")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Only a confirmed miss may fall through to the insert path; a
	// lookup failure must not create a second (user, item) entry.
	var entry models.CartItem
	err = cc.Carts.FindOne(ctx, bson.M{"user": user.ID, "item": itemID}).Decode(&entry)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		utils.Error(w, http.StatusInternalServerError, "Failed to read cart")
		return
	}
	if err == nil {
		newQuantity := entry.Quantity + req.Quantity
		if newQuantity < 1 {
			if _, err := cc.Carts.DeleteOne(ctx, bson.M{"_id": entry.ID}); err != nil {
				utils.Error(w, http.StatusInternalServerError, "Failed to update cart")
				return
			}
			utils.JSON(w, http.StatusOK, map[string]interface{}{
				"_id":      entry.ID,
				"item":     entry.ItemID,
				"quantity": 0,
			})
			return
		}

		_, err := cc.Carts.UpdateOne(ctx, bson.M{"_id": entry.ID}, bson.M{
			"$set": bson.M{"quantity": newQuantity},
		})
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to update cart")
			return
		}
		entry.Quantity = newQuantity
		utils.JSON(w, http.StatusOK, entry)
		return
	}

	if req.Quantity < 1 {
		utils.Error(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	entry = models.CartItem{
		UserID:   user.ID,
		ItemID:   itemID,
		Quantity: req.Quantity,
	}
	result, err := cc.Carts.InsertOne(ctx, entry)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}
	entry.ID = result.InsertedID.(primitive.ObjectID)

	utils.JSON(w, http.StatusCreated, entry)
}

// UpdateCartItem sets an entry's quantity, floored at one
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entryID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var entry models.CartItem
	err = cc.Carts.FindOne(ctx, bson.M{"_id": entryID, "user": user.ID}).Decode(&entry)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Cart item not found")
		return
	}

	_, err = cc.Carts.UpdateOne(ctx, bson.M{"_id": entry.ID}, bson.M{
		"$set": bson.M{"quantity": quantity},
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update cart item")
		return
	}
	entry.Quantity = quantity

	utils.JSON(w, http.StatusOK, entry)
}

// DeleteCartItem removes one of the caller's cart entries
func (cc *CartController) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entryID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := cc.Carts.DeleteOne(ctx, bson.M{"_id": entryID, "user": user.ID})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to delete cart item")
		return
	}
	if result.DeletedCount == 0 {
		utils.Error(w, http.StatusNotFound, "Cart item not found")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"_id": entryID})
}

// ClearCart removes all of the caller's cart entries
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := cc.Carts.DeleteMany(ctx, bson.M{"user": user.ID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart cleared",
	})
}
