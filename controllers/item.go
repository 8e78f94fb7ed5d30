package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kmroja/QuickBite-backend/middleware"
	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

// ItemController handles menu item requests
type ItemController struct {
	Items       *mongo.Collection
	Restaurants *mongo.Collection
	Uploader    *utils.Uploader
}

// NewItemController creates a new ItemController
func NewItemController(client *mongo.Client, uploader *utils.Uploader) *ItemController {
	return &ItemController{
		Items:       utils.Collection(client, "items"),
		Restaurants: utils.Collection(client, "restaurants"),
		Uploader:    uploader,
	}
}

// ownedRestaurant resolves the restaurant owned by a restaurant-role user.
func (ic *ItemController) ownedRestaurant(ctx context.Context, user *models.User) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := ic.Restaurants.FindOne(ctx, bson.M{"owner": user.ID}).Decode(&restaurant)
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// CreateItem adds a menu item. Restaurant-role callers may only add
// items to their own restaurant.
func (ic *ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.Error(w, http.StatusBadRequest, "Malformed form data")
		return
	}

	name := r.FormValue("name")
	priceStr := r.FormValue("price")
	restaurantIDHex := r.FormValue("restaurantId")
	if name == "" || priceStr == "" || restaurantIDHex == "" {
		utils.Error(w, http.StatusBadRequest, "Name, price and restaurantId are required")
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid price")
		return
	}

	restaurantID, err := primitive.ObjectIDFromHex(restaurantIDHex)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var restaurant models.Restaurant
	if err := ic.Restaurants.FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
		utils.Error(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	if user.Role == models.RoleRestaurant && restaurant.Owner != user.ID {
		utils.Error(w, http.StatusForbidden, "Access denied: cannot add items to this restaurant")
		return
	}

	imageURL, err := ic.Uploader.SaveImage(r, "image", "items")
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	now := time.Now()
	item := models.Item{
		Name:        name,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       price,
		ImageURL:    imageURL,
		Restaurant:  restaurantID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := ic.Items.InsertOne(ctx, item)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create item")
		return
	}
	item.ID = result.InsertedID.(primitive.ObjectID)

	// Keep the restaurant's menu reference list in sync
	_, err = ic.Restaurants.UpdateOne(ctx, bson.M{"_id": restaurantID}, bson.M{
		"$push": bson.M{"menu": item.ID},
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update restaurant menu")
		return
	}

	utils.JSON(w, http.StatusCreated, item)
}

// GetItems lists every item, newest first (public)
func (ic *ItemController) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ic.Items.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading items")
		return
	}

	utils.JSON(w, http.StatusOK, items)
}

// GetMyItems lists the caller's items: a restaurant sees its own menu,
// an admin sees everything.
func (ic *ItemController) GetMyItems(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if user.Role == models.RoleRestaurant {
		restaurant, err := ic.ownedRestaurant(ctx, user)
		if err != nil {
			utils.JSON(w, http.StatusOK, []models.Item{})
			return
		}
		filter["restaurant"] = restaurant.ID
	}

	cursor, err := ic.Items.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading items")
		return
	}

	utils.JSON(w, http.StatusOK, items)
}

// GetItemsByRestaurant lists one restaurant's menu (public)
func (ic *ItemController) GetItemsByRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ic.Items.Find(ctx, bson.M{"restaurant": restaurantID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading items")
		return
	}

	utils.JSON(w, http.StatusOK, items)
}

// UpdateItem modifies an item's allow-listed fields. Restaurant-role
// callers may only touch items belonging to their own restaurant.
func (ic *ItemController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.Item
	if err := ic.Items.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
		utils.Error(w, http.StatusNotFound, "Item not found")
		return
	}

	if user.Role == models.RoleRestaurant {
		restaurant, err := ic.ownedRestaurant(ctx, user)
		if err != nil || restaurant.ID != item.Restaurant {
			utils.Error(w, http.StatusForbidden, "Access denied: cannot modify this item")
			return
		}
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.Error(w, http.StatusBadRequest, "Malformed form data")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if name := r.FormValue("name"); name != "" {
		set["name"] = name
	}
	if description := r.FormValue("description"); description != "" {
		set["description"] = description
	}
	if category := r.FormValue("category"); category != "" {
		set["category"] = category
	}
	if priceStr := r.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			utils.Error(w, http.StatusBadRequest, "Invalid price")
			return
		}
		set["price"] = price
	}
	if imageURL, err := ic.Uploader.SaveImage(r, "image", "items"); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to store image")
		return
	} else if imageURL != "" {
		set["image_url"] = imageURL
	}

	if _, err := ic.Items.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{"$set": set}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	if err := ic.Items.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch updated item")
		return
	}

	utils.JSON(w, http.StatusOK, item)
}

// DeleteItem removes an item and drops it from its restaurant's menu.
// Restaurant-role callers may only delete their own items.
func (ic *ItemController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.Item
	if err := ic.Items.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
		utils.Error(w, http.StatusNotFound, "Item not found")
		return
	}

	if user.Role == models.RoleRestaurant {
		restaurant, err := ic.ownedRestaurant(ctx, user)
		if err != nil || restaurant.ID != item.Restaurant {
			utils.Error(w, http.StatusForbidden, "Access denied: cannot delete this item")
			return
		}
	}

	if _, err := ic.Items.DeleteOne(ctx, bson.M{"_id": itemID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	_, err = ic.Restaurants.UpdateOne(ctx, bson.M{"_id": item.Restaurant}, bson.M{
		"$pull": bson.M{"menu": item.ID},
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update restaurant menu")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item deleted successfully",
	})
}
