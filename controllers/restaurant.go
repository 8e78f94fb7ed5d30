package controllers

import (
	"context"
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

// RestaurantController handles restaurant requests
type RestaurantController struct {
	Restaurants *mongo.Collection
	Uploader    *utils.Uploader
}

// NewRestaurantController creates a new RestaurantController
func NewRestaurantController(client *mongo.Client, uploader *utils.Uploader) *RestaurantController {
	return &RestaurantController{
		Restaurants: utils.Collection(client, "restaurants"),
		Uploader:    uploader,
	}
}

// menuPipeline joins the menu reference list into full item documents,
// newest restaurants first.
func menuPipeline(match bson.M) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "items",
			"localField":   "menu",
			"foreignField": "_id",
			"as":           "menu_items",
		}}},
	)
	return pipeline
}

// CreateRestaurant adds a restaurant. A restaurant-role caller becomes
// the owner of the record they create.
func (rc *RestaurantController) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
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
	address := r.FormValue("address")
	cuisine := r.FormValue("cuisine")
	if name == "" || address == "" || cuisine == "" {
		utils.Error(w, http.StatusBadRequest, "Name, address and cuisine are required")
		return
	}

	imageURL, err := rc.Uploader.SaveImage(r, "image", "restaurants")
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	now := time.Now()
	restaurant := models.Restaurant{
		Name:         name,
		Address:      address,
		Cuisine:      cuisine,
		Description:  r.FormValue("description"),
		OpeningHours: r.FormValue("openingHours"),
		ImageURL:     imageURL,
		Menu:         []primitive.ObjectID{},
		Status:       models.ApplicationApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Role == models.RoleRestaurant {
		restaurant.Owner = user.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := rc.Restaurants.InsertOne(ctx, restaurant)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create restaurant")
		return
	}
	restaurant.ID = result.InsertedID.(primitive.ObjectID)

	utils.JSON(w, http.StatusCreated, restaurant)
}

// GetRestaurants lists all restaurants with their menus populated (public)
func (rc *RestaurantController) GetRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := rc.Restaurants.Aggregate(ctx, menuPipeline(nil))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch restaurants")
		return
	}
	defer cursor.Close(ctx)

	restaurants := []models.RestaurantWithMenu{}
	if err := cursor.All(ctx, &restaurants); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading restaurants")
		return
	}

	utils.JSON(w, http.StatusOK, restaurants)
}

// GetRestaurantByID fetches one restaurant with its menu populated (public)
func (rc *RestaurantController) GetRestaurantByID(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := rc.Restaurants.Aggregate(ctx, menuPipeline(bson.M{"_id": restaurantID}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch restaurant")
		return
	}
	defer cursor.Close(ctx)

	restaurants := []models.RestaurantWithMenu{}
	if err := cursor.All(ctx, &restaurants); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading restaurant")
		return
	}
	if len(restaurants) == 0 {
		utils.Error(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	utils.JSON(w, http.StatusOK, restaurants[0])
}

// UpdateRestaurant modifies a restaurant. Admins may update any;
// restaurant-role callers only their own.
func (rc *RestaurantController) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	restaurantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var restaurant models.Restaurant
	if err := rc.Restaurants.FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
		utils.Error(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	if user.Role == models.RoleRestaurant && restaurant.Owner != user.ID {
		utils.Error(w, http.StatusForbidden, "Access denied: not the owner")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.Error(w, http.StatusBadRequest, "Malformed form data")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if name := r.FormValue("name"); name != "" {
		set["name"] = name
	}
	if address := r.FormValue("address"); address != "" {
		set["address"] = address
	}
	if cuisine := r.FormValue("cuisine"); cuisine != "" {
		set["cuisine"] = cuisine
	}
	if description := r.FormValue("description"); description != "" {
		set["description"] = description
	}
	if openingHours := r.FormValue("openingHours"); openingHours != "" {
		set["opening_hours"] = openingHours
	}
	if imageURL, err := rc.Uploader.SaveImage(r, "image", "restaurants"); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to store image")
		return
	} else if imageURL != "" {
		set["image_url"] = imageURL
	}

	if _, err := rc.Restaurants.UpdateOne(ctx, bson.M{"_id": restaurantID}, bson.M{"$set": set}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update restaurant")
		return
	}

	if err := rc.Restaurants.FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&restaurant); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch updated restaurant")
		return
	}

	utils.JSON(w, http.StatusOK, restaurant)
}

// DeleteRestaurant removes a restaurant (admin only)
func (rc *RestaurantController) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := rc.Restaurants.DeleteOne(ctx, bson.M{"_id": restaurantID})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to delete restaurant")
		return
	}
	if result.DeletedCount == 0 {
		utils.Error(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Restaurant deleted",
	})
}
