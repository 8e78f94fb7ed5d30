package controllers

import (
	"context"
	"encoding/json"
	"net/http"
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

// ReviewController handles platform testimonials and per-item food
// reviews.
type ReviewController struct {
	Reviews     *mongo.Collection
	FoodReviews *mongo.Collection
	Items       *mongo.Collection
}

// NewReviewController creates a new ReviewController
func NewReviewController(client *mongo.Client) *ReviewController {
	return &ReviewController{
		Reviews:     utils.Collection(client, "reviews"),
		FoodReviews: utils.Collection(client, "foodreviews"),
		Items:       utils.Collection(client, "items"),
	}
}

// CreateReview stores a platform testimonial (public)
func (rc *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Name == "" || req.Comment == "" || req.Rating < 1 || req.Rating > 5 {
		utils.Error(w, http.StatusBadRequest, "Name, comment and a rating between 1 and 5 are required")
		return
	}

	review := models.Review{
		Name:      req.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := rc.Reviews.InsertOne(ctx, review)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error creating review")
		return
	}
	review.ID = result.InsertedID.(primitive.ObjectID)

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Review added successfully",
		"review":  review,
	})
}

// GetReviews lists platform testimonials, newest first (public)
func (rc *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := rc.Reviews.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error fetching reviews")
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading reviews")
		return
	}

	utils.JSON(w, http.StatusOK, reviews)
}

// AddFoodReview stores a review for one item and recomputes the item's
// aggregate rating.
func (rc *ReviewController) AddFoodReview(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Comment == "" || req.Rating < 1 || req.Rating > 5 {
		utils.Error(w, http.StatusBadRequest, "A comment and a rating between 1 and 5 are required")
		return
	}

	review := models.FoodReview{
		UserID:    user.ID,
		ItemID:    itemID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := rc.FoodReviews.InsertOne(ctx, review)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error adding review")
		return
	}
	review.ID = result.InsertedID.(primitive.ObjectID)

	// Recompute the item's aggregate rating
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"item": itemID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":        "$item",
			"avg_rating": bson.M{"$avg": "$rating"},
			"total":      bson.M{"$sum": 1},
		}}},
	}

	cursor, err := rc.FoodReviews.Aggregate(ctx, pipeline)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error updating item rating")
		return
	}
	defer cursor.Close(ctx)

	var stats []struct {
		AvgRating float64 `bson:"avg_rating"`
		Total     int     `bson:"total"`
	}
	if err := cursor.All(ctx, &stats); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error updating item rating")
		return
	}

	if len(stats) > 0 {
		_, err := rc.Items.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{
			"$set": bson.M{
				"rating":        stats[0].AvgRating,
				"total_reviews": stats[0].Total,
			},
		})
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Error updating item rating")
			return
		}
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Review added",
		"review":  review,
	})
}

// GetItemReviews lists all reviews for one item (public)
func (rc *ReviewController) GetItemReviews(w http.ResponseWriter, r *http.Request) {
	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := rc.FoodReviews.Find(ctx, bson.M{"item": itemID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error fetching reviews")
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.FoodReview{}
	if err := cursor.All(ctx, &reviews); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading reviews")
		return
	}

	utils.JSON(w, http.StatusOK, reviews)
}
