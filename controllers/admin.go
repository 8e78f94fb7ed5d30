package controllers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

// AdminController serves the admin dashboard. Every route is mounted
// behind the admin role.
type AdminController struct {
	Users       *mongo.Collection
	Orders      *mongo.Collection
	Items       *mongo.Collection
	Restaurants *mongo.Collection
}

// NewAdminController creates a new AdminController
func NewAdminController(client *mongo.Client) *AdminController {
	return &AdminController{
		Users:       utils.Collection(client, "users"),
		Orders:      utils.Collection(client, "orders"),
		Items:       utils.Collection(client, "items"),
		Restaurants: utils.Collection(client, "restaurants"),
	}
}

// GetStats returns dashboard totals and the most recent users and orders
func (ac *AdminController) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	totalUsers, err := ac.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}
	totalOrders, err := ac.Orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}
	totalRestaurants, err := ac.Restaurants.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}
	pendingOrders, err := ac.Orders.CountDocuments(ctx, bson.M{"status": models.StatusProcessing})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}

	recentUsersOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(6).
		SetProjection(bson.M{"password": 0})
	cursor, err := ac.Users.Find(ctx, bson.M{}, recentUsersOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}
	recentUsers := []models.User{}
	if err := cursor.All(ctx, &recentUsers); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}

	recentOrdersOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(6)
	cursor, err = ac.Orders.Find(ctx, bson.M{}, recentOrdersOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}
	recentOrders := []models.Order{}
	if err := cursor.All(ctx, &recentOrders); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch admin stats")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"totalUsers":       totalUsers,
		"totalOrders":      totalOrders,
		"totalRestaurants": totalRestaurants,
		"pendingOrders":    pendingOrders,
		"recentUsers":      recentUsers,
		"recentOrders":     recentOrders,
	})
}

// GetUsers lists every account, newest first
func (ac *AdminController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"password": 0})
	cursor, err := ac.Users.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading users")
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// GetItems lists every menu item, newest first
func (ac *AdminController) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ac.Items.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
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

// GetOrders lists every order, newest first
func (ac *AdminController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ac.Orders.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading orders")
		return
	}

	utils.JSON(w, http.StatusOK, orders)
}
