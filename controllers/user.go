package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmroja/QuickBite-backend/middleware"
	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

var validate = validator.New()

// UserController handles account registration, login and profile requests
type UserController struct {
	Users       *mongo.Collection
	Restaurants *mongo.Collection
}

// NewUserController creates a new UserController
func NewUserController(client *mongo.Client) *UserController {
	return &UserController{
		Users:       utils.Collection(client, "users"),
		Restaurants: utils.Collection(client, "restaurants"),
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
	AdminKey string `json:"adminKey"`
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Username, a valid email and a password of at least 8 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := uc.Users.CountDocuments(ctx, bson.M{"email": strings.ToLower(req.Email)})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.Error(w, http.StatusBadRequest, "User already exists")
		return
	}

	// Self-service registration only hands out the elevated roles
	// deliberately: "restaurant" is allowed (the account is useless
	// until an application is approved), "admin" needs the admin key.
	role := models.RoleUser
	switch req.Role {
	case models.RoleRestaurant:
		role = models.RoleRestaurant
	case models.RoleAdmin:
		secret := os.Getenv("ADMIN_SECRET")
		if secret == "" || req.AdminKey != secret {
			utils.Error(w, http.StatusForbidden, "Invalid admin key")
			return
		}
		role = models.RoleAdmin
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	now := time.Now()
	user := models.User{
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := uc.Users.InsertOne(ctx, user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"email": strings.ToLower(creds.Email)}).Decode(&user)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Restaurant accounts only work once their restaurant exists and
	// has been approved through the application workflow.
	var restaurantID interface{}
	if user.Role == models.RoleRestaurant {
		var restaurant models.Restaurant
		err := uc.Restaurants.FindOne(ctx, bson.M{"owner": user.ID}).Decode(&restaurant)
		if err != nil {
			utils.Error(w, http.StatusNotFound, "Restaurant not found for this account")
			return
		}
		if restaurant.Status != models.ApplicationApproved {
			utils.Error(w, http.StatusForbidden, "Restaurant not approved yet")
			return
		}
		restaurantID = restaurant.ID
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"token":        token,
		"user":         user,
		"restaurantId": restaurantID,
	})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Verify lets the frontend probe token validity and fetch the caller's
// identity.
func (uc *UserController) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User verified successfully",
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// GetAllUsers lists every account, admin only
func (uc *UserController) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"password": 0})

	cursor, err := uc.Users.Find(ctx, bson.M{}, opts)
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

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}
