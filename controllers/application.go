package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

// ApplicationController handles the restaurant-application approval
// workflow. Approval is the only path that turns a user into a
// restaurant owner.
type ApplicationController struct {
	Applications *mongo.Collection
	Restaurants  *mongo.Collection
	Users        *mongo.Collection
	Uploader     *utils.Uploader
	Email        *utils.EmailService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(client *mongo.Client, uploader *utils.Uploader, emailService *utils.EmailService) *ApplicationController {
	return &ApplicationController{
		Applications: utils.Collection(client, "applications"),
		Restaurants:  utils.Collection(client, "restaurants"),
		Users:        utils.Collection(client, "users"),
		Uploader:     uploader,
		Email:        emailService,
	}
}

// Apply submits a restaurant application (public). The supplied
// password is stored hashed so the owner account can be created on
// approval.
func (ac *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.Error(w, http.StatusBadRequest, "Malformed form data")
		return
	}

	restaurantName := r.FormValue("restaurantName")
	ownerName := r.FormValue("ownerName")
	email := strings.ToLower(r.FormValue("email"))
	phone := r.FormValue("phone")
	address := r.FormValue("address")
	cuisine := r.FormValue("cuisine")
	password := r.FormValue("password")

	if restaurantName == "" || ownerName == "" || email == "" || phone == "" ||
		address == "" || cuisine == "" || password == "" {
		utils.Error(w, http.StatusBadRequest, "All required fields must be provided")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := ac.Applications.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.Error(w, http.StatusBadRequest, "You have already applied with this email")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	imageURL, err := ac.Uploader.SaveImage(r, "image", "applications")
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	now := time.Now()
	application := models.RestaurantApplication{
		RestaurantName: restaurantName,
		OwnerName:      ownerName,
		Email:          email,
		Phone:          phone,
		Address:        address,
		Cuisine:        cuisine,
		Description:    r.FormValue("description"),
		Password:       string(hashedPassword),
		ImageURL:       imageURL,
		Status:         models.ApplicationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := ac.Applications.InsertOne(ctx, application)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}
	application.ID = result.InsertedID.(primitive.ObjectID)

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Application submitted successfully! Awaiting admin approval.",
		"application": application,
	})
}

// GetAllApplications lists every application (admin only)
func (ac *ApplicationController) GetAllApplications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ac.Applications.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}
	defer cursor.Close(ctx)

	applications := []models.RestaurantApplication{}
	if err := cursor.All(ctx, &applications); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading applications")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"applications": applications,
	})
}

// GetPendingApplications lists applications awaiting a decision (admin only)
func (ac *ApplicationController) GetPendingApplications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ac.Applications.Find(ctx, bson.M{"status": models.ApplicationPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}
	defer cursor.Close(ctx)

	applications := []models.RestaurantApplication{}
	if err := cursor.All(ctx, &applications); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error reading applications")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    applications,
	})
}

// ApproveApplication approves a pending application: it creates the
// restaurant (reusing one with the same name if present), creates or
// upgrades the owner's user account to the restaurant role, links the
// two, and marks the application approved. A second approval attempt is
// rejected rather than duplicated.
func (ac *ApplicationController) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var application models.RestaurantApplication
	if err := ac.Applications.FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application); err != nil {
		utils.Error(w, http.StatusNotFound, "Application not found")
		return
	}

	if application.Status == models.ApplicationApproved {
		utils.Error(w, http.StatusBadRequest, "Already approved")
		return
	}

	now := time.Now()

	// Creation below only runs on a confirmed miss; a failed lookup
	// must not produce a duplicate restaurant or owner account.
	var restaurant models.Restaurant
	err = ac.Restaurants.FindOne(ctx, bson.M{"name": application.RestaurantName}).Decode(&restaurant)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err != nil {
		restaurant = models.Restaurant{
			Name:         application.RestaurantName,
			Address:      application.Address,
			Cuisine:      application.Cuisine,
			Description:  application.Description,
			ImageURL:     application.ImageURL,
			OpeningHours: "9:00 AM - 9:00 PM",
			Menu:         []primitive.ObjectID{},
			Status:       models.ApplicationApproved,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		result, err := ac.Restaurants.InsertOne(ctx, restaurant)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create restaurant")
			return
		}
		restaurant.ID = result.InsertedID.(primitive.ObjectID)
	}

	var owner models.User
	err = ac.Users.FindOne(ctx, bson.M{"email": application.Email}).Decode(&owner)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err != nil {
		owner = models.User{
			Username:  application.OwnerName,
			Email:     application.Email,
			Password:  application.Password, // already hashed
			Role:      models.RoleRestaurant,
			CreatedAt: now,
			UpdatedAt: now,
		}
		result, err := ac.Users.InsertOne(ctx, owner)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create restaurant user")
			return
		}
		owner.ID = result.InsertedID.(primitive.ObjectID)
	} else if owner.Role != models.RoleRestaurant {
		_, err := ac.Users.UpdateOne(ctx, bson.M{"_id": owner.ID}, bson.M{
			"$set": bson.M{"role": models.RoleRestaurant, "updated_at": now},
		})
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to upgrade user role")
			return
		}
		owner.Role = models.RoleRestaurant
	}

	if restaurant.Owner != owner.ID {
		_, err := ac.Restaurants.UpdateOne(ctx, bson.M{"_id": restaurant.ID}, bson.M{
			"$set": bson.M{"owner": owner.ID, "updated_at": now},
		})
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to link restaurant owner")
			return
		}
		restaurant.Owner = owner.ID
	}

	_, err = ac.Applications.UpdateOne(ctx, bson.M{"_id": application.ID}, bson.M{
		"$set": bson.M{"status": models.ApplicationApproved, "updated_at": now},
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update application")
		return
	}
	application.Status = models.ApplicationApproved

	go func(email, name string) {
		if err := ac.Email.SendApplicationDecisionEmail(email, name, true); err != nil {
			log.Printf("Failed to send approval email to %s: %v", email, err)
		}
	}(application.Email, application.RestaurantName)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Application approved. Restaurant created successfully.",
		"application": application,
		"restaurant":  restaurant,
		"restaurantUser": map[string]interface{}{
			"id":    owner.ID,
			"email": owner.Email,
			"role":  owner.Role,
		},
	})
}

// RejectApplication marks an application rejected (admin only)
func (ac *ApplicationController) RejectApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var application models.RestaurantApplication
	if err := ac.Applications.FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application); err != nil {
		utils.Error(w, http.StatusNotFound, "Application not found")
		return
	}

	_, err = ac.Applications.UpdateOne(ctx, bson.M{"_id": application.ID}, bson.M{
		"$set": bson.M{"status": models.ApplicationRejected, "updated_at": time.Now()},
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update application")
		return
	}
	application.Status = models.ApplicationRejected

	go func(email, name string) {
		if err := ac.Email.SendApplicationDecisionEmail(email, name, false); err != nil {
			log.Printf("Failed to send rejection email to %s: %v", email, err)
		}
	}(application.Email, application.RestaurantName)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Application rejected successfully",
		"application": application,
	})
}
