// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/kmroja/QuickBite-backend/controllers"
	"github.com/kmroja/QuickBite-backend/middleware"
	"github.com/kmroja/QuickBite-backend/routes"
	"github.com/kmroja/QuickBite-backend/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))
	if db := os.Getenv("MONGO_DB"); db != "" {
		utils.DatabaseName = db
	}

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// External collaborators
	emailService := utils.NewEmailService()
	payments := utils.NewStripeProvider()
	uploader := utils.NewUploader()

	// Authentication middleware
	auth := middleware.NewAuth(client)

	// Initialize controllers
	userController := controllers.NewUserController(client)
	itemController := controllers.NewItemController(client, uploader)
	restaurantController := controllers.NewRestaurantController(client, uploader)
	cartController := controllers.NewCartController(client)
	orderController := controllers.NewOrderController(client, emailService, payments)
	applicationController := controllers.NewApplicationController(client, uploader, emailService)
	reviewController := controllers.NewReviewController(client)
	adminController := controllers.NewAdminController(client)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, auth,
		userController, itemController, restaurantController, cartController,
		orderController, applicationController, reviewController, adminController)

	// Serve locally stored upload files
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploader.Dir()))))

	// Health check
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "QuickBite API is running",
		})
	}).Methods("GET")

	// CORS policy from the configured origin allow-list
	allowedOrigins := []string{"http://localhost:5173"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
