// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/kmroja/QuickBite-backend/controllers"
	"github.com/kmroja/QuickBite-backend/middleware"
	"github.com/kmroja/QuickBite-backend/models"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	auth *middleware.Auth,
	userController *controllers.UserController,
	itemController *controllers.ItemController,
	restaurantController *controllers.RestaurantController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	applicationController *controllers.ApplicationController,
	reviewController *controllers.ReviewController,
	adminController *controllers.AdminController,
) {
	// User routes
	user := router.PathPrefix("/api/user").Subrouter()
	user.HandleFunc("/register", userController.Register).Methods("POST")
	user.HandleFunc("/login", userController.Login).Methods("POST")

	userProtected := router.PathPrefix("/api/user").Subrouter()
	userProtected.Use(auth.Require())
	userProtected.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	userProtected.HandleFunc("/verify", userController.Verify).Methods("GET")

	userAdmin := router.PathPrefix("/api/user").Subrouter()
	userAdmin.Use(auth.Require(models.RoleAdmin))
	userAdmin.HandleFunc("/all-users", userController.GetAllUsers).Methods("GET")

	// Item routes: public listings plus role-gated management
	items := router.PathPrefix("/api/items").Subrouter()
	items.HandleFunc("", itemController.GetItems).Methods("GET")
	items.HandleFunc("/restaurant/{id}", itemController.GetItemsByRestaurant).Methods("GET")

	itemsProtected := router.PathPrefix("/api/items").Subrouter()
	itemsProtected.Use(auth.Require(models.RoleAdmin, models.RoleRestaurant))
	itemsProtected.HandleFunc("/my-items", itemController.GetMyItems).Methods("GET")
	itemsProtected.HandleFunc("", itemController.CreateItem).Methods("POST")
	itemsProtected.HandleFunc("/{id}", itemController.UpdateItem).Methods("PUT")
	itemsProtected.HandleFunc("/{id}", itemController.DeleteItem).Methods("DELETE")

	// Restaurant routes
	restaurants := router.PathPrefix("/api/restaurants").Subrouter()
	restaurants.HandleFunc("", restaurantController.GetRestaurants).Methods("GET")
	restaurants.HandleFunc("/{id}", restaurantController.GetRestaurantByID).Methods("GET")

	restaurantsManage := router.PathPrefix("/api/restaurants").Subrouter()
	restaurantsManage.Use(auth.Require(models.RoleAdmin, models.RoleRestaurant))
	restaurantsManage.HandleFunc("", restaurantController.CreateRestaurant).Methods("POST")
	restaurantsManage.HandleFunc("/{id}", restaurantController.UpdateRestaurant).Methods("PUT")

	restaurantsAdmin := router.PathPrefix("/api/restaurants").Subrouter()
	restaurantsAdmin.Use(auth.Require(models.RoleAdmin))
	restaurantsAdmin.HandleFunc("/{id}", restaurantController.DeleteRestaurant).Methods("DELETE")

	// Cart routes, all authenticated
	cart := router.PathPrefix("/api/cart").Subrouter()
	cart.Use(auth.Require())
	cart.HandleFunc("", cartController.GetCart).Methods("GET")
	cart.HandleFunc("", cartController.AddToCart).Methods("POST")
	cart.HandleFunc("/clear", cartController.ClearCart).Methods("POST")
	cart.HandleFunc("/{id}", cartController.UpdateCartItem).Methods("PUT")
	cart.HandleFunc("/{id}", cartController.DeleteCartItem).Methods("DELETE")

	// Order routes
	ordersAdmin := router.PathPrefix("/api/orders/getall").Subrouter()
	ordersAdmin.Use(auth.Require(models.RoleAdmin))
	ordersAdmin.HandleFunc("", orderController.GetAllOrders).Methods("GET")
	ordersAdmin.HandleFunc("/{id}", orderController.UpdateAnyOrder).Methods("PUT")

	ordersRestaurant := router.PathPrefix("/api/orders/restaurant").Subrouter()
	ordersRestaurant.Use(auth.Require(models.RoleRestaurant, models.RoleAdmin))
	ordersRestaurant.HandleFunc("/{restaurantId}", orderController.GetOrdersByRestaurant).Methods("GET")

	orders := router.PathPrefix("/api/orders").Subrouter()
	orders.Use(auth.Require())
	orders.HandleFunc("", orderController.CreateOrder).Methods("POST")
	orders.HandleFunc("", orderController.GetOrders).Methods("GET")
	orders.HandleFunc("/confirm", orderController.ConfirmPayment).Methods("GET")
	orders.HandleFunc("/{id}", orderController.GetOrderByID).Methods("GET")
	orders.HandleFunc("/{id}", orderController.UpdateOrder).Methods("PUT")

	// Restaurant application routes: applying is public, decisions are
	// admin only
	applications := router.PathPrefix("/api/restaurant-applications").Subrouter()
	applications.HandleFunc("/apply", applicationController.Apply).Methods("POST")

	applicationsAdmin := router.PathPrefix("/api/restaurant-applications").Subrouter()
	applicationsAdmin.Use(auth.Require(models.RoleAdmin))
	applicationsAdmin.HandleFunc("", applicationController.GetAllApplications).Methods("GET")
	applicationsAdmin.HandleFunc("/pending", applicationController.GetPendingApplications).Methods("GET")
	applicationsAdmin.HandleFunc("/{id}/approve", applicationController.ApproveApplication).Methods("PUT")
	applicationsAdmin.HandleFunc("/{id}/reject", applicationController.RejectApplication).Methods("PUT")

	// Review routes
	reviews := router.PathPrefix("/api/reviews").Subrouter()
	reviews.HandleFunc("", reviewController.GetReviews).Methods("GET")
	reviews.HandleFunc("", reviewController.CreateReview).Methods("POST")

	foodReviews := router.PathPrefix("/api/food-review").Subrouter()
	foodReviews.HandleFunc("/{id}/reviews", reviewController.GetItemReviews).Methods("GET")

	foodReviewsProtected := router.PathPrefix("/api/food-review").Subrouter()
	foodReviewsProtected.Use(auth.Require())
	foodReviewsProtected.HandleFunc("/{id}/review", reviewController.AddFoodReview).Methods("POST")

	// Admin dashboard routes
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.Require(models.RoleAdmin))
	admin.HandleFunc("/stats", adminController.GetStats).Methods("GET")
	admin.HandleFunc("/users", adminController.GetUsers).Methods("GET")
	admin.HandleFunc("/items", adminController.GetItems).Methods("GET")
	admin.HandleFunc("/orders", adminController.GetOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}", orderController.UpdateAnyOrder).Methods("PUT")
}
