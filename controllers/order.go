// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"log"
	"math"
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

const taxRate = 0.05

// OrderController handles checkout and order lifecycle requests
type OrderController struct {
	Orders      *mongo.Collection
	Carts       *mongo.Collection
	Restaurants *mongo.Collection
	Email       *utils.EmailService
	Payments    utils.PaymentProvider
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService, payments utils.PaymentProvider) *OrderController {
	return &OrderController{
		Orders:      utils.Collection(client, "orders"),
		Carts:       utils.Collection(client, "cartitems"),
		Restaurants: utils.Collection(client, "restaurants"),
		Email:       emailService,
		Payments:    payments,
	}
}

type checkoutItem struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price" validate:"min=0"`
	ImageURL     string  `json:"imageUrl"`
	RestaurantID string  `json:"restaurantId"`
	Quantity     int     `json:"quantity" validate:"min=1"`
}

type checkoutRequest struct {
	FirstName     string         `json:"firstName" validate:"required"`
	LastName      string         `json:"lastName" validate:"required"`
	Phone         string         `json:"phone" validate:"required"`
	Email         string         `json:"email" validate:"required,email"`
	Address       string         `json:"address" validate:"required"`
	City          string         `json:"city" validate:"required"`
	ZipCode       string         `json:"zipCode" validate:"required"`
	PaymentMethod string         `json:"paymentMethod" validate:"required,oneof=cash online"`
	Items         []checkoutItem `json:"items" validate:"dive"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// orderLines normalizes the checkout payload into line snapshots,
// falling back to the caller's stored cart when no items were supplied.
func (oc *OrderController) orderLines(ctx context.Context, userID primitive.ObjectID, req checkoutRequest) ([]models.OrderLine, error) {
	if len(req.Items) > 0 {
		lines := make([]models.OrderLine, 0, len(req.Items))
		for _, i := range req.Items {
			name := i.Name
			if name == "" {
				name = "Food Item"
			}
			line := models.OrderLine{
				Item: models.OrderLineItem{
					Name:     name,
					Price:    i.Price,
					ImageURL: i.ImageURL,
				},
				Quantity: i.Quantity,
			}
			if i.RestaurantID != "" {
				if restaurantID, err := primitive.ObjectIDFromHex(i.RestaurantID); err == nil {
					line.Item.RestaurantID = restaurantID
				}
			}
			lines = append(lines, line)
		}
		return lines, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user": userID}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "items",
			"localField":   "item",
			"foreignField": "_id",
			"as":           "item_doc",
		}}},
		bson.D{{Key: "$unwind", Value: "$item_doc"}},
	}

	cursor, err := oc.Carts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []struct {
		Item     models.Item `bson:"item_doc"`
		Quantity int         `bson:"quantity"`
	}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, models.OrderLine{
			Item: models.OrderLineItem{
				Name:         e.Item.Name,
				Price:        e.Item.Price,
				ImageURL:     e.Item.ImageURL,
				RestaurantID: e.Item.Restaurant,
			},
			Quantity: e.Quantity,
		})
	}
	return lines, nil
}

// CreateOrder converts the checkout payload (or the stored cart) into a
// persisted order. Cash orders clear the cart immediately; online
// orders open a hosted checkout session and keep the cart until the
// payment is confirmed.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Missing required checkout details")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	lines, err := oc.orderLines(ctx, user.ID, req)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	if len(lines) == 0 {
		utils.Error(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	// Totals are fixed here and never recomputed from live item prices
	subtotal := 0.0
	for _, line := range lines {
		subtotal += line.Item.Price * float64(line.Quantity)
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * taxRate)

	now := time.Now()
	order := models.Order{
		UserID:        user.ID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		City:          req.City,
		ZipCode:       req.ZipCode,
		Items:         lines,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		Status:        models.StatusProcessing,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      0,
		Total:         round2(subtotal + tax),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.PaymentMethod == models.PaymentMethodOnline {
		session, err := oc.Payments.CreateCheckoutSession(req.Email, lines)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create payment session")
			return
		}
		order.SessionID = session.ID

		result, err := oc.Orders.InsertOne(ctx, order)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to place order")
			return
		}
		order.ID = result.InsertedID.(primitive.ObjectID)

		// Cart is kept until the payment is confirmed
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"url":     session.URL,
			"order":   order,
		})
		return
	}

	result, err := oc.Orders.InsertOne(ctx, order)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to place order")
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	if _, err := oc.Carts.DeleteMany(ctx, bson.M{"user": user.ID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	go func(email string, order models.Order) {
		if err := oc.Email.SendOrderConfirmationEmail(email, order); err != nil {
			log.Printf("Failed to send order confirmation to %s: %v", email, err)
		}
	}(req.Email, order)

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// ConfirmPayment checks a hosted checkout session and, once it settled,
// marks the order paid and confirmed and clears the buyer's cart.
// Re-running it only overwrites the same status fields.
func (oc *OrderController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		utils.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	session, err := oc.Payments.GetCheckoutSession(sessionID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Payment confirmation failed")
		return
	}
	if !session.Paid {
		utils.Error(w, http.StatusBadRequest, "Payment not completed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found for this session")
		return
	}

	now := time.Now()
	_, err = oc.Orders.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{
			"payment_status": models.PaymentSucceeded,
			"status":         models.StatusConfirmed,
			"updated_at":     now,
		},
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	order.PaymentStatus = models.PaymentSucceeded
	order.Status = models.StatusConfirmed
	order.UpdatedAt = now

	if _, err := oc.Carts.DeleteMany(ctx, bson.M{"user": order.UserID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	go func(email string, order models.Order) {
		if err := oc.Email.SendOrderConfirmationEmail(email, order); err != nil {
			log.Printf("Failed to send order confirmation to %s: %v", email, err)
		}
	}(order.Email, order)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// GetOrders lists orders visible to the caller: users see their own,
// restaurants see orders containing their items, admins see everything.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"user": user.ID}
	switch user.Role {
	case models.RoleAdmin:
		filter = bson.M{}
	case models.RoleRestaurant:
		var restaurant models.Restaurant
		if err := oc.Restaurants.FindOne(ctx, bson.M{"owner": user.ID}).Decode(&restaurant); err != nil {
			utils.JSON(w, http.StatusOK, []models.Order{})
			return
		}
		filter = bson.M{"items.item.restaurant_id": restaurant.ID}
	}

	cursor, err := oc.Orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to retrieve orders")
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

// GetOrdersByRestaurant lists orders containing a restaurant's items.
// A restaurant-role caller may only query their own restaurant.
func (oc *OrderController) GetOrdersByRestaurant(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	restaurantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["restaurantId"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if user.Role == models.RoleRestaurant {
		var restaurant models.Restaurant
		if err := oc.Restaurants.FindOne(ctx, bson.M{"owner": user.ID}).Decode(&restaurant); err != nil || restaurant.ID != restaurantID {
			utils.Error(w, http.StatusForbidden, "Access denied: not your restaurant")
			return
		}
	}

	cursor, err := oc.Orders.Find(ctx, bson.M{"items.item.restaurant_id": restaurantID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to retrieve orders")
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

// GetOrderByID fetches one order. User-role callers only see their own.
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	if user.Role == models.RoleUser && order.UserID != user.ID {
		utils.Error(w, http.StatusForbidden, "Access denied")
		return
	}

	utils.JSON(w, http.StatusOK, order)
}

// UpdateOrder lets the order's owner correct contact and shipping
// details. Status and payment fields are admin-only and not accepted
// here.
func (oc *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
		City      string `json:"city"`
		ZipCode   string `json:"zipCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	if user.Role == models.RoleUser && order.UserID != user.ID {
		utils.Error(w, http.StatusForbidden, "Access denied")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.FirstName != "" {
		set["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		set["last_name"] = req.LastName
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.City != "" {
		set["city"] = req.City
	}
	if req.ZipCode != "" {
		set["zip_code"] = req.ZipCode
	}

	if _, err := oc.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch updated order")
		return
	}

	utils.JSON(w, http.StatusOK, order)
}

// GetAllOrders lists every order (admin only)
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := oc.Orders.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to retrieve orders")
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

// UpdateAnyOrder lets an admin set the workflow and payment status of
// any order. Values are checked for enum membership only; there is no
// transition table.
func (oc *OrderController) UpdateAnyOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		Status        string `json:"status"`
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Status != "" {
		if !models.ValidOrderStatus(req.Status) {
			utils.Error(w, http.StatusBadRequest, "Invalid order status")
			return
		}
		set["status"] = req.Status
	}
	if req.PaymentStatus != "" {
		if !models.ValidPaymentStatus(req.PaymentStatus) {
			utils.Error(w, http.StatusBadRequest, "Invalid payment status")
			return
		}
		set["payment_status"] = req.PaymentStatus
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := oc.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if result.MatchedCount == 0 {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch updated order")
		return
	}

	utils.JSON(w, http.StatusOK, order)
}
