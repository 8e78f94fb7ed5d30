package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

func orderController(mt *mtest.T, payments utils.PaymentProvider) *OrderController {
	return NewOrderController(mt.Client, &utils.EmailService{}, payments)
}

func checkoutBody(paymentMethod string) map[string]interface{} {
	return map[string]interface{}{
		"firstName":     "Asha",
		"lastName":      "Rao",
		"phone":         "9876543210",
		"email":         "asha@example.com",
		"address":       "12 MG Road",
		"city":          "Bengaluru",
		"zipCode":       "560001",
		"paymentMethod": paymentMethod,
		"items": []map[string]interface{}{
			{"name": "Masala Dosa", "price": 100.0, "quantity": 2},
		},
	}
}

func postCheckout(t *testing.T, oc *OrderController, user *models.User, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBuffer(body)), user)
	rr := httptest.NewRecorder()
	oc.CreateOrder(rr, req)
	return rr
}

func TestCreateOrderRejectsIncompleteCheckout(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing phone", func(mt *mtest.T) {
		payments := &stubPayments{}
		oc := orderController(mt, payments)

		payload := checkoutBody(models.PaymentMethodCash)
		delete(payload, "phone")

		rr := postCheckout(mt.T, oc, testUser(models.RoleUser), payload)

		assert.Equal(mt, http.StatusBadRequest, rr.Code)
		assert.False(mt, payments.created)
	})
}

func TestCreateOrderCash(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cash checkout clears cart", func(mt *mtest.T) {
		payments := &stubPayments{}
		oc := orderController(mt, payments)

		// Insert the order, then clear the cart
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		rr := postCheckout(mt.T, oc, testUser(models.RoleUser), checkoutBody(models.PaymentMethodCash))
		require.Equal(mt, http.StatusCreated, rr.Code)

		var resp struct {
			Success bool         `json:"success"`
			Order   models.Order `json:"order"`
		}
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&resp))

		assert.True(mt, resp.Success)
		assert.Equal(mt, models.StatusProcessing, resp.Order.Status)
		assert.Equal(mt, models.PaymentPending, resp.Order.PaymentStatus)
		assert.Equal(mt, 200.0, resp.Order.Subtotal)
		assert.Equal(mt, 10.0, resp.Order.Tax)
		assert.Equal(mt, 0.0, resp.Order.Shipping)
		assert.Equal(mt, 210.0, resp.Order.Total)
		assert.False(mt, payments.created)
	})
}

func TestCreateOrderOnline(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("online checkout opens session and keeps cart", func(mt *mtest.T) {
		payments := &stubPayments{session: &utils.CheckoutSession{
			ID:  "cs_test_123",
			URL: "https://checkout.example.com/cs_test_123",
		}}
		oc := orderController(mt, payments)

		// Only the order insert hits the database; the cart survives
		// until the payment is confirmed.
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		rr := postCheckout(mt.T, oc, testUser(models.RoleUser), checkoutBody(models.PaymentMethodOnline))
		require.Equal(mt, http.StatusOK, rr.Code)

		var resp struct {
			Success bool         `json:"success"`
			URL     string       `json:"url"`
			Order   models.Order `json:"order"`
		}
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&resp))

		assert.True(mt, payments.created)
		assert.Equal(mt, "https://checkout.example.com/cs_test_123", resp.URL)
		assert.Equal(mt, "cs_test_123", resp.Order.SessionID)
		assert.Equal(mt, models.PaymentPending, resp.Order.PaymentStatus)
	})
}

func TestConfirmPayment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("paid session confirms order", func(mt *mtest.T) {
		payments := &stubPayments{paid: true}
		oc := orderController(mt, payments)

		orderID := primitive.NewObjectID()
		userID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "quickbite.orders", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: orderID},
				{Key: "user", Value: userID},
				{Key: "email", Value: "asha@example.com"},
				{Key: "session_id", Value: "cs_test_123"},
				{Key: "status", Value: models.StatusProcessing},
				{Key: "payment_status", Value: models.PaymentPending},
			}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/confirm?session_id=cs_test_123", nil)
		rr := httptest.NewRecorder()
		oc.ConfirmPayment(rr, req)

		require.Equal(mt, http.StatusOK, rr.Code)

		var resp struct {
			Success bool         `json:"success"`
			Order   models.Order `json:"order"`
		}
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(mt, models.StatusConfirmed, resp.Order.Status)
		assert.Equal(mt, models.PaymentSucceeded, resp.Order.PaymentStatus)
	})

	mt.Run("unpaid session is rejected", func(mt *mtest.T) {
		payments := &stubPayments{paid: false}
		oc := orderController(mt, payments)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/confirm?session_id=cs_test_456", nil)
		rr := httptest.NewRecorder()
		oc.ConfirmPayment(rr, req)

		assert.Equal(mt, http.StatusBadRequest, rr.Code)
	})

	mt.Run("missing session id", func(mt *mtest.T) {
		oc := orderController(mt, &stubPayments{})

		req := httptest.NewRequest(http.MethodGet, "/api/orders/confirm", nil)
		rr := httptest.NewRecorder()
		oc.ConfirmPayment(rr, req)

		assert.Equal(mt, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateAnyOrderValidatesStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown status", func(mt *mtest.T) {
		oc := orderController(mt, &stubPayments{})

		body := bytes.NewBufferString(`{"status":"teleported"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/x", body)
		req = muxVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})
		rr := httptest.NewRecorder()
		oc.UpdateAnyOrder(rr, req)

		assert.Equal(mt, http.StatusBadRequest, rr.Code)
	})

	mt.Run("unknown payment status", func(mt *mtest.T) {
		oc := orderController(mt, &stubPayments{})

		body := bytes.NewBufferString(`{"paymentStatus":"maybe"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/x", body)
		req = muxVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})
		rr := httptest.NewRecorder()
		oc.UpdateAnyOrder(rr, req)

		assert.Equal(mt, http.StatusBadRequest, rr.Code)
	})
}
