package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kmroja/QuickBite-backend/middleware"
	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

// authedRequest attaches a user to the request context the way the auth
// middleware does.
func authedRequest(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

// muxVars sets router path variables on a request built outside a router.
func muxVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}

func testUser(role string) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "tester",
		Email:    "tester@example.com",
		Role:     role,
	}
}

// stubPayments is a canned PaymentProvider for checkout tests.
type stubPayments struct {
	created bool
	session *utils.CheckoutSession
	paid    bool
	err     error
}

func (s *stubPayments) CreateCheckoutSession(email string, lines []models.OrderLine) (*utils.CheckoutSession, error) {
	s.created = true
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubPayments) GetCheckoutSession(id string) (*utils.CheckoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &utils.CheckoutSession{ID: id, Paid: s.paid}, nil
}
