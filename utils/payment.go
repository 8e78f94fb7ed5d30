package utils

import (
	"math"
	"os"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/kmroja/QuickBite-backend/models"
)

// CheckoutSession is the slice of a hosted payment session the order
// flow cares about.
type CheckoutSession struct {
	ID   string
	URL  string
	Paid bool
}

// PaymentProvider creates and inspects hosted checkout sessions.
type PaymentProvider interface {
	CreateCheckoutSession(email string, lines []models.OrderLine) (*CheckoutSession, error)
	GetCheckoutSession(id string) (*CheckoutSession, error)
}

// StripeProvider implements PaymentProvider against Stripe Checkout.
type StripeProvider struct {
	successURL string
	cancelURL  string
}

// NewStripeProvider configures the Stripe client from STRIPE_SECRET_KEY
// and builds the redirect URLs from FRONTEND_URL.
func NewStripeProvider() *StripeProvider {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:5173"
	}
	return &StripeProvider{
		successURL: frontend + "/checkout?payment_status=success&session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  frontend + "/checkout?payment_status=cancel",
	}
}

// CreateCheckoutSession opens a hosted card-payment session for the
// given order lines.
func (sp *StripeProvider) CreateCheckoutSession(email string, lines []models.OrderLine) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("inr"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Item.Name),
				},
				UnitAmount: stripe.Int64(int64(math.Round(line.Item.Price * 100))),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(email),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(sp.successURL),
		CancelURL:          stripe.String(sp.cancelURL),
	}

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// GetCheckoutSession retrieves a session and reports whether it settled.
func (sp *StripeProvider) GetCheckoutSession(id string) (*CheckoutSession, error) {
	s, err := session.Get(id, nil)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{
		ID:   s.ID,
		URL:  s.URL,
		Paid: s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}, nil
}
