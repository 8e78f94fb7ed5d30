package models

// Payment methods accepted at checkout
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// Payment statuses for an order
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentSucceeded, PaymentFailed:
		return true
	}
	return false
}
