// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"

	"github.com/kmroja/QuickBite-backend/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance.
// With no POSTMARK_API_TOKEN configured the service is disabled and
// sends become no-ops.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("POSTMARK_API_TOKEN not set; email sending disabled")
		return &EmailService{}
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es == nil || es.client == nil {
		return nil
	}

	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the customer
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation - QuickBite"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your order (ID: %s)! It is being prepared and you will be notified when it is out for delivery.<br><br>Total: <strong>%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Bon appetit!",
		order.FirstName,
		order.ID.Hex(),
		order.Total,
		order.PaymentMethod,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendApplicationDecisionEmail notifies an applicant that their
// restaurant application was approved or rejected.
func (es *EmailService) SendApplicationDecisionEmail(toEmail, restaurantName string, approved bool) error {
	if approved {
		subject := "Application Approved - QuickBite"
		htmlContent := fmt.Sprintf(
			"<strong>Congratulations!</strong><br><br>Your application for <strong>%s</strong> has been approved. You can now log in with your application email and start managing your menu.",
			restaurantName,
		)
		return es.SendEmail(toEmail, subject, htmlContent)
	}

	subject := "Application Update - QuickBite"
	htmlContent := fmt.Sprintf(
		"Dear applicant,<br><br>We are sorry to inform you that your application for <strong>%s</strong> has been rejected.",
		restaurantName,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
