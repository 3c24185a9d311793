package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kymani/dukahub-api/clients"
	"github.com/kymani/dukahub-api/models"
	"github.com/kymani/dukahub-api/services"
	"github.com/kymani/dukahub-api/utils"
)

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

type WebhookController struct {
	db       *gorm.DB
	orders   *services.OrderService
	payments *clients.PaymentClient
	mailer   utils.Mailer
}

func NewWebhookController(db *gorm.DB, orders *services.OrderService, payments *clients.PaymentClient, mailer utils.Mailer) *WebhookController {
	return &WebhookController{db: db, orders: orders, payments: payments, mailer: mailer}
}

// HandleStripeWebhook receives signed payment events. Unrecognized event
// types are logged and acknowledged; only signature problems and database
// failures produce non-200 responses.
func (c *WebhookController) HandleStripeWebhook(ctx *gin.Context) {
	signature := ctx.GetHeader("stripe-signature")
	if signature == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe-signature header"})
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	if err := c.payments.VerifyWebhookSignature(body, signature, time.Now()); err != nil {
		log.Println("Webhook signature verification failed:", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	// Duplicate deliveries are acknowledged without being re-applied.
	var count int64
	if err := c.db.Model(&models.WebhookEvent{}).Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed", "message": err.Error()})
		return
	}
	if count > 0 {
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		if err := c.handlePaymentSucceeded(ctx, event.Data.Object.ID); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed", "message": err.Error()})
			return
		}
	case "payment_intent.payment_failed":
		log.Printf("Payment failed for intent %s", event.Data.Object.ID)
	default:
		log.Printf("Unhandled webhook event type: %s", event.Type)
	}

	if err := c.db.Create(&models.WebhookEvent{
		EventID:     event.ID,
		EventType:   event.Type,
		ProcessedAt: time.Now(),
	}).Error; err != nil {
		log.Println("Failed to record webhook event:", err)
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

func (c *WebhookController) handlePaymentSucceeded(ctx *gin.Context, paymentIntentID string) error {
	order, err := c.orders.MarkPaid(ctx.Request.Context(), paymentIntentID)
	if errors.Is(err, services.ErrOrderNotFound) {
		// Intent does not belong to this store; acknowledge and move on.
		log.Printf("No order found for payment intent %s", paymentIntentID)
		return nil
	}
	if errors.Is(err, services.ErrInvalidTransition) {
		// Order already left pending (e.g. cancelled before the event
		// arrived); acknowledge without re-marking it paid.
		log.Printf("Order for payment intent %s is no longer pending; event ignored", paymentIntentID)
		return nil
	}
	if err != nil {
		return err
	}

	var user models.User
	if err := c.db.First(&user, order.UserID).Error; err != nil {
		log.Println("Could not load user for confirmation email:", err)
		return nil
	}

	// Confirmation email is best effort; a send failure never fails the
	// webhook response.
	emailData := utils.EmailData{
		Name:        user.Fullname,
		Message:     "Your payment has been received and your order is being processed.",
		OrderNumber: order.OrderNumber,
		Total:       fmt.Sprintf("%.2f", order.TotalPrice),
	}
	templatePath := filepath.Join("templates", "order_confirmation.html")
	if err := c.mailer.Send(user.Email, "Order Confirmation "+order.OrderNumber, emailData, templatePath); err != nil {
		log.Println("Error sending order confirmation email:", err)
	} else {
		log.Println("Order confirmation email sent successfully to:", user.Email)
	}

	return nil
}
