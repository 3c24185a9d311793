package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kymani/dukahub-api/clients"
	"github.com/kymani/dukahub-api/models"
	"github.com/kymani/dukahub-api/services"
)

type CheckoutController struct {
	db       *gorm.DB
	orders   *services.OrderService
	payments *clients.PaymentClient
}

func NewCheckoutController(db *gorm.DB, orders *services.OrderService, payments *clients.PaymentClient) *CheckoutController {
	return &CheckoutController{db: db, orders: orders, payments: payments}
}

// SaveShippingAddress upserts the caller's address on file.
func (c *CheckoutController) SaveShippingAddress(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body models.ShippingAddress
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var address models.ShippingAddress
	err := c.db.Where("user_id = ?", userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		body.UserID = userID
		if err := c.db.Create(&body).Error; err != nil {
			log.Println("Address creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save shipping address")
			return
		}
		sendJSONResponse(ctx, http.StatusCreated, gin.H{"address": body})
		return
	}
	if err != nil {
		log.Println("Address lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	address.FullName = body.FullName
	address.Street = body.Street
	address.City = body.City
	address.PostalCode = body.PostalCode
	address.Country = body.Country
	address.Phone = body.Phone
	if err := c.db.Save(&address).Error; err != nil {
		log.Println("Address update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save shipping address")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"address": address})
}

func (c *CheckoutController) GetShippingAddress(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var address models.ShippingAddress
	err := c.db.Where("user_id = ?", userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, "No shipping address on file")
		return
	}
	if err != nil {
		log.Println("Address lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"address": address})
}

// CreatePaymentIntent opens a payment session sized to the cart total and
// returns the client secret for the hosted card element.
func (c *CheckoutController) CreatePaymentIntent(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	_, _, total, err := c.orders.CheckoutTotals(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			sendErrorResponse(ctx, http.StatusBadRequest, "Cart is empty")
			return
		}
		log.Println("Checkout totals error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	amountCents := int64(math.Round(total * 100))
	intent, err := c.payments.CreatePaymentIntent(ctx.Request.Context(), amountCents, "usd")
	if err != nil {
		log.Println("Payment intent error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to initiate payment")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"paymentIntentId": intent.ID,
		"clientSecret":    intent.ClientSecret,
	})
}
