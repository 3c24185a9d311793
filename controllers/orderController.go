package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func orderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		sendErrorResponse(ctx, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, services.ErrMissingShippingAddress):
		sendErrorResponse(ctx, http.StatusBadRequest, "No shipping address on file")
	case errors.Is(err, services.ErrInsufficientStock):
		sendErrorResponse(ctx, http.StatusBadRequest, "Not enough stock available")
	case errors.Is(err, services.ErrOrderNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
	case errors.Is(err, services.ErrNotOwner):
		sendErrorResponse(ctx, http.StatusForbidden, "Order belongs to another user")
	case errors.Is(err, services.ErrInvalidState):
		sendErrorResponse(ctx, http.StatusBadRequest, "Only pending orders can be cancelled")
	case errors.Is(err, services.ErrInvalidTransition):
		sendErrorResponse(ctx, http.StatusBadRequest, "Illegal order status transition")
	default:
		log.Println("Order error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, err.Error())
	}
}

func (c *OrderController) CreateOrder(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body struct {
		PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := c.orders.CreateOrder(ctx.Request.Context(), userID, body.PaymentIntentID)
	if err != nil {
		orderError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":     "Order created successfully.",
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"order":       order,
	})
}

func (c *OrderController) GetMyOrders(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	orders, err := c.orders.GetUserOrders(ctx.Request.Context(), userID)
	if err != nil {
		orderError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func (c *OrderController) GetOrder(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, err := c.orders.GetOrder(ctx.Request.Context(), userID, isAdmin(ctx), orderID)
	if err != nil {
		orderError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *OrderController) CancelOrder(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	if err := c.orders.CancelOrder(ctx.Request.Context(), userID, isAdmin(ctx), orderID); err != nil {
		orderError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order cancelled successfully."})
}
