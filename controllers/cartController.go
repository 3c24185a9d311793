package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/models"
	"github.com/kymani/dukahub-api/services"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// cartError maps service errors onto the teacher-style message responses.
func cartError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrCartItemNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, services.ErrInsufficientStock):
		sendErrorResponse(ctx, http.StatusBadRequest, "Not enough stock available")
	case errors.Is(err, services.ErrNotOwner):
		sendErrorResponse(ctx, http.StatusForbidden, "Cart item belongs to another user")
	default:
		log.Println("Cart error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
	}
}

func (c *CartController) GetCart(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	cart, err := c.carts.GetCart(ctx.Request.Context(), userID)
	if err != nil {
		cartError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": cart})
}

func (c *CartController) AddToCart(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body struct {
		ProductID int `json:"productId" binding:"required"`
		Quantity  int `json:"quantity" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	item, err := c.carts.AddToCart(ctx.Request.Context(), userID, body.ProductID, body.Quantity)
	if err != nil {
		cartError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Item added to cart",
		"item":    item,
	})
}

func (c *CartController) UpdateItem(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse itemId")
		return
	}

	var body struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	item, err := c.carts.UpdateItem(ctx.Request.Context(), userID, itemID, body.Quantity)
	if err != nil {
		cartError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Cart item updated",
		"item":    item,
	})
}

func (c *CartController) RemoveItem(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse itemId")
		return
	}

	if err := c.carts.RemoveItem(ctx.Request.Context(), userID, itemID); err != nil {
		cartError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

func (c *CartController) ClearCart(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.carts.ClearCart(ctx.Request.Context(), userID); err != nil {
		cartError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

// MergeCart folds a client-held guest cart into the user's persisted cart.
func (c *CartController) MergeCart(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var body struct {
		Items []models.GuestCartItem `json:"items" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if err := c.carts.MergeGuestCart(ctx.Request.Context(), userID, body.Items); err != nil {
		cartError(ctx, err)
		return
	}

	cart, err := c.carts.GetCart(ctx.Request.Context(), userID)
	if err != nil {
		cartError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Cart merged",
		"cart":    cart,
	})
}

func (c *CartController) Summary(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	summary, err := c.carts.Summary(ctx.Request.Context(), userID)
	if err != nil {
		cartError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"summary": summary})
}
