package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/services"
)

type AdminController struct {
	admin  *services.AdminService
	orders *services.OrderService
}

func NewAdminController(admin *services.AdminService, orders *services.OrderService) *AdminController {
	return &AdminController{admin: admin, orders: orders}
}

func (c *AdminController) Metrics(ctx *gin.Context) {
	summary, err := c.admin.Summary(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch metrics", err)
		return
	}

	sales, err := c.admin.DailySales(ctx.Request.Context(), time.Now())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch sales data", err)
		return
	}

	topProducts, err := c.admin.TopProducts(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch top products", err)
		return
	}

	lowStock, err := c.admin.LowStockProducts(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch low stock products", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"summary":     summary,
		"dailySales":  sales,
		"topProducts": topProducts,
		"lowStock":    lowStock,
	})
}

func (c *AdminController) GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	orders, count, err := c.admin.ListOrders(ctx.Request.Context(), page, limit, ctx.Query("search"), sortOrder)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", err)
		return
	}

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func (c *AdminController) GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))

	users, count, err := c.admin.ListUsers(ctx.Request.Context(), page, limit, ctx.Query("search"))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch users", err)
		return
	}

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"users": users,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func (c *AdminController) UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	if err := c.orders.UpdateStatus(ctx.Request.Context(), orderID, orderStatusData.Status); err != nil {
		orderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully."})
}

func (c *AdminController) UpdateUserRole(ctx *gin.Context) {
	callerID, ok := requireUser(ctx)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	err = c.admin.UpdateUserRole(ctx.Request.Context(), callerID, userID, body.Role)
	switch {
	case errors.Is(err, services.ErrSelfRoleChange):
		sendErrorResponse(ctx, http.StatusBadRequest, "You cannot change your own role")
	case errors.Is(err, services.ErrInvalidRole):
		sendErrorResponse(ctx, http.StatusBadRequest, "Role must be one of: user, admin")
	case errors.Is(err, services.ErrUserNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
	case err != nil:
		log.Println("Role update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
	default:
		ctx.JSON(http.StatusOK, gin.H{"message": "User role updated successfully."})
	}
}
