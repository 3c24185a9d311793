package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/controllers"
	"github.com/kymani/dukahub-api/middlewares"
)

func OrderRoutes(server *gin.Engine, order *controllers.OrderController, checkout *controllers.CheckoutController, jwtSecret string) {
	group := server.Group("/", middlewares.RequireAuth(jwtSecret))
	{
		group.PUT("/shipping-address", checkout.SaveShippingAddress)
		group.GET("/shipping-address", checkout.GetShippingAddress)
		group.POST("/checkout/payment-intent", checkout.CreatePaymentIntent)

		group.POST("/order", order.CreateOrder)
		group.GET("/order", order.GetMyOrders)
		group.GET("/order/:orderId", order.GetOrder)
		group.POST("/order/:orderId/cancel", order.CancelOrder)
	}
}
