package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/controllers"
	"github.com/kymani/dukahub-api/middlewares"
)

func CartRoutes(server *gin.Engine, cart *controllers.CartController, jwtSecret string) {
	group := server.Group("/cart", middlewares.RequireAuth(jwtSecret))
	{
		group.GET("", cart.GetCart)
		group.GET("/summary", cart.Summary)
		group.POST("/items", cart.AddToCart)
		group.PATCH("/items/:itemId", cart.UpdateItem)
		group.DELETE("/items/:itemId", cart.RemoveItem)
		group.DELETE("", cart.ClearCart)
		group.POST("/merge", cart.MergeCart)
		group.POST("/sync", cart.MergeCart)
	}
}
