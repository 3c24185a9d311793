package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/controllers"
	"github.com/kymani/dukahub-api/middlewares"
)

func AdminRoutes(server *gin.Engine, admin *controllers.AdminController, jwtSecret string) {
	group := server.Group("/admin", middlewares.RequireAuth(jwtSecret), middlewares.RequireAdmin())
	{
		group.GET("/metrics", admin.Metrics)
		group.GET("/orders", admin.GetOrders)
		group.PATCH("/orders/:orderId/status", admin.UpdateOrderStatus)
		group.GET("/users", admin.GetUsers)
		group.PATCH("/users/:userId/role", admin.UpdateUserRole)
	}
}
