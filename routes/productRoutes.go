package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/controllers"
	"github.com/kymani/dukahub-api/middlewares"
)

func ProductRoutes(server *gin.Engine, product *controllers.ProductController, jwtSecret string) {
	server.GET("/product", product.GetProducts)
	server.GET("/product/:slug", product.GetProduct)

	admin := server.Group("/", middlewares.RequireAuth(jwtSecret), middlewares.RequireAdmin())
	{
		admin.POST("/product", product.CreateProduct)
		admin.POST("/product-images", product.UploadProductImages)
	}
}
