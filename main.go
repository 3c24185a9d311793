package main

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kymani/dukahub-api/clients"
	"github.com/kymani/dukahub-api/config"
	"github.com/kymani/dukahub-api/controllers"
	"github.com/kymani/dukahub-api/initializers"
	"github.com/kymani/dukahub-api/routes"
	"github.com/kymani/dukahub-api/services"
	"github.com/kymani/dukahub-api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatal("Failed to parse config: ", err)
	}

	db := initializers.ConnectToDB(cfg.DatabaseDSN)
	initializers.SyncDatabase()

	paymentClient := clients.NewPaymentClient(cfg.Stripe)
	mailer := utils.NewSMTPMailer(cfg.SMTP)

	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db)
	adminService := services.NewAdminService(db)

	authController := controllers.NewAuthController(db, mailer, cfg)
	cartController := controllers.NewCartController(cartService)
	orderController := controllers.NewOrderController(orderService)
	checkoutController := controllers.NewCheckoutController(db, orderService, paymentClient)
	adminController := controllers.NewAdminController(adminService, orderService)
	productController := controllers.NewProductController(db, cfg.S3.Bucket)
	webhookController := controllers.NewWebhookController(db, orderService, paymentClient, mailer)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server, authController)
	routes.ProductRoutes(server, productController, cfg.JWTSecret)
	routes.CartRoutes(server, cartController, cfg.JWTSecret)
	routes.OrderRoutes(server, orderController, checkoutController, cfg.JWTSecret)
	routes.AdminRoutes(server, adminController, cfg.JWTSecret)
	routes.WebhookRoutes(server, webhookController)

	server.Run(":" + cfg.Port)
}
