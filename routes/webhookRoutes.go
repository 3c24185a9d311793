package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/controllers"
)

func WebhookRoutes(server *gin.Engine, webhook *controllers.WebhookController) {
	server.POST("/webhooks/stripe", webhook.HandleStripeWebhook)
}
