package initializers

import (
	"log"

	"github.com/kymani/dukahub-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderSequence{},
		&models.VerificationToken{},
		&models.WebhookEvent{},
	)
	log.Println("Database synced successfully.")
}
