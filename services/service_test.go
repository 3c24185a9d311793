package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kymani/dukahub-api/models"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
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
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Fullname:      "Test User",
		Email:         email,
		Role:          models.RoleUser,
		EmailVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		Slug:        name,
		Brand:       "Acme",
		Category:    "general",
		Description: "test product",
		Price:       price,
		Stock:       stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedAddress(t *testing.T, db *gorm.DB, userID int) models.ShippingAddress {
	t.Helper()
	address := models.ShippingAddress{
		UserID:     userID,
		FullName:   "Test User",
		Street:     "123 Main St",
		City:       "Nairobi",
		PostalCode: "00100",
		Country:    "KE",
	}
	require.NoError(t, db.Create(&address).Error)
	return address
}
