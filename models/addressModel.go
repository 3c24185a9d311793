package models

import "gorm.io/gorm"

// ShippingAddress is the address on file for a user, captured into the order
// as a JSON snapshot at checkout.
type ShippingAddress struct {
	gorm.Model
	UserID     int    `json:"userId" gorm:"uniqueIndex"`
	FullName   string `json:"fullName" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
}
