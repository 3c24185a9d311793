package models

import "gorm.io/gorm"

type Cart struct {
	gorm.Model
	UserID int        `json:"userId" gorm:"uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem carries a price snapshot taken from the product at write time so
// the cart total is stable between renders; it is re-stamped on every update.
type CartItem struct {
	gorm.Model
	CartID    int     `json:"cartId" gorm:"index"`
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}

// GuestCartItem is one entry of a client-held cart submitted on sign-in.
type GuestCartItem struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}
