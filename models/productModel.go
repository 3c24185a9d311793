package models

import "gorm.io/gorm"

type ProductImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	ProductID int    `json:"productId" binding:"required"`
}

type Product struct {
	gorm.Model
	Name        string         `json:"name" binding:"required"`
	Slug        string         `json:"slug" binding:"required" gorm:"uniqueIndex;size:191"`
	Brand       string         `json:"brand" binding:"required"`
	Category    string         `json:"category" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Price       float64        `json:"price" binding:"required"`
	Stock       int            `json:"stock"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
