package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/kymani/dukahub-api/models"
)

// summaryTaxRate is the rate shown in the cart summary. The order path
// charges a different rate (see orderTaxRate); both values are carried over
// from the storefront as-is pending a product decision on which is intended.
const summaryTaxRate = 0.08

type CartSummary struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the user's cart with line items and product data, creating
// an empty cart row on first access.
func (s *CartService) GetCart(ctx context.Context, userID int) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items.Product").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddToCart adds quantity of a product to the user's cart, folding into an
// existing line if one exists. The line price is re-stamped from the live
// product on every write.
func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity int) (*models.CartItem, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var existing models.CartItem
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&existing).Error

	if err == nil {
		newQuantity := existing.Quantity + quantity
		if newQuantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		existing.Quantity = newQuantity
		existing.Price = product.Price
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	item := models.CartItem{
		CartID:    int(cart.ID),
		ProductID: productID,
		Quantity:  quantity,
		Price:     product.Price,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

// UpdateItem overwrites a line's quantity, re-stamping its price snapshot.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID, quantity int) (*models.CartItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	item.Price = product.Price
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}

	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(item).Error
}

// ClearCart removes every line from the user's cart. Clearing a user with no
// cart is treated as success.
func (s *CartService) ClearCart(ctx context.Context, userID int) error {
	var cart models.Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

// MergeGuestCart reconciles a client-held cart into the user's database cart.
// Items whose product is missing or out of stock are skipped; quantities are
// capped at available stock, never rejected. A bad item never fails the batch.
func (s *CartService) MergeGuestCart(ctx context.Context, userID int, items []models.GuestCartItem) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	for _, incoming := range items {
		var product models.Product
		err := s.db.WithContext(ctx).First(&product, incoming.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Skipping unknown product %d during cart merge", incoming.ProductID)
			continue
		}
		if err != nil {
			return err
		}
		if product.Stock <= 0 {
			log.Printf("Skipping out-of-stock product %d during cart merge", incoming.ProductID)
			continue
		}

		var existing models.CartItem
		err = s.db.WithContext(ctx).
			Where("cart_id = ? AND product_id = ?", cart.ID, incoming.ProductID).
			First(&existing).Error

		if err == nil {
			quantity := existing.Quantity + incoming.Quantity
			if quantity > product.Stock {
				quantity = product.Stock
			}
			existing.Quantity = quantity
			existing.Price = product.Price
			if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		quantity := incoming.Quantity
		if quantity > product.Stock {
			quantity = product.Stock
		}
		item := models.CartItem{
			CartID:    int(cart.ID),
			ProductID: incoming.ProductID,
			Quantity:  quantity,
			Price:     product.Price,
		}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return err
		}
	}

	return nil
}

// Summary totals the cart for display, using the summary tax rate.
func (s *CartService) Summary(ctx context.Context, userID int) (*CartSummary, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := CartSummary{}
	for _, item := range cart.Items {
		summary.ItemCount += item.Quantity
		summary.Subtotal += item.Price * float64(item.Quantity)
	}
	summary.Tax = summary.Subtotal * summaryTaxRate
	summary.Total = summary.Subtotal + summary.Tax

	return &summary, nil
}

// ownedItem loads a cart line and checks it belongs to the user's cart.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID int) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := s.db.WithContext(ctx).First(&cart, item.CartID).Error; err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, ErrNotOwner
	}

	return &item, nil
}
