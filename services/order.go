package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kymani/dukahub-api/models"
)

// orderTaxRate is the rate charged at checkout. The cart summary displays a
// different rate (see summaryTaxRate in cart.go).
const orderTaxRate = 0.10

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder converts the user's cart plus their shipping address into an
// order. Inside one transaction it reserves the day's next order number,
// inserts the order with snapshot line items, decrements each product's stock
// under a stock >= quantity guard, and clears the cart. Any failure rolls the
// whole transaction back.
func (s *OrderService) CreateOrder(ctx context.Context, userID int, paymentIntentID string) (*models.Order, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items.Product.Images").
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	var address models.ShippingAddress
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMissingShippingAddress
	}
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	for _, item := range cart.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	tax := subtotal * orderTaxRate

	addressSnapshot, err := json.Marshal(map[string]string{
		"fullName":   address.FullName,
		"street":     address.Street,
		"city":       address.City,
		"postalCode": address.PostalCode,
		"country":    address.Country,
		"phone":      address.Phone,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		image := ""
		if len(line.Product.Images) > 0 {
			image = line.Product.Images[0].Url
		}
		items[i] = models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Slug:      line.Product.Slug,
			Image:     image,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
	}

	order := models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		Tax:             tax,
		TotalPrice:      subtotal + tax,
		ShippingAddress: addressSnapshot,
		PaymentIntentID: paymentIntentID,
		Items:           items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextOrderNumber(tx, time.Now())
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range cart.Items {
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("order creation failed: %w", err)
	}

	return &order, nil
}

// CheckoutTotals prices the user's current cart at the checkout tax rate.
// The payment session is sized from these figures before the order exists.
func (s *OrderService) CheckoutTotals(ctx context.Context, userID int) (subtotal, tax, total float64, err error) {
	var cart models.Cart
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
		return 0, 0, 0, ErrEmptyCart
	}
	if err != nil {
		return 0, 0, 0, err
	}

	for _, item := range cart.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	tax = subtotal * orderTaxRate
	return subtotal, tax, subtotal + tax, nil
}

// CancelOrder restores each line's quantity to its product and marks the
// order cancelled. Only pending orders owned by the caller (or any order for
// an admin) may be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, userID int, isAdmin bool, orderID int) error {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if !isAdmin && order.UserID != userID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Pending check happens under the transaction; a concurrent cancel
		// sees zero rows here and never reaches the stock restore.
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
			Update("status", models.OrderStatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidState
		}

		for _, item := range order.Items {
			restore := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if restore.Error != nil {
				return restore.Error
			}
		}
		return nil
	})
}

// UpdateStatus moves an order along the status state machine. Cancellation is
// rejected here so that it always goes through CancelOrder and restores stock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, newStatus string) error {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if newStatus == models.OrderStatusCancelled || !models.CanTransition(order.Status, newStatus) {
		return ErrInvalidTransition
	}

	updates := map[string]any{"status": newStatus}
	if newStatus == models.OrderStatusDelivered {
		now := time.Now()
		updates["is_delivered"] = true
		updates["delivered_at"] = &now
	}

	return s.db.WithContext(ctx).Model(&order).Updates(updates).Error
}

// MarkPaid records a confirmed payment against the pending order holding the
// given payment reference and moves it to processing. Orders that already left
// pending (cancelled, or confirmed by an earlier event) return
// ErrInvalidTransition and are left untouched.
func (s *OrderService) MarkPaid(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("payment_intent_id = ?", paymentIntentID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
		Updates(map[string]any{
			"status":  models.OrderStatusProcessing,
			"is_paid": true,
			"paid_at": &now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID int, isAdmin bool, orderID int) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		return nil, ErrNotOwner
	}

	return &order, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// nextOrderNumber reserves the next number in the day's sequence, formatted
// ORD-YYYYMMDD-NNN. The per-day counter row is bumped with an atomic upsert so
// concurrent checkouts on the same day cannot collide.
func nextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"seq": gorm.Expr("seq + 1"),
		}),
	}).Create(&models.OrderSequence{Day: day, Seq: 1}).Error
	if err != nil {
		return "", err
	}

	var seq models.OrderSequence
	if err := tx.Where("day = ?", day).First(&seq).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%s-%03d", day, seq.Seq), nil
}
