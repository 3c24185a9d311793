package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// orderTransitions is the set of legal status moves. cancelled and delivered
// are terminal; cancellation itself goes through the dedicated cancel path so
// that stock is restored alongside the status change.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	gorm.Model
	UserID          int            `json:"userId" gorm:"index"`
	OrderNumber     string         `json:"orderNumber" gorm:"uniqueIndex;size:32"`
	Status          string         `json:"status" gorm:"index"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	TotalPrice      float64        `json:"totalPrice"`
	ShippingAddress datatypes.JSON `json:"shippingAddress"`
	PaymentIntentID string         `json:"paymentIntentId" gorm:"index;size:191"`
	IsPaid          bool           `json:"isPaid"`
	PaidAt          *time.Time     `json:"paidAt"`
	IsDelivered     bool           `json:"isDelivered"`
	DeliveredAt     *time.Time     `json:"deliveredAt"`
	Items           []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots the product at order time so historical orders stay
// stable when the catalog changes later.
type OrderItem struct {
	gorm.Model
	OrderID   int     `json:"orderId" gorm:"index"`
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderSequence is a per-day counter backing order number generation. The row
// for a day is incremented atomically inside the order-creation transaction.
type OrderSequence struct {
	Day string `gorm:"primaryKey;size:8"`
	Seq int    `gorm:"not null"`
}
