package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kymani/dukahub-api/models"
)

// lowStockThreshold flags products running out on the admin dashboard.
const lowStockThreshold = 5

// salesWindowDays is the size of the dashboard sales chart window.
const salesWindowDays = 30

type MetricsSummary struct {
	Revenue      float64 `json:"revenue"`
	OrderCount   int64   `json:"orderCount"`
	UserCount    int64   `json:"userCount"`
	ProductCount int64   `json:"productCount"`
}

type DailySale struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type TopProduct struct {
	ProductID     int    `json:"productId"`
	Name          string `json:"name"`
	TotalQuantity int    `json:"totalQuantity"`
}

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Summary aggregates revenue over paid orders plus row counts for the
// dashboard header cards.
func (s *AdminService) Summary(ctx context.Context) (*MetricsSummary, error) {
	var summary MetricsSummary

	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("is_paid = ?", true).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&summary.Revenue).Error
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&summary.OrderCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&summary.UserCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&summary.ProductCount).Error; err != nil {
		return nil, err
	}

	return &summary, nil
}

// DailySales buckets paid-order totals by paid date over the last 30 days,
// zero-filling days with no sales. Bucketing happens in Go to stay portable
// across SQL dialects.
func (s *AdminService) DailySales(ctx context.Context, now time.Time) ([]DailySale, error) {
	start := now.AddDate(0, 0, -(salesWindowDays - 1)).Truncate(24 * time.Hour)

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("is_paid = ? AND paid_at >= ?", true, start).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, order := range orders {
		if order.PaidAt == nil {
			continue
		}
		totals[order.PaidAt.Format("2006-01-02")] += order.TotalPrice
	}

	sales := make([]DailySale, salesWindowDays)
	for i := range sales {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		sales[i] = DailySale{Date: day, Total: totals[day]}
	}

	return sales, nil
}

// TopProducts returns the five products with the highest quantity sold.
func (s *AdminService) TopProducts(ctx context.Context) ([]TopProduct, error) {
	var rows []TopProduct
	err := s.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("product_id, name, SUM(quantity) AS total_quantity").
		Group("product_id, name").
		Order("total_quantity DESC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AdminService) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("stock < ?", lowStockThreshold).
		Order("stock asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListOrders pages through all orders, optionally filtered by a
// case-insensitive substring match on order number or customer name/email.
func (s *AdminService) ListOrders(ctx context.Context, page, limit int, search, sortOrder string) ([]models.Order, int64, error) {
	filtered := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Order{})
		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.
				Joins("JOIN users ON users.id = orders.user_id").
				Where(
					"LOWER(orders.order_number) LIKE ? OR LOWER(users.fullname) LIKE ? OR LOWER(users.email) LIKE ?",
					pattern, pattern, pattern,
				)
		}
		return query
	}

	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := filtered().
		Preload("Items").
		Order("orders.created_at " + sortOrder).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int, search string) ([]models.User, int64, error) {
	filtered := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.User{})
		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(fullname) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		return query
	}

	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := filtered().
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

// UpdateUserRole assigns a role to another user. Changing your own role is
// rejected regardless of target role.
func (s *AdminService) UpdateUserRole(ctx context.Context, callerID, userID int, role string) error {
	if callerID == userID {
		return ErrSelfRoleChange
	}
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&user).Update("role", role).Error
}
