package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/pkg/orm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Totals is an order count with the revenue of the non-cancelled ones.
type Totals struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ProductSales aggregates order lines per product.
type ProductSales struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

const adminOrderColumns = "orders.*, COALESCE(users.username, '') AS customer_username"

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create writes the order and its lines in one transaction. On error nothing
// is persisted. On success order.Items holds the stored lines.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	defer observe("orders.create")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("orders: create: %w", err)
	}
	order.Items = items
	return nil
}

// ListByUser returns a user's orders with lines, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	defer observe("orders.list_user")()

	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders: list user %d: %w", userID, err)
	}
	return orders, nil
}

// FindForUser returns the order only when it belongs to userID.
func (r *OrderRepository) FindForUser(ctx context.Context, userID, id uint) (models.Order, error) {
	defer observe("orders.find_user")()

	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return order, fmt.Errorf("orders: find %d for user %d: %w", id, userID, err)
	}
	return order, nil
}

// FindByID returns any order with its lines.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	defer observe("orders.find")()

	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return order, fmt.Errorf("orders: find %d: %w", id, err)
	}
	return order, nil
}

// AdminList pages through every order joined with the ordering username.
// An empty status means all statuses.
func (r *OrderRepository) AdminList(ctx context.Context, p orm.Page, status string) ([]models.AdminOrder, orm.Pagination, error) {
	defer observe("orders.admin_list")()

	db := r.db.WithContext(ctx)

	count := db.Model(&models.Order{})
	if status != "" {
		count = count.Where("status = ?", status)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("orders: admin count: %w", err)
	}

	q := db.Table("orders").
		Select(adminOrderColumns).
		Joins("LEFT JOIN users ON users.id = orders.user_id")
	if status != "" {
		q = q.Where("orders.status = ?", status)
	}

	orders := []models.AdminOrder{}
	err := q.Order("orders.created_at desc, orders.id desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("orders: admin list: %w", err)
	}
	return orders, orm.NewPagination(total, p), nil
}

// Recent returns the n newest orders with customer usernames.
func (r *OrderRepository) Recent(ctx context.Context, n int) ([]models.AdminOrder, error) {
	defer observe("orders.recent")()

	orders := []models.AdminOrder{}
	err := r.db.WithContext(ctx).Table("orders").
		Select(adminOrderColumns).
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at desc, orders.id desc").
		Limit(n).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders: recent: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the status column. Callers check existence first.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	defer observe("orders.update_status")()

	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
	if err != nil {
		return fmt.Errorf("orders: update status %d: %w", id, err)
	}
	return nil
}

// Totals counts orders created at or after since (zero time for all) and
// sums the revenue of those not cancelled.
func (r *OrderRepository) Totals(ctx context.Context, since time.Time) (Totals, error) {
	defer observe("orders.totals")()

	var t Totals
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Select(
		"COUNT(*) AS count, COALESCE(SUM(CASE WHEN status <> ? THEN total_amount ELSE 0 END), 0) AS revenue",
		models.StatusCancelled,
	).Scan(&t).Error
	if err != nil {
		return t, fmt.Errorf("orders: totals: %w", err)
	}
	return t, nil
}

// ActiveCustomers counts distinct users that placed at least one order.
func (r *OrderRepository) ActiveCustomers(ctx context.Context) (int64, error) {
	defer observe("orders.active_customers")()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Distinct("user_id").Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("orders: active customers: %w", err)
	}
	return n, nil
}

// TopProducts ranks products by quantity across every order line.
func (r *OrderRepository) TopProducts(ctx context.Context, n int) ([]ProductSales, error) {
	defer observe("orders.top_products")()

	rows := []ProductSales{}
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("product_id, product_name, SUM(quantity) AS quantity_sold, SUM(quantity * price) AS revenue").
		Group("product_id, product_name").
		Order("quantity_sold desc, product_name asc").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("orders: top products: %w", err)
	}
	return rows, nil
}
