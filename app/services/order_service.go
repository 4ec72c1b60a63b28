package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/brewandco/app/events"
	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/cache"
	"github.com/shashiranjanraj/brewandco/pkg/event"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const idempotencyTTL = 24 * time.Hour

var centTolerance = decimal.New(1, -2)

// OrderLine is one cart line as submitted at checkout. The product id is
// accepted as either "id" or "product_id".
type OrderLine struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id" validate:"gt=0"`
	Name      string  `json:"name"       validate:"nullable,max=120"`
	Price     float64 `json:"price"      validate:"gt=0"`
	Quantity  int     `json:"quantity"   validate:"gt=0"`
}

type CreateOrderInput struct {
	Items         []OrderLine `json:"items"          validate:"required,dive"`
	TotalAmount   *float64    `json:"total_amount"   validate:"nullable,gte=0"`
	Notes         *string     `json:"notes"          validate:"nullable,max=1000"`
	CustomerName  *string     `json:"customer_name"  validate:"nullable,max=120"`
	CustomerPhone *string     `json:"customer_phone" validate:"nullable,max=20"`
	CustomerEmail *string     `json:"customer_email" validate:"nullable,email,max=255"`

	// IdempotencyKey comes from the Idempotency-Key header.
	IdempotencyKey string `json:"-"`
}

type OrderService struct {
	orders   *repositories.OrderRepository
	users    *repositories.UserRepository
	products *repositories.ProductRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(db),
		users:    repositories.NewUserRepository(db),
		products: repositories.NewProductRepository(db, config.CatalogCacheTTL()),
	}
}

func cents(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Round(2)
}

// Subtotal sums price × quantity over lines. Each price is taken to the
// cent first, so the result equals the sum of the stored lines.
func Subtotal(lines []OrderLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(cents(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Create validates the cart, snapshots the customer's contact details and
// writes the order with its lines in one transaction.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (*models.Order, error) {
	for i := range in.Items {
		if in.Items[i].ProductID == 0 {
			in.Items[i].ProductID = in.Items[i].ID
		}
		in.Items[i].Name = strings.TrimSpace(in.Items[i].Name)
		// A price below half a cent rounds to zero and fails gt=0.
		in.Items[i].Price = cents(in.Items[i].Price).InexactFloat64()
	}
	if err := invalid(&in); err != nil {
		return nil, err
	}

	subtotal := Subtotal(in.Items)
	if in.TotalAmount != nil {
		claimed := decimal.NewFromFloat(*in.TotalAmount)
		if claimed.Sub(subtotal).Abs().GreaterThan(centTolerance) {
			return nil, apperr.Validation("The given data was invalid.", map[string]string{
				"total_amount": fmt.Sprintf("The total_amount does not match the items subtotal of %s.", subtotal.StringFixed(2)),
			})
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repositories.NotFound(err) {
			return nil, apperr.Authentication("Account no longer exists")
		}
		return nil, apperr.Internal("order creation failed", err)
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for i, l := range in.Items {
		name := l.Name
		if name == "" {
			p, err := s.products.FindByID(ctx, l.ProductID)
			if err != nil {
				if repositories.NotFound(err) {
					return nil, apperr.Validation("The given data was invalid.", map[string]string{
						fmt.Sprintf("items.%d.product_id", i): "The selected product is invalid.",
					})
				}
				return nil, apperr.Internal("order creation failed", err)
			}
			name = p.Name
		}
		items = append(items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: name,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}

	idemKey := ""
	if k := strings.TrimSpace(in.IdempotencyKey); k != "" {
		idemKey = "idempotency:" + k
		fresh, err := cache.SetNX(idemKey, userID, idempotencyTTL)
		if err != nil {
			logger.WithCtx(ctx).Warn("idempotency check skipped", "error", err)
			idemKey = ""
		} else if !fresh {
			return nil, apperr.Conflict("Duplicate order request")
		}
	}

	order := &models.Order{
		UserID:        userID,
		CustomerName:  override(in.CustomerName, user.DisplayName()),
		CustomerPhone: override(in.CustomerPhone, user.Phone),
		CustomerEmail: override(in.CustomerEmail, user.Email),
		TotalAmount:   subtotal.InexactFloat64(),
		Status:        models.StatusPending,
		Notes:         deref(in.Notes),
	}
	if err := s.orders.Create(ctx, order, items); err != nil {
		if idemKey != "" {
			_ = cache.Del(idemKey)
		}
		return nil, apperr.Internal("order creation failed", err)
	}

	metrics.RecordOrder(order.TotalAmount)
	logger.WithCtx(ctx).Info("order placed", "order_id", order.ID, "user_id", userID, "items", len(items), "total", order.TotalAmount)

	event.FireAsync(ctx, events.OrderPlaced, events.OrderPlacedPayload{
		OrderID:       order.ID,
		UserID:        userID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		ItemCount:     len(items),
		PlacedAt:      order.CreatedAt,
	})
	return order, nil
}

func override(v *string, fallback string) string {
	if s := deref(v); s != "" {
		return s
	}
	return fallback
}

// ListForUser returns the user's orders with lines, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("order lookup failed", err)
	}
	return orders, nil
}

// GetForUser hides orders owned by someone else behind NotFound.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.orders.FindForUser(ctx, userID, orderID)
	if err != nil {
		if repositories.NotFound(err) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("order lookup failed", err)
	}
	return &order, nil
}
