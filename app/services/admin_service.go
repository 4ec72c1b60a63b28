package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/brewandco/app/events"
	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/event"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/orm"
	"github.com/shashiranjanraj/brewandco/pkg/storage"
	"gorm.io/gorm"
)

const (
	adminPageMax   = 100
	dashboardItems = 5
)

// ImageTypes maps accepted upload content types to file extensions.
var ImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Stats is the admin dashboard payload. It is computed on every request.
type Stats struct {
	TotalOrders   int64                       `json:"total_orders"`
	TotalRevenue  float64                     `json:"total_revenue"`
	TodayOrders   int64                       `json:"today_orders"`
	TodayRevenue  float64                     `json:"today_revenue"`
	TotalProducts int64                       `json:"total_products"`
	ActiveUsers   int64                       `json:"active_users"`
	RecentOrders  []models.AdminOrder         `json:"recent_orders"`
	TopProducts   []repositories.ProductSales `json:"top_products"`
}

// ProductInput creates a product. Omitted optional fields take defaults.
type ProductInput struct {
	Name        string   `json:"name"         validate:"required,max=120"`
	Description *string  `json:"description"  validate:"nullable,max=2000"`
	Price       float64  `json:"price"        validate:"required,gt=0"`
	Category    string   `json:"category"     validate:"required,max=50"`
	Image       *string  `json:"image"        validate:"nullable,max=500"`
	Popular     *bool    `json:"popular"`
	Rating      *float64 `json:"rating"       validate:"nullable,between=0,5"`
	Stock       *int     `json:"stock"        validate:"nullable,gte=0"`
	IsAvailable *bool    `json:"is_available"`
}

// ProductPatch is a partial update. Only non-nil fields are written.
type ProductPatch struct {
	Name        *string  `json:"name"         validate:"nullable,min=1,max=120"`
	Description *string  `json:"description"  validate:"nullable,max=2000"`
	Price       *float64 `json:"price"        validate:"nullable,gt=0"`
	Category    *string  `json:"category"     validate:"nullable,min=1,max=50"`
	Image       *string  `json:"image"        validate:"nullable,max=500"`
	Popular     *bool    `json:"popular"`
	Rating      *float64 `json:"rating"       validate:"nullable,between=0,5"`
	Stock       *int     `json:"stock"        validate:"nullable,gte=0"`
	IsAvailable *bool    `json:"is_available"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (p ProductPatch) fields() map[string]any {
	f := map[string]any{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.Price != nil {
		f["price"] = *p.Price
	}
	if p.Category != nil {
		f["category"] = *p.Category
	}
	if p.Image != nil {
		f["image"] = *p.Image
	}
	if p.Popular != nil {
		f["popular"] = *p.Popular
	}
	if p.Rating != nil {
		f["rating"] = *p.Rating
	}
	if p.Stock != nil {
		f["stock"] = *p.Stock
	}
	if p.IsAvailable != nil {
		f["is_available"] = *p.IsAvailable
	}
	return f
}

type StatusInput struct {
	Status string `json:"status" validate:"required,in=pending,confirmed,preparing,ready,completed,cancelled"`
}

// ImageUpload is a product image read from a multipart form.
type ImageUpload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// OrderDetails is an order with its lines and the ordering customer.
type OrderDetails struct {
	Order    models.Order       `json:"order"`
	Items    []models.OrderItem `json:"items"`
	Customer *models.User       `json:"customer"`
}

type AdminService struct {
	users    *repositories.UserRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{
		users:    repositories.NewUserRepository(db),
		products: repositories.NewProductRepository(db, config.CatalogCacheTTL()),
		orders:   repositories.NewOrderRepository(db),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.orders.Totals(ctx, time.Time{})
	if err != nil {
		return nil, apperr.Internal("stats unavailable", err)
	}
	today, err := s.orders.Totals(ctx, startOfDay(time.Now()))
	if err != nil {
		return nil, apperr.Internal("stats unavailable", err)
	}
	products, err := s.products.CountAvailable(ctx)
	if err != nil {
		return nil, apperr.Internal("stats unavailable", err)
	}
	active, err := s.orders.ActiveCustomers(ctx)
	if err != nil {
		return nil, apperr.Internal("stats unavailable", err)
	}
	recent, err := s.orders.Recent(ctx, dashboardItems)
	if err != nil {
		return nil, apperr.Internal("stats unavailable", err)
	}
	top, err := s.orders.TopProducts(ctx, dashboardItems)
	if err != nil {
		return nil, apperr.Internal("stats unavailable", err)
	}

	return &Stats{
		TotalOrders:   all.Count,
		TotalRevenue:  all.Revenue,
		TodayOrders:   today.Count,
		TodayRevenue:  today.Revenue,
		TotalProducts: products,
		ActiveUsers:   active,
		RecentOrders:  recent,
		TopProducts:   top,
	}, nil
}

// Products lists every product, available or not, newest first.
func (s *AdminService) Products(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, apperr.Internal("product lookup failed", err)
	}
	return products, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := invalid(&in); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        in.Name,
		Description: deref(in.Description),
		Price:       in.Price,
		Category:    in.Category,
		Image:       deref(in.Image),
		IsAvailable: true,
	}
	if in.Popular != nil {
		p.Popular = *in.Popular
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, apperr.Internal("product create failed", err)
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID)
	return p, nil
}

func (s *AdminService) product(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if repositories.NotFound(err) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("product lookup failed", err)
	}
	return &p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	patch.Name = trimmed(patch.Name)
	patch.Category = trimmed(patch.Category)
	if err := invalid(&patch); err != nil {
		return nil, err
	}
	if _, err := s.product(ctx, id); err != nil {
		return nil, err
	}

	fields := patch.fields()
	if err := s.products.UpdateFields(ctx, id, fields); err != nil {
		return nil, apperr.Internal("product update failed", err)
	}
	logger.WithCtx(ctx).Info("product updated", "product_id", id, "fields", len(fields))
	return s.product(ctx, id)
}

func (s *AdminService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if repositories.NotFound(err) {
			return apperr.NotFound("Product not found")
		}
		return apperr.Internal("product delete failed", err)
	}
	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	return nil
}

// UploadProductImage stores the image on the default disk and points the
// product at its public URL.
func (s *AdminService) UploadProductImage(ctx context.Context, id uint, up ImageUpload) (*models.Product, error) {
	ext, ok := ImageTypes[up.ContentType]
	if !ok {
		return nil, apperr.Validation("The given data was invalid.", map[string]string{
			"image": "The image must be a jpeg, png, webp or gif file.",
		})
	}

	limit := config.ProductImageMaxBytes()
	tooLarge := apperr.Validation("The given data was invalid.", map[string]string{
		"image": fmt.Sprintf("The image must not be greater than %d bytes.", limit),
	})
	if up.Size > limit {
		return nil, tooLarge
	}

	if _, err := s.product(ctx, id); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(up.Body, limit+1)); err != nil {
		return nil, apperr.Internal("image upload failed", err)
	}
	if int64(buf.Len()) > limit {
		return nil, tooLarge
	}

	disk := storage.Default()
	path := fmt.Sprintf("products/%d/%s.%s", id, uuid.NewString(), ext)
	if err := disk.Put(ctx, path, &buf, up.ContentType); err != nil {
		return nil, apperr.Internal("image upload failed", err)
	}

	if err := s.products.UpdateFields(ctx, id, map[string]any{"image": disk.URL(path)}); err != nil {
		_ = disk.Delete(ctx, path)
		return nil, apperr.Internal("image upload failed", err)
	}
	logger.WithCtx(ctx).Info("product image stored", "product_id", id, "path", path)
	return s.product(ctx, id)
}

// Orders pages through every order. status filters when non-empty.
func (s *AdminService) Orders(ctx context.Context, page, limit int, status string) ([]models.AdminOrder, orm.Pagination, error) {
	status = strings.TrimSpace(status)
	if status != "" && !models.ValidStatus(status) {
		return nil, orm.Pagination{}, apperr.Validation("The given data was invalid.", map[string]string{
			"status": "The selected status is invalid.",
		})
	}

	orders, meta, err := s.orders.AdminList(ctx, orm.NewPage(page, limit, adminPageMax), status)
	if err != nil {
		return nil, meta, apperr.Internal("order lookup failed", err)
	}
	return orders, meta, nil
}

func (s *AdminService) order(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if repositories.NotFound(err) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("order lookup failed", err)
	}
	return &order, nil
}

// OrderDetails returns the order, its lines and the customer when the
// account still exists.
func (s *AdminService) OrderDetails(ctx context.Context, id uint) (*OrderDetails, error) {
	order, err := s.order(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &OrderDetails{Items: order.Items}
	if user, err := s.users.FindByID(ctx, order.UserID); err == nil {
		d.Customer = &user
	} else if !repositories.NotFound(err) {
		return nil, apperr.Internal("order lookup failed", err)
	}
	if d.Items == nil {
		d.Items = []models.OrderItem{}
	}
	order.Items = nil
	d.Order = *order
	return d, nil
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, id uint, in StatusInput) (*models.Order, error) {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if err := invalid(&in); err != nil {
		return nil, err
	}

	order, err := s.order(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status

	if err := s.orders.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, apperr.Internal("order update failed", err)
	}
	order.Status = in.Status

	logger.WithCtx(ctx).Info("order status changed", "order_id", id, "from", previous, "to", in.Status)
	event.FireAsync(ctx, events.OrderStatusChanged, events.OrderStatusChangedPayload{
		OrderID:   id,
		UserID:    order.UserID,
		From:      previous,
		To:        in.Status,
		ChangedAt: time.Now(),
	})
	return order, nil
}

// Users pages through customer accounts, newest first.
func (s *AdminService) Users(ctx context.Context, page, limit int) ([]models.User, orm.Pagination, error) {
	users, meta, err := s.users.Paginate(ctx, orm.NewPage(page, limit, adminPageMax))
	if err != nil {
		return nil, meta, apperr.Internal("user lookup failed", err)
	}
	return users, meta, nil
}
