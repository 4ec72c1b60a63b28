package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/pkg/cache"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/orm"
	"gorm.io/gorm"
)

// CatalogCachePrefix namespaces every cached catalog read.
const CatalogCachePrefix = "catalog:"

// ProductFilter narrows the public catalog listing.
type ProductFilter struct {
	Category    string
	PopularOnly bool
}

func (f ProductFilter) key() string {
	return CatalogCachePrefix + "list:" + f.Category + ":" + strconv.FormatBool(f.PopularOnly)
}

// ProductRepository reads the catalog cache-aside and invalidates it on
// every write.
type ProductRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewProductRepository(db *gorm.DB, cacheTTL time.Duration) *ProductRepository {
	return &ProductRepository{db: db, ttl: cacheTTL}
}

// Available lists products with is_available set, by category then name.
func (r *ProductRepository) Available(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	defer observe("products.available")()

	q := orm.Use(r.db.WithContext(ctx)).Model(&models.Product{}).Where("is_available = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.PopularOnly {
		q = q.Where("popular = ?", true)
	}

	products := []models.Product{}
	if err := q.Order("category asc, name asc").Cache(f.key(), r.ttl, &products); err != nil {
		return nil, fmt.Errorf("products: available: %w", err)
	}
	return products, nil
}

// Popular lists available popular products, best rated first.
func (r *ProductRepository) Popular(ctx context.Context, limit int) ([]models.Product, error) {
	defer observe("products.popular")()

	products := []models.Product{}
	err := orm.Use(r.db.WithContext(ctx)).
		Model(&models.Product{}).
		Where("popular = ? AND is_available = ?", true, true).
		Order("rating desc, name asc").
		Limit(limit).
		Cache(CatalogCachePrefix+"popular:"+strconv.Itoa(limit), r.ttl, &products)
	if err != nil {
		return nil, fmt.Errorf("products: popular: %w", err)
	}
	return products, nil
}

// ByCategory lists available products in category by name.
func (r *ProductRepository) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	defer observe("products.category")()

	products := []models.Product{}
	err := orm.Use(r.db.WithContext(ctx)).
		Model(&models.Product{}).
		Where("category = ? AND is_available = ?", category, true).
		Order("name asc").
		Cache(CatalogCachePrefix+"category:"+category, r.ttl, &products)
	if err != nil {
		return nil, fmt.Errorf("products: category %q: %w", category, err)
	}
	return products, nil
}

// FindByID returns one product regardless of availability. It is never
// served from cache so admin edits are visible immediately.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	defer observe("products.find")()

	var p models.Product
	if err := orm.Use(r.db.WithContext(ctx)).Where("id = ?", id).First(&p); err != nil {
		return p, fmt.Errorf("products: find %d: %w", id, err)
	}
	return p, nil
}

// All lists every product, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	defer observe("products.all")()

	products := []models.Product{}
	if err := orm.Use(r.db.WithContext(ctx)).Order("created_at desc, id desc").Get(&products); err != nil {
		return nil, fmt.Errorf("products: all: %w", err)
	}
	return products, nil
}

// CountAvailable counts products on the menu.
func (r *ProductRepository) CountAvailable(ctx context.Context) (int64, error) {
	defer observe("products.count")()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_available = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("products: count: %w", err)
	}
	return n, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer observe("products.create")()

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("products: create: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

// UpdateFields writes only the given columns. Callers check existence first.
func (r *ProductRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	defer observe("products.update")()

	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return fmt.Errorf("products: update %d: %w", id, err)
		}
	}
	r.invalidate(ctx)
	return nil
}

// Delete removes a product. A missing row is gorm.ErrRecordNotFound.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer observe("products.delete")()

	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("products: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("products: delete %d: %w", id, gorm.ErrRecordNotFound)
	}
	r.invalidate(ctx)
	return nil
}

// Invalidate drops every cached catalog read.
func (r *ProductRepository) Invalidate(ctx context.Context) { r.invalidate(ctx) }

func (r *ProductRepository) invalidate(ctx context.Context) {
	if err := cache.Forget(CatalogCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}
