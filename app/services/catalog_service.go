package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"gorm.io/gorm"
)

// CatalogService serves the public menu. Reads go through the catalog
// cache when Redis is reachable.
type CatalogService struct {
	products *repositories.ProductRepository
	popular  int
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		products: repositories.NewProductRepository(db, config.CatalogCacheTTL()),
		popular:  config.CatalogPopularLimit(),
	}
}

func (s *CatalogService) List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, error) {
	f.Category = strings.TrimSpace(f.Category)
	products, err := s.products.Available(ctx, f)
	if err != nil {
		return nil, apperr.Internal("catalog unavailable", err)
	}
	return products, nil
}

func (s *CatalogService) Popular(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Popular(ctx, s.popular)
	if err != nil {
		return nil, apperr.Internal("catalog unavailable", err)
	}
	return products, nil
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.products.ByCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Internal("catalog unavailable", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if repositories.NotFound(err) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("catalog unavailable", err)
	}
	return &p, nil
}

// Warm fills the cache for the common listings. The scheduler calls it.
func (s *CatalogService) Warm(ctx context.Context) error {
	if _, err := s.List(ctx, repositories.ProductFilter{}); err != nil {
		return err
	}
	_, err := s.Popular(ctx)
	return err
}
