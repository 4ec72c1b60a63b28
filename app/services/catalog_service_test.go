package services_test

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMenu(t *testing.T, db *gorm.DB) []models.Product {
	t.Helper()
	menu := []models.Product{
		{Name: "Latte", Price: 4.5, Category: "coffee", Popular: true, Rating: 4.8, IsAvailable: true},
		{Name: "Espresso", Price: 3, Category: "coffee", Popular: true, Rating: 4.9, IsAvailable: true},
		{Name: "Americano", Price: 3.5, Category: "coffee", Rating: 4.2, IsAvailable: true},
		{Name: "Croissant", Price: 2.25, Category: "pastry", Popular: true, Rating: 4.5, IsAvailable: true},
		{Name: "Seasonal Tart", Price: 5, Category: "pastry", Popular: true, Rating: 5},
	}
	for i := range menu {
		require.NoError(t, db.Create(&menu[i]).Error)
	}
	return menu
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestCatalogListsOnlyAvailable(t *testing.T) {
	db := testkit.DB(t)
	seedMenu(t, db)
	svc := services.NewCatalogService(db)

	all, err := svc.List(context.Background(), repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Americano", "Espresso", "Latte", "Croissant"}, names(all))

	pastry, err := svc.List(context.Background(), repositories.ProductFilter{Category: "pastry"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Croissant"}, names(pastry))

	popular, err := svc.List(context.Background(), repositories.ProductFilter{PopularOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Espresso", "Latte", "Croissant"}, names(popular))
}

func TestCatalogPopularByRating(t *testing.T) {
	db := testkit.DB(t)
	seedMenu(t, db)

	popular, err := services.NewCatalogService(db).Popular(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Espresso", "Latte", "Croissant"}, names(popular))
}

func TestCatalogByCategory(t *testing.T) {
	db := testkit.DB(t)
	seedMenu(t, db)

	coffee, err := services.NewCatalogService(db).ByCategory(context.Background(), "coffee")
	require.NoError(t, err)
	assert.Equal(t, []string{"Americano", "Espresso", "Latte"}, names(coffee))

	none, err := services.NewCatalogService(db).ByCategory(context.Background(), "tea")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogGet(t *testing.T) {
	db := testkit.DB(t)
	menu := seedMenu(t, db)
	svc := services.NewCatalogService(db)

	p, err := svc.Get(context.Background(), menu[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Latte", p.Name)

	_, err = svc.Get(context.Background(), 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
