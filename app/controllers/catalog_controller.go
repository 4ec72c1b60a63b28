package controllers

import (
	"strconv"

	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/pkg/ctx"
)

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController(service *services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

// GET /api/products?category=&popular=
func (cc *CatalogController) Index(c *ctx.Context) {
	popular, _ := strconv.ParseBool(c.Query("popular"))
	products, err := cc.service.List(c.Context(), repositories.ProductFilter{
		Category:    c.Query("category"),
		PopularOnly: popular,
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

// GET /api/products/popular
func (cc *CatalogController) Popular(c *ctx.Context) {
	products, err := cc.service.Popular(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

// GET /api/products/category/{category}
func (cc *CatalogController) Category(c *ctx.Context) {
	products, err := cc.service.ByCategory(c.Context(), c.Param("category"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

// GET /api/products/{id}
func (cc *CatalogController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	product, err := cc.service.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(product)
}
