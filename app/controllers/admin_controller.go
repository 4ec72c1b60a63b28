package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/ctx"
)

const adminDefaultLimit = 20

type AdminController struct {
	service *services.AdminService
}

func NewAdminController(service *services.AdminService) *AdminController {
	return &AdminController{service: service}
}

// GET /api/admin/stats
func (ac *AdminController) Stats(c *ctx.Context) {
	stats, err := ac.service.Stats(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(stats)
}

// GET /api/admin/products
func (ac *AdminController) Products(c *ctx.Context) {
	products, err := ac.service.Products(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"products": products, "count": len(products)})
}

// POST /api/admin/products
func (ac *AdminController) StoreProduct(c *ctx.Context) {
	var input services.ProductInput
	if !c.Decode(&input) {
		return
	}
	product, err := ac.service.CreateProduct(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Product created successfully", product)
}

// PUT /api/admin/products/{id}
func (ac *AdminController) UpdateProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	var patch services.ProductPatch
	if !c.Decode(&patch) {
		return
	}
	product, err := ac.service.UpdateProduct(c.Context(), id, patch)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product updated successfully", product)
}

// DELETE /api/admin/products/{id}
func (ac *AdminController) DestroyProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	if err := ac.service.DeleteProduct(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product deleted successfully", nil)
}

// POST /api/admin/products/{id}/image (multipart field "image")
func (ac *AdminController) UploadProductImage(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}

	limit := config.ProductImageMaxBytes()
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, limit+1<<20)
	file, header, err := c.R.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		msg := "The image field is required."
		if errors.As(err, &maxErr) {
			msg = "The image is too large."
		}
		c.Fail(apperr.Validation("The given data was invalid.", map[string]string{"image": msg}))
		return
	}
	defer file.Close()

	// Content type comes from the bytes, not the part header.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		c.Fail(apperr.Internal("image upload failed", err))
		return
	}
	head = head[:n]

	product, err := ac.service.UploadProductImage(c.Context(), id, services.ImageUpload{
		ContentType: http.DetectContentType(head),
		Size:        header.Size,
		Body:        io.MultiReader(bytes.NewReader(head), file),
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product image uploaded successfully", product)
}

// GET /api/admin/orders?page=&limit=&status=
func (ac *AdminController) Orders(c *ctx.Context) {
	orders, meta, err := ac.service.Orders(
		c.Context(),
		c.QueryInt("page", 1),
		c.QueryInt("limit", adminDefaultLimit),
		c.Query("status"),
	)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(orders, meta)
}

// GET /api/admin/orders/{id}/details
func (ac *AdminController) OrderDetails(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	details, err := ac.service.OrderDetails(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(details)
}

// PUT /api/admin/orders/{id}/status
func (ac *AdminController) UpdateOrderStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	var input services.StatusInput
	if !c.Decode(&input) {
		return
	}
	order, err := ac.service.UpdateOrderStatus(c.Context(), id, input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Order status updated successfully", order)
}

// GET /api/admin/users?page=&limit=
func (ac *AdminController) Users(c *ctx.Context) {
	users, meta, err := ac.service.Users(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", adminDefaultLimit))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(users, meta)
}
