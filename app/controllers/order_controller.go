package controllers

import (
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// POST /api/orders
func (oc *OrderController) Store(c *ctx.Context) {
	var input services.CreateOrderInput
	if !c.Decode(&input) {
		return
	}
	input.IdempotencyKey = c.Header("Idempotency-Key")

	claims, _ := c.Claims()
	order, err := oc.service.Create(c.Context(), claims.UserID, input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Order placed successfully", map[string]any{
		"orderId":      order.ID,
		"total_amount": order.TotalAmount,
		"status":       order.Status,
	})
}

// GET /api/user/orders
func (oc *OrderController) Index(c *ctx.Context) {
	claims, _ := c.Claims()
	orders, err := oc.service.ListForUser(c.Context(), claims.UserID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// GET /api/orders/{id}
func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	claims, _ := c.Claims()
	order, err := oc.service.GetForUser(c.Context(), claims.UserID, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(order)
}
