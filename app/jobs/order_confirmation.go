// Package jobs holds the queued background jobs.
package jobs

import (
	"context"
	"fmt"
	"html/template"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/mail"
	"github.com/shashiranjanraj/brewandco/pkg/queue"
	"gorm.io/gorm"
)

// OrderConfirmationName is the queue registry name of OrderConfirmation.
const OrderConfirmationName = "order.confirmation"

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`<h2>Thanks for your order, {{.CustomerName}}!</h2>
<p>Order #{{.ID}} is {{.Status}}.</p>
<table>
{{range .Items}}<tr><td>{{.Quantity}} × {{.ProductName}}</td><td>${{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p><strong>Total: ${{printf "%.2f" .TotalAmount}}</strong></p>
{{with .Notes}}<p>Notes: {{.}}</p>{{end}}
<p>Brew &amp; Co</p>`))

// OrderConfirmation mails the order summary to the contact email captured
// at checkout.
type OrderConfirmation struct {
	OrderID uint `json:"order_id"`

	orders *repositories.OrderRepository
}

func (OrderConfirmation) JobName() string { return OrderConfirmationName }

func (j *OrderConfirmation) Handle(ctx context.Context) error {
	if j.orders == nil {
		return fmt.Errorf("jobs: %s not registered with a store", OrderConfirmationName)
	}

	order, err := j.orders.FindByID(ctx, j.OrderID)
	if err != nil {
		if repositories.NotFound(err) {
			logger.WithCtx(ctx).Warn("jobs: order vanished before confirmation", "order_id", j.OrderID)
			return nil
		}
		return err
	}
	if order.CustomerEmail == "" {
		logger.WithCtx(ctx).Info("jobs: order has no contact email", "order_id", order.ID)
		return nil
	}

	return mail.To(order.CustomerEmail).
		WithSubject(Subject(order)).
		Template(confirmationTmpl, order).
		Send(ctx)
}

// Subject is the confirmation mail subject line.
func Subject(o models.Order) string {
	return fmt.Sprintf("Your Brew & Co order #%d", o.ID)
}

// NewOrderConfirmation builds a job bound to db, ready to Handle or Dispatch.
func NewOrderConfirmation(db *gorm.DB, orderID uint) *OrderConfirmation {
	return &OrderConfirmation{OrderID: orderID, orders: repositories.NewOrderRepository(db)}
}

// Register makes every job type in this package decodable by the queue
// workers. Jobs built by the factories read from db.
func Register(db *gorm.DB) {
	queue.Register(OrderConfirmationName, func() queue.Job {
		return NewOrderConfirmation(db, 0)
	})
}
