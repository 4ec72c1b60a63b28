package jobs_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shashiranjanraj/brewandco/app/jobs"
	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/pkg/mail"
	"github.com/shashiranjanraj/brewandco/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct {
	mu   sync.Mutex
	sent []*mail.Message
}

func (o *outbox) Send(_ context.Context, m *mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

func useOutbox(t *testing.T) *outbox {
	t.Helper()
	box := &outbox{}
	mail.SetSender(box)
	t.Cleanup(func() { mail.SetSender(nil) })
	return box
}

func TestOrderConfirmationMailsContactEmail(t *testing.T) {
	db := testkit.DB(t)
	box := useOutbox(t)

	order := models.Order{
		UserID:        1,
		CustomerName:  "Alice",
		CustomerEmail: "alice@x.com",
		TotalAmount:   7,
		Status:        models.StatusPending,
		Items:         []models.OrderItem{{ProductID: 1, ProductName: "Flat White", Quantity: 2, Price: 3.5}},
	}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, jobs.NewOrderConfirmation(db, order.ID).Handle(context.Background()))

	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, []string{"alice@x.com"}, msg.To)
	assert.Equal(t, jobs.Subject(order), msg.Subject)
	assert.True(t, strings.Contains(msg.Body, "Flat White"))
	assert.True(t, strings.Contains(msg.Body, "7.00"))
}

func TestOrderConfirmationSkipsMissingOrderAndEmail(t *testing.T) {
	db := testkit.DB(t)
	box := useOutbox(t)

	require.NoError(t, jobs.NewOrderConfirmation(db, 999).Handle(context.Background()))

	order := models.Order{UserID: 1, CustomerName: "Bob", TotalAmount: 3, Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, jobs.NewOrderConfirmation(db, order.ID).Handle(context.Background()))

	assert.Empty(t, box.sent)
}

func TestUnboundJobFails(t *testing.T) {
	assert.Error(t, (&jobs.OrderConfirmation{OrderID: 1}).Handle(context.Background()))
}
