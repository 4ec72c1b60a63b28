package listeners_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shashiranjanraj/brewandco/app/events"
	"github.com/shashiranjanraj/brewandco/app/jobs"
	"github.com/shashiranjanraj/brewandco/app/listeners"
	"github.com/shashiranjanraj/brewandco/pkg/event"
	"github.com/shashiranjanraj/brewandco/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, key string, v any) error {
	return m.Called(key, v).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

type recordingHub struct{ got []any }

func (h *recordingHub) Publish(v any) { h.got = append(h.got, v) }

func placed() events.OrderPlacedPayload {
	return events.OrderPlacedPayload{
		OrderID:       42,
		UserID:        7,
		CustomerName:  "Alice",
		CustomerEmail: "alice@x.com",
		TotalAmount:   7,
		ItemCount:     1,
		PlacedAt:      time.Now(),
	}
}

func TestOrderPlacedFansOut(t *testing.T) {
	hub := &recordingHub{}
	pub := &mockPublisher{}
	var queued []queue.Job

	p := placed()
	want := listeners.Message{Event: events.OrderPlaced, Data: p}
	pub.On("Publish", "order-42", want).Return(nil).Once()

	o := &listeners.Orders{
		Hub:       hub,
		Publisher: pub,
		Dispatch:  func(j queue.Job) error { queued = append(queued, j); return nil },
	}
	o.OrderPlaced(context.Background(), p)

	pub.AssertExpectations(t)
	assert.Equal(t, []any{want}, hub.got)
	require.Len(t, queued, 1)
	job, ok := queued[0].(*jobs.OrderConfirmation)
	require.True(t, ok)
	assert.EqualValues(t, 42, job.OrderID)
}

func TestStatusChangedSkipsMail(t *testing.T) {
	hub := &recordingHub{}
	pub := &mockPublisher{}
	dispatched := false

	p := events.OrderStatusChangedPayload{OrderID: 3, UserID: 1, From: "pending", To: "ready", ChangedAt: time.Now()}
	pub.On("Publish", "order-3", mock.Anything).Return(errors.New("broker down"))

	o := &listeners.Orders{
		Hub:       hub,
		Publisher: pub,
		Dispatch:  func(queue.Job) error { dispatched = true; return nil },
	}
	o.OrderStatusChanged(context.Background(), p)

	pub.AssertNumberOfCalls(t, "Publish", 1)
	assert.False(t, dispatched)
	assert.Len(t, hub.got, 1)
}

func TestUnexpectedPayloadIsIgnored(t *testing.T) {
	hub := &recordingHub{}
	o := &listeners.Orders{Hub: hub}

	o.OrderPlaced(context.Background(), "not a payload")
	o.OrderStatusChanged(context.Background(), 12)

	assert.Empty(t, hub.got)
}

func TestRegisterSubscribesBothEvents(t *testing.T) {
	defer event.Flush()

	hub := &recordingHub{}
	(&listeners.Orders{Hub: hub}).Register()

	event.Fire(context.Background(), events.OrderPlaced, placed())
	event.Fire(context.Background(), events.OrderStatusChanged, events.OrderStatusChangedPayload{OrderID: 1})

	assert.Len(t, hub.got, 2)
}
