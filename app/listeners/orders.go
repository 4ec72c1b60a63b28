// Package listeners reacts to order events: confirmation mail, the admin
// live feed and the Kafka order topic.
package listeners

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/brewandco/app/events"
	"github.com/shashiranjanraj/brewandco/app/jobs"
	"github.com/shashiranjanraj/brewandco/pkg/broker"
	"github.com/shashiranjanraj/brewandco/pkg/event"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/queue"
)

// Broadcaster is the slice of *ws.Hub the listeners use.
type Broadcaster interface {
	Publish(v any)
}

// Dispatcher queues a job. queue.Dispatch in production.
type Dispatcher func(job queue.Job) error

// Message is what the live feed and the broker carry.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Orders holds the collaborators of the order listeners. A nil Hub skips
// the live feed; a nil Publisher is treated as broker.Nop.
type Orders struct {
	Hub       Broadcaster
	Publisher broker.Publisher
	Dispatch  Dispatcher
}

// Register subscribes the order listeners to the event dispatcher.
func (o *Orders) Register() {
	event.Listen(events.OrderPlaced, o.OrderPlaced)
	event.Listen(events.OrderStatusChanged, o.OrderStatusChanged)
}

func (o *Orders) OrderPlaced(ctx context.Context, payload any) {
	p, ok := payload.(events.OrderPlacedPayload)
	if !ok {
		logger.WithCtx(ctx).Error("listeners: unexpected payload", "event", events.OrderPlaced, "type", fmt.Sprintf("%T", payload))
		return
	}

	if o.Dispatch != nil {
		if err := o.Dispatch(&jobs.OrderConfirmation{OrderID: p.OrderID}); err != nil {
			logger.WithCtx(ctx).Error("listeners: queue confirmation mail", "order_id", p.OrderID, "error", err)
		}
	}
	o.fanOut(ctx, events.OrderPlaced, p.OrderID, p)
}

func (o *Orders) OrderStatusChanged(ctx context.Context, payload any) {
	p, ok := payload.(events.OrderStatusChangedPayload)
	if !ok {
		logger.WithCtx(ctx).Error("listeners: unexpected payload", "event", events.OrderStatusChanged, "type", fmt.Sprintf("%T", payload))
		return
	}
	o.fanOut(ctx, events.OrderStatusChanged, p.OrderID, p)
}

func (o *Orders) fanOut(ctx context.Context, name string, orderID uint, data any) {
	msg := Message{Event: name, Data: data}
	if o.Hub != nil {
		o.Hub.Publish(msg)
	}
	if o.Publisher == nil {
		return
	}
	key := fmt.Sprintf("order-%d", orderID)
	if err := o.Publisher.Publish(ctx, key, msg); err != nil {
		logger.WithCtx(ctx).Error("listeners: publish order event", "event", name, "order_id", orderID, "error", err)
	}
}

// New wires the order listeners onto queue.Dispatch. The workers decode
// the confirmation job with the store bound by jobs.Register.
func New(hub Broadcaster, pub broker.Publisher) *Orders {
	return &Orders{Hub: hub, Publisher: pub, Dispatch: queue.Dispatch}
}
