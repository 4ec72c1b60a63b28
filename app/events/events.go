// Package events names the domain events fired by the services and the
// payloads they carry.
package events

import "time"

const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
)

// OrderPlacedPayload is fired after the checkout transaction commits.
type OrderPlacedPayload struct {
	OrderID       uint      `json:"order_id"`
	UserID        uint      `json:"user_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalAmount   float64   `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	PlacedAt      time.Time `json:"placed_at"`
}

// OrderStatusChangedPayload is fired after an admin status update.
type OrderStatusChangedPayload struct {
	OrderID   uint      `json:"order_id"`
	UserID    uint      `json:"user_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}
