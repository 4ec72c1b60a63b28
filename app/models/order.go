package models

import "time"

// Order statuses. The set is closed; admin updates are validated against it.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

// ValidStatus reports whether s is in OrderStatuses.
func ValidStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Order is created once at checkout and afterwards changes only status.
type Order struct {
	ID            uint        `gorm:"primaryKey"                 json:"id"`
	UserID        uint        `gorm:"not null;index"              json:"user_id"`
	CustomerName  string      `gorm:"size:120"                    json:"customer_name"`
	CustomerPhone string      `gorm:"size:20"                     json:"customer_phone"`
	CustomerEmail string      `gorm:"size:255"                    json:"customer_email"`
	TotalAmount   float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status        string      `gorm:"size:20;not null;index"      json:"status"`
	Notes         string      `gorm:"type:text"                   json:"notes"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"          json:"items,omitempty"`
	CreatedAt     time.Time   `gorm:"index"                       json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem snapshots a product's name and price at order time.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey"                 json:"id"`
	OrderID     uint    `gorm:"not null;index"              json:"order_id"`
	ProductID   uint    `gorm:"not null;index"              json:"product_id"`
	ProductName string  `gorm:"size:120;not null"           json:"product_name"`
	Quantity    int     `gorm:"not null"                    json:"quantity"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}

// AdminOrder is an order row joined with the ordering user's username.
type AdminOrder struct {
	Order
	CustomerUsername string `json:"customer_username"`
}
