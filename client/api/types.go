package api

import (
	"time"

	"github.com/shashiranjanraj/brewandco/client/session"
)

const fallbackImage = "https://images.unsplash.com/photo-1511537190424-bbbab87ac5eb?auto=format&fit=crop&w=800&q=80"

var categoryImages = map[string]string{
	"hot-coffee":  "https://images.unsplash.com/photo-1514432324607-a09d9b4aefdd?auto=format&fit=crop&w=800&q=80",
	"cold-coffee": "https://images.unsplash.com/photo-1568649929103-28ffbefaca1e?auto=format&fit=crop&w=800&q=80",
	"tea":         "https://images.unsplash.com/photo-1561336313-0bd5e0b27ec8?auto=format&fit=crop&w=800&q=80",
	"pastries":    "https://images.unsplash.com/photo-1563729784474-d77dbb933a9e?auto=format&fit=crop&w=800&q=80",
	"specials":    "https://images.unsplash.com/photo-1509042239860-f550ce710b93?auto=format&fit=crop&w=800&q=80",
}

// DefaultImage is the placeholder picture for a category.
func DefaultImage(category string) string {
	if img, ok := categoryImages[category]; ok {
		return img
	}
	return fallbackImage
}

// RawProduct is a product as the wire carries it; any field may be absent.
type RawProduct struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Popular     bool    `json:"popular"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	IsAvailable *bool   `json:"is_available"`
}

// Product is a normalized menu item.
type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Popular     bool    `json:"popular"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	IsAvailable bool    `json:"is_available"`
}

// NormalizeProduct fills the defaults the menu relies on: a name, the
// "other" category, the category image, and availability unless the
// server said otherwise.
func NormalizeProduct(r RawProduct) Product {
	p := Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		Popular:     r.Popular,
		Rating:      r.Rating,
		Stock:       r.Stock,
		IsAvailable: r.IsAvailable == nil || *r.IsAvailable,
	}
	if p.Name == "" {
		p.Name = "Unknown Product"
	}
	if p.Category == "" {
		p.Category = "other"
	}
	if p.Image == "" {
		p.Image = DefaultImage(p.Category)
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if p.Rating < 0 {
		p.Rating = 0
	}
	return p
}

func normalizeAll(raw []RawProduct) []Product {
	out := make([]Product, len(raw))
	for i, r := range raw {
		out[i] = NormalizeProduct(r)
	}
	return out
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// ProfileUpdate sends only the non-nil fields.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type AuthResponse struct {
	Token string           `json:"token"`
	User  session.Customer `json:"user"`
}

type AdminAuthResponse struct {
	Token string        `json:"token"`
	Admin session.Admin `json:"admin"`
}

type OrderLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type OrderRequest struct {
	Items       []OrderLine `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Notes       string      `json:"notes,omitempty"`
}

type OrderCreated struct {
	OrderID     uint    `json:"orderId"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

type OrderItem struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID            uint        `json:"id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	CustomerEmail string      `json:"customer_email"`
	TotalAmount   float64     `json:"total_amount"`
	Status        string      `json:"status"`
	Notes         string      `json:"notes"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}
