package models

import "time"

// Product is a menu item.
type Product struct {
	ID          uint      `gorm:"primaryKey"                  json:"id"`
	Name        string    `gorm:"size:120;not null;index"      json:"name"`
	Description string    `gorm:"type:text"                    json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null"  json:"price"`
	Category    string    `gorm:"size:50;not null;index"       json:"category"`
	Image       string    `gorm:"size:500"                     json:"image"`
	Popular     bool      `gorm:"not null"                     json:"popular"`
	Rating      float64   `gorm:"type:decimal(2,1);not null"   json:"rating"`
	Stock       int       `gorm:"not null"                     json:"stock"`
	IsAvailable bool      `gorm:"not null;index"               json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
