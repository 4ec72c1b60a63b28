package models

import "time"

// User is a storefront customer account.
type User struct {
	ID           uint      `gorm:"primaryKey"                   json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"  json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"             json:"-"`
	FullName     string    `gorm:"size:120"                      json:"full_name"`
	Phone        string    `gorm:"size:20"                       json:"phone"`
	Address      string    `gorm:"type:text"                     json:"address"`
	Role         string    `gorm:"size:20;not null"              json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the full name, or the username when no name is on file.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Admin is a back-office account. It lives in its own table so a customer
// id can never be mistaken for an admin id.
type Admin struct {
	ID           uint      `gorm:"primaryKey"                   json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"  json:"username"`
	Email        string    `gorm:"size:255"                      json:"email"`
	PasswordHash string    `gorm:"size:255;not null"             json:"-"`
	Role         string    `gorm:"size:20;not null"              json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
