package seeders

import (
	"errors"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/auth"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"gorm.io/gorm"
)

func init() {
	Register("admins", SeedAdmin)
}

// SeedAdmin creates the configured admin account if it does not exist yet.
// An existing account is left untouched, including its password.
func SeedAdmin(db *gorm.DB) error {
	username, password, email := config.AdminCredentials()
	if password == "" {
		logger.Warn("seed: ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	var existing models.Admin
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&models.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}).Error
}
