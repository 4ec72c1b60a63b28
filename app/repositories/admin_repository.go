package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/brewandco/app/models"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (models.Admin, error) {
	defer observe("admins.find")()

	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return admin, fmt.Errorf("admins: find %q: %w", username, err)
	}
	return admin, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (models.Admin, error) {
	defer observe("admins.find")()

	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return admin, fmt.Errorf("admins: find %d: %w", id, err)
	}
	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	defer observe("admins.create")()

	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("admins: create: %w", err)
	}
	return nil
}
