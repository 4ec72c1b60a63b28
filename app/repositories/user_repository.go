package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	defer observe("users.find")()

	var user models.User
	err := orm.Use(r.db.WithContext(ctx)).Where("id = ?", id).First(&user)
	if err != nil {
		return user, fmt.Errorf("users: find %d: %w", id, err)
	}
	return user, nil
}

// FindByLogin looks up a user by username or email. Emails are stored
// lowercased, so the email side matches case-insensitively.
func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (models.User, error) {
	defer observe("users.find_login")()

	var user models.User
	err := orm.Use(r.db.WithContext(ctx)).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user)
	if err != nil {
		return user, fmt.Errorf("users: find login: %w", err)
	}
	return user, nil
}

// Taken reports whether username or email is already registered.
func (r *UserRepository) Taken(ctx context.Context, username, email string) (bool, error) {
	defer observe("users.taken")()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("users: taken: %w", err)
	}
	return n > 0, nil
}

// EmailOwnedByOther reports whether email belongs to a user other than id.
func (r *UserRepository) EmailOwnedByOther(ctx context.Context, email string, id uint) (bool, error) {
	defer observe("users.email_owner")()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("users: email owner: %w", err)
	}
	return n > 0, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer observe("users.create")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

// UpdateFields writes only the given columns.
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	defer observe("users.update")()

	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("users: update %d: %w", id, err)
	}
	return nil
}

// Paginate returns one page of users, newest first.
func (r *UserRepository) Paginate(ctx context.Context, p orm.Page) ([]models.User, orm.Pagination, error) {
	defer observe("users.paginate")()

	users := []models.User{}
	meta, err := orm.Use(r.db.WithContext(ctx)).
		Model(&models.User{}).
		Order("created_at desc, id desc").
		Paginate(p, &users)
	if err != nil {
		return nil, meta, fmt.Errorf("users: paginate: %w", err)
	}
	return users, meta, nil
}
