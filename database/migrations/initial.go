package migrations

import (
	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/pkg/migration"
	"github.com/shashiranjanraj/brewandco/pkg/queue"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_admins_table", &CreateAdminsTable{})
	migration.Register("20260101000002_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000003_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260101000004_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: admins --------

type CreateAdminsTable struct{}

func (m *CreateAdminsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Admin{})
}

func (m *CreateAdminsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("admins")
}

// -------- 0003: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0004: orders + order_items --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}

// -------- 0005: failed_jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
