// Package testkit holds shared helpers for tests that run against the real
// schema and router.
package testkit

import (
	"io"
	"testing"

	"github.com/shashiranjanraj/brewandco/config"
	_ "github.com/shashiranjanraj/brewandco/database/migrations"
	"github.com/shashiranjanraj/brewandco/pkg/database"
	"github.com/shashiranjanraj/brewandco/pkg/migration"
	"gorm.io/gorm"
)

// DB opens a fresh in-memory sqlite database with every migration applied.
// The pool is pinned to one connection so the schema stays visible to every
// query, including those inside transactions.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	config.Set("BCRYPT_COST", "4")

	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("testkit: open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("testkit: sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.New(db).WithOutput(io.Discard).Run(); err != nil {
		t.Fatalf("testkit: migrate: %v", err)
	}
	return db
}
