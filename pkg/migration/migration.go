// Package migration is a batch-tracked schema migration runner.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and run through the CLI:
//
//	brewandco migrate             // run all pending
//	brewandco migrate:rollback    // rollback last batch
package migration

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Record is a row of the tracking table.
type Record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (Record) TableName() string { return "migrations" }

type registered struct {
	name string
	m    Migration
}

var registry []registered

// Register adds a migration. Names are timestamp-prefixed and run in
// lexical order.
func Register(name string, m Migration) {
	for _, r := range registry {
		if r.name == name {
			panic(fmt.Sprintf("migration: %q registered twice", name))
		}
	}
	registry = append(registry, registered{name: name, m: m})
}

// Names returns every registered migration name in run order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, r := range sorted(registry) {
		names = append(names, r.name)
	}
	return names
}

func sorted(in []registered) []registered {
	out := append([]registered(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner that reports progress on stdout.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout}
}

// WithOutput redirects progress lines.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&Record{})
}

// Pending returns the migrations that have not yet been run.
func (r *Runner) Pending() ([]string, error) {
	todo, err := r.pending()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(todo))
	for i, t := range todo {
		names[i] = t.name
	}
	return names, nil
}

func (r *Runner) pending() ([]registered, error) {
	var ran []Record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(ran))
	for _, rec := range ran {
		done[rec.Name] = true
	}

	var todo []registered
	for _, reg := range sorted(registry) {
		if !done[reg.name] {
			todo = append(todo, reg)
		}
	}
	return todo, nil
}

// Run executes all pending migrations as one batch.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	todo, err := r.pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(todo) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, reg := range todo {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&Record{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(todo), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []Record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return err
		}
	}

	logger.Info("migration: rolled back", "batch", batch, "count", len(records))
	return nil
}

// Status prints every registered migration and whether it has run.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	var ran []Record
	if err := r.db.Find(&ran).Error; err != nil {
		return err
	}
	byName := make(map[string]Record, len(ran))
	for _, rec := range ran {
		byName[rec.Name] = rec
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, reg := range sorted(registry) {
		if rec, ok := byName[reg.name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch() (int, error) {
	var max struct{ Max int }
	if err := r.db.Model(&Record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return max.Max, nil
}
