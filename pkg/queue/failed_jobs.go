package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"gorm.io/gorm"
)

// FailedJobRecord is a row of the failed_jobs table. The table is created
// by the schema migrations.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"index"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

var (
	failedMu sync.RWMutex
	failedDB *gorm.DB
)

// UseDB persists failed jobs to db in addition to the in-memory list.
func UseDB(db *gorm.DB) {
	failedMu.Lock()
	defer failedMu.Unlock()
	failedDB = db
}

func (m *Manager) persistFailed(env envelope, lastErr error, attempts int) {
	now := time.Now()
	defer func() {
		m.mu.Lock()
		m.failed = append(m.failed, FailedJob{Type: env.Type, Err: lastErr, FailedAt: now, Attempts: attempts})
		m.mu.Unlock()
	}()

	failedMu.RLock()
	db := failedDB
	failedMu.RUnlock()
	if db == nil {
		return
	}

	record := FailedJobRecord{
		JobType:  env.Type,
		Payload:  string(env.Payload),
		Error:    fmt.Sprint(lastErr),
		Attempts: attempts,
		FailedAt: now,
	}
	if err := db.Create(&record).Error; err != nil {
		logger.Error("queue: persist failed job", "type", env.Type, "error", err)
	}
}

// PruneFailed deletes persisted failures older than age and returns how
// many rows were removed.
func PruneFailed(age time.Duration) (int64, error) {
	failedMu.RLock()
	db := failedDB
	failedMu.RUnlock()
	if db == nil {
		return 0, nil
	}

	res := db.Where("failed_at < ?", time.Now().Add(-age)).Delete(&FailedJobRecord{})
	return res.RowsAffected, res.Error
}
