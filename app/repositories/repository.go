// Package repositories is the data access layer. Each repository wraps one
// aggregate and returns wrapped GORM errors; services translate them.
package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/metrics"
	"gorm.io/gorm"
)

// NotFound reports whether err is GORM's record-not-found.
func NotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// UniqueViolation reports whether err is a unique-constraint failure on any
// of the supported dialects.
func UniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

func observe(op string) func() {
	start := time.Now()
	return func() { metrics.ObserveDBQuery(op, start) }
}
