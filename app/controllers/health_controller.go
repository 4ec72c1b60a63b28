package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/ctx"
	"github.com/shashiranjanraj/brewandco/pkg/database"
	"github.com/shashiranjanraj/brewandco/pkg/response"
	"gorm.io/gorm"
)

const serviceName = "Brew & Co API"

type HealthController struct {
	db      *gorm.DB
	started time.Time
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db, started: time.Now()}
}

// GET /api/health answers 503 with status "degraded" when the store is down.
func (hc *HealthController) Show(c *ctx.Context) {
	pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status, db, code := "ok", "connected", http.StatusOK
	if err := database.Ping(pingCtx, hc.db); err != nil {
		c.Log().Warn("health: database ping failed", "error", err)
		status, db, code = "degraded", "disconnected", http.StatusServiceUnavailable
	}

	response.Write(c.W, code, response.Envelope{Data: map[string]any{
		"status":    status,
		"service":   serviceName,
		"database":  db,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(hc.started).Round(time.Second).String(),
	}})
}
