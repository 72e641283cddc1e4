package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/cache"
)

type HealthHandler struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewHealthHandler(db *gorm.DB, c cache.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "cache": "ok"}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	}

	// the cache is optional, a failure only degrades
	if err := h.cache.Ping(ctx); err != nil {
		checks["cache"] = "down"
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}
