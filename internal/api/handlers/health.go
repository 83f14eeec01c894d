package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/contract-advisor/internal/valuation"
	"github.com/jstittsworth/contract-advisor/pkg/database"
)

type HealthHandler struct {
	engine *valuation.Engine
	db     *database.DB
}

func NewHealthHandler(engine *valuation.Engine, db *database.DB) *HealthHandler {
	return &HealthHandler{
		engine: engine,
		db:     db,
	}
}

// GetHealth returns basic liveness status - always 200 while the process
// is serving
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "contract-advisor",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetReady returns readiness status - 200 only when the model artifacts
// are loaded and the database answers
func (h *HealthHandler) GetReady(c *gin.Context) {
	checks := gin.H{
		"models":   h.engine.Ready(),
		"database": h.databaseUp(c),
	}

	for _, ok := range checks {
		if ok != true {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"checks": checks,
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}

func (h *HealthHandler) databaseUp(c *gin.Context) bool {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(c.Request.Context()) == nil
}
