package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/services"
	"github.com/jstittsworth/contract-advisor/internal/valuation"
	"github.com/jstittsworth/contract-advisor/pkg/utils"
)

type AdminHandler struct {
	store     *valuation.Store
	modelDir  string
	refresher *services.StatsRefresherService
	logger    *logrus.Logger
}

func NewAdminHandler(store *valuation.Store, modelDir string, refresher *services.StatsRefresherService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		store:     store,
		modelDir:  modelDir,
		refresher: refresher,
		logger:    logger,
	}
}

// ReloadModels re-reads every model artifact from disk. A failed reload
// keeps the previously loaded set serving.
// POST /api/v1/admin/models/reload
func (h *AdminHandler) ReloadModels(c *gin.Context) {
	if err := h.store.Load(h.modelDir); err != nil {
		h.logger.WithError(err).Error("Model reload failed")
		utils.SendInternalError(c, "Model reload failed")
		return
	}
	utils.SendSuccess(c, gin.H{"reloaded": valuation.ModelIDs})
}

// SyncStats runs an immediate season sync from the stats provider
// POST /api/v1/admin/stats/sync
func (h *AdminHandler) SyncStats(c *gin.Context) {
	if h.refresher == nil {
		utils.SendServiceUnavailable(c, "Stats provider is not configured")
		return
	}
	if err := h.refresher.RefreshNow(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Stats sync failed")
		utils.SendInternalError(c, "Stats sync failed")
		return
	}
	utils.SendSuccess(c, gin.H{"synced": true})
}
