package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/api/handlers"
	"github.com/jstittsworth/contract-advisor/internal/api/middleware"
	"github.com/jstittsworth/contract-advisor/internal/services"
	"github.com/jstittsworth/contract-advisor/internal/valuation"
	"github.com/jstittsworth/contract-advisor/pkg/config"
	"github.com/jstittsworth/contract-advisor/pkg/database"
)

// Deps carries everything the route tree needs.
type Deps struct {
	DB        *database.DB
	Engine    *valuation.Engine
	Store     *valuation.Store
	Contracts *services.ContractService
	Stats     *services.StatsService
	Refresher *services.StatsRefresherService
	Config    *config.Config
	Logger    *logrus.Logger
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Deps) {
	valuationHandler := handlers.NewValuationHandler(deps.Engine, deps.Logger)
	playerHandler := handlers.NewPlayerHandler(deps.Stats, deps.Contracts, deps.Logger)
	contractHandler := handlers.NewContractHandler(deps.Contracts, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Store, deps.Config.ModelDir, deps.Refresher, deps.Logger)

	// Valuation endpoints
	group.POST("/valuations/predict", valuationHandler.Predict)
	group.POST("/valuations/two-way", valuationHandler.PredictTwoWay)
	group.GET("/valuations/assess", valuationHandler.Assess)

	// Player endpoints
	group.GET("/players/search", playerHandler.SearchPlayers)
	group.GET("/players/resolve", playerHandler.ResolvePlayer)
	group.GET("/players/:name/seasons", playerHandler.GetPlayerSeasons)

	// Contract endpoints
	group.GET("/contracts", contractHandler.ListContracts)
	group.GET("/contracts/summary", contractHandler.GetMarketSummary)

	// Admin routes
	admin := group.Group("/admin")
	admin.Use(middleware.AuthRequired(deps.Config.JWTSecret))
	{
		admin.POST("/models/reload", adminHandler.ReloadModels)
		admin.POST("/stats/sync", adminHandler.SyncStats)
	}
}
