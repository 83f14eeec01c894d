package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/services"
	"github.com/jstittsworth/contract-advisor/pkg/utils"
)

type ContractHandler struct {
	contracts *services.ContractService
	logger    *logrus.Logger
}

func NewContractHandler(contracts *services.ContractService, logger *logrus.Logger) *ContractHandler {
	return &ContractHandler{
		contracts: contracts,
		logger:    logger,
	}
}

// ListContracts returns a filtered page of historical signings
// GET /api/v1/contracts?position=SS&year=2023&min_aav=10&page=1&per_page=25
func (h *ContractHandler) ListContracts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))
	minAAV, _ := strconv.ParseFloat(c.DefaultQuery("min_aav", "0"), 64)

	if perPage > 100 {
		perPage = 100
	}

	filter := services.ContractFilter{
		Position: c.Query("position"),
		Year:     year,
		MinAAV:   minAAV,
		Page:     page,
		PerPage:  perPage,
	}

	contracts, total, err := h.contracts.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Contract listing failed")
		utils.SendInternalError(c, "Failed to fetch contracts")
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	utils.SendSuccessWithMeta(c, contracts, &utils.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// GetMarketSummary aggregates the signing table by position
// GET /api/v1/contracts/summary
func (h *ContractHandler) GetMarketSummary(c *gin.Context) {
	summary, err := h.contracts.Summary(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Market summary failed")
		utils.SendInternalError(c, "Failed to build market summary")
		return
	}
	utils.SendSuccess(c, summary)
}
