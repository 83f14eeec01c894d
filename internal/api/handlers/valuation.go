package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/valuation"
	"github.com/jstittsworth/contract-advisor/pkg/utils"
)

type ValuationHandler struct {
	engine *valuation.Engine
	logger *logrus.Logger
}

func NewValuationHandler(engine *valuation.Engine, logger *logrus.Logger) *ValuationHandler {
	return &ValuationHandler{
		engine: engine,
		logger: logger,
	}
}

// PredictRequest is the body of a free-agent valuation request.
type PredictRequest struct {
	Name     string             `json:"name" binding:"required"`
	Position string             `json:"position" binding:"required"`
	Age      int                `json:"age" binding:"required"`
	Stats    valuation.StatLine `json:"stats"`
}

func (r PredictRequest) profile() valuation.Profile {
	return valuation.Profile{
		Name:     r.Name,
		Position: r.Position,
		Age:      r.Age,
		Stats:    r.Stats,
	}
}

// TwoWayRequest values a player on both sides of the ball. Positions
// default to DH and SP when omitted.
type TwoWayRequest struct {
	Name             string             `json:"name" binding:"required"`
	Age              int                `json:"age" binding:"required"`
	BattingPosition  string             `json:"batting_position"`
	PitchingPosition string             `json:"pitching_position"`
	BattingStats     valuation.StatLine `json:"batting_stats"`
	PitchingStats    valuation.StatLine `json:"pitching_stats"`
}

// Predict values a hypothetical free agent
// POST /api/v1/valuations/predict
func (h *ValuationHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Age < 18 || req.Age > 50 {
		utils.SendValidationError(c, "Invalid age", "Age must be between 18 and 50")
		return
	}

	result, err := h.engine.Value(c.Request.Context(), req.profile())
	if err != nil {
		h.sendEngineError(c, err)
		return
	}
	utils.SendSuccess(c, result)
}

// PredictTwoWay values a two-way player
// POST /api/v1/valuations/two-way
func (h *ValuationHandler) PredictTwoWay(c *gin.Context) {
	var req TwoWayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.BattingPosition == "" {
		req.BattingPosition = "DH"
	}
	if req.PitchingPosition == "" {
		req.PitchingPosition = "SP"
	}

	batting := valuation.Profile{Name: req.Name, Position: req.BattingPosition, Age: req.Age, Stats: req.BattingStats}
	pitching := valuation.Profile{Name: req.Name, Position: req.PitchingPosition, Age: req.Age, Stats: req.PitchingStats}

	result, err := h.engine.ValueTwoWay(c.Request.Context(), batting, pitching)
	if err != nil {
		h.sendEngineError(c, err)
		return
	}
	utils.SendSuccess(c, result)
}

// Assess values an already-signed player by name and attaches the actual
// contract terms
// GET /api/v1/valuations/assess?name=Aaron+Judge
func (h *ValuationHandler) Assess(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		utils.SendValidationError(c, "Player name required", "Provide the player name via the 'name' parameter")
		return
	}

	result, err := h.engine.Assess(c.Request.Context(), name)
	if err != nil {
		var ambiguous *valuation.AmbiguousMatchError
		if errors.As(err, &ambiguous) {
			utils.SendError(c, http.StatusNotFound, utils.NewAppError(
				utils.ErrCodeAmbiguous,
				"Name matches multiple players",
				strings.Join(ambiguous.Names, ", "),
			))
			return
		}
		if errors.Is(err, valuation.ErrNoIdentityMatch) {
			suggestions, _ := h.engine.Suggest(c.Request.Context(), name, 5)
			utils.SendError(c, http.StatusNotFound, utils.NewAppError(
				utils.ErrCodeNotFound,
				"No matching player found",
				strings.Join(suggestions, ", "),
			))
			return
		}
		h.sendEngineError(c, err)
		return
	}
	utils.SendSuccess(c, result)
}

func (h *ValuationHandler) sendEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, valuation.ErrMissingRequiredStat):
		utils.SendValidationError(c, "Missing required statistic", err.Error())
	case errors.Is(err, valuation.ErrModelsNotLoaded):
		utils.SendServiceUnavailable(c, "Valuation models are not loaded")
	default:
		h.logger.WithError(err).Error("Valuation failed")
		utils.SendInternalError(c, "Valuation failed")
	}
}
