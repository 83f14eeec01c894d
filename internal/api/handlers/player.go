package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/identity"
	"github.com/jstittsworth/contract-advisor/internal/services"
	"github.com/jstittsworth/contract-advisor/pkg/utils"
)

type PlayerHandler struct {
	stats     *services.StatsService
	contracts *services.ContractService
	logger    *logrus.Logger
}

func NewPlayerHandler(stats *services.StatsService, contracts *services.ContractService, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		stats:     stats,
		contracts: contracts,
		logger:    logger,
	}
}

// SearchPlayers matches a free-text query against known players
// GET /api/v1/players/search?q=judge&limit=10
func (h *PlayerHandler) SearchPlayers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		utils.SendValidationError(c, "Query too short", "Search query must be at least 2 characters")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	players, err := h.stats.SearchPlayers(c.Request.Context(), query, limit)
	if err != nil {
		h.logger.WithError(err).Error("Player search failed")
		utils.SendInternalError(c, "Failed to search players")
		return
	}
	utils.SendSuccess(c, players)
}

// GetPlayerSeasons returns a player's year-by-year lines
// GET /api/v1/players/:name/seasons
func (h *PlayerHandler) GetPlayerSeasons(c *gin.Context) {
	normalized := identity.Normalize(c.Param("name"))
	if normalized == "" {
		utils.SendValidationError(c, "Player name required", "Provide a player name in the path")
		return
	}

	seasons, err := h.stats.PlayerSeasons(c.Request.Context(), normalized)
	if err != nil {
		h.logger.WithError(err).Error("Season lookup failed")
		utils.SendInternalError(c, "Failed to fetch player seasons")
		return
	}
	if len(seasons) == 0 {
		utils.SendNotFound(c, "No seasons on record for this player")
		return
	}
	utils.SendSuccess(c, seasons)
}

// resolveResponse is the payload of the name resolution endpoint, used by
// conversational frontends to pin a free-text mention to a known player
// before asking for a valuation.
type resolveResponse struct {
	Query      string   `json:"query"`
	Resolved   bool     `json:"resolved"`
	Name       string   `json:"name,omitempty"`
	TwoWay     bool     `json:"two_way,omitempty"`
	Strategy   string   `json:"strategy,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

// ResolvePlayer maps a free-text name onto the contract table
// GET /api/v1/players/resolve?name=J.+Judge
func (h *PlayerHandler) ResolvePlayer(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		utils.SendValidationError(c, "Player name required", "Provide the player name via the 'name' parameter")
		return
	}

	records, err := h.contracts.Contracts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Contract table load failed")
		utils.SendInternalError(c, "Failed to load contract table")
		return
	}

	candidates := make([]identity.Candidate, len(records))
	for i, rec := range records {
		candidates[i] = identity.Candidate{
			Name:           rec.PlayerName,
			NormalizedName: rec.NormalizedName,
			Year:           rec.YearSigned,
		}
	}

	match := identity.Resolve(name, candidates, nil)
	resp := resolveResponse{Query: name}
	if match.Found() {
		names := match.Names()
		resp.Strategy = match.Strategy
		if len(names) == 1 {
			resp.Resolved = true
			resp.Name = names[0]
			twoWay, err := h.stats.IsTwoWayPlayer(c.Request.Context(), match.Candidates[0].NormalizedName)
			if err != nil {
				h.logger.WithError(err).Warn("Two-way check failed")
			}
			resp.TwoWay = twoWay
		} else {
			resp.Candidates = names
		}
	} else {
		resp.Candidates = identity.Suggestions(name, candidates, nil, 5)
	}
	utils.SendSuccess(c, resp)
}
