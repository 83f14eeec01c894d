package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ProviderSeasonLine is one player-season as the stats provider reports
// it. Metrics carries every raw metric keyed by the provider's field
// names; the fields lifted out are the ones the advisor indexes on.
type ProviderSeasonLine struct {
	PlayerName string             `json:"player_name"`
	Position   string             `json:"position"`
	Age        int                `json:"age"`
	Season     int                `json:"season"`
	WAR        float64            `json:"war"`
	Metrics    map[string]float64 `json:"metrics"`
}

type providerSeasonResponse struct {
	Season  int                  `json:"season"`
	Players []ProviderSeasonLine `json:"players"`
}

// StatsProviderClient fetches finalized season stats from the external
// provider. Calls are rate limited client-side and wrapped in a circuit
// breaker so a provider outage cannot pile up goroutines.
type StatsProviderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

func NewStatsProviderClient(baseURL, apiKey string, requestsPerSecond int, timeout time.Duration, breakerThreshold int, logger *logrus.Logger) *StatsProviderClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	settings := gobreaker.Settings{
		Name:    "stats-provider",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}
	return &StatsProviderClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// SeasonStats returns the full set of player lines for one season.
func (c *StatsProviderClient) SeasonStats(ctx context.Context, season int) ([]ProviderSeasonLine, error) {
	url := fmt.Sprintf("%s/seasons/%d/players", c.baseURL, season)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp providerSeasonResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse season stats: %w", err)
	}
	for i := range resp.Players {
		if resp.Players[i].Season == 0 {
			resp.Players[i].Season = season
		}
	}

	c.logger.WithFields(logrus.Fields{
		"season":  season,
		"players": len(resp.Players),
	}).Debug("Fetched season stats from provider")
	return resp.Players, nil
}

func (c *StatsProviderClient) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	})
	if err != nil {
		return nil, fmt.Errorf("stats provider request failed: %w", err)
	}
	return result.([]byte), nil
}
