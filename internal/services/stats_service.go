package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/jstittsworth/contract-advisor/internal/identity"
	"github.com/jstittsworth/contract-advisor/internal/models"
	"github.com/jstittsworth/contract-advisor/internal/valuation"
	"github.com/jstittsworth/contract-advisor/pkg/database"
)

// StatsService maintains the player_seasons table from the external
// provider and answers recent-form questions for the valuation engine.
type StatsService struct {
	db       *database.DB
	provider *StatsProviderClient
	cache    *CacheService
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewStatsService(db *database.DB, provider *StatsProviderClient, cache *CacheService, cacheTTL time.Duration, logger *logrus.Logger) *StatsService {
	return &StatsService{
		db:       db,
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// RecentWAR sums a player's WAR over the last three completed seasons.
// Returns nil when no season data exists, which the engine treats as
// "skip the recent-form pass" rather than an error.
func (s *StatsService) RecentWAR(ctx context.Context, normalizedName string) (*float64, error) {
	latest := valuation.LatestCompletedSeason(time.Now())
	key := RecentWARCacheKey(normalizedName, latest)

	if s.cache != nil {
		var cached float64
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	seasons, err := s.recentSeasons(ctx, normalizedName, latest)
	if err != nil {
		return nil, err
	}
	if len(seasons) == 0 && s.provider != nil {
		// Cold table: pull the recent seasons from the provider once and
		// retry before giving up.
		for _, season := range valuation.RecentCompletedSeasons(3, time.Now()) {
			if err := s.SyncSeason(ctx, season); err != nil {
				s.logger.WithError(err).WithField("season", season).Warn("Provider backfill failed")
				break
			}
		}
		if seasons, err = s.recentSeasons(ctx, normalizedName, latest); err != nil {
			return nil, err
		}
	}
	if len(seasons) == 0 {
		return nil, nil
	}

	total := 0.0
	for _, season := range seasons {
		total += season.WAR
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, total, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache recent WAR")
		}
	}
	return &total, nil
}

func (s *StatsService) recentSeasons(ctx context.Context, normalizedName string, latest int) ([]models.PlayerSeason, error) {
	var seasons []models.PlayerSeason
	err := s.db.WithContext(ctx).
		Where("normalized_name = ? AND season > ? AND season <= ?", normalizedName, latest-3, latest).
		Find(&seasons).Error
	return seasons, err
}

// IsTwoWayPlayer reports whether a player has both pitching and hitting
// season rows on record, which triggers two-role valuation composition.
func (s *StatsService) IsTwoWayPlayer(ctx context.Context, normalizedName string) (bool, error) {
	seasons, err := s.recentSeasons(ctx, normalizedName, valuation.LatestCompletedSeason(time.Now()))
	if err != nil {
		return false, err
	}

	var pitches, hits bool
	for _, season := range seasons {
		if valuation.IsPitcherPosition(season.Position) {
			pitches = true
		} else {
			hits = true
		}
		// A single row can carry both sides in its raw metrics.
		var metrics map[string]float64
		if len(season.Metrics) > 0 && json.Unmarshal(season.Metrics, &metrics) == nil {
			if _, ok := metrics["era"]; ok {
				pitches = true
			}
			if _, ok := metrics["wrc_plus"]; ok {
				hits = true
			}
		}
	}
	return pitches && hits, nil
}

// PlayerSeasons returns a player's year-by-year lines, newest first.
func (s *StatsService) PlayerSeasons(ctx context.Context, normalizedName string) ([]models.PlayerSeason, error) {
	var seasons []models.PlayerSeason
	err := s.db.WithContext(ctx).
		Where("normalized_name = ?", normalizedName).
		Order("season DESC").
		Find(&seasons).Error
	return seasons, err
}

// SearchPlayers matches a free-text query against the latest line of each
// known player using the same normalization the resolver applies.
func (s *StatsService) SearchPlayers(ctx context.Context, query string, limit int) ([]models.PlayerSeason, error) {
	normalized := identity.Normalize(query)
	if normalized == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	key := PlayerSearchCacheKey(normalized)
	if s.cache != nil {
		var cached []models.PlayerSeason
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	var seasons []models.PlayerSeason
	err := s.db.WithContext(ctx).
		Where("normalized_name LIKE ?", "%"+sanitizeLike(normalized)+"%").
		Order("season DESC, war DESC").
		Limit(limit * 4).
		Find(&seasons).Error
	if err != nil {
		return nil, err
	}

	// Keep only the newest season per player.
	seen := make(map[string]bool, len(seasons))
	var out []models.PlayerSeason
	for _, season := range seasons {
		if seen[season.NormalizedName] {
			continue
		}
		seen[season.NormalizedName] = true
		out = append(out, season)
		if len(out) >= limit {
			break
		}
	}

	if s.cache != nil && len(out) > 0 {
		if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache player search")
		}
	}
	return out, nil
}

// sanitizeLike escapes LIKE wildcards in user input. Normalization keeps
// underscores, so a bare query must not become a pattern.
func sanitizeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// SyncSeason pulls one season from the provider and upserts every line.
func (s *StatsService) SyncSeason(ctx context.Context, season int) error {
	lines, err := s.provider.SeasonStats(ctx, season)
	if err != nil {
		return err
	}

	for _, line := range lines {
		metrics, err := json.Marshal(line.Metrics)
		if err != nil {
			s.logger.WithError(err).WithField("player", line.PlayerName).Warn("Skipping season line with bad metrics")
			continue
		}
		row := models.PlayerSeason{
			PlayerName:     line.PlayerName,
			NormalizedName: identity.Normalize(line.PlayerName),
			Season:         line.Season,
			Position:       line.Position,
			Age:            line.Age,
			WAR:            line.WAR,
			Metrics:        datatypes.JSON(metrics),
		}

		var existing models.PlayerSeason
		err = s.db.WithContext(ctx).
			Where("normalized_name = ? AND season = ?", row.NormalizedName, row.Season).
			First(&existing).Error
		if err == nil {
			row.ID = existing.ID
		}
		if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
			return err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"season":  season,
		"players": len(lines),
	}).Info("Season stats synced")
	return nil
}
