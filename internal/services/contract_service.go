package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/models"
	"github.com/jstittsworth/contract-advisor/internal/valuation"
	"github.com/jstittsworth/contract-advisor/pkg/database"
)

// ContractService owns the historical signings table: the comparable pool
// for the valuation engine and the browsing surface of the API. The full
// table is small enough to cache whole.
type ContractService struct {
	db       *database.DB
	cache    *CacheService
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewContractService(db *database.DB, cache *CacheService, cacheTTL time.Duration, logger *logrus.Logger) *ContractService {
	return &ContractService{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Contracts returns every signing as engine records, newest first. Order
// is part of the contract: comparable ties resolve by table position.
func (s *ContractService) Contracts(ctx context.Context) ([]valuation.ContractRecord, error) {
	key := ContractTableCacheKey()

	var cached []valuation.ContractRecord
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	var contracts []models.Contract
	if err := s.db.WithContext(ctx).
		Order("year_signed DESC, aav DESC, id ASC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	records := models.ContractRecords(contracts)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, records, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache contract table")
		}
	}
	return records, nil
}

// ContractFilter narrows the listing endpoint. Zero values mean no
// constraint.
type ContractFilter struct {
	Position string
	Year     int
	MinAAV   float64
	Page     int
	PerPage  int
}

// List returns a page of contracts plus the unfiltered total for the
// pagination meta block.
func (s *ContractService) List(ctx context.Context, filter ContractFilter) ([]models.Contract, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Contract{})
	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}
	if filter.Year > 0 {
		query = query.Where("year_signed = ?", filter.Year)
	}
	if filter.MinAAV > 0 {
		query = query.Where("aav >= ?", filter.MinAAV)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PerPage <= 0 {
		filter.PerPage = 25
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	var contracts []models.Contract
	err := query.
		Order("year_signed DESC, aav DESC").
		Limit(filter.PerPage).
		Offset((filter.Page - 1) * filter.PerPage).
		Find(&contracts).Error
	return contracts, total, err
}

// PositionSummary is an aggregate row of the market summary endpoint.
type PositionSummary struct {
	Position  string  `json:"position"`
	Contracts int64   `json:"contracts"`
	AvgAAV    float64 `json:"avg_aav"`
	MaxAAV    float64 `json:"max_aav"`
	AvgLength float64 `json:"avg_length"`
}

// Summary aggregates the signing table by position.
func (s *ContractService) Summary(ctx context.Context) ([]PositionSummary, error) {
	var rows []PositionSummary
	err := s.db.WithContext(ctx).
		Model(&models.Contract{}).
		Select("position, COUNT(*) AS contracts, AVG(aav) AS avg_aav, MAX(aav) AS max_aav, AVG(length) AS avg_length").
		Group("position").
		Order("avg_aav DESC").
		Scan(&rows).Error
	return rows, err
}

// Upsert writes contracts and drops the table cache. Rows match on
// normalized name plus signing year.
func (s *ContractService) Upsert(ctx context.Context, contracts []models.Contract) error {
	for i := range contracts {
		var existing models.Contract
		err := s.db.WithContext(ctx).
			Where("normalized_name = ? AND year_signed = ?", contracts[i].NormalizedName, contracts[i].YearSigned).
			First(&existing).Error
		if err == nil {
			contracts[i].ID = existing.ID
		}
		if err := s.db.WithContext(ctx).Save(&contracts[i]).Error; err != nil {
			return err
		}
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, ContractTableCacheKey()); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate contract table cache")
		}
	}
	s.logger.WithField("contracts", len(contracts)).Info("Contract table updated")
	return nil
}
