package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/valuation"
)

// StatsRefresherService keeps the player_seasons table current on a cron
// schedule. Each run re-syncs the three most recent completed seasons so
// late stat corrections are picked up.
type StatsRefresherService struct {
	stats     *StatsService
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	mu        sync.Mutex
	isRunning bool
}

func NewStatsRefresherService(stats *StatsService, schedule string, logger *logrus.Logger) *StatsRefresherService {
	return &StatsRefresherService{
		stats:    stats,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start schedules the refresh job. runNow triggers an immediate first sync
// in the background for cold databases.
func (s *StatsRefresherService) Start(runNow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("stats refresher is already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule stats refresher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if runNow {
		go s.refresh()
	}

	s.logger.WithField("schedule", s.schedule).Info("Stats refresher service started")
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *StatsRefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Stats refresher service stopped")
}

func (s *StatsRefresherService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, season := range valuation.RecentCompletedSeasons(3, time.Now()) {
		if err := s.stats.SyncSeason(ctx, season); err != nil {
			s.logger.WithError(err).WithField("season", season).Error("Season sync failed")
		}
	}
}

// RefreshNow runs a synchronous refresh, for the admin sync endpoint.
func (s *StatsRefresherService) RefreshNow(ctx context.Context) error {
	var firstErr error
	for _, season := range valuation.RecentCompletedSeasons(3, time.Now()) {
		if err := s.stats.SyncSeason(ctx, season); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
