package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatestCompletedSeason(t *testing.T) {
	march := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2025, LatestCompletedSeason(march), "mid-season, last year is the latest complete one")

	october := time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, LatestCompletedSeason(october))

	december := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, LatestCompletedSeason(december))
}

func TestRecentCompletedSeasons(t *testing.T) {
	july := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{2025, 2024, 2023}, RecentCompletedSeasons(3, july))
}
