package valuation

import "time"

// currentSeasonYear is the signing year stamped on new valuations and the
// reference point for comparable recency.
func currentSeasonYear() int {
	return time.Now().Year()
}

// LatestCompletedSeason returns the most recent season with final stats.
// The regular season ends in late September, so before October the prior
// year is the latest complete one.
func LatestCompletedSeason(now time.Time) int {
	if now.Month() >= time.October {
		return now.Year()
	}
	return now.Year() - 1
}

// RecentCompletedSeasons returns the n most recent completed seasons,
// newest first.
func RecentCompletedSeasons(n int, now time.Time) []int {
	latest := LatestCompletedSeason(now)
	seasons := make([]int, 0, n)
	for i := 0; i < n; i++ {
		seasons = append(seasons, latest-i)
	}
	return seasons
}
