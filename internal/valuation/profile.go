package valuation

// StatLine is the closed schema of statistics a valuation request may
// carry. Every field is optional because coverage varies by era and role;
// a nil pointer means the stat was never observed, which is distinct from
// an observed zero. Rate and counting stats are three-year averages;
// Statcast-style fields are percentiles on a 0-100 scale where 50 is
// league average, except the raw exit-velocity and barrel numbers.
type StatLine struct {
	WAR *float64 `json:"war_3yr,omitempty"`

	// Hitters
	WRCPlus *float64 `json:"wrc_plus_3yr,omitempty"`
	AVG     *float64 `json:"avg_3yr,omitempty"`
	OBP     *float64 `json:"obp_3yr,omitempty"`
	SLG     *float64 `json:"slg_3yr,omitempty"`
	HR      *float64 `json:"hr_3yr,omitempty"`

	// Pitchers
	ERA *float64 `json:"era_3yr,omitempty"`
	FIP *float64 `json:"fip_3yr,omitempty"`
	K9  *float64 `json:"k_9_3yr,omitempty"`
	BB9 *float64 `json:"bb_9_3yr,omitempty"`
	IP  *float64 `json:"ip_3yr,omitempty"`

	// Hitter Statcast
	ExitVelo    *float64 `json:"avg_exit_velo,omitempty"`
	BarrelRate  *float64 `json:"barrel_rate,omitempty"`
	MaxExitVelo *float64 `json:"max_exit_velo,omitempty"`
	HardHitPct  *float64 `json:"hard_hit_pct,omitempty"`
	ChaseRate   *float64 `json:"chase_rate,omitempty"`
	WhiffRate   *float64 `json:"whiff_rate,omitempty"`

	// Pitcher Statcast (percentiles)
	FBVelocity *float64 `json:"fb_velocity,omitempty"`
	FBSpin     *float64 `json:"fb_spin,omitempty"`
	XERA       *float64 `json:"xera,omitempty"`
	KPercent   *float64 `json:"k_percent,omitempty"`
	BBPercent  *float64 `json:"bb_percent,omitempty"`
	WhiffPct   *float64 `json:"whiff_percent_pitcher,omitempty"`
	ChasePct   *float64 `json:"chase_percent_pitcher,omitempty"`
}

// HasAdvancedMetrics reports whether any Statcast-style metric was
// actually supplied. Absence correlates with contract era, so the flag
// itself is a model feature.
func (s StatLine) HasAdvancedMetrics() bool {
	advanced := []*float64{
		s.ExitVelo, s.BarrelRate, s.MaxExitVelo, s.HardHitPct, s.ChaseRate, s.WhiffRate,
		s.FBVelocity, s.FBSpin, s.XERA, s.KPercent, s.BBPercent, s.WhiffPct, s.ChasePct,
	}
	for _, v := range advanced {
		if v != nil {
			return true
		}
	}
	return false
}

// Profile is the subject of a valuation request: who the player is and
// what they have produced. Request-scoped and never mutated by the
// engine.
type Profile struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Age      int      `json:"age"`
	Stats    StatLine `json:"stats"`

	// RecentWAR is the trailing three-year WAR as of today, used by the
	// recent-form comparable pass when assessing an already-signed deal.
	RecentWAR *float64 `json:"recent_war_3yr,omitempty"`
}

// Comparable is one historical signing judged similar to the query
// profile.
type Comparable struct {
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	YearSigned      int     `json:"year_signed"`
	AgeAtSigning    int     `json:"age_at_signing"`
	AAV             float64 `json:"aav"`
	Length          int     `json:"length"`
	WAR3yr          float64 `json:"war_3yr"`
	SimilarityScore float64 `json:"similarity_score"`
	IsExtension     bool    `json:"is_extension"`
}

// Result is the full output of one valuation: point estimate and
// uncertainty band in millions of dollars per year, predicted contract
// length in whole years, training-time confidence, attribution, and the
// ranked comparable set. Built fresh per request.
type Result struct {
	PlayerName string `json:"player_name"`
	Position   string `json:"position"`
	Role       Role   `json:"role"`

	PredictedAAV     float64 `json:"predicted_aav"`
	PredictedAAVLow  float64 `json:"predicted_aav_low"`
	PredictedAAVHigh float64 `json:"predicted_aav_high"`
	PredictedLength  int     `json:"predicted_length"`

	ConfidenceScore float64 `json:"confidence_score"`
	ModelAccuracy   float64 `json:"model_accuracy"`

	FeatureImportance []FeatureWeight `json:"feature_importance"`
	Comparables       []Comparable    `json:"comparables"`

	// Populated only when the resolved player already has a contract on
	// file, for over/underpay assessment.
	ActualAAV          *float64     `json:"actual_aav,omitempty"`
	ActualLength       *int         `json:"actual_length,omitempty"`
	ComparablesRecent  []Comparable `json:"comparables_recent,omitempty"`
	ResolutionStrategy string       `json:"resolution_strategy,omitempty"`
}

// FeatureWeight is one entry of the importance breakdown, ordered by
// descending weight.
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// TwoWayResult composes a batting and a pitching valuation for the rare
// player who contributes in both roles. The combined AAV is the exact sum
// of the two point estimates; confidence stays per-role because there is
// no statistical basis for a joint figure.
type TwoWayResult struct {
	PlayerName  string  `json:"player_name"`
	Batting     *Result `json:"batting"`
	Pitching    *Result `json:"pitching"`
	CombinedAAV float64 `json:"combined_aav"`
}
