package valuation

// Role-specific imputation defaults, keyed by model feature name. The
// values approximate a league-average player so that missing data pulls a
// prediction toward the population mean rather than an extreme.
var batterDefaults = map[string]float64{
	"wRC_plus_3yr":  100,
	"AVG_3yr":       0.250,
	"OBP_3yr":       0.320,
	"SLG_3yr":       0.400,
	"HR_3yr":        15,
	"avg_exit_velo": 88.5,
	"barrel_rate":   8.0,
	"max_exit_velo": 110.0,
	"hard_hit_pct":  40.0,
	"chase_rate":    50.0, // percentile, 50 = average
	"whiff_rate":    50.0,
}

var pitcherDefaults = map[string]float64{
	"ERA_3yr":               4.00,
	"FIP_3yr":               4.00,
	"K_9_3yr":               8.0,
	"BB_9_3yr":              3.0,
	"IP_3yr":                150,
	"fb_velocity":           50.0, // percentiles from here down
	"fb_spin":               50.0,
	"xera":                  50.0,
	"k_percent":             50.0,
	"bb_percent":            50.0,
	"whiff_percent_pitcher": 50.0,
	"chase_percent_pitcher": 50.0,
}

// assembledStats carries the values already resolved for a profile so
// derived features can be computed from imputed inputs, not just supplied
// ones.
type assembledStats struct {
	profile Profile
	role    Role
	year    int
}

// AssembleFeatures builds the numeric vector a model expects. For each
// name in featureList, in order: a directly supplied stat wins, then a
// derived-feature formula over already-resolved inputs, then the role
// default, and finally zero for names the assembler has never heard of.
// The returned slice always has exactly len(featureList) entries.
func AssembleFeatures(profile Profile, role Role, featureList []string, currentYear int) []float64 {
	a := assembledStats{profile: profile, role: role, year: currentYear}
	vec := make([]float64, len(featureList))
	for i, name := range featureList {
		vec[i] = a.resolve(name)
	}
	return vec
}

func (a assembledStats) resolve(name string) float64 {
	s := a.profile.Stats

	switch name {
	case "age_at_signing":
		return float64(a.profile.Age)
	case "seasons_with_data":
		return 3
	case "year_signed":
		return float64(a.year)
	case "is_starter":
		if a.role == RoleStarter {
			return 1
		}
		return 0
	case "has_statcast":
		if s.HasAdvancedMetrics() {
			return 1
		}
		return 0

	case "WAR_3yr":
		return a.statOrDefault(s.WAR, name)
	case "wRC_plus_3yr":
		return a.statOrDefault(s.WRCPlus, name)
	case "AVG_3yr":
		return a.statOrDefault(s.AVG, name)
	case "OBP_3yr":
		return a.statOrDefault(s.OBP, name)
	case "SLG_3yr":
		return a.statOrDefault(s.SLG, name)
	case "HR_3yr":
		return a.statOrDefault(s.HR, name)
	case "avg_exit_velo":
		return a.statOrDefault(s.ExitVelo, name)
	case "barrel_rate":
		return a.statOrDefault(s.BarrelRate, name)
	case "max_exit_velo":
		return a.statOrDefault(s.MaxExitVelo, name)
	case "hard_hit_pct":
		return a.statOrDefault(s.HardHitPct, name)
	case "chase_rate":
		return a.statOrDefault(s.ChaseRate, name)
	case "whiff_rate":
		return a.statOrDefault(s.WhiffRate, name)

	case "ERA_3yr":
		return a.statOrDefault(s.ERA, name)
	case "FIP_3yr":
		return a.statOrDefault(s.FIP, name)
	case "K_9_3yr":
		return a.statOrDefault(s.K9, name)
	case "BB_9_3yr":
		return a.statOrDefault(s.BB9, name)
	case "IP_3yr":
		return a.statOrDefault(s.IP, name)
	case "fb_velocity":
		return a.statOrDefault(s.FBVelocity, name)
	case "fb_spin":
		return a.statOrDefault(s.FBSpin, name)
	case "xera":
		return a.statOrDefault(s.XERA, name)
	case "k_percent":
		return a.statOrDefault(s.KPercent, name)
	case "bb_percent":
		return a.statOrDefault(s.BBPercent, name)
	case "whiff_percent_pitcher":
		return a.statOrDefault(s.WhiffPct, name)
	case "chase_percent_pitcher":
		return a.statOrDefault(s.ChasePct, name)

	// Derived features. Inputs go through resolve so an imputed default
	// feeds the formula the same way a supplied stat would.
	case "war_per_age":
		if a.profile.Age == 0 {
			return 0
		}
		return a.resolve("WAR_3yr") / float64(a.profile.Age)
	case "iso_3yr":
		return a.resolve("SLG_3yr") - a.resolve("AVG_3yr")
	case "contact_quality":
		return a.resolve("avg_exit_velo") * a.resolve("barrel_rate") / 100
	case "k_minus_bb":
		return a.resolve("K_9_3yr") - a.resolve("BB_9_3yr")
	}

	// One-hot position indicators.
	for _, hr := range HitterRoles {
		if name == "pos_"+string(hr) {
			if a.role == hr {
				return 1
			}
			return 0
		}
	}

	// Unknown feature names still produce an entry, never a gap.
	return 0
}

func (a assembledStats) statOrDefault(v *float64, name string) float64 {
	if v != nil {
		return *v
	}
	if a.role.IsPitcher() {
		if d, ok := pitcherDefaults[name]; ok {
			return d
		}
	}
	if d, ok := batterDefaults[name]; ok {
		return d
	}
	return 0
}

// ValidateRequiredStats rejects a profile that lacks the minimum
// discriminating metrics for its role. Optional stats are imputed later;
// these are not.
func ValidateRequiredStats(profile Profile, role Role) error {
	if profile.Stats.WAR == nil {
		return ErrMissingRequiredStat
	}
	if role.IsPitcher() && profile.Stats.ERA == nil && profile.Stats.FIP == nil {
		return ErrMissingRequiredStat
	}
	return nil
}
