package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

var batterFeatureList = []string{
	"age_at_signing", "WAR_3yr", "wRC_plus_3yr", "AVG_3yr", "OBP_3yr", "SLG_3yr", "HR_3yr",
	"war_per_age", "iso_3yr", "seasons_with_data", "year_signed",
	"avg_exit_velo", "barrel_rate", "contact_quality", "has_statcast",
	"pos_1B", "pos_2B", "pos_3B", "pos_C", "pos_DH", "pos_OF", "pos_SS",
}

var pitcherFeatureList = []string{
	"age_at_signing", "WAR_3yr", "ERA_3yr", "FIP_3yr", "K_9_3yr", "BB_9_3yr", "IP_3yr",
	"k_minus_bb", "war_per_age", "is_starter", "seasons_with_data", "year_signed",
	"fb_velocity", "xera", "has_statcast",
}

func TestAssembleFeaturesEmptyProfileProducesFullVector(t *testing.T) {
	profile := Profile{Name: "Nobody", Position: "2B", Age: 28}

	vec := AssembleFeatures(profile, RoleSecond, batterFeatureList, 2026)

	assert.Len(t, vec, len(batterFeatureList))
	idx := indexOf(batterFeatureList)

	assert.Equal(t, 28.0, vec[idx["age_at_signing"]])
	assert.Equal(t, 0.0, vec[idx["WAR_3yr"]], "WAR has no imputation default")
	assert.Equal(t, 100.0, vec[idx["wRC_plus_3yr"]])
	assert.Equal(t, 0.250, vec[idx["AVG_3yr"]])
	assert.Equal(t, 0.400, vec[idx["SLG_3yr"]])
	assert.InDelta(t, 0.150, vec[idx["iso_3yr"]], 1e-9, "ISO derives from imputed SLG and AVG")
	assert.Equal(t, 2026.0, vec[idx["year_signed"]])
	assert.Equal(t, 3.0, vec[idx["seasons_with_data"]])
	assert.Equal(t, 0.0, vec[idx["has_statcast"]])
	assert.InDelta(t, 88.5*8.0/100, vec[idx["contact_quality"]], 1e-9)
	assert.Equal(t, 1.0, vec[idx["pos_2B"]])
	assert.Equal(t, 0.0, vec[idx["pos_SS"]])
}

func TestAssembleFeaturesStarterGetsPitcherDefaults(t *testing.T) {
	profile := Profile{
		Name:     "Generic Starter",
		Position: "SP",
		Age:      30,
		Stats:    StatLine{WAR: f(9.0)},
	}

	vec := AssembleFeatures(profile, RoleStarter, pitcherFeatureList, 2026)
	idx := indexOf(pitcherFeatureList)

	assert.Equal(t, 9.0, vec[idx["WAR_3yr"]])
	assert.Equal(t, 4.00, vec[idx["ERA_3yr"]], "missing ERA imputes the league-average default")
	assert.Equal(t, 4.00, vec[idx["FIP_3yr"]])
	assert.InDelta(t, 8.0-3.0, vec[idx["k_minus_bb"]], 1e-9, "derived stat consumes imputed inputs")
	assert.Equal(t, 1.0, vec[idx["is_starter"]])
	assert.InDelta(t, 9.0/30.0, vec[idx["war_per_age"]], 1e-9)
	assert.Equal(t, 50.0, vec[idx["fb_velocity"]], "percentile defaults sit at 50")
}

func TestAssembleFeaturesSuppliedStatsBeatDefaults(t *testing.T) {
	profile := Profile{
		Name:     "Big Bat",
		Position: "1B",
		Age:      29,
		Stats: StatLine{
			WAR:        f(5.5),
			SLG:        f(0.550),
			AVG:        f(0.300),
			ExitVelo:   f(92.0),
			BarrelRate: f(14.0),
		},
	}

	vec := AssembleFeatures(profile, RoleFirst, batterFeatureList, 2026)
	idx := indexOf(batterFeatureList)

	assert.InDelta(t, 0.250, vec[idx["iso_3yr"]], 1e-9)
	assert.InDelta(t, 92.0*14.0/100, vec[idx["contact_quality"]], 1e-9)
	assert.Equal(t, 1.0, vec[idx["has_statcast"]], "any supplied Statcast metric flips the flag")
	assert.Equal(t, 1.0, vec[idx["pos_1B"]])
}

func TestAssembleFeaturesUnknownNameYieldsZero(t *testing.T) {
	vec := AssembleFeatures(Profile{Age: 30}, RoleOutfield, []string{"WAR_3yr", "not_a_feature"}, 2026)
	assert.Len(t, vec, 2)
	assert.Equal(t, 0.0, vec[1])
}

func TestValidateRequiredStats(t *testing.T) {
	tests := []struct {
		name    string
		stats   StatLine
		role    Role
		wantErr bool
	}{
		{"hitter with WAR", StatLine{WAR: f(4.0)}, RoleShort, false},
		{"hitter missing WAR", StatLine{AVG: f(0.300)}, RoleShort, true},
		{"pitcher with WAR and ERA", StatLine{WAR: f(3.0), ERA: f(3.50)}, RoleStarter, false},
		{"pitcher with WAR and FIP only", StatLine{WAR: f(3.0), FIP: f(3.80)}, RoleReliever, false},
		{"pitcher missing run prevention", StatLine{WAR: f(3.0)}, RoleStarter, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequiredStats(Profile{Stats: tt.stats}, tt.role)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingRequiredStat)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func indexOf(features []string) map[string]int {
	idx := make(map[string]int, len(features))
	for i, name := range features {
		idx[name] = i
	}
	return idx
}
