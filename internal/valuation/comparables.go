package valuation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ContractRecord is one historical signing: who, in what role, at what
// age, for how much, and how they were performing when the ink dried.
// Immutable once the table is loaded.
type ContractRecord struct {
	PlayerName     string
	NormalizedName string
	Position       string
	YearSigned     int
	AgeAtSigning   int
	AAV            float64 // millions per year
	TotalValue     float64
	Length         int
	WAR3yr         float64

	// Stats is the full line at signing time, when the table has it.
	// WAR3yr is denormalized out of it so ranking never touches pointers.
	Stats StatLine
}

// Ranker scores historical signings against a query profile using a
// fixed weighted similarity. Stateless beyond its tuning.
type Ranker struct {
	tuning Tuning
}

func NewRanker(tuning Tuning) *Ranker {
	return &Ranker{tuning: tuning}
}

// Rank returns the topN most similar signings for a profile, scored on
// the profile's performance at the valuation horizon.
func (r *Ranker) Rank(profile Profile, role Role, table []ContractRecord, topN int) []Comparable {
	war := 0.0
	if profile.Stats.WAR != nil {
		war = *profile.Stats.WAR
	}
	return r.rank(war, profile.Age, role, table, topN)
}

// RankRecent substitutes the profile's recent trailing performance for
// its at-signing performance, leaving the algorithm otherwise unchanged.
// Used when judging whether a currently signed deal still reflects the
// player's present level.
func (r *Ranker) RankRecent(profile Profile, role Role, table []ContractRecord, topN int) []Comparable {
	war := 0.0
	switch {
	case profile.RecentWAR != nil:
		war = *profile.RecentWAR
	case profile.Stats.WAR != nil:
		war = *profile.Stats.WAR
	}
	return r.rank(war, profile.Age, role, table, topN)
}

func (r *Ranker) rank(war float64, age int, role Role, table []ContractRecord, topN int) []Comparable {
	// Same broad type only: a pitcher is never a comparable for a
	// hitter, whatever the numbers say.
	candidates := make([]ContractRecord, 0, len(table))
	for _, rec := range table {
		if IsPitcherPosition(rec.Position) == role.IsPitcher() {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	currentYear := currentSeasonYear()

	warDeltas := make([]float64, len(candidates))
	ageDeltas := make([]float64, len(candidates))
	yearDeltas := make([]float64, len(candidates))
	for i, rec := range candidates {
		warDeltas[i] = math.Abs(rec.WAR3yr - war)
		ageDeltas[i] = math.Abs(float64(rec.AgeAtSigning - age))
		yearDeltas[i] = float64(currentYear - rec.YearSigned)
	}

	// Max-normalize over the filtered set. A zero max means every
	// candidate is identical on that axis; treat the denominator as 1 so
	// the component contributes its full weight uniformly instead of
	// dividing by zero.
	maxWAR := nonZero(floats.Max(warDeltas))
	maxAge := nonZero(floats.Max(ageDeltas))
	maxYear := nonZero(floats.Max(yearDeltas))

	w := r.tuning.Similarity
	scores := make([]float64, len(candidates))
	for i, rec := range candidates {
		score := 0.0
		if RoleFromPosition(rec.Position) == role {
			score += w.Position
		}
		score += (1 - warDeltas[i]/maxWAR) * w.Performance
		score += (1 - ageDeltas[i]/maxAge) * w.Age
		score += (1 - yearDeltas[i]/maxYear) * w.Recency
		scores[i] = score
	}

	// Stable sort: equal scores keep original table order.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topN > 0 && len(order) > topN {
		order = order[:topN]
	}

	out := make([]Comparable, 0, len(order))
	for _, i := range order {
		rec := candidates[i]
		out = append(out, Comparable{
			Name:            rec.PlayerName,
			Position:        rec.Position,
			YearSigned:      rec.YearSigned,
			AgeAtSigning:    rec.AgeAtSigning,
			AAV:             rec.AAV,
			Length:          rec.Length,
			WAR3yr:          rec.WAR3yr,
			SimilarityScore: math.Round(scores[i]*10) / 10,
			IsExtension:     r.IsExtension(rec),
		})
	}
	return out
}

// IsExtension flags a likely below-market pre-free-agency extension:
// young player, long commitment. Both thresholds are empirical and come
// from tuning, not from the models.
func (r *Ranker) IsExtension(rec ContractRecord) bool {
	return rec.AgeAtSigning <= r.tuning.ExtensionMaxAge && rec.Length >= r.tuning.ExtensionMinLength
}

func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
