package valuation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/contract-advisor/internal/identity"
)

// HistoryProvider supplies the historical signing table the engine ranks
// comparables against and resolves names into.
type HistoryProvider interface {
	Contracts(ctx context.Context) ([]ContractRecord, error)
}

// RecentFormProvider supplies a player's trailing three-year WAR as of
// today, for judging signed deals against current form. Implementations
// return a nil pointer when no recent data exists.
type RecentFormProvider interface {
	RecentWAR(ctx context.Context, normalizedName string) (*float64, error)
}

// Engine ties the whole valuation pipeline together: identity resolution,
// feature assembly, model inference, and comparable ranking. Safe for
// concurrent use; all per-request state lives on the stack.
type Engine struct {
	store   *Store
	ranker  *Ranker
	tuning  Tuning
	history HistoryProvider
	recent  RecentFormProvider
	logger  *logrus.Logger
}

// NewEngine wires an engine. recent may be nil when no live stats source
// is configured; the recent-form comparable pass is skipped in that case.
func NewEngine(store *Store, history HistoryProvider, recent RecentFormProvider, tuning Tuning, logger *logrus.Logger) *Engine {
	return &Engine{
		store:   store,
		ranker:  NewRanker(tuning),
		tuning:  tuning,
		history: history,
		recent:  recent,
		logger:  logger,
	}
}

// Ready reports whether every required model artifact is loaded.
func (e *Engine) Ready() bool {
	return e.store.Ready()
}

// Value predicts contract terms for a hypothetical free-agent profile.
func (e *Engine) Value(ctx context.Context, profile Profile) (*Result, error) {
	return e.valueRole(ctx, profile, RoleFromPosition(profile.Position))
}

func (e *Engine) valueRole(ctx context.Context, profile Profile, role Role) (*Result, error) {
	if err := ValidateRequiredStats(profile, role); err != nil {
		return nil, fmt.Errorf("player %s (%s): %w", profile.Name, role, err)
	}

	aavModel, err := e.store.Get(role.ModelID("aav"))
	if err != nil {
		return nil, err
	}
	lengthModel, err := e.store.Get(role.ModelID("length"))
	if err != nil {
		return nil, err
	}

	year := currentSeasonYear()
	aav, err := aavModel.Predict(AssembleFeatures(profile, role, aavModel.Features, year), e.tuning.AAVFloor)
	if err != nil {
		return nil, err
	}
	length, err := lengthModel.Predict(AssembleFeatures(profile, role, lengthModel.Features, year), 0)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PlayerName:        profile.Name,
		Position:          profile.Position,
		Role:              role,
		PredictedAAV:      aav.Point,
		PredictedAAVLow:   aav.Low,
		PredictedAAVHigh:  aav.High,
		PredictedLength:   RoundLength(length.Point),
		ConfidenceScore:   aavModel.Confidence(e.tuning.ConfidenceCap),
		ModelAccuracy:     aavModel.Metrics.WithinTolerance,
		FeatureImportance: aavModel.TopFeatures(e.tuning.TopFeatures),
	}

	// A result either carries every section or does not exist; an errored
	// history lookup fails the request. An empty table is still a valid
	// (comparable-free) outcome.
	contracts, err := e.history.Contracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contract history: %w", err)
	}
	result.Comparables = e.ranker.Rank(profile, role, contracts, e.tuning.TopComparables)

	e.logger.WithFields(logrus.Fields{
		"player":        profile.Name,
		"role":          role,
		"predicted_aav": result.PredictedAAV,
		"length":        result.PredictedLength,
	}).Info("Valuation complete")
	return result, nil
}

// ValueTwoWay values a player who contributes on both sides of the ball.
// The batting profile is valued against the hitter models and the pitching
// profile against the pitcher models; either failing fails the whole call.
// CombinedAAV is the exact sum of the two point estimates.
func (e *Engine) ValueTwoWay(ctx context.Context, batting, pitching Profile) (*TwoWayResult, error) {
	batRole := RoleFromPosition(batting.Position)
	if batRole.IsPitcher() {
		batRole = RoleDH
	}
	pitRole := RoleFromPosition(pitching.Position)
	if !pitRole.IsPitcher() {
		pitRole = RoleStarter
	}

	bat, err := e.valueRole(ctx, batting, batRole)
	if err != nil {
		return nil, fmt.Errorf("batting valuation: %w", err)
	}
	pit, err := e.valueRole(ctx, pitching, pitRole)
	if err != nil {
		return nil, fmt.Errorf("pitching valuation: %w", err)
	}

	return &TwoWayResult{
		PlayerName:  batting.Name,
		Batting:     bat,
		Pitching:    pit,
		CombinedAAV: bat.PredictedAAV + pit.PredictedAAV,
	}, nil
}

// Assess looks a free-text name up in the historical signing table and
// values that player from their at-signing line, attaching the actual
// terms for over/underpay comparison. When a recent-form source is wired,
// a second comparable pass scored on trailing WAR is included.
func (e *Engine) Assess(ctx context.Context, rawName string) (*Result, error) {
	contracts, err := e.history.Contracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contract history: %w", err)
	}

	match := identity.Resolve(rawName, contractCandidates(contracts), nil)
	if !match.Found() {
		return nil, fmt.Errorf("%q: %w", rawName, ErrNoIdentityMatch)
	}
	if names := match.Names(); len(names) > 1 {
		return nil, &AmbiguousMatchError{Query: rawName, Names: names}
	}

	rec := latestContract(match.Candidates)
	profile := Profile{
		Name:     rec.PlayerName,
		Position: rec.Position,
		Age:      rec.AgeAtSigning,
		Stats:    rec.Stats,
	}
	if profile.Stats.WAR == nil {
		war := rec.WAR3yr
		profile.Stats.WAR = &war
	}
	role := RoleFromPosition(rec.Position)

	result, err := e.valueRole(ctx, profile, role)
	if err != nil {
		return nil, err
	}
	aav, length := rec.AAV, rec.Length
	result.ActualAAV = &aav
	result.ActualLength = &length
	result.ResolutionStrategy = match.Strategy

	if e.recent != nil {
		war, err := e.recent.RecentWAR(ctx, rec.NormalizedName)
		switch {
		case err != nil:
			e.logger.WithError(err).WithField("player", rec.PlayerName).Warn("Recent form lookup failed")
		case war != nil:
			profile.RecentWAR = war
			result.ComparablesRecent = e.ranker.RankRecent(profile, role, contracts, e.tuning.TopComparables)
		}
	}

	return result, nil
}

// Suggest returns alternative player names for a query that failed to
// resolve, for "did you mean" responses.
func (e *Engine) Suggest(ctx context.Context, rawName string, limit int) ([]string, error) {
	contracts, err := e.history.Contracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contract history: %w", err)
	}
	return identity.Suggestions(rawName, contractCandidates(contracts), nil, limit), nil
}

// contractCandidates adapts the signing table to the resolver's row shape.
// Ref carries the record back out of a match.
func contractCandidates(contracts []ContractRecord) []identity.Candidate {
	out := make([]identity.Candidate, len(contracts))
	for i, rec := range contracts {
		out[i] = identity.Candidate{
			Name:           rec.PlayerName,
			NormalizedName: rec.NormalizedName,
			Year:           rec.YearSigned,
			Ref:            rec,
		}
	}
	return out
}

// latestContract picks the most recent signing among matched rows. Matched
// candidates always reference the table they were built from.
func latestContract(candidates []identity.Candidate) ContractRecord {
	best := candidates[0].Ref.(ContractRecord)
	for _, c := range candidates[1:] {
		rec := c.Ref.(ContractRecord)
		if rec.YearSigned > best.YearSigned {
			best = rec
		}
	}
	return best
}
