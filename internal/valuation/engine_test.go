package valuation

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/contract-advisor/internal/identity"
)

type stubHistory struct {
	records []ContractRecord
	err     error
}

func (s stubHistory) Contracts(ctx context.Context) ([]ContractRecord, error) {
	return s.records, s.err
}

type stubRecentForm struct {
	war *float64
	err error
}

func (s stubRecentForm) RecentWAR(ctx context.Context, normalizedName string) (*float64, error) {
	return s.war, s.err
}

// testStore returns a store with constant regressors for all four model
// ids: batter AAV 20, pitcher AAV 22, lengths 4.4 and 3.6.
func testStore(t *testing.T) *Store {
	t.Helper()
	inits := map[string]float64{
		"batter_aav":     20.0,
		"batter_length":  4.4,
		"pitcher_aav":    22.0,
		"pitcher_length": 3.6,
	}
	store := NewStore(logrus.New())
	for id, init := range inits {
		a := constArtifact(init)
		a.ModelID = id
		a.Importance = map[string]float64{"WAR_3yr": 1.0}
		store.artifacts[id] = a
	}
	return store
}

func testEngine(t *testing.T, history HistoryProvider, recent RecentFormProvider) *Engine {
	t.Helper()
	return NewEngine(testStore(t), history, recent, DefaultTuning(), logrus.New())
}

func hitterProfile(war float64) Profile {
	return Profile{Name: "Test Hitter", Position: "SS", Age: 27, Stats: StatLine{WAR: f(war)}}
}

func TestValueHappyPath(t *testing.T) {
	history := stubHistory{records: []ContractRecord{
		hitterRecord("Comp A", "SS", 2023, 27, 24, 6, 5.0),
		hitterRecord("Comp B", "OF", 2021, 30, 12, 3, 2.0),
	}}
	engine := testEngine(t, history, nil)

	result, err := engine.Value(context.Background(), hitterProfile(5.0))
	require.NoError(t, err)

	assert.Equal(t, 20.0, result.PredictedAAV)
	assert.Equal(t, 17.0, result.PredictedAAVLow)
	assert.Equal(t, 23.0, result.PredictedAAVHigh)
	assert.Equal(t, 4, result.PredictedLength)
	assert.Equal(t, RoleShort, result.Role)
	assert.Equal(t, 72.0, result.ConfidenceScore)
	assert.Len(t, result.Comparables, 2)
	require.Len(t, result.FeatureImportance, 1)
	assert.Equal(t, "WAR_3yr", result.FeatureImportance[0].Feature)
}

func TestValueRejectsMissingRequiredStat(t *testing.T) {
	engine := testEngine(t, stubHistory{}, nil)

	profile := Profile{Name: "No WAR", Position: "SS", Age: 27}
	_, err := engine.Value(context.Background(), profile)
	assert.ErrorIs(t, err, ErrMissingRequiredStat)
}

func TestValueFailsWhenModelsNotLoaded(t *testing.T) {
	engine := NewEngine(NewStore(logrus.New()), stubHistory{}, nil, DefaultTuning(), logrus.New())
	assert.False(t, engine.Ready())

	_, err := engine.Value(context.Background(), hitterProfile(4.0))
	assert.ErrorIs(t, err, ErrModelsNotLoaded)
}

func TestValueFailsWhenHistoryUnavailable(t *testing.T) {
	history := stubHistory{err: errors.New("connection refused")}
	engine := testEngine(t, history, nil)

	result, err := engine.Value(context.Background(), hitterProfile(5.0))
	require.Error(t, err, "an errored history lookup fails the whole request")
	assert.Nil(t, result, "no partially-populated result on failure")
}

func TestValueEmptyHistoryTableStillSucceeds(t *testing.T) {
	engine := testEngine(t, stubHistory{}, nil)

	result, err := engine.Value(context.Background(), hitterProfile(5.0))
	require.NoError(t, err)
	assert.Equal(t, 20.0, result.PredictedAAV)
	assert.Empty(t, result.Comparables)
}

func TestValueTwoWayCombinedIsExactSum(t *testing.T) {
	engine := testEngine(t, stubHistory{}, nil)

	batting := Profile{Name: "Two Way", Position: "DH", Age: 29, Stats: StatLine{WAR: f(4.0)}}
	pitching := Profile{Name: "Two Way", Position: "SP", Age: 29, Stats: StatLine{WAR: f(3.5), ERA: f(3.10)}}

	result, err := engine.ValueTwoWay(context.Background(), batting, pitching)
	require.NoError(t, err)

	assert.Equal(t, 20.0, result.Batting.PredictedAAV)
	assert.Equal(t, 22.0, result.Pitching.PredictedAAV)
	assert.Equal(t, 42.0, result.CombinedAAV, "combined value is the exact sum of the two estimates")
	assert.Equal(t, RoleDH, result.Batting.Role)
	assert.Equal(t, RoleStarter, result.Pitching.Role)
}

func TestValueTwoWayFailsFast(t *testing.T) {
	engine := testEngine(t, stubHistory{}, nil)

	batting := Profile{Name: "Two Way", Position: "DH", Age: 29, Stats: StatLine{WAR: f(4.0)}}
	pitchingNoERA := Profile{Name: "Two Way", Position: "SP", Age: 29, Stats: StatLine{WAR: f(3.5)}}

	result, err := engine.ValueTwoWay(context.Background(), batting, pitchingNoERA)
	assert.ErrorIs(t, err, ErrMissingRequiredStat)
	assert.Nil(t, result)
}

func judgeRecord(year int, aav float64, length int) ContractRecord {
	return ContractRecord{
		PlayerName:     "Aaron Judge",
		NormalizedName: "aaron judge",
		Position:       "OF",
		YearSigned:     year,
		AgeAtSigning:   30,
		AAV:            aav,
		Length:         length,
		WAR3yr:         7.1,
	}
}

func TestAssessResolvesNameAndAttachesActualTerms(t *testing.T) {
	history := stubHistory{records: []ContractRecord{
		judgeRecord(2022, 40.0, 9),
		hitterRecord("Someone Else", "2B", 2020, 28, 10, 3, 2.0),
	}}
	engine := testEngine(t, history, stubRecentForm{war: f(5.5)})

	result, err := engine.Assess(context.Background(), "J. Judge")
	require.NoError(t, err)

	assert.Equal(t, "Aaron Judge", result.PlayerName)
	assert.Equal(t, identity.StrategyLastFirstInitial, result.ResolutionStrategy)
	require.NotNil(t, result.ActualAAV)
	assert.Equal(t, 40.0, *result.ActualAAV)
	require.NotNil(t, result.ActualLength)
	assert.Equal(t, 9, *result.ActualLength)
	assert.Equal(t, 20.0, result.PredictedAAV)
	assert.NotEmpty(t, result.ComparablesRecent, "recent-form pass runs when trailing WAR exists")
}

func TestAssessPicksLatestContract(t *testing.T) {
	history := stubHistory{records: []ContractRecord{
		judgeRecord(2019, 8.5, 1),
		judgeRecord(2022, 40.0, 9),
	}}
	engine := testEngine(t, history, nil)

	result, err := engine.Assess(context.Background(), "Aaron Judge")
	require.NoError(t, err)
	assert.Equal(t, 40.0, *result.ActualAAV)
}

func TestAssessSkipsRecentPassWithoutTrailingWAR(t *testing.T) {
	history := stubHistory{records: []ContractRecord{judgeRecord(2022, 40.0, 9)}}
	engine := testEngine(t, history, stubRecentForm{war: nil})

	result, err := engine.Assess(context.Background(), "Aaron Judge")
	require.NoError(t, err)
	assert.Empty(t, result.ComparablesRecent)
}

func TestAssessUnknownName(t *testing.T) {
	history := stubHistory{records: []ContractRecord{judgeRecord(2022, 40.0, 9)}}
	engine := testEngine(t, history, nil)

	_, err := engine.Assess(context.Background(), "Zyx Qwerty")
	assert.ErrorIs(t, err, ErrNoIdentityMatch)
}

func TestAssessAmbiguousName(t *testing.T) {
	history := stubHistory{records: []ContractRecord{
		{PlayerName: "Luis Garciaparra", NormalizedName: "luis garciaparra", Position: "SS", YearSigned: 2021, AgeAtSigning: 27, AAV: 12, Length: 4, WAR3yr: 3.0},
		{PlayerName: "Luisa Garciamendez", NormalizedName: "luisa garciamendez", Position: "OF", YearSigned: 2022, AgeAtSigning: 25, AAV: 9, Length: 3, WAR3yr: 2.1},
	}}
	engine := testEngine(t, history, nil)

	_, err := engine.Assess(context.Background(), "Luis Garcia")
	require.Error(t, err)

	var ambiguous *AmbiguousMatchError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Names, 2)
	assert.ErrorIs(t, err, ErrNoIdentityMatch, "ambiguity still reads as not-found to coarse callers")
}
