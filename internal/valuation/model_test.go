package valuation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constArtifact builds a minimal artifact whose regressor always predicts
// init, with an identity scaler over a single feature.
func constArtifact(init float64) *Artifact {
	return &Artifact{
		ModelID:  "batter_aav",
		Features: []string{"WAR_3yr"},
		Scaler:   Scaler{Mean: []float64{0}, Scale: []float64{1}},
		Model:    Ensemble{Init: init},
		Metrics:  Metrics{MAE: 3.0, WithinTolerance: 72.0},
	}
}

func TestPredictPointAndMAEInterval(t *testing.T) {
	a := constArtifact(20.0)

	pred, err := a.Predict([]float64{4.0}, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 20.0, pred.Point)
	assert.Equal(t, 17.0, pred.Low, "no quantile models, interval is point +/- MAE")
	assert.Equal(t, 23.0, pred.High)
}

func TestPredictFloorsEveryFigure(t *testing.T) {
	a := constArtifact(-8.0)

	pred, err := a.Predict([]float64{0.0}, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 0.5, pred.Point, "a contract value is never at or below zero")
	assert.Equal(t, 0.5, pred.Low)
	assert.Equal(t, 0.5, pred.High)
}

func TestPredictInvertsLogTarget(t *testing.T) {
	// Trained on log(y + 1); raw output 3 means y = e^3 - 1.
	a := constArtifact(3.0)
	a.LogTarget = true
	a.LogOffset = 1.0

	pred, err := a.Predict([]float64{1.0}, 0.5)
	require.NoError(t, err)

	assert.InDelta(t, 19.0855, pred.Point, 0.001)
}

func TestPredictQuantileIntervalWinsOverMAE(t *testing.T) {
	a := constArtifact(20.0)
	a.QuantileLow = &Ensemble{Init: 14.0}
	a.QuantileHigh = &Ensemble{Init: 31.0}

	pred, err := a.Predict([]float64{2.0}, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 14.0, pred.Low)
	assert.Equal(t, 31.0, pred.High)
}

func TestPredictRejectsWrongVectorLength(t *testing.T) {
	a := constArtifact(10.0)
	_, err := a.Predict([]float64{1.0, 2.0}, 0.5)
	assert.Error(t, err)
}

func TestPredictTreeWalkAndScaling(t *testing.T) {
	a := &Artifact{
		ModelID:  "batter_aav",
		Features: []string{"WAR_3yr"},
		// Standardize x with mean 1, scale 2.
		Scaler: Scaler{Mean: []float64{1}, Scale: []float64{2}},
		Model: Ensemble{
			Init: 10.0,
			Trees: [][]TreeNode{{
				{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
				{Feature: -1, Value: -2.0},
				{Feature: -1, Value: 4.0},
			}},
		},
		Metrics: Metrics{MAE: 1.0, WithinTolerance: 70.0},
	}

	// x=2 standardizes to 0.5, takes the left branch.
	left, err := a.Predict([]float64{2.0}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 8.0, left.Point)

	// x=4 standardizes to 1.5, takes the right branch.
	right, err := a.Predict([]float64{4.0}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 14.0, right.Point)
}

func TestPredictZeroScaleLeavesFeatureUnscaled(t *testing.T) {
	a := constArtifact(5.0)
	a.Scaler = Scaler{Mean: []float64{3}, Scale: []float64{0}}

	pred, err := a.Predict([]float64{7.0}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, pred.Point)
}

func TestConfidenceIsCapped(t *testing.T) {
	a := constArtifact(10.0)

	a.Metrics.WithinTolerance = 98.4
	assert.Equal(t, 95.0, a.Confidence(95))

	a.Metrics.WithinTolerance = 71.2
	assert.Equal(t, 71.2, a.Confidence(95))
}

func TestRoundLength(t *testing.T) {
	tests := []struct {
		raw  float64
		want int
	}{
		{3.4, 3},
		{3.6, 4},
		{0.9, 1},
		{0.2, 1},
		{-1.5, 1},
		{7.5, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundLength(tt.raw))
	}
}

func TestTopFeaturesOrdersByWeightThenName(t *testing.T) {
	a := constArtifact(10.0)
	a.Importance = map[string]float64{
		"WAR_3yr":      0.41,
		"age":          0.20,
		"wRC_plus_3yr": 0.20,
		"HR_3yr":       0.05,
	}

	top := a.TopFeatures(3)
	require.Len(t, top, 3)
	assert.Equal(t, "WAR_3yr", top[0].Feature)
	assert.Equal(t, "age", top[1].Feature, "equal weights order alphabetically")
	assert.Equal(t, "wRC_plus_3yr", top[2].Feature)
}

func writeArtifactFile(t *testing.T, dir, id string) {
	t.Helper()
	a := constArtifact(15.0)
	a.ModelID = id
	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644))
}

func TestStoreLoadAllOrNothing(t *testing.T) {
	logger := logrus.New()
	dir := t.TempDir()

	// Three of four artifacts present: load fails and the store stays
	// not ready.
	for _, id := range ModelIDs[:3] {
		writeArtifactFile(t, dir, id)
	}
	store := NewStore(logger)
	assert.Error(t, store.Load(dir))
	assert.False(t, store.Ready())

	_, err := store.Get("batter_aav")
	assert.ErrorIs(t, err, ErrModelsNotLoaded)

	// Complete the set and reload.
	writeArtifactFile(t, dir, ModelIDs[3])
	require.NoError(t, store.Load(dir))
	assert.True(t, store.Ready())

	a, err := store.Get("pitcher_length")
	require.NoError(t, err)
	assert.Equal(t, "pitcher_length", a.ModelID)
}
