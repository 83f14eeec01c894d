package valuation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Prediction is a point estimate with its uncertainty band, in the
// target's natural units (millions per year for AAV, years for length).
type Prediction struct {
	Point float64
	Low   float64
	High  float64
}

// Predict scales the assembled vector with the artifact's fitted
// transform, runs the point regressor, and inverts the log transform if
// the trainer applied one. The interval comes from dedicated quantile
// regressors when the artifact carries them, otherwise point +/- the
// validation MAE. Every figure is floored so a value is never predicted
// at or below zero.
func (a *Artifact) Predict(vec []float64, floor float64) (Prediction, error) {
	if len(vec) != len(a.Features) {
		return Prediction{}, fmt.Errorf("model %s: vector length %d does not match %d features",
			a.ModelID, len(vec), len(a.Features))
	}

	scaled := a.scale(vec)
	point := a.invert(a.Model.predict(scaled))

	var low, high float64
	if a.QuantileLow != nil && a.QuantileHigh != nil {
		low = a.invert(a.QuantileLow.predict(scaled))
		high = a.invert(a.QuantileHigh.predict(scaled))
	} else {
		low = point - a.Metrics.MAE
		high = point + a.Metrics.MAE
	}

	return Prediction{
		Point: math.Max(floor, point),
		Low:   math.Max(floor, low),
		High:  math.Max(floor, high),
	}, nil
}

// Confidence is the training-time within-tolerance accuracy, capped so
// the engine never claims more certainty than the cap even when the raw
// metric exceeds it.
func (a *Artifact) Confidence(cap float64) float64 {
	return math.Min(cap, a.Metrics.WithinTolerance)
}

func (a *Artifact) scale(vec []float64) []float64 {
	scaled := make([]float64, len(vec))
	copy(scaled, vec)
	floats.Sub(scaled, a.Scaler.Mean)
	for i, s := range a.Scaler.Scale {
		if s != 0 {
			scaled[i] /= s
		}
	}
	return scaled
}

func (a *Artifact) invert(y float64) float64 {
	if a.LogTarget {
		return math.Exp(y) - a.LogOffset
	}
	return y
}

func (e *Ensemble) predict(vec []float64) float64 {
	sum := e.Init
	for _, tree := range e.Trees {
		sum += walkTree(tree, vec)
	}
	return sum
}

func walkTree(nodes []TreeNode, vec []float64) float64 {
	if len(nodes) == 0 {
		return 0
	}
	i := 0
	for {
		node := nodes[i]
		if node.Feature < 0 {
			return node.Value
		}
		if node.Feature >= len(vec) {
			// Malformed node; bail out with the node value rather than
			// index out of range.
			return node.Value
		}
		if vec[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// RoundLength converts a raw length regression output into whole contract
// years, never shorter than a single season.
func RoundLength(raw float64) int {
	length := int(math.Round(raw))
	if length < 1 {
		return 1
	}
	return length
}
