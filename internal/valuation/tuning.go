package valuation

// SimilarityWeights are the empirical component weights of the comparable
// score. They sum to 100 and were chosen by eyeballing historical
// rankings, not learned; do not re-tune them without new ground truth.
type SimilarityWeights struct {
	Position    float64 `mapstructure:"position"`
	Performance float64 `mapstructure:"performance"`
	Age         float64 `mapstructure:"age"`
	Recency     float64 `mapstructure:"recency"`
}

// Tuning collects the named empirical constants of the engine. All are
// overridable through configuration; the defaults mirror the values the
// models were validated against.
type Tuning struct {
	Similarity SimilarityWeights

	// A signing at or below ExtensionMaxAge for at least
	// ExtensionMinLength years is flagged as a likely below-market
	// pre-free-agency extension.
	ExtensionMaxAge    int
	ExtensionMinLength int

	// ConfidenceCap bounds the reported confidence even when the raw
	// validation metric exceeds it.
	ConfidenceCap float64

	// AAVFloor is the minimum point estimate and interval bound, in
	// millions. A value can never be predicted as zero or negative.
	AAVFloor float64

	TopComparables int
	TopFeatures    int
}

// DefaultTuning returns the constants the shipped models were validated
// with.
func DefaultTuning() Tuning {
	return Tuning{
		Similarity: SimilarityWeights{
			Position:    40,
			Performance: 35,
			Age:         15,
			Recency:     10,
		},
		ExtensionMaxAge:    25,
		ExtensionMinLength: 6,
		ConfidenceCap:      95,
		AAVFloor:           0.5,
		TopComparables:     5,
		TopFeatures:        5,
	}
}
