package valuation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ModelIDs are the role x target combinations the engine must be able to
// serve. All four artifacts must load for the engine to report ready.
var ModelIDs = []string{"batter_aav", "batter_length", "pitcher_aav", "pitcher_length"}

// Metrics are the training-time validation figures carried inside an
// artifact. WithinTolerance is the percentage of validation predictions
// that landed within the trainer's dollar tolerance of the actual value.
type Metrics struct {
	MAE             float64 `json:"mae"`
	WithinTolerance float64 `json:"within_5m"`
	CVMAEMean       float64 `json:"cv_mae_mean,omitempty"`
	CVMAEStd        float64 `json:"cv_mae_std,omitempty"`
}

// Scaler holds the fitted standardization parameters applied to every
// feature vector before inference.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// TreeNode is one node of a regression tree. Feature < 0 marks a leaf,
// in which case Value is the leaf output; otherwise Left/Right index into
// the same node slice.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Ensemble is an additive tree model: prediction = Init + sum of leaf
// values, with any learning-rate shrinkage already baked into the leaves
// by the exporter.
type Ensemble struct {
	Init  float64      `json:"init"`
	Trees [][]TreeNode `json:"trees"`
}

// Artifact is one trained model as exported by the training pipeline:
// the regressor itself, its scaler, the exact feature order it was fit
// on, validation metrics, and per-feature importances. Optional quantile
// ensembles bound the uncertainty band; optional log-target metadata
// records that the trainer fit log(y + offset) instead of y.
type Artifact struct {
	ModelID      string             `json:"model_id"`
	Features     []string           `json:"features"`
	Scaler       Scaler             `json:"scaler"`
	Model        Ensemble           `json:"model"`
	QuantileLow  *Ensemble          `json:"quantile_low,omitempty"`
	QuantileHigh *Ensemble          `json:"quantile_high,omitempty"`
	LogTarget    bool               `json:"log_target,omitempty"`
	LogOffset    float64            `json:"log_offset,omitempty"`
	Importance   map[string]float64 `json:"importance"`
	Metrics      Metrics            `json:"metrics"`
}

func (a *Artifact) validate() error {
	if len(a.Features) == 0 {
		return fmt.Errorf("artifact %s: empty feature list", a.ModelID)
	}
	if len(a.Scaler.Mean) != len(a.Features) || len(a.Scaler.Scale) != len(a.Features) {
		return fmt.Errorf("artifact %s: scaler dimensions %d/%d do not match %d features",
			a.ModelID, len(a.Scaler.Mean), len(a.Scaler.Scale), len(a.Features))
	}
	if len(a.Model.Trees) == 0 && a.Model.Init == 0 {
		return fmt.Errorf("artifact %s: empty model", a.ModelID)
	}
	return nil
}

// TopFeatures returns the n highest-weighted features in descending
// order. Ties break alphabetically so the output is deterministic.
func (a *Artifact) TopFeatures(n int) []FeatureWeight {
	out := make([]FeatureWeight, 0, len(a.Importance))
	for name, w := range a.Importance {
		out = append(out, FeatureWeight{Feature: name, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Feature < out[j].Feature
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Store holds every loaded artifact. Loaded once at startup and read-only
// afterwards; concurrent readers need no synchronization. Reload swaps
// the whole map atomically under the lock for the admin reload path.
type Store struct {
	mu        sync.RWMutex
	artifacts map[string]*Artifact
	logger    *logrus.Logger
}

func NewStore(logger *logrus.Logger) *Store {
	return &Store{
		artifacts: make(map[string]*Artifact),
		logger:    logger,
	}
}

// Load reads every required artifact from dir. Any missing or corrupt
// file fails the whole load: partial service is worse than no service,
// so the caller must treat an error here as "not ready".
func (s *Store) Load(dir string) error {
	loaded := make(map[string]*Artifact, len(ModelIDs))
	for _, id := range ModelIDs {
		path := filepath.Join(dir, id+".json")
		artifact, err := readArtifact(path)
		if err != nil {
			return fmt.Errorf("load model %s: %w", id, err)
		}
		artifact.ModelID = id
		if err := artifact.validate(); err != nil {
			return fmt.Errorf("load model %s: %w", id, err)
		}
		loaded[id] = artifact
	}

	s.mu.Lock()
	s.artifacts = loaded
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"model_dir": dir,
		"models":    len(loaded),
	}).Info("Model artifacts loaded")
	return nil
}

func readArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &artifact, nil
}

// Get returns the artifact for a model id, or ErrModelsNotLoaded when it
// is absent.
func (s *Store) Get(modelID string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artifact, ok := s.artifacts[modelID]
	if !ok {
		return nil, ErrModelsNotLoaded
	}
	return artifact, nil
}

// Ready reports whether every required artifact is available.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range ModelIDs {
		if _, ok := s.artifacts[id]; !ok {
			return false
		}
	}
	return true
}
