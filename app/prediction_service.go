package app

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"carprice/domain/dataset"
	"carprice/domain/model"
	"carprice/internal/errors"
	"carprice/internal/regress"
)

// ArtifactStore loads persisted training artifacts.
type ArtifactStore interface {
	LoadPipeline() (*regress.Pipeline, error)
	LoadMetadata() (*model.Metadata, error)
}

// HealthStatus reports artifact availability and the frozen feature schema.
type HealthStatus struct {
	Status              string   `json:"status"`
	Model               string   `json:"model,omitempty"`
	Features            []string `json:"features,omitempty"`
	NumericFeatures     []string `json:"numeric_features,omitempty"`
	CategoricalFeatures []string `json:"categorical_features,omitempty"`
	Detail              string   `json:"detail,omitempty"`
}

// PredictionService serves single-row predictions from a process-wide cached
// (pipeline, metadata) pair. The pair is loaded lazily once and is read-only
// afterwards; Reload discards it for operability (e.g. after retraining).
type PredictionService struct {
	store ArtifactStore

	mu       sync.RWMutex
	pipeline *regress.Pipeline
	meta     *model.Metadata
}

// NewPredictionService creates a service over the given artifact store.
func NewPredictionService(store ArtifactStore) *PredictionService {
	return &PredictionService{store: store}
}

// artifacts returns the cached pair, loading it on first use. Concurrent
// first calls are serialized so the artifacts load exactly once.
func (s *PredictionService) artifacts() (*regress.Pipeline, *model.Metadata, error) {
	s.mu.RLock()
	if s.pipeline != nil {
		p, m := s.pipeline, s.meta
		s.mu.RUnlock()
		return p, m, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipeline != nil {
		return s.pipeline, s.meta, nil
	}

	pipeline, err := s.store.LoadPipeline()
	if err != nil {
		return nil, nil, err
	}
	meta, err := s.store.LoadMetadata()
	if err != nil {
		return nil, nil, err
	}
	s.pipeline, s.meta = pipeline, meta
	return pipeline, meta, nil
}

// Reload drops the cached artifacts and loads them fresh from disk.
func (s *PredictionService) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline, s.meta = nil, nil

	pipeline, err := s.store.LoadPipeline()
	if err != nil {
		return err
	}
	meta, err := s.store.LoadMetadata()
	if err != nil {
		return err
	}
	s.pipeline, s.meta = pipeline, meta
	return nil
}

// Health reports whether artifacts are loadable, plus the expected features.
func (s *PredictionService) Health() HealthStatus {
	_, meta, err := s.artifacts()
	if err != nil {
		return HealthStatus{Status: "error", Detail: err.Error()}
	}
	return HealthStatus{
		Status:              "ok",
		Model:               "rf",
		Features:            meta.FeatureColumns(),
		NumericFeatures:     meta.NumericFeatures,
		CategoricalFeatures: meta.CategoricalFeatures,
	}
}

// Predict builds a single row over exactly the metadata's feature columns,
// in their frozen order, and runs it through the pipeline. A feature absent
// from the request (or explicitly null) becomes a missing value that the
// imputation stages absorb; this permissiveness is deliberate, matching the
// form UI where any field may be left blank.
func (s *PredictionService) Predict(features map[string]interface{}) (float64, error) {
	pipeline, meta, err := s.artifacts()
	if err != nil {
		return 0, err
	}

	cols := meta.FeatureColumns()
	row := make([]string, len(cols))
	for i, col := range cols {
		row[i] = formatCell(features[col])
	}

	table := &dataset.Table{Columns: cols, Rows: [][]string{row}}
	preds, err := pipeline.Predict(table)
	if err != nil {
		return 0, err
	}

	price := preds[0]
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errors.PredictionFailed("pipeline produced a non-finite price", nil)
	}
	return price, nil
}

// formatCell renders a loosely-typed request value as a table cell.
// nil (absent or JSON null) becomes the missing-value marker.
func formatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
