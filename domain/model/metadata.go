package model

import "time"

// Metrics holds held-out evaluation measures for a trained pipeline.
type Metrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// Metadata describes one training run. It is written once by the trainer
// and read by the prediction service (request validation) and the UI
// (form rendering).
type Metadata struct {
	RunID               string    `json:"run_id"`
	Target              string    `json:"target"`
	NumericFeatures     []string  `json:"numeric_features"`
	CategoricalFeatures []string  `json:"categorical_features"`
	TrainingRows        int       `json:"training_rows"`
	TestRows            int       `json:"test_rows"`
	Metrics             Metrics   `json:"metrics"`
	CurrencyRate        float64   `json:"currency_rate"`
	TrainedAt           time.Time `json:"trained_at"`
}

// FeatureColumns returns the full expected feature order:
// numeric features first, then categorical, as frozen at training time.
func (m *Metadata) FeatureColumns() []string {
	cols := make([]string, 0, len(m.NumericFeatures)+len(m.CategoricalFeatures))
	cols = append(cols, m.NumericFeatures...)
	cols = append(cols, m.CategoricalFeatures...)
	return cols
}
