package regress

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"carprice/domain/dataset"
	apperrors "carprice/internal/errors"
)

// NumericStage holds the training-data statistics applied to one numeric
// column: median imputation followed by standardization.
type NumericStage struct {
	Median float64
	Mean   float64
	Std    float64
}

// CategoricalStage holds the training-data statistics applied to one
// categorical column: most-frequent imputation followed by one-hot encoding
// over the categories observed in training. A category unseen at training
// time encodes to an all-zero indicator vector.
type CategoricalStage struct {
	Mode       string
	Categories []string // sorted; fixes indicator column order
}

// Pipeline combines per-column preprocessing with a forest regressor.
// All state is derived from the training partition only, and the whole
// struct gob-serializes so a reload reproduces exact numeric behavior.
type Pipeline struct {
	NumericCols     []string
	CategoricalCols []string
	Numeric         map[string]NumericStage
	Categorical     map[string]CategoricalStage
	Forest          *ForestRegressor

	// Estimator configuration, applied at Fit time.
	Trees int
	Seed  int64
}

// PipelineOption is a functional config for Pipeline.
type PipelineOption func(*Pipeline)

func WithTrees(n int) PipelineOption      { return func(p *Pipeline) { p.Trees = n } }
func WithPipelineSeed(s int64) PipelineOption {
	return func(p *Pipeline) { p.Seed = s }
}

// NewPipeline builds an unfitted pipeline over the given feature columns.
func NewPipeline(numericCols, categoricalCols []string, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		NumericCols:     append([]string(nil), numericCols...),
		CategoricalCols: append([]string(nil), categoricalCols...),
		Trees:           300,
		Seed:            42,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Fit learns imputation, scaling, and encoding parameters from t and trains
// the forest on the transformed matrix. Only rows of t (the train partition)
// contribute statistics.
func (p *Pipeline) Fit(t *dataset.Table, y []float64) error {
	if t.NumRows() == 0 {
		return apperrors.SchemaInvalid("cannot fit pipeline on an empty table")
	}
	if len(y) != t.NumRows() {
		return apperrors.InternalError(
			fmt.Sprintf("target length %d does not match table rows %d", len(y), t.NumRows()))
	}

	p.Numeric = make(map[string]NumericStage, len(p.NumericCols))
	p.Categorical = make(map[string]CategoricalStage, len(p.CategoricalCols))

	for _, name := range p.NumericCols {
		stage, err := fitNumericStage(t, name)
		if err != nil {
			return err
		}
		p.Numeric[name] = stage
	}
	for _, name := range p.CategoricalCols {
		stage, err := fitCategoricalStage(t, name)
		if err != nil {
			return err
		}
		p.Categorical[name] = stage
	}

	X := make([][]float64, t.NumRows())
	colIdx, err := p.columnIndex(t)
	if err != nil {
		return err
	}
	for i, row := range t.Rows {
		vec, err := p.transformRow(row, colIdx)
		if err != nil {
			return apperrors.Wrap(err, "transforming training rows")
		}
		X[i] = vec
	}

	p.Forest = NewForestRegressor(WithNEstimators(p.Trees), WithSeed(p.Seed))
	if err := p.Forest.Fit(X, y); err != nil {
		return apperrors.Wrap(err, "fitting forest regressor")
	}
	return nil
}

// Predict transforms every row of t and runs it through the fitted forest.
// The table must carry every feature column the pipeline was fitted on.
func (p *Pipeline) Predict(t *dataset.Table) ([]float64, error) {
	if p.Forest == nil {
		return nil, apperrors.InternalError("pipeline is not fitted")
	}
	colIdx, err := p.columnIndex(t)
	if err != nil {
		return nil, err
	}

	out := make([]float64, t.NumRows())
	for i, row := range t.Rows {
		vec, err := p.transformRow(row, colIdx)
		if err != nil {
			return nil, apperrors.PredictionFailed("prediction failed", err)
		}
		out[i] = p.Forest.PredictOne(vec)
	}
	return out, nil
}

// FeatureDim returns the width of the transformed feature matrix.
func (p *Pipeline) FeatureDim() int {
	dim := len(p.NumericCols)
	for _, name := range p.CategoricalCols {
		dim += len(p.Categorical[name].Categories)
	}
	return dim
}

func fitNumericStage(t *dataset.Table, name string) (NumericStage, error) {
	col := t.Column(name)
	if col == nil {
		return NumericStage{}, apperrors.SchemaInvalid(
			fmt.Sprintf("numeric column %q not in table", name))
	}

	vals := make([]float64, 0, len(col))
	for _, cell := range col {
		if dataset.IsMissing(cell) {
			continue
		}
		v, err := dataset.ParseNumeric(cell)
		if err != nil {
			return NumericStage{}, apperrors.SchemaInvalid(
				fmt.Sprintf("column %q holds non-numeric value %q", name, cell))
		}
		vals = append(vals, v)
	}

	var median float64
	if len(vals) > 0 {
		m, err := stats.Median(vals)
		if err != nil {
			return NumericStage{}, apperrors.Wrap(err, "computing column median")
		}
		median = m
	}

	imputed := make([]float64, len(col))
	for i, cell := range col {
		if dataset.IsMissing(cell) {
			imputed[i] = median
			continue
		}
		v, _ := dataset.ParseNumeric(cell)
		imputed[i] = v
	}

	mean := stat.Mean(imputed, nil)
	std := stat.PopStdDev(imputed, nil)
	if std == 0 {
		std = 1
	}
	return NumericStage{Median: median, Mean: mean, Std: std}, nil
}

func fitCategoricalStage(t *dataset.Table, name string) (CategoricalStage, error) {
	col := t.Column(name)
	if col == nil {
		return CategoricalStage{}, apperrors.SchemaInvalid(
			fmt.Sprintf("categorical column %q not in table", name))
	}

	counts := make(map[string]int)
	for _, cell := range col {
		if dataset.IsMissing(cell) {
			continue
		}
		counts[cell]++
	}

	// Most frequent value; lexicographic order breaks ties deterministically.
	mode := ""
	best := -1
	for v, c := range counts {
		if c > best || (c == best && v < mode) {
			mode, best = v, c
		}
	}

	seen := make(map[string]struct{}, len(counts))
	for v := range counts {
		seen[v] = struct{}{}
	}
	if best >= 0 {
		seen[mode] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for v := range seen {
		categories = append(categories, v)
	}
	sort.Strings(categories)

	return CategoricalStage{Mode: mode, Categories: categories}, nil
}

// columnIndex maps every pipeline feature column to its position in t.
func (p *Pipeline) columnIndex(t *dataset.Table) (map[string]int, error) {
	idx := make(map[string]int, len(p.NumericCols)+len(p.CategoricalCols))
	for _, name := range p.NumericCols {
		j := t.ColumnIndex(name)
		if j < 0 {
			return nil, apperrors.SchemaInvalid(fmt.Sprintf("missing feature column %q", name))
		}
		idx[name] = j
	}
	for _, name := range p.CategoricalCols {
		j := t.ColumnIndex(name)
		if j < 0 {
			return nil, apperrors.SchemaInvalid(fmt.Sprintf("missing feature column %q", name))
		}
		idx[name] = j
	}
	return idx, nil
}

// transformRow produces the numeric feature vector for one row:
// numeric columns imputed and standardized, categorical columns imputed and
// one-hot encoded in fixed category order.
func (p *Pipeline) transformRow(row []string, colIdx map[string]int) ([]float64, error) {
	vec := make([]float64, 0, p.FeatureDim())

	for _, name := range p.NumericCols {
		stage := p.Numeric[name]
		cell := row[colIdx[name]]
		v := stage.Median
		if !dataset.IsMissing(cell) {
			parsed, err := dataset.ParseNumeric(cell)
			if err != nil {
				return nil, fmt.Errorf("feature %q expects a number, got %q", name, cell)
			}
			v = parsed
		}
		vec = append(vec, (v-stage.Mean)/stage.Std)
	}

	for _, name := range p.CategoricalCols {
		stage := p.Categorical[name]
		cell := row[colIdx[name]]
		if dataset.IsMissing(cell) {
			cell = stage.Mode
		}
		indicator := make([]float64, len(stage.Categories))
		for k, cat := range stage.Categories {
			if cell == cat {
				indicator[k] = 1
				break
			}
		}
		vec = append(vec, indicator...)
	}

	return vec, nil
}
