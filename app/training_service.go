package app

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"carprice/adapters/tabular"
	"carprice/domain/dataset"
	"carprice/domain/model"
	"carprice/internal/artifacts"
	"carprice/internal/errors"
	"carprice/internal/regress"
)

// splitSeed fixes the shuffle and estimator seed so repeated runs over the
// same input produce identical metrics.
const splitSeed int64 = 42

// TrainParams carries one training run's inputs and output paths.
type TrainParams struct {
	DataPath     string
	Target       string
	TestFraction float64
	CurrencyRate float64
	ModelOut     string
	MetaOut      string
}

// TrainingService runs the offline load/clean/split/fit/evaluate/persist
// batch job.
type TrainingService struct {
	Trees int
	Seed  int64
}

// NewTrainingService returns a trainer with the production estimator size.
func NewTrainingService() *TrainingService {
	return &TrainingService{Trees: 300, Seed: splitSeed}
}

// Train executes the full training run and returns the persisted metadata.
// Any step failure aborts the run; artifacts are written atomically at the
// end, so a failed run leaves nothing partially written.
func (s *TrainingService) Train(params TrainParams) (*model.Metadata, error) {
	if params.TestFraction < 0 || params.TestFraction >= 1 {
		return nil, errors.InvalidInput(
			fmt.Sprintf("test fraction must be in [0, 1), got %v", params.TestFraction))
	}
	if params.CurrencyRate == 0 {
		params.CurrencyRate = 1.0
	}

	table, err := tabular.NewDataReader(params.DataPath).ReadTable()
	if err != nil {
		return nil, err
	}
	if !table.HasColumn(params.Target) {
		return nil, errors.SchemaInvalid(
			fmt.Sprintf("target column %q not in dataset columns %v", params.Target, table.Columns))
	}

	cleaned := table.DropDuplicates().DropMissingIn(params.Target)
	if cleaned.NumRows() < 2 {
		return nil, errors.SchemaInvalid(
			fmt.Sprintf("dataset has only %d usable rows after cleaning", cleaned.NumRows()))
	}
	log.Printf("[trainer] %d rows after cleaning (%d raw)", cleaned.NumRows(), table.NumRows())

	y, err := targetVector(cleaned, params.Target, params.CurrencyRate)
	if err != nil {
		return nil, err
	}

	numericCols, categoricalCols, err := dataset.DetectFeatureTypes(cleaned, params.Target)
	if err != nil {
		return nil, err
	}

	trainIdx, testIdx := regress.TrainTestSplit(cleaned.NumRows(), params.TestFraction, s.Seed)
	if len(trainIdx) == 0 {
		return nil, errors.InvalidInput("test fraction leaves no training rows")
	}

	trainTable := cleaned.Select(trainIdx)
	yTrain := selectFloats(y, trainIdx)

	pipeline := regress.NewPipeline(numericCols, categoricalCols,
		regress.WithTrees(s.Trees), regress.WithPipelineSeed(s.Seed))
	if err := pipeline.Fit(trainTable, yTrain); err != nil {
		return nil, err
	}

	var evalMetrics model.Metrics
	if len(testIdx) > 0 {
		testTable := cleaned.Select(testIdx)
		yPred, err := pipeline.Predict(testTable)
		if err != nil {
			return nil, errors.Wrap(err, "evaluating on test partition")
		}
		evalMetrics = regress.Evaluate(selectFloats(y, testIdx), yPred)
	}

	meta := &model.Metadata{
		RunID:               uuid.NewString(),
		Target:              params.Target,
		NumericFeatures:     numericCols,
		CategoricalFeatures: categoricalCols,
		TrainingRows:        len(trainIdx),
		TestRows:            len(testIdx),
		Metrics:             evalMetrics,
		CurrencyRate:        params.CurrencyRate,
		TrainedAt:           time.Now().UTC(),
	}

	store := artifacts.NewFileStore(params.ModelOut, params.MetaOut)
	if err := store.SavePipeline(pipeline); err != nil {
		return nil, err
	}
	if err := store.SaveMetadata(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// targetVector parses the target column, applying the currency multiplier
// before any split or fit sees the values.
func targetVector(t *dataset.Table, target string, currencyRate float64) ([]float64, error) {
	idx := t.ColumnIndex(target)
	y := make([]float64, t.NumRows())
	for i, row := range t.Rows {
		v, err := dataset.ParseNumeric(row[idx])
		if err != nil {
			return nil, errors.SchemaInvalid(
				fmt.Sprintf("target column %q holds non-numeric value %q", target, row[idx]))
		}
		y[i] = v * currencyRate
	}
	return y, nil
}

func selectFloats(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}
