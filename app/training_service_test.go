package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/internal/errors"
)

const trainingCSV = `year,fuel,selling_price
2010,Petrol,120000
2011,Petrol,150000
2012,Diesel,210000
2013,Diesel,240000
2014,Petrol,260000
2015,Diesel,320000
2016,Petrol,350000
2017,Diesel,420000
2017,Diesel,420000
2018,CNG,380000
2018,Petrol,460000
2019,Diesel,540000
2019,Petrol,
2020,Petrol,610000
2020,Diesel,650000
2021,Diesel,700000
2021,Petrol,680000
2022,Diesel,780000
2022,Petrol,760000
2023,Diesel,850000
`

func writeTrainingCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.csv")
	require.NoError(t, os.WriteFile(path, []byte(trainingCSV), 0o644))
	return path
}

func testParams(t *testing.T, csvPath string) TrainParams {
	t.Helper()
	dir := t.TempDir()
	return TrainParams{
		DataPath:     csvPath,
		Target:       "selling_price",
		TestFraction: 0.3,
		CurrencyRate: 1.0,
		ModelOut:     filepath.Join(dir, "rf_model.gob"),
		MetaOut:      filepath.Join(dir, "metadata.json"),
	}
}

func smallTrainer() *TrainingService {
	return &TrainingService{Trees: 20, Seed: 42}
}

func TestTrainingService_TrainProducesArtifactsAndMetadata(t *testing.T) {
	params := testParams(t, writeTrainingCSV(t))

	meta, err := smallTrainer().Train(params)
	require.NoError(t, err)

	assert.NotEmpty(t, meta.RunID)
	assert.Equal(t, "selling_price", meta.Target)
	assert.Equal(t, []string{"year"}, meta.NumericFeatures)
	assert.Equal(t, []string{"fuel"}, meta.CategoricalFeatures)

	// 20 raw rows, one exact duplicate, one missing target.
	assert.Equal(t, 18, meta.TrainingRows+meta.TestRows)
	assert.Equal(t, 6, meta.TestRows)

	assert.FileExists(t, params.ModelOut)
	assert.FileExists(t, params.MetaOut)
	assert.Greater(t, meta.Metrics.RMSE, 0.0)
}

func TestTrainingService_DeterministicMetrics(t *testing.T) {
	csvPath := writeTrainingCSV(t)

	meta1, err := smallTrainer().Train(testParams(t, csvPath))
	require.NoError(t, err)
	meta2, err := smallTrainer().Train(testParams(t, csvPath))
	require.NoError(t, err)

	// RunID and TrainedAt differ per run; the numbers must not.
	assert.Equal(t, meta1.Metrics, meta2.Metrics)
	assert.NotEqual(t, meta1.RunID, meta2.RunID)
}

func TestTrainingService_CurrencyRateScalesErrors(t *testing.T) {
	csvPath := writeTrainingCSV(t)

	base, err := smallTrainer().Train(testParams(t, csvPath))
	require.NoError(t, err)

	scaled := testParams(t, csvPath)
	scaled.CurrencyRate = 10
	converted, err := smallTrainer().Train(scaled)
	require.NoError(t, err)

	// A currency conversion rescales the target, so absolute errors scale
	// with it while the unitless fit quality stays put.
	assert.InEpsilon(t, base.Metrics.RMSE*10, converted.Metrics.RMSE, 1e-6)
	assert.InEpsilon(t, base.Metrics.MAE*10, converted.Metrics.MAE, 1e-6)
	assert.InDelta(t, base.Metrics.R2, converted.Metrics.R2, 1e-9)
}

func TestTrainingService_MissingTargetColumn(t *testing.T) {
	params := testParams(t, writeTrainingCSV(t))
	params.Target = "price"

	_, err := smallTrainer().Train(params)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaInvalid, errors.GetCode(err))
}

func TestTrainingService_RejectsBadTestFraction(t *testing.T) {
	params := testParams(t, writeTrainingCSV(t))
	params.TestFraction = 1.0

	_, err := smallTrainer().Train(params)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestTrainingService_MissingDataFile(t *testing.T) {
	params := testParams(t, filepath.Join(t.TempDir(), "absent.csv"))

	_, err := smallTrainer().Train(params)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataLoad, errors.GetCode(err))
}
