package artifacts

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/domain/dataset"
	"carprice/domain/model"
	"carprice/internal/errors"
	"carprice/internal/regress"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(
		filepath.Join(dir, "models", "rf_model.gob"),
		filepath.Join(dir, "models", "metadata.json"),
	)
}

func TestFileStore_PipelineRoundTrip(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"year", "fuel"},
		Rows: [][]string{
			{"2012", "Petrol"}, {"2014", "Diesel"}, {"2016", "Petrol"},
			{"2018", "Diesel"}, {"2020", "Petrol"}, {"2021", "Diesel"},
		},
	}
	y := []float64{200, 350, 480, 640, 810, 900}

	p := regress.NewPipeline([]string{"year"}, []string{"fuel"}, regress.WithTrees(10))
	require.NoError(t, p.Fit(table, y))

	store := tempStore(t)
	require.NoError(t, store.SavePipeline(p))

	loaded, err := store.LoadPipeline()
	require.NoError(t, err)

	want, err := p.Predict(table)
	require.NoError(t, err)
	got, err := loaded.Predict(table)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_MetadataRoundTrip(t *testing.T) {
	store := tempStore(t)
	meta := &model.Metadata{
		RunID:               "b2f6a1de-0000-4000-8000-000000000000",
		Target:              "selling_price",
		NumericFeatures:     []string{"year", "km_driven"},
		CategoricalFeatures: []string{"fuel"},
		TrainingRows:        700,
		TestRows:            300,
		Metrics:             model.Metrics{RMSE: 120.5, MAE: 88.2, R2: 0.91},
		CurrencyRate:        1.0,
		TrainedAt:           time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveMetadata(meta))

	got, err := store.LoadMetadata()
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}

func TestFileStore_MissingArtifacts(t *testing.T) {
	store := tempStore(t)

	_, err := store.LoadPipeline()
	require.Error(t, err)
	assert.Equal(t, errors.CodeArtifactMissing, errors.GetCode(err))

	_, err = store.LoadMetadata()
	require.Error(t, err)
	assert.Equal(t, errors.CodeArtifactMissing, errors.GetCode(err))
}
