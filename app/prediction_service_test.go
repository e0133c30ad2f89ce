package app

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/internal/artifacts"
	"carprice/internal/errors"
)

func trainedService(t *testing.T) *PredictionService {
	t.Helper()
	params := testParams(t, writeTrainingCSV(t))
	_, err := smallTrainer().Train(params)
	require.NoError(t, err)
	return NewPredictionService(artifacts.NewFileStore(params.ModelOut, params.MetaOut))
}

func TestPredictionService_PredictsFinitePrice(t *testing.T) {
	svc := trainedService(t)

	price, err := svc.Predict(map[string]interface{}{"year": 2020.0, "fuel": "Petrol"})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(price))
	assert.Greater(t, price, 0.0)
}

func TestPredictionService_AbsentAndNullFeaturesAreImputed(t *testing.T) {
	svc := trainedService(t)

	// Leaving every feature out still predicts; imputation fills the row.
	price, err := svc.Predict(map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(price))

	price2, err := svc.Predict(map[string]interface{}{"year": nil, "fuel": nil})
	require.NoError(t, err)
	assert.Equal(t, price, price2)
}

func TestPredictionService_UnseenCategoryStillPredicts(t *testing.T) {
	svc := trainedService(t)

	price, err := svc.Predict(map[string]interface{}{"year": 2019.0, "fuel": "Electric"})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(price))
}

func TestPredictionService_RejectsUnparsableNumericFeature(t *testing.T) {
	svc := trainedService(t)

	_, err := svc.Predict(map[string]interface{}{"year": "twenty twenty", "fuel": "Petrol"})
	require.Error(t, err)
	assert.Equal(t, errors.CodePredictionFailed, errors.GetCode(err))
}

func TestPredictionService_MissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	svc := NewPredictionService(artifacts.NewFileStore(
		filepath.Join(dir, "rf_model.gob"), filepath.Join(dir, "metadata.json")))

	_, err := svc.Predict(map[string]interface{}{"year": 2020.0})
	require.Error(t, err)
	assert.Equal(t, errors.CodeArtifactMissing, errors.GetCode(err))

	health := svc.Health()
	assert.Equal(t, "error", health.Status)
	assert.NotEmpty(t, health.Detail)
}

func TestPredictionService_HealthReportsFeatureSchema(t *testing.T) {
	svc := trainedService(t)

	health := svc.Health()
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "rf", health.Model)
	assert.Equal(t, []string{"year", "fuel"}, health.Features)
	assert.Equal(t, []string{"year"}, health.NumericFeatures)
	assert.Equal(t, []string{"fuel"}, health.CategoricalFeatures)
}

func TestPredictionService_ReloadPicksUpNewArtifacts(t *testing.T) {
	params := testParams(t, writeTrainingCSV(t))
	store := artifacts.NewFileStore(params.ModelOut, params.MetaOut)
	svc := NewPredictionService(store)

	require.Error(t, svc.Reload())

	_, err := smallTrainer().Train(params)
	require.NoError(t, err)

	require.NoError(t, svc.Reload())
	assert.Equal(t, "ok", svc.Health().Status)
}
