package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_PerfectPredictions(t *testing.T) {
	y := []float64{100, 200, 300, 400}

	m := Evaluate(y, y)
	assert.Zero(t, m.RMSE)
	assert.Zero(t, m.MAE)
	assert.InDelta(t, 1.0, m.R2, 1e-12)
}

func TestEvaluate_KnownValues(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{2, 2, 4, 4} // errors 1, 0, 1, 0

	m := Evaluate(yTrue, yPred)
	assert.InDelta(t, 0.7071067811865476, m.RMSE, 1e-12) // sqrt(2/4)
	assert.InDelta(t, 0.5, m.MAE, 1e-12)
	assert.Less(t, m.R2, 1.0)
}

func TestEvaluate_DegenerateInputs(t *testing.T) {
	m := Evaluate(nil, nil)
	assert.Zero(t, m.RMSE)
	assert.Zero(t, m.R2)

	// Constant targets have zero variance, so no R2 is defined.
	m = Evaluate([]float64{5, 5, 5}, []float64{5, 5, 5})
	assert.Zero(t, m.R2)
	assert.Zero(t, m.RMSE)
}
