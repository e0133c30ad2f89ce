package regress

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"carprice/domain/model"
)

// Evaluate computes held-out error measures for aligned prediction slices.
func Evaluate(yTrue, yPred []float64) model.Metrics {
	n := float64(len(yTrue))
	if n == 0 {
		return model.Metrics{}
	}

	var sqSum, absSum float64
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		sqSum += d * d
		absSum += math.Abs(d)
	}

	return model.Metrics{
		RMSE: math.Sqrt(sqSum / n),
		MAE:  absSum / n,
		R2:   rSquared(yTrue, yPred),
	}
}

func rSquared(yTrue, yPred []float64) float64 {
	if len(yTrue) < 2 || stat.Variance(yTrue, nil) == 0 {
		return 0
	}
	return stat.RSquaredFrom(yPred, yTrue, nil)
}
