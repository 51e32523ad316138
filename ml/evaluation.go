package ml

import (
	"errors"
	"math"
)

// EvaluationMetrics summarizes regression fit quality.
type EvaluationMetrics struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// Evaluate computes the standard regression metrics for predictions against
// actuals.
func Evaluate(actual, predicted []float64) (EvaluationMetrics, error) {
	if len(actual) == 0 {
		return EvaluationMetrics{}, errors.New("no values to evaluate")
	}
	if len(actual) != len(predicted) {
		return EvaluationMetrics{}, errors.New("actual/predicted length mismatch")
	}

	var sumSquared, sumAbs float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		sumSquared += diff * diff
		sumAbs += math.Abs(diff)
	}
	n := float64(len(actual))
	mse := sumSquared / n

	return EvaluationMetrics{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  sumAbs / n,
		R2:   RSquared(actual, predicted),
	}, nil
}

// RSquared is the coefficient of determination. A constant target series
// with zero residuals scores 1; otherwise a zero total sum of squares
// scores 0.
func RSquared(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var residual, total float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		residual += diff * diff
		dev := actual[i] - mean
		total += dev * dev
	}
	if total == 0 {
		if residual == 0 {
			return 1
		}
		return 0
	}
	return 1 - residual/total
}

// InterpretR2 gives a plain-language reading of an R² score.
func InterpretR2(r2 float64) string {
	switch {
	case r2 < 0:
		return "very poor - worse than predicting the mean"
	case r2 < 0.3:
		return "poor - weak predictive power"
	case r2 < 0.7:
		return "moderate - captures some patterns"
	case r2 < 0.9:
		return "good - captures most patterns"
	default:
		return "excellent - strong predictive power"
	}
}
