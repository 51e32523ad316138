package ml

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sample is one historical sales record used for fitting.
type Sample struct {
	ExperienceMonths float64
	NumberOfSales    float64
	SeasonalFactor   float64
	Revenue          float64
}

// TrainOptions selects the model family to fit.
type TrainOptions struct {
	Algorithm string
	Degree    int
	Version   string
}

// Train fits a least-squares regression over the fixed feature order and
// returns a ready-to-serve artifact carrying its training-time R².
func Train(samples []Sample, opts TrainOptions) (*ModelArtifact, error) {
	if len(samples) == 0 {
		return nil, errors.New("no training samples")
	}

	degree := opts.Degree
	switch opts.Algorithm {
	case AlgorithmLinear:
		degree = 1
	case AlgorithmPolynomial:
		if degree < 2 {
			degree = 2
		}
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", opts.Algorithm)
	}

	rows := make([][]float64, len(samples))
	targets := make([]float64, len(samples))
	for i, s := range samples {
		rows[i] = Expand(s.vector(), degree)
		targets[i] = s.Revenue
	}
	if len(samples) <= len(rows[0]) {
		return nil, fmt.Errorf("need more than %d samples to fit degree %d", len(rows[0]), degree)
	}

	coefficients, intercept, err := fitLeastSquares(rows, targets)
	if err != nil {
		return nil, err
	}

	predicted := make([]float64, len(rows))
	for i, row := range rows {
		predicted[i] = intercept + dot(coefficients, row)
	}

	return &ModelArtifact{
		Algorithm:    opts.Algorithm,
		Degree:       degree,
		FeatureNames: FeatureNames(),
		Coefficients: coefficients,
		Intercept:    intercept,
		R2:           RSquared(targets, predicted),
		TrainedAt:    time.Now().UTC(),
		Version:      opts.Version,
	}, nil
}

// EvaluateHoldout scores the artifact against held-out samples.
func EvaluateHoldout(artifact *ModelArtifact, samples []Sample) (EvaluationMetrics, error) {
	if len(samples) == 0 {
		return EvaluationMetrics{}, errors.New("no holdout samples")
	}
	actual := make([]float64, len(samples))
	predicted := make([]float64, len(samples))
	for i, s := range samples {
		expanded := Expand(s.vector(), artifact.Degree)
		if len(expanded) != len(artifact.Coefficients) {
			return EvaluationMetrics{}, &InferenceError{Want: len(artifact.Coefficients), Got: len(expanded)}
		}
		actual[i] = s.Revenue
		predicted[i] = artifact.Intercept + dot(artifact.Coefficients, expanded)
	}
	return Evaluate(actual, predicted)
}

func (s Sample) vector() []float64 {
	return []float64{s.ExperienceMonths, s.NumberOfSales, s.SeasonalFactor}
}

// fitLeastSquares solves the normal equations (X'X)b = X'y for the design
// matrix with a leading bias column, using Gaussian elimination with partial
// pivoting. Returns the coefficients and the intercept separately.
func fitLeastSquares(rows [][]float64, targets []float64) ([]float64, float64, error) {
	n := len(rows[0]) + 1 // bias column first

	// Build the augmented system [X'X | X'y].
	system := make([][]float64, n)
	for i := range system {
		system[i] = make([]float64, n+1)
	}
	aug := make([]float64, n)
	for k, row := range rows {
		aug[0] = 1
		copy(aug[1:], row)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				system[i][j] += aug[i] * aug[j]
			}
			system[i][n] += aug[i] * targets[k]
		}
	}

	solution, err := solve(system)
	if err != nil {
		return nil, 0, err
	}
	return solution[1:], solution[0], nil
}

func solve(m [][]float64) ([]float64, error) {
	n := len(m)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, errors.New("singular design matrix")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / m[col][col]
			for j := col; j <= n; j++ {
				m[row][j] -= factor * m[col][j]
			}
		}
	}

	solution := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := m[row][n]
		for j := row + 1; j < n; j++ {
			sum -= m[row][j] * solution[j]
		}
		solution[row] = sum / m[row][row]
	}
	return solution, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
