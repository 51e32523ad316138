package ml

import (
	"math"
	"testing"
)

// syntheticSamples generates records following
// revenue = base + k1*experience + k2*sales + k3*seasonal.
func syntheticSamples(n int) []Sample {
	const (
		base = 800.0
		k1   = 12.5
		k2   = 45.0
		k3   = 110.0
	)
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		experience := float64((i * 7) % 120)
		sales := float64((i * 13) % 200)
		seasonal := float64(1 + i%10)
		samples = append(samples, Sample{
			ExperienceMonths: experience,
			NumberOfSales:    sales,
			SeasonalFactor:   seasonal,
			Revenue:          base + k1*experience + k2*sales + k3*seasonal,
		})
	}
	return samples
}

func TestTrainLinearRecoversCoefficients(t *testing.T) {
	artifact, err := Train(syntheticSamples(60), TrainOptions{Algorithm: AlgorithmLinear, Version: "t1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{12.5, 45.0, 110.0}
	for i, c := range artifact.Coefficients {
		if math.Abs(c-want[i]) > 1e-6 {
			t.Fatalf("coefficient %d: expected %v, got %v", i, want[i], c)
		}
	}
	if math.Abs(artifact.Intercept-800) > 1e-6 {
		t.Fatalf("expected intercept 800, got %v", artifact.Intercept)
	}
	if artifact.R2 < 0.999 {
		t.Fatalf("expected near-perfect fit, got r2=%v", artifact.R2)
	}
}

func TestTrainPolynomialFitsLinearData(t *testing.T) {
	artifact, err := Train(syntheticSamples(80), TrainOptions{Algorithm: AlgorithmPolynomial, Degree: 2, Version: "t2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Degree != 2 {
		t.Fatalf("expected degree 2, got %d", artifact.Degree)
	}
	if len(artifact.Coefficients) != ExpandedSize(3, 2) {
		t.Fatalf("expected %d coefficients, got %d", ExpandedSize(3, 2), len(artifact.Coefficients))
	}
	if artifact.R2 < 0.999 {
		t.Fatalf("expected near-perfect fit, got r2=%v", artifact.R2)
	}
}

func TestTrainRejectsBadInput(t *testing.T) {
	if _, err := Train(nil, TrainOptions{Algorithm: AlgorithmLinear}); err == nil {
		t.Fatal("expected error for empty sample set")
	}
	if _, err := Train(syntheticSamples(30), TrainOptions{Algorithm: "neural_net"}); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if _, err := Train(syntheticSamples(3), TrainOptions{Algorithm: AlgorithmLinear}); err == nil {
		t.Fatal("expected error for too few samples")
	}
}

func TestEvaluateHoldout(t *testing.T) {
	samples := syntheticSamples(60)
	artifact, err := Train(samples[:48], TrainOptions{Algorithm: AlgorithmLinear, Version: "t3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	metrics, err := EvaluateHoldout(artifact, samples[48:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.R2 < 0.999 {
		t.Fatalf("expected near-perfect holdout fit, got %+v", metrics)
	}
	if metrics.RMSE > 1e-3 {
		t.Fatalf("expected tiny holdout error, got %+v", metrics)
	}
}

func TestEvaluateKnownValues(t *testing.T) {
	actual := []float64{1, 2, 3}
	predicted := []float64{1, 2, 5}

	metrics, err := Evaluate(actual, predicted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(metrics.MSE-4.0/3.0) > 1e-12 {
		t.Fatalf("unexpected mse: %v", metrics.MSE)
	}
	if math.Abs(metrics.MAE-2.0/3.0) > 1e-12 {
		t.Fatalf("unexpected mae: %v", metrics.MAE)
	}
	if math.Abs(metrics.RMSE-math.Sqrt(4.0/3.0)) > 1e-12 {
		t.Fatalf("unexpected rmse: %v", metrics.RMSE)
	}
	// residual=4, total=2 -> r2 = -1
	if math.Abs(metrics.R2-(-1)) > 1e-12 {
		t.Fatalf("unexpected r2: %v", metrics.R2)
	}
}

func TestTrainedModelServesEndToEnd(t *testing.T) {
	samples := syntheticSamples(100)
	artifact, err := Train(samples, TrainOptions{Algorithm: AlgorithmPolynomial, Degree: 2, Version: "e2e"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := writeTestArtifact(t, artifact)
	repo := NewRepository(path, nil)
	if err := repo.Load(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	uc := NewPredictUseCase(repo, NewEngine())

	result, err := uc.Execute(RawInput{ExperienceMonths: f(36), NumberOfSales: f(50), SeasonalFactor: f(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PredictedRevenue <= 0 {
		t.Fatalf("expected positive revenue, got %v", result.PredictedRevenue)
	}
	if result.ModelUsed != artifact.Algorithm {
		t.Fatalf("expected model_used %q, got %q", artifact.Algorithm, result.ModelUsed)
	}
	if result.ConfidenceScore < 0 || result.ConfidenceScore > 1 {
		t.Fatalf("confidence out of range: %v", result.ConfidenceScore)
	}

	info, err := uc.DescribeModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Algorithm != result.ModelUsed {
		t.Fatalf("metadata algorithm %q disagrees with prediction %q", info.Algorithm, result.ModelUsed)
	}
}
