package ml

import (
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// revenuePrecision is the number of decimal places in PredictedRevenue.
const revenuePrecision = 2

// memoSize bounds the per-process prediction memo.
const memoSize = 1024

// PredictionResult is the value handed back to callers, created once per
// request and not retained by the core.
type PredictionResult struct {
	PredictedRevenue float64 `json:"predicted_revenue"`
	ModelUsed        string  `json:"model_used"`
	ConfidenceScore  float64 `json:"confidence_score"`
}

// ModelInfo describes the loaded model for metadata-only callers.
type ModelInfo struct {
	Algorithm    string    `json:"algorithm"`
	Degree       int       `json:"degree"`
	FeatureNames []string  `json:"feature_names"`
	R2           float64   `json:"r2"`
	TrainedAt    time.Time `json:"trained_at"`
	Version      string    `json:"version"`
}

// ArtifactSource hands out the resident model artifact.
type ArtifactSource interface {
	Current() (*ModelArtifact, error)
}

// Estimator computes a raw estimate and confidence for a feature vector.
type Estimator interface {
	Predict(artifact *ModelArtifact, features FeatureVector) (float64, float64, error)
}

type memoKey struct {
	version  string
	features FeatureVector
}

// PredictUseCase orchestrates validation, inference and result assembly. It
// is the only component with business rules and knows nothing about the
// transport serving it.
type PredictUseCase struct {
	source    ArtifactSource
	estimator Estimator
	memo      *lru.Cache[memoKey, PredictionResult]
}

func NewPredictUseCase(source ArtifactSource, estimator Estimator) *PredictUseCase {
	// Predictions are deterministic per artifact, so memoizing them is
	// semantics-preserving; keying by artifact version invalidates the memo
	// across reloads.
	memo, _ := lru.New[memoKey, PredictionResult](memoSize)
	return &PredictUseCase{source: source, estimator: estimator, memo: memo}
}

// Execute runs the validate -> infer -> assemble pipeline. Each step is a
// hard gate: every failure is terminal for the request and propagates
// unchanged, with no retries and no fallback to a different model.
func (uc *PredictUseCase) Execute(raw RawInput) (PredictionResult, error) {
	features, err := raw.Validate()
	if err != nil {
		return PredictionResult{}, err
	}

	artifact, err := uc.source.Current()
	if err != nil {
		return PredictionResult{}, err
	}

	key := memoKey{version: artifact.Version, features: features}
	if result, ok := uc.memo.Get(key); ok {
		return result, nil
	}

	estimate, confidence, err := uc.estimator.Predict(artifact, features)
	if err != nil {
		return PredictionResult{}, err
	}

	result := PredictionResult{
		PredictedRevenue: roundTo(estimate, revenuePrecision),
		ModelUsed:        artifact.Algorithm,
		ConfidenceScore:  confidence,
	}
	uc.memo.Add(key, result)
	return result, nil
}

// DescribeModel returns metadata for the resident artifact without running
// any inference.
func (uc *PredictUseCase) DescribeModel() (ModelInfo, error) {
	artifact, err := uc.source.Current()
	if err != nil {
		return ModelInfo{}, err
	}
	return ModelInfo{
		Algorithm:    artifact.Algorithm,
		Degree:       artifact.Degree,
		FeatureNames: artifact.FeatureNames,
		R2:           artifact.R2,
		TrainedAt:    artifact.TrainedAt,
		Version:      artifact.Version,
	}, nil
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
