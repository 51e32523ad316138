package ml

import "math"

// Engine evaluates a loaded model against a validated feature vector. It is
// purely computational and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Predict applies the artifact's feature expansion, the same one it was
// trained with, and evaluates the linear form. It returns the raw estimate
// and the artifact's confidence score. Repeated calls with the same artifact
// and features yield identical results.
func (e *Engine) Predict(artifact *ModelArtifact, features FeatureVector) (float64, float64, error) {
	x := features.Vector()
	if len(x) != len(artifact.FeatureNames) {
		return 0, 0, &InferenceError{Want: len(artifact.FeatureNames), Got: len(x)}
	}

	expanded := Expand(x, artifact.Degree)
	if len(expanded) != len(artifact.Coefficients) {
		return 0, 0, &InferenceError{Want: len(artifact.Coefficients), Got: len(expanded)}
	}

	estimate := artifact.Intercept
	for i, c := range artifact.Coefficients {
		estimate += c * expanded[i]
	}
	return estimate, Confidence(artifact), nil
}

// Confidence is the static per-model score attached to every prediction:
// the artifact's training-time R², clamped to [0,1]. It is not recomputed
// per request.
func Confidence(artifact *ModelArtifact) float64 {
	return math.Min(1, math.Max(0, artifact.R2))
}
