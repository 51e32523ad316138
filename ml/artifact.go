package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// Algorithm tags an artifact can carry.
const (
	AlgorithmLinear     = "linear"
	AlgorithmPolynomial = "polynomial"
)

// ModelArtifact is a fitted regression model plus its training metadata.
// One JSON file holds the transformer parameters (degree and feature order),
// the model itself (coefficients and intercept) and the metadata. Artifacts
// are read-only after load and safely shared across concurrent predictions.
type ModelArtifact struct {
	Algorithm    string    `json:"algorithm"`
	Degree       int       `json:"degree"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	R2           float64   `json:"r2"`
	TrainedAt    time.Time `json:"trained_at"`
	Version      string    `json:"version"`
}

// Save writes the artifact as JSON.
func (a *ModelArtifact) Save(path string) error {
	if err := a.checkSchema(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// checkSchema verifies the artifact is internally consistent: a known
// algorithm, a sane degree, and a coefficient per expanded term.
func (a *ModelArtifact) checkSchema() error {
	switch a.Algorithm {
	case AlgorithmLinear:
		if a.Degree != 1 {
			return fmt.Errorf("linear model must declare degree 1, got %d", a.Degree)
		}
	case AlgorithmPolynomial:
		if a.Degree < 2 {
			return fmt.Errorf("polynomial model must declare degree >= 2, got %d", a.Degree)
		}
	default:
		return fmt.Errorf("unsupported algorithm %q", a.Algorithm)
	}

	if len(a.FeatureNames) == 0 {
		return errors.New("feature names missing")
	}
	want := ExpandedSize(len(a.FeatureNames), a.Degree)
	if len(a.Coefficients) != want {
		return fmt.Errorf("expected %d coefficients for degree %d over %d features, got %d",
			want, a.Degree, len(a.FeatureNames), len(a.Coefficients))
	}
	if math.IsNaN(a.R2) || math.IsInf(a.R2, 0) || a.R2 > 1 {
		return fmt.Errorf("r2 out of range: %v", a.R2)
	}
	return nil
}
