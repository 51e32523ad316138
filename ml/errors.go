package ml

import (
	"errors"
	"fmt"
)

// ErrModelNotLoaded is returned by Repository.Current when no artifact has
// been loaded yet. Callers should surface it as a service-unavailable
// condition rather than retry.
var ErrModelNotLoaded = errors.New("model not loaded")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ModelLoadError reports an artifact that could not be read, parsed or that
// failed the repository's schema checks.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// InferenceError reports a dimensional mismatch between a feature vector and
// the loaded model. Validation and the repository schema checks should make
// this unreachable; it is re-checked defensively.
type InferenceError struct {
	Want int
	Got  int
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("feature dimension mismatch: model expects %d, got %d", e.Want, e.Got)
}
