package ml

import "math"

// maxSalesCount is the largest sales count accepted. Beyond 2^53 a float64
// no longer represents every integer exactly, so the int conversion would be
// lossy and can wrap negative.
const maxSalesCount = 1 << 53

// FeatureNames returns the fixed feature order every artifact is trained
// with. The repository rejects artifacts declaring any other order.
func FeatureNames() []string {
	return []string{
		"experience_months",
		"number_of_sales",
		"seasonal_factor",
	}
}

// RawInput is the untyped request payload before validation. Pointer fields
// distinguish a missing field from a zero value.
type RawInput struct {
	ExperienceMonths *float64 `json:"experience_months"`
	NumberOfSales    *float64 `json:"number_of_sales"`
	SeasonalFactor   *float64 `json:"seasonal_factor"`
}

// FeatureVector is a validated input triple. It is constructed only through
// RawInput.Validate and never mutated afterwards.
type FeatureVector struct {
	ExperienceMonths float64
	NumberOfSales    int
	SeasonalFactor   float64
}

// Validate checks the raw input and builds a FeatureVector. Failures are
// always *ValidationError. The check is pure: identical input yields an
// identical result or an identical failure.
func (r RawInput) Validate() (FeatureVector, error) {
	var fv FeatureVector

	if r.ExperienceMonths == nil {
		return fv, &ValidationError{Field: "experience_months", Reason: "required"}
	}
	if r.NumberOfSales == nil {
		return fv, &ValidationError{Field: "number_of_sales", Reason: "required"}
	}
	if r.SeasonalFactor == nil {
		return fv, &ValidationError{Field: "seasonal_factor", Reason: "required"}
	}

	experience := *r.ExperienceMonths
	sales := *r.NumberOfSales
	seasonal := *r.SeasonalFactor

	if !isFinite(experience) {
		return fv, &ValidationError{Field: "experience_months", Reason: "must be a finite number"}
	}
	if !isFinite(sales) {
		return fv, &ValidationError{Field: "number_of_sales", Reason: "must be a finite number"}
	}
	if !isFinite(seasonal) {
		return fv, &ValidationError{Field: "seasonal_factor", Reason: "must be a finite number"}
	}

	if experience < 0 {
		return fv, &ValidationError{Field: "experience_months", Reason: "cannot be negative"}
	}
	if sales < 0 {
		return fv, &ValidationError{Field: "number_of_sales", Reason: "cannot be negative"}
	}
	if sales != math.Trunc(sales) {
		return fv, &ValidationError{Field: "number_of_sales", Reason: "must be an integer"}
	}
	if sales > maxSalesCount {
		return fv, &ValidationError{Field: "number_of_sales", Reason: "exceeds the representable range"}
	}
	if seasonal < 1 || seasonal > 10 {
		return fv, &ValidationError{Field: "seasonal_factor", Reason: "must be between 1 and 10"}
	}

	return FeatureVector{
		ExperienceMonths: experience,
		NumberOfSales:    int(sales),
		SeasonalFactor:   seasonal,
	}, nil
}

// Vector returns the features in training order.
func (f FeatureVector) Vector() []float64 {
	return []float64{f.ExperienceMonths, float64(f.NumberOfSales), f.SeasonalFactor}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
