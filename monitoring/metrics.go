// Package monitoring exposes serving metrics and a live event feed.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal counts prediction requests by outcome.
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salespredict_predictions_total",
		Help: "Prediction requests by outcome.",
	}, []string{"outcome"})

	// PredictionDuration tracks the latency of the predict use case.
	PredictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "salespredict_prediction_duration_seconds",
		Help:    "Latency of the predict use case.",
		Buckets: prometheus.DefBuckets,
	})

	// ModelReloads counts successful hot swaps of the model artifact.
	ModelReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salespredict_model_reloads_total",
		Help: "Successful hot reloads of the model artifact.",
	})
)
