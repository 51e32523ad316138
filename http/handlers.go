package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"salespredict/ml"
	"salespredict/monitoring"
)

// Predictor is the single operation the serving layer consumes from the
// core, plus the metadata inquiry.
type Predictor interface {
	Execute(raw ml.RawInput) (ml.PredictionResult, error)
	DescribeModel() (ml.ModelInfo, error)
}

var (
	predictor  Predictor
	monitorHub *monitoring.Hub
)

// SetPredictor installs the predict use case behind the handlers.
func SetPredictor(p Predictor) { predictor = p }

// SetMonitorHub installs the websocket event feed.
func SetMonitorHub(h *monitoring.Hub) { monitorHub = h }

// RegisterHandlers registers all serving routes.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/v1/predict", handlePredict)
	mux.HandleFunc("GET /api/v1/model/info", handleModelInfo)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/ws/monitor", handleMonitorWS)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	if predictor == nil {
		writeError(w, http.StatusServiceUnavailable, "predictor not initialized")
		return
	}

	var input ml.RawInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	result, err := predictor.Execute(input)
	monitoring.PredictionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		monitoring.PredictionsTotal.WithLabelValues(outcomeFor(err)).Inc()
		writeError(w, statusFor(err), err.Error())
		return
	}
	monitoring.PredictionsTotal.WithLabelValues("ok").Inc()

	if monitorHub != nil {
		monitorHub.Publish(monitoring.Event{Type: monitoring.EventPrediction, Data: result})
	}
	respondJSON(w, result)
}

func handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if predictor == nil {
		writeError(w, http.StatusServiceUnavailable, "predictor not initialized")
		return
	}

	info, err := predictor.DescribeModel()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, info)
}

func handleMonitorWS(w http.ResponseWriter, r *http.Request) {
	if monitorHub == nil {
		writeError(w, http.StatusServiceUnavailable, "monitor feed not initialized")
		return
	}
	monitorHub.ServeWS(w, r)
}

// statusFor maps core error kinds onto HTTP statuses without collapsing the
// distinction between them.
func statusFor(err error) int {
	var validationErr *ml.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ml.ErrModelNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func outcomeFor(err error) string {
	var validationErr *ml.ValidationError
	var inferenceErr *ml.InferenceError
	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.Is(err, ml.ErrModelNotLoaded):
		return "model_not_loaded"
	case errors.As(err, &inferenceErr):
		return "inference_error"
	default:
		return "error"
	}
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
