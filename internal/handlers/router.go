// Package handlers is the HTTP adapter: routing, middleware, request
// orchestration, and the response envelopes for every endpoint.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agrovision/cropscan-api/internal/metrics"
	"github.com/agrovision/cropscan-api/internal/model"
)

const (
	serviceTitle   = "Crop Disease Detection API"
	serviceVersion = "2.0.0"
)

// Model bundles a loaded classifier with its metadata and file location.
// Classifier is nil when the model could not be loaded; path and existence
// are kept anyway so status endpoints can report them.
type Model struct {
	Classifier model.Classifier
	Meta       model.Metadata
	Path       string
	Exists     bool
}

// Loaded reports whether the classifier is available for predictions.
func (m Model) Loaded() bool { return m.Classifier != nil }

// Options carries the request-handling knobs.
type Options struct {
	MaxUploadBytes int64
	DebugDir       string
}

// Handler serves every endpoint against immutable state built once at
// startup.
type Handler struct {
	disease  Model
	soil     Model
	opts     Options
	registry *metrics.Registry
}

// NewHandler builds the handler. A nil registry gets a private one so
// metric recording never needs guarding.
func NewHandler(disease, soilModel Model, opts Options, registry *metrics.Registry) *Handler {
	if registry == nil {
		registry = metrics.New()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		disease:  disease,
		soil:     soilModel,
		opts:     opts,
		registry: registry,
	}
}

// NewRouter registers routes and the middleware stack.
func NewRouter(h *Handler, serviceID, corsOrigin string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(h.loggingMiddleware)
	r.Use(corsMiddleware(corsOrigin))

	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Post("/predict", h.predict)
	r.Post("/soil-predict", h.soilPredict)
	r.Post("/soil-predict-debug", h.soilPredictDebug)
	r.Handle("/metrics", h.registry.Handler())

	return otelhttp.NewHandler(r, serviceID)
}

func (h *Handler) countRequest(path string, status int) {
	h.registry.Counter(
		metrics.WithLabels("http_requests_total", "path", path, "status", strconv.Itoa(status)),
		"HTTP requests by path and status.",
	).Inc()
}

func (h *Handler) observeInference(name string, d time.Duration) {
	h.registry.Histogram(
		metrics.WithLabels("inference_duration_seconds", "model", name),
		"Classifier inference latency.",
		nil,
	).Observe(d.Seconds())
}

func (h *Handler) countPredictionError(kind string) {
	h.registry.Counter(
		metrics.WithLabels("prediction_errors_total", "kind", kind),
		"Prediction failures by kind.",
	).Inc()
}
