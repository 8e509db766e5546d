package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/agrovision/cropscan-api/internal/model"
	"github.com/agrovision/cropscan-api/internal/postprocess"
	"github.com/agrovision/cropscan-api/internal/preprocess"
)

var tracer = otel.Tracer("internal/handlers")

// pipelineResult is what a successful preprocess -> infer -> postprocess
// run produces for envelope assembly.
type pipelineResult struct {
	tensor         preprocess.Tensor
	probs          []float64
	predictionTime time.Duration
}

// runPipeline executes the full prediction pipeline for one upload against
// one classifier. Every error carries a sentinel that mapError translates
// to a status code.
func (h *Handler) runPipeline(ctx context.Context, m Model, name string, data []byte, log *slog.Logger) (pipelineResult, error) {
	ctx, span := tracer.Start(ctx, "preprocess")
	tensor, err := preprocess.ToTensor(data, preprocess.Options{
		TargetSize: m.Meta.ImageSize,
		Scheme:     m.Meta.Scheme(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return pipelineResult{}, err
	}
	span.End()
	log.InfoContext(ctx, "image preprocessed", "shape", tensor.ShapeString())

	predStart := time.Now()
	_, span = tracer.Start(ctx, "inference")
	raw, err := m.Classifier.Predict(tensor.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return pipelineResult{}, err
	}
	span.End()
	predictionTime := time.Since(predStart)
	h.observeInference(name, predictionTime)
	log.InfoContext(ctx, "inference complete", "model", name, "duration_ms", roundMS(predictionTime), "outputs", len(raw))

	probs, softmaxApplied := postprocess.Normalize(raw)
	if softmaxApplied {
		log.InfoContext(ctx, "applied softmax to model output", "sum", postprocess.Sum(probs))
	}
	if err := postprocess.Validate(probs); err != nil {
		return pipelineResult{}, err
	}

	return pipelineResult{tensor: tensor, probs: probs, predictionTime: predictionTime}, nil
}

// mapError translates pipeline sentinels to HTTP status codes.
func mapError(err error) int {
	switch {
	case errors.Is(err, preprocess.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, postprocess.ErrInvalidPrediction):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrInference):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorKind names a pipeline failure for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, preprocess.ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, postprocess.ErrInvalidPrediction):
		return "invalid_prediction"
	case errors.Is(err, model.ErrInference):
		return "inference"
	default:
		return "internal"
	}
}
