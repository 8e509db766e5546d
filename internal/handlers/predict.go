package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/agrovision/cropscan-api/internal/postprocess"
)

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	requestID := fmt.Sprintf("REQ_%d", time.Now().UnixMilli())
	start := time.Now()
	log := httpLogger().With("request_id", requestID)

	data, filename, err := readImageUpload(w, r, h.opts.MaxUploadBytes)
	if err != nil {
		log.WarnContext(r.Context(), "rejected upload", "error", err)
		writeError(w, uploadErrorStatus(err), err.Error())
		return
	}
	log.InfoContext(r.Context(), "prediction request received", "file", filename, "bytes", len(data))

	res, err := h.runPipeline(r.Context(), h.disease, "disease", data, log)
	if err != nil {
		h.countPredictionError(errorKind(err))
		log.ErrorContext(r.Context(), "prediction failed", "error", err)
		writeError(w, mapError(err), err.Error())
		return
	}

	labels := h.disease.Meta.Classes
	top := postprocess.Top(res.probs, labels)
	top3 := postprocess.TopK(res.probs, labels, 3)

	scores := make([]classScore, len(top3))
	for i, p := range top3 {
		scores[i] = classScore{Class: p.Label, Confidence: p.Confidence}
	}

	resp := predictResponse{
		ClassName:  top.Label,
		Confidence: top.Confidence,
		Top3:       scores,
		Metadata: predictionMetadata{
			RequestID:        requestID,
			Timestamp:        unixSeconds(time.Now()),
			ProcessingTimeMS: roundMS(time.Since(start)),
			PredictionTimeMS: roundMS(res.predictionTime),
			ModelFile:        filepath.Base(h.disease.Path),
			ModelInputShape:  res.tensor.ShapeString(),
			ModelOutputShape: h.disease.Meta.OutputShapeString(),
			IsRealPrediction: true,
			PredictionSource: "onnx_model",
		},
	}

	log.InfoContext(r.Context(), "prediction successful",
		"class", top.Label,
		"confidence", top.Confidence,
		"total_ms", roundMS(time.Since(start)),
	)

	setNoCache(w.Header())
	w.Header().Set("X-Prediction-Source", "onnx-model")
	w.Header().Set("X-Request-ID", requestID)
	writeJSON(w, http.StatusOK, resp)
}
