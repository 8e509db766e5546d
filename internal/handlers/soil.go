package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/agrovision/cropscan-api/internal/postprocess"
	"github.com/agrovision/cropscan-api/internal/soil"
)

func (h *Handler) soilPredict(w http.ResponseWriter, r *http.Request) {
	if !h.soil.Loaded() {
		writeError(w, http.StatusServiceUnavailable, "Soil model not loaded. Check server logs.")
		return
	}

	requestID := fmt.Sprintf("SOIL_REQ_%d", time.Now().UnixMilli())
	start := time.Now()
	log := httpLogger().With("request_id", requestID)

	data, filename, err := readImageUpload(w, r, h.opts.MaxUploadBytes)
	if err != nil {
		log.WarnContext(r.Context(), "rejected upload", "error", err)
		writeError(w, uploadErrorStatus(err), err.Error())
		return
	}
	log.InfoContext(r.Context(), "soil prediction request received", "file", filename, "bytes", len(data))

	debugPath := h.saveDebugCopy("soil_upload", data)

	res, err := h.runPipeline(r.Context(), h.soil, "soil", data, log)
	if err != nil {
		h.countPredictionError(errorKind(err))
		log.ErrorContext(r.Context(), "soil prediction failed", "error", err)
		writeError(w, mapError(err), err.Error())
		return
	}

	labels := h.soil.Meta.Classes
	top := postprocess.Top(res.probs, labels)
	top3 := postprocess.TopK(res.probs, labels, 3)

	scores := make([]labelScore, len(top3))
	for i, p := range top3 {
		scores[i] = labelScore{Label: p.Label, Confidence: p.Confidence}
	}

	resp := soilResponse{
		SoilLabelRaw:    top.Label,
		SoilType:        top.Label,
		Confidence:      top.Confidence,
		Top3:            scores,
		Recommendations: soil.Recommend(top.Label),
		Metadata: soilMetadata{
			RequestID:        requestID,
			Timestamp:        unixSeconds(time.Now()),
			ProcessingTimeMS: roundMS(time.Since(start)),
			PredictionTimeMS: roundMS(res.predictionTime),
			ImageHash:        md5First8(data),
			DebugFilePath:    debugPath,
			ModelFile:        filepath.Base(h.soil.Path),
		},
	}

	log.InfoContext(r.Context(), "soil prediction successful",
		"soil_type", top.Label,
		"confidence", top.Confidence,
		"total_ms", roundMS(time.Since(start)),
	)

	setNoCache(w.Header())
	w.Header().Set("X-Prediction-Source", "onnx-soil-model")
	w.Header().Set("X-Request-ID", requestID)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) soilPredictDebug(w http.ResponseWriter, r *http.Request) {
	if !h.soil.Loaded() {
		writeError(w, http.StatusServiceUnavailable, "Soil model not loaded")
		return
	}

	log := httpLogger().With("endpoint", "soil-predict-debug")

	data, _, err := readImageUpload(w, r, h.opts.MaxUploadBytes)
	if err != nil {
		log.WarnContext(r.Context(), "rejected upload", "error", err)
		writeError(w, uploadErrorStatus(err), err.Error())
		return
	}

	debugPath := h.saveDebugCopy("soil_debug", data)

	res, err := h.runPipeline(r.Context(), h.soil, "soil", data, log)
	if err != nil {
		h.countPredictionError(errorKind(err))
		log.ErrorContext(r.Context(), "debug prediction failed", "error", err)
		writeError(w, mapError(err), err.Error())
		return
	}

	labels := h.soil.Meta.Classes
	top5 := postprocess.TopK(res.probs, labels, 5)

	ranked := make([]rankedPrediction, len(top5))
	for i, p := range top5 {
		ranked[i] = rankedPrediction{
			Rank:          i + 1,
			SoilType:      p.Label,
			Confidence:    p.Confidence,
			ConfidencePct: fmt.Sprintf("%.2f%%", p.Confidence*100),
		}
	}

	writeJSON(w, http.StatusOK, debugResponse{
		DebugMode:         true,
		DebugFileSaved:    debugPath,
		ImageHash:         md5First8(data),
		ImageSizeBytes:    len(data),
		PreprocessedShape: res.tensor.ShapeString(),
		PredictionSum:     postprocess.Sum(res.probs),
		Top5Predictions:   ranked,
		UniqueValuesCount: postprocess.UniqueCount(res.probs),
		ArrayStats:        postprocess.Describe(res.probs),
	})
}
