package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/agrovision/cropscan-api/internal/preprocess"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	size := h.disease.Meta.ImageSize
	if size <= 0 {
		size = preprocess.DefaultTargetSize
	}

	resp := healthResponse{
		Status:          "healthy",
		ModelLoaded:     h.disease.Loaded(),
		ModelPath:       h.disease.Path,
		ModelExists:     h.disease.Exists,
		NumClasses:      len(h.disease.Meta.Classes),
		TargetImageSize: [2]int{size, size},
		ServerTime:      unixSeconds(time.Now()),
		Message:         "Model is loaded and ready for REAL predictions",
		SoilModelLoaded: h.soil.Loaded(),
		SoilModelPath:   h.soil.Path,
		SoilModelExists: h.soil.Exists,
	}
	if h.disease.Loaded() {
		resp.ModelInputShape = strPtr(h.disease.Meta.InputShapeString())
		resp.ModelOutputShape = strPtr(h.disease.Meta.OutputShapeString())
	}
	if h.soil.Loaded() {
		resp.SoilModelInputShape = strPtr(h.soil.Meta.InputShapeString())
		resp.SoilModelOutputShape = strPtr(h.soil.Meta.OutputShapeString())
		resp.SoilClasses = len(h.soil.Meta.Classes)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	info := rootModelInfo{
		Loaded:  h.disease.Loaded(),
		File:    filepath.Base(h.disease.Path),
		Classes: len(h.disease.Meta.Classes),
	}
	if h.disease.Loaded() {
		info.InputShape = strPtr(h.disease.Meta.InputShapeString())
		info.OutputShape = strPtr(h.disease.Meta.OutputShapeString())
	}

	writeJSON(w, http.StatusOK, rootResponse{
		Service:     serviceTitle,
		Version:     serviceVersion,
		Status:      "running",
		ModelLoaded: h.disease.Loaded(),
		Endpoints: map[string]string{
			"predict": "/predict (POST)",
			"health":  "/health (GET)",
		},
		Model: info,
	})
}
