package handlers

import (
	"github.com/agrovision/cropscan-api/internal/postprocess"
	"github.com/agrovision/cropscan-api/internal/soil"
)

type classScore struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

type predictionMetadata struct {
	RequestID        string  `json:"request_id"`
	Timestamp        float64 `json:"timestamp"`
	ProcessingTimeMS float64 `json:"processing_time_ms"`
	PredictionTimeMS float64 `json:"prediction_time_ms"`
	ModelFile        string  `json:"model_file"`
	ModelInputShape  string  `json:"model_input_shape"`
	ModelOutputShape string  `json:"model_output_shape"`
	IsRealPrediction bool    `json:"is_real_prediction"`
	PredictionSource string  `json:"prediction_source"`
}

type predictResponse struct {
	ClassName  string             `json:"class_name"`
	Confidence float64            `json:"confidence"`
	Top3       []classScore       `json:"top_3"`
	Metadata   predictionMetadata `json:"metadata"`
}

type labelScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type soilMetadata struct {
	RequestID        string  `json:"request_id"`
	Timestamp        float64 `json:"timestamp"`
	ProcessingTimeMS float64 `json:"processing_time_ms"`
	PredictionTimeMS float64 `json:"prediction_time_ms"`
	ImageHash        string  `json:"image_hash"`
	DebugFilePath    *string `json:"debug_file_path"`
	ModelFile        string  `json:"model_file"`
}

type soilResponse struct {
	SoilLabelRaw    string              `json:"soil_label_raw"`
	SoilType        string              `json:"soil_type"`
	Confidence      float64             `json:"confidence"`
	Top3            []labelScore        `json:"top_3"`
	Recommendations soil.Recommendation `json:"recommendations"`
	Metadata        soilMetadata        `json:"metadata"`
}

type rankedPrediction struct {
	Rank          int     `json:"rank"`
	SoilType      string  `json:"soil_type"`
	Confidence    float64 `json:"confidence"`
	ConfidencePct string  `json:"confidence_pct"`
}

type debugResponse struct {
	DebugMode         bool               `json:"debug_mode"`
	DebugFileSaved    *string            `json:"debug_file_saved"`
	ImageHash         string             `json:"image_hash"`
	ImageSizeBytes    int                `json:"image_size_bytes"`
	PreprocessedShape string             `json:"preprocessed_shape"`
	PredictionSum     float64            `json:"prediction_sum"`
	Top5Predictions   []rankedPrediction `json:"top_5_predictions"`
	UniqueValuesCount int                `json:"unique_values_count"`
	ArrayStats        postprocess.Stats  `json:"array_stats"`
}

type healthResponse struct {
	Status               string  `json:"status"`
	ModelLoaded          bool    `json:"model_loaded"`
	ModelPath            string  `json:"model_path"`
	ModelExists          bool    `json:"model_exists"`
	ModelInputShape      *string `json:"model_input_shape"`
	ModelOutputShape     *string `json:"model_output_shape"`
	NumClasses           int     `json:"num_classes"`
	TargetImageSize      [2]int  `json:"target_image_size"`
	ServerTime           float64 `json:"server_time"`
	Message              string  `json:"message"`
	SoilModelLoaded      bool    `json:"soil_model_loaded"`
	SoilModelPath        string  `json:"soil_model_path"`
	SoilModelExists      bool    `json:"soil_model_exists"`
	SoilModelInputShape  *string `json:"soil_model_input_shape"`
	SoilModelOutputShape *string `json:"soil_model_output_shape"`
	SoilClasses          int     `json:"soil_classes"`
}

type rootModelInfo struct {
	Loaded      bool    `json:"loaded"`
	File        string  `json:"file"`
	Classes     int     `json:"classes"`
	InputShape  *string `json:"input_shape"`
	OutputShape *string `json:"output_shape"`
}

type rootResponse struct {
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Status      string            `json:"status"`
	ModelLoaded bool              `json:"model_loaded"`
	Endpoints   map[string]string `json:"endpoints"`
	Model       rootModelInfo     `json:"model"`
}
