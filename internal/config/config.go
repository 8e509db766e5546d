// Package config resolves runtime settings from compiled defaults, an
// optional YAML file, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting the server needs.
type Config struct {
	ServiceID  string
	HTTPPort   int
	CORSOrigin string

	ModelPath         string
	ModelMetadataPath string
	SoilModelPath     string
	SoilMetadataPath  string
	ONNXLibraryPath   string

	MaxUploadBytes int64
	DebugDir       string
}

type configFile struct {
	Service struct {
		ID         string `yaml:"id"`
		HTTPPort   int    `yaml:"http_port"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"service"`
	Models struct {
		DiseaseModel    string `yaml:"disease_model"`
		DiseaseMetadata string `yaml:"disease_metadata"`
		SoilModel       string `yaml:"soil_model"`
		SoilMetadata    string `yaml:"soil_metadata"`
		ONNXLibrary     string `yaml:"onnx_library"`
	} `yaml:"models"`
	Uploads struct {
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
		DebugDir       string `yaml:"debug_dir"`
	} `yaml:"uploads"`
}

// Load builds the configuration. A missing file is not an error; a file
// that exists but fails to parse is.
func Load(path string) (Config, error) {
	cfg := Config{
		ServiceID:         "cropscan-api",
		HTTPPort:          8000,
		CORSOrigin:        "*",
		ModelPath:         "models/plant_disease_recog_model_pwp.onnx",
		ModelMetadataPath: "models/plant_disease_metadata.json",
		SoilModelPath:     "models/soil_model.onnx",
		SoilMetadataPath:  "models/soil_metadata.json",
		MaxUploadBytes:    10 << 20,
		DebugDir:          os.TempDir(),
	}
	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.CORSOrigin != "" {
			cfg.CORSOrigin = f.Service.CORSOrigin
		}
		if f.Models.DiseaseModel != "" {
			cfg.ModelPath = f.Models.DiseaseModel
		}
		if f.Models.DiseaseMetadata != "" {
			cfg.ModelMetadataPath = f.Models.DiseaseMetadata
		}
		if f.Models.SoilModel != "" {
			cfg.SoilModelPath = f.Models.SoilModel
		}
		if f.Models.SoilMetadata != "" {
			cfg.SoilMetadataPath = f.Models.SoilMetadata
		}
		if f.Models.ONNXLibrary != "" {
			cfg.ONNXLibraryPath = f.Models.ONNXLibrary
		}
		if f.Uploads.MaxUploadBytes > 0 {
			cfg.MaxUploadBytes = f.Uploads.MaxUploadBytes
		}
		if f.Uploads.DebugDir != "" {
			cfg.DebugDir = f.Uploads.DebugDir
		}
	}
	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.CORSOrigin = envOrDefault("CORS_ORIGIN", cfg.CORSOrigin)
	cfg.ModelPath = envOrDefault("MODEL_PATH", cfg.ModelPath)
	cfg.ModelMetadataPath = envOrDefault("MODEL_METADATA_PATH", cfg.ModelMetadataPath)
	cfg.SoilModelPath = envOrDefault("SOIL_MODEL_PATH", cfg.SoilModelPath)
	cfg.SoilMetadataPath = envOrDefault("SOIL_METADATA_PATH", cfg.SoilMetadataPath)
	cfg.ONNXLibraryPath = envOrDefault("ONNX_LIBRARY_PATH", cfg.ONNXLibraryPath)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.DebugDir = envOrDefault("DEBUG_DIR", cfg.DebugDir)
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt64(name string, fallback int64) int64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
