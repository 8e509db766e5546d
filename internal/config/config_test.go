package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 8000 {
		t.Errorf("HTTPPort = %d, want 8000", cfg.HTTPPort)
	}
	if cfg.ServiceID != "cropscan-api" {
		t.Errorf("ServiceID = %q", cfg.ServiceID)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("CORSOrigin = %q, want *", cfg.CORSOrigin)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
	if cfg.DebugDir == "" {
		t.Error("DebugDir should default to the system temp dir")
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service:
  id: cropscan-test
  http_port: 9100
models:
  soil_model: /opt/models/soil.onnx
uploads:
  max_upload_bytes: 1048576
  debug_dir: /var/tmp/uploads
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceID != "cropscan-test" {
		t.Errorf("ServiceID = %q", cfg.ServiceID)
	}
	if cfg.HTTPPort != 9100 {
		t.Errorf("HTTPPort = %d, want 9100", cfg.HTTPPort)
	}
	if cfg.SoilModelPath != "/opt/models/soil.onnx" {
		t.Errorf("SoilModelPath = %q", cfg.SoilModelPath)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.DebugDir != "/var/tmp/uploads" {
		t.Errorf("DebugDir = %q", cfg.DebugDir)
	}
	// Keys the file omits keep their defaults.
	if cfg.ModelPath != "models/plant_disease_recog_model_pwp.onnx" {
		t.Errorf("ModelPath = %q", cfg.ModelPath)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service:\n  http_port: 9100\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "9200")
	t.Setenv("SOIL_MODEL_PATH", "/env/soil.onnx")
	t.Setenv("ONNX_LIBRARY_PATH", "/usr/lib/libonnxruntime.so")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 9200 {
		t.Errorf("HTTPPort = %d, want env override 9200", cfg.HTTPPort)
	}
	if cfg.SoilModelPath != "/env/soil.onnx" {
		t.Errorf("SoilModelPath = %q", cfg.SoilModelPath)
	}
	if cfg.ONNXLibraryPath != "/usr/lib/libonnxruntime.so" {
		t.Errorf("ONNXLibraryPath = %q", cfg.ONNXLibraryPath)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service: [not: valid"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_BadEnvIntFallsBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 8000 {
		t.Errorf("HTTPPort = %d, want default 8000", cfg.HTTPPort)
	}
}
