package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/agrovision/cropscan-api/internal/preprocess"
)

// Metadata is the sidecar JSON exported alongside each ONNX model. It pins
// the tensor shapes the session is built with and the label set mapping
// output channels to class names.
type Metadata struct {
	InputShape    []int64  `json:"input_shape"`
	OutputShape   []int64  `json:"output_shape"`
	Classes       []string `json:"classes"`
	ImageSize     int      `json:"image_size"`
	Normalization string   `json:"normalization,omitempty"`
}

// LoadMetadata reads and parses a model's sidecar file.
func LoadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

// NumClasses is the model's output dimensionality (the last output dim).
func (m Metadata) NumClasses() int {
	if len(m.OutputShape) == 0 {
		return 0
	}
	return int(m.OutputShape[len(m.OutputShape)-1])
}

// Scheme maps the metadata's normalization name to a preprocessing scheme.
func (m Metadata) Scheme() preprocess.Scheme {
	if m.Normalization == string(preprocess.SchemeScale) {
		return preprocess.SchemeScale
	}
	return preprocess.SchemeEfficientNet
}

// InputShapeString renders the input shape as "(1, 160, 160, 3)".
func (m Metadata) InputShapeString() string { return shapeString(m.InputShape) }

// OutputShapeString renders the output shape as "(1, 39)".
func (m Metadata) OutputShapeString() string { return shapeString(m.OutputShape) }

func shapeString(shape []int64) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ReconcileClasses resizes the label list to match the model's output
// dimensionality, padding with generated placeholder names or truncating.
// Returns labels added (positive), dropped (negative), or zero when the
// list was already consistent.
func (m *Metadata) ReconcileClasses() int {
	n := m.NumClasses()
	if n <= 0 || len(m.Classes) == n {
		return 0
	}
	delta := n - len(m.Classes)
	if delta > 0 {
		for len(m.Classes) < n {
			m.Classes = append(m.Classes, fmt.Sprintf("Unknown_Class_%d", len(m.Classes)+1))
		}
	} else {
		m.Classes = m.Classes[:n]
	}
	return delta
}
