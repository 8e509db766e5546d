package model

import "errors"

// ErrInference marks failures raised by the underlying inference runtime.
var ErrInference = errors.New("inference failed")

// Classifier is the narrow capability the request pipeline depends on: one
// synchronous inference per call, no retries. Implementations must be safe
// for concurrent use.
type Classifier interface {
	Predict(input []float32) ([]float32, error)
}
