package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// InitRuntime initializes the process-wide ONNX runtime environment. Call
// once before creating sessions. libraryPath optionally points at the
// onnxruntime shared library; empty means the platform default.
func InitRuntime(libraryPath string) error {
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if ort.IsInitialized() {
		return nil
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnx runtime: %w", err)
	}
	return nil
}

// ShutdownRuntime tears down the shared environment. Sessions must be
// closed first.
func ShutdownRuntime() {
	if ort.IsInitialized() {
		_ = ort.DestroyEnvironment()
	}
}

// Session is an ONNX-backed Classifier. The input and output tensors are
// allocated once and bound to the session, so Predict serializes access:
// concurrent calls would race on the shared buffers.
type Session struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// NewSession loads the model at modelPath with tensors shaped per meta.
func NewSession(modelPath string, meta Metadata) (*Session, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Session{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Predict runs one inference. The output buffer is copied out so callers
// never observe a later call's results.
func (s *Session) Predict(input []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.inputTensor.GetData()
	if len(input) != len(in) {
		return nil, fmt.Errorf("%w: input has %d values, model expects %d", ErrInference, len(input), len(in))
	}
	copy(in, input)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	out := s.outputTensor.GetData()
	result := make([]float32, len(out))
	copy(result, out)
	return result, nil
}

// Close releases the session and its tensors.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
		s.inputTensor = nil
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
		s.outputTensor = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
}
