// Package app wires configuration, the ONNX runtime, both classifiers,
// and the HTTP server into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/agrovision/cropscan-api/internal/config"
	"github.com/agrovision/cropscan-api/internal/handlers"
	"github.com/agrovision/cropscan-api/internal/metrics"
	"github.com/agrovision/cropscan-api/internal/model"
	"github.com/agrovision/cropscan-api/internal/preprocess"
)

// Runtime holds everything built during startup. The disease model is
// mandatory; the soil model is optional and the service runs without it.
type Runtime struct {
	cfg        config.Config
	logger     *slog.Logger
	httpServer *http.Server
	registry   *metrics.Registry
	sessions   []*model.Session
}

// NewRuntime loads configuration, initializes the ONNX runtime, loads the
// models, and builds the HTTP server. An error here means the service
// cannot start; the disease model failing to load is such an error, the
// soil model failing to load is not.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	wd, _ := os.Getwd()
	logger.InfoContext(ctx, "starting inference server", "working_dir", wd, "http_port", cfg.HTTPPort)

	if err := model.InitRuntime(cfg.ONNXLibraryPath); err != nil {
		return nil, err
	}

	rt := &Runtime{cfg: cfg, logger: logger, registry: metrics.New()}

	disease, err := rt.loadDiseaseModel(ctx)
	if err != nil {
		rt.close()
		return nil, err
	}
	soilModel := rt.loadSoilModel(ctx)

	rt.registry.Gauge("model_loaded", "Whether the disease model is loaded.").Set(boolGauge(disease.Loaded()))
	rt.registry.Gauge("soil_model_loaded", "Whether the soil model is loaded.").Set(boolGauge(soilModel.Loaded()))

	h := handlers.NewHandler(disease, soilModel, handlers.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		DebugDir:       cfg.DebugDir,
	}, rt.registry)

	rt.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      handlers.NewRouter(h, cfg.ServiceID, cfg.CORSOrigin),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return rt, nil
}

// loadDiseaseModel loads the primary classifier. Any failure is fatal for
// the service.
func (rt *Runtime) loadDiseaseModel(ctx context.Context) (handlers.Model, error) {
	log := rt.logger.With("model", "disease")

	path := resolvePath(rt.cfg.ModelPath)
	exists := fileExists(path)
	log.InfoContext(ctx, "loading disease model", "path", path, "exists", exists)
	if !exists {
		return handlers.Model{}, fmt.Errorf("disease model file not found at %s", path)
	}
	log.InfoContext(ctx, "model file found", "size_mb", fileSizeMB(path))

	meta, err := model.LoadMetadata(resolvePath(rt.cfg.ModelMetadataPath))
	if err != nil {
		return handlers.Model{}, fmt.Errorf("disease model metadata: %w", err)
	}
	if delta := meta.ReconcileClasses(); delta != 0 {
		log.WarnContext(ctx, "class labels reconciled against output shape", "delta", delta, "classes", len(meta.Classes))
	}

	sess, err := model.NewSession(path, meta)
	if err != nil {
		return handlers.Model{}, fmt.Errorf("load disease model: %w", err)
	}
	rt.sessions = append(rt.sessions, sess)

	if err := selfTest(ctx, log, sess, meta); err != nil {
		return handlers.Model{}, fmt.Errorf("disease model: %w", err)
	}
	log.InfoContext(ctx, "disease model loaded",
		"input_shape", meta.InputShapeString(),
		"output_shape", meta.OutputShapeString(),
		"classes", len(meta.Classes),
	)
	return handlers.Model{Classifier: sess, Meta: meta, Path: path, Exists: true}, nil
}

// loadSoilModel loads the secondary classifier. Failures are logged and
// the service keeps running with soil endpoints returning 503.
func (rt *Runtime) loadSoilModel(ctx context.Context) handlers.Model {
	log := rt.logger.With("model", "soil")

	path := resolvePath(rt.cfg.SoilModelPath)
	exists := fileExists(path)
	unloaded := handlers.Model{Path: path, Exists: exists}
	if !exists {
		log.WarnContext(ctx, "soil model not found, soil prediction will not be available", "path", path)
		return unloaded
	}
	log.InfoContext(ctx, "loading soil model", "path", path, "size_mb", fileSizeMB(path))

	meta, err := model.LoadMetadata(resolvePath(rt.cfg.SoilMetadataPath))
	if err != nil {
		log.ErrorContext(ctx, "failed to load soil model metadata", "error", err)
		return unloaded
	}
	if delta := meta.ReconcileClasses(); delta != 0 {
		log.WarnContext(ctx, "class labels reconciled against output shape", "delta", delta, "classes", len(meta.Classes))
	}

	sess, err := model.NewSession(path, meta)
	if err != nil {
		log.ErrorContext(ctx, "failed to load soil model", "error", err)
		unloaded.Meta = meta
		return unloaded
	}
	rt.sessions = append(rt.sessions, sess)

	if err := selfTest(ctx, log, sess, meta); err != nil {
		log.ErrorContext(ctx, "soil model self test failed", "error", err)
		unloaded.Meta = meta
		return unloaded
	}
	log.InfoContext(ctx, "soil model loaded",
		"input_shape", meta.InputShapeString(),
		"output_shape", meta.OutputShapeString(),
		"classes", len(meta.Classes),
	)
	return handlers.Model{Classifier: sess, Meta: meta, Path: path, Exists: true}
}

// Run serves HTTP until a shutdown signal or a server failure, then
// drains connections and releases the ONNX sessions.
func (rt *Runtime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		rt.logger.InfoContext(ctx, "http server listening", "addr", rt.httpServer.Addr)
		errCh <- rt.httpServer.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		rt.logger.InfoContext(ctx, "shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rt.httpServer.Shutdown(shutCtx); err != nil && runErr == nil {
		runErr = err
	}
	rt.close()
	return runErr
}

func (rt *Runtime) close() {
	for _, s := range rt.sessions {
		s.Close()
	}
	rt.sessions = nil
	model.ShutdownRuntime()
}

// selfTest runs one inference on random pixels so a broken model surfaces
// at startup instead of on the first request.
func selfTest(ctx context.Context, log *slog.Logger, c model.Classifier, meta model.Metadata) error {
	size := meta.ImageSize
	if size <= 0 {
		size = preprocess.DefaultTargetSize
	}
	input := make([]float32, size*size*3)
	for i := range input {
		input[i] = rand.Float32()
	}

	out, err := c.Predict(input)
	if err != nil {
		return fmt.Errorf("self test: %w", err)
	}
	if want := meta.NumClasses(); want > 0 && len(out) != want {
		return fmt.Errorf("self test: got %d outputs, want %d", len(out), want)
	}
	var sum float64
	for _, v := range out {
		sum += float64(v)
	}
	log.InfoContext(ctx, "model self test passed", "outputs", len(out), "output_sum", sum)
	return nil
}

// resolvePath keeps absolute paths as-is and anchors relative paths at
// the executable's directory when the file lives there, falling back to
// the working directory.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), path)
		if fileExists(candidate) {
			return candidate
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func fileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return math.Round(float64(info.Size())/(1024*1024)*100) / 100
}

func boolGauge(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
