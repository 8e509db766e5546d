package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	errNotAnImage     = errors.New("File must be an image")
	errUploadTooLarge = errors.New("upload too large")
)

// readImageUpload extracts the uploaded bytes from the "file" multipart
// field. The request body is capped at maxBytes before parsing. The part's
// declared content type must start with image/, checked before anything
// touches the bytes, so no model work happens for rejected uploads.
// uploadErrorStatus maps the returned errors to response codes; the error
// text is the client-visible detail.
func readImageUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: limit is %d bytes", errUploadTooLarge, maxBytes)
		}
		return nil, "", fmt.Errorf("could not parse multipart form: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("no file provided; use 'file' as the form field name")
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return nil, "", errNotAnImage
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %v", err)
	}
	return data, header.Filename, nil
}

// uploadErrorStatus maps a readImageUpload error to its response code:
// 413 for the size cap, 400 for everything else.
func uploadErrorStatus(err error) int {
	if errors.Is(err, errUploadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// saveDebugCopy writes the upload under the debug directory, named with a
// millisecond timestamp. Best-effort: a failed write is logged and yields
// nil, never an error.
func (h *Handler) saveDebugCopy(prefix string, data []byte) *string {
	path := filepath.Join(h.opts.DebugDir, fmt.Sprintf("%s_%d.jpg", prefix, time.Now().UnixMilli()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		httpLogger().Warn("could not save debug copy", "path", path, "error", err)
		return nil
	}
	return &path
}
