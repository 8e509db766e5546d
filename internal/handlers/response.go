package handlers

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"net/http"
	"time"
)

// apiError matches the {"detail": "..."} error body shape of every error
// response this service produces.
type apiError struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, apiError{Detail: detail})
}

// setNoCache marks a prediction response as non-cacheable.
func setNoCache(h http.Header) {
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

// unixSeconds renders a time as fractional seconds since the epoch.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// roundMS converts a duration to milliseconds rounded to two decimals.
func roundMS(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000*100) / 100
}

// md5First8 is the short content hash reported for uploaded images.
func md5First8(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])[:8]
}

func strPtr(s string) *string { return &s }
