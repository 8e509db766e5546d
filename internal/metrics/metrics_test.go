package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterRender(t *testing.T) {
	reg := New()
	reg.Counter("requests_total", "Total requests.").Add(3)

	out := reg.Render()
	if !strings.Contains(out, "# TYPE requests_total counter") {
		t.Errorf("missing TYPE line:\n%s", out)
	}
	if !strings.Contains(out, "# HELP requests_total Total requests.") {
		t.Errorf("missing HELP line:\n%s", out)
	}
	if !strings.Contains(out, "requests_total 3\n") {
		t.Errorf("missing value line:\n%s", out)
	}
}

func TestLabeledSeries(t *testing.T) {
	reg := New()
	reg.Counter(WithLabels("requests_total", "path", "/predict", "status", "200"), "").Inc()
	reg.Counter(WithLabels("requests_total", "path", "/predict", "status", "400"), "").Add(2)

	out := reg.Render()
	if !strings.Contains(out, `requests_total{path="/predict",status="200"} 1`) {
		t.Errorf("missing 200 series:\n%s", out)
	}
	if !strings.Contains(out, `requests_total{path="/predict",status="400"} 2`) {
		t.Errorf("missing 400 series:\n%s", out)
	}
	// One TYPE line for the shared base name.
	if strings.Count(out, "# TYPE requests_total counter") != 1 {
		t.Errorf("base name should be declared once:\n%s", out)
	}
}

func TestLabelValueEscaping(t *testing.T) {
	got := WithLabels("requests_total", "path", "/predict\nfoo", "q", `a\b"c`)
	want := `requests_total{path="/predict\nfoo",q="a\\b\"c"}`
	if got != want {
		t.Errorf("WithLabels = %q, want %q", got, want)
	}
}

func TestEscapedSeriesRenderOnOneLine(t *testing.T) {
	reg := New()
	reg.Counter(WithLabels("requests_total", "path", `/"`, "status", "404"), "").Inc()
	reg.Counter(WithLabels("requests_total", "path", "/predict\nfoo", "status", "404"), "").Inc()

	out := reg.Render()
	if !strings.Contains(out, `requests_total{path="/\"",status="404"} 1`) {
		t.Errorf("quote value not escaped:\n%s", out)
	}
	if !strings.Contains(out, `requests_total{path="/predict\nfoo",status="404"} 1`) {
		t.Errorf("newline value not escaped:\n%s", out)
	}
}

func TestGauge(t *testing.T) {
	reg := New()
	g := reg.Gauge("model_loaded", "")
	g.Set(1)
	if !strings.Contains(reg.Render(), "model_loaded 1\n") {
		t.Errorf("missing gauge line:\n%s", reg.Render())
	}
	g.Dec()
	if g.Value() != 0 {
		t.Errorf("gauge = %d, want 0", g.Value())
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	reg := New()
	h := reg.Histogram("latency_seconds", "", []float64{0.1, 1, 10})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(0.7)
	h.Observe(100) // beyond the last bucket, only counted in +Inf

	out := reg.Render()
	for _, want := range []string{
		`latency_seconds_bucket{le="0.1"} 1`,
		`latency_seconds_bucket{le="1"} 3`,
		`latency_seconds_bucket{le="10"} 3`,
		`latency_seconds_bucket{le="+Inf"} 4`,
		`latency_seconds_count 4`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSameNameReturnsSameMetric(t *testing.T) {
	reg := New()
	a := reg.Counter("x_total", "")
	b := reg.Counter("x_total", "")
	a.Inc()
	if b.Value() != 1 {
		t.Error("same name must return the same counter")
	}
}

func TestHandler(t *testing.T) {
	reg := New()
	reg.Counter("ok_total", "").Inc()

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "ok_total 1") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
