package postprocess

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize_PassthroughWithinTolerance(t *testing.T) {
	cases := [][]float32{
		{0.5, 0.3, 0.2},
		{0.5, 0.3, 0.205}, // sum 1.005, inside the 0.01 tolerance
		{0.995, 0.0, 0.0},
	}
	for _, raw := range cases {
		probs, applied := Normalize(raw)
		if applied {
			t.Errorf("Normalize(%v) applied softmax, want passthrough", raw)
		}
		for i, v := range raw {
			if probs[i] != float64(v) {
				t.Errorf("Normalize(%v)[%d] = %f, want %f", raw, i, probs[i], v)
			}
		}
	}
}

func TestNormalize_SoftmaxOnLogits(t *testing.T) {
	probs, applied := Normalize([]float32{2.0, 1.0, 0.1})
	if !applied {
		t.Fatal("expected softmax to be applied to logits")
	}
	sum := Sum(probs)
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("softmax sum = %f, want 1.0 +- 1e-6", sum)
	}
	if !(probs[0] > probs[1] && probs[1] > probs[2]) {
		t.Errorf("softmax broke score ordering: %v", probs)
	}
	for i, v := range probs {
		if v <= 0 || v >= 1 {
			t.Errorf("probs[%d] = %f outside (0, 1)", i, v)
		}
	}
}

func TestNormalize_StableOnLargeLogits(t *testing.T) {
	probs, applied := Normalize([]float32{1000, 999, 998})
	if !applied {
		t.Fatal("expected softmax")
	}
	for i, v := range probs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("probs[%d] = %f, stable softmax must not overflow", i, v)
		}
	}
	if sum := Sum(probs); math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("sum = %f, want 1.0", sum)
	}
}

func TestNormalize_Empty(t *testing.T) {
	probs, applied := Normalize(nil)
	if applied || len(probs) != 0 {
		t.Errorf("Normalize(nil) = %v, %v; want empty passthrough", probs, applied)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		probs   []float64
		wantErr bool
	}{
		{"valid", []float64{0.7, 0.2, 0.1}, false},
		{"nan", []float64{0.5, math.NaN(), 0.2}, true},
		{"positive inf", []float64{0.5, math.Inf(1), 0.2}, true},
		{"negative inf", []float64{0.5, math.Inf(-1), 0.2}, true},
		{"constant", []float64{0.25, 0.25, 0.25, 0.25}, true},
		{"single entry", []float64{1.0}, true},
		{"empty", nil, true},
	}
	for _, tc := range cases {
		err := Validate(tc.probs)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if tc.wantErr && err != nil && !errors.Is(err, ErrInvalidPrediction) {
			t.Errorf("%s: error = %v, want ErrInvalidPrediction", tc.name, err)
		}
	}
}

func TestTop_RestrictsToLabeledRange(t *testing.T) {
	// Highest score sits past the end of the label set and must be ignored.
	probs := []float64{0.1, 0.3, 0.2, 0.9}
	labels := []string{"a", "b", "c"}

	top := Top(probs, labels)
	if top.Label != "b" || top.Index != 1 {
		t.Errorf("Top = %+v, want label b at index 1", top)
	}
	if top.Confidence != 0.3 {
		t.Errorf("Top confidence = %f, want 0.3", top.Confidence)
	}
}

func TestTopK_OrderingAndTies(t *testing.T) {
	probs := []float64{0.3, 0.3, 0.4}
	labels := []string{"a", "b", "c"}

	got := TopK(probs, labels, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantLabels := []string{"c", "a", "b"} // tie between a and b keeps index order
	for i, w := range wantLabels {
		if got[i].Label != w {
			t.Errorf("TopK[%d] = %s, want %s", i, got[i].Label, w)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("TopK not descending at %d: %v", i, got)
		}
	}
}

func TestTopK_ClampsToClassCount(t *testing.T) {
	probs := []float64{0.6, 0.4}
	labels := []string{"a", "b"}
	if got := TopK(probs, labels, 5); len(got) != 2 {
		t.Errorf("len = %d, want min(5, 2) = 2", len(got))
	}
}

func TestDescribe(t *testing.T) {
	probs := []float64{0.1, 0.2, 0.3, 0.4}
	s := Describe(probs)
	if s.Min != 0.1 || s.Max != 0.4 {
		t.Errorf("min/max = %f/%f, want 0.1/0.4", s.Min, s.Max)
	}
	if math.Abs(s.Mean-0.25) > 1e-12 {
		t.Errorf("mean = %f, want 0.25", s.Mean)
	}
	wantStd := math.Sqrt((0.15*0.15 + 0.05*0.05 + 0.05*0.05 + 0.15*0.15) / 4)
	if math.Abs(s.Std-wantStd) > 1e-12 {
		t.Errorf("std = %f, want %f", s.Std, wantStd)
	}
}

func TestUniqueCount(t *testing.T) {
	if got := UniqueCount([]float64{0.2, 0.2, 0.6}); got != 2 {
		t.Errorf("UniqueCount = %d, want 2", got)
	}
	if got := UniqueCount(nil); got != 0 {
		t.Errorf("UniqueCount(nil) = %d, want 0", got)
	}
}
