package soil

import (
	"encoding/json"
	"testing"
)

func TestRecommend_KnownLabels(t *testing.T) {
	for _, label := range []string{"Black Soil", "Cinder Soil", "Laterite Soil", "Peat Soil", "Yellow Soil"} {
		rec := Recommend(label)
		if rec.Characteristics == "" {
			t.Errorf("%s: empty characteristics", label)
		}
		if len(rec.BestCrops) == 0 {
			t.Errorf("%s: no best crops", label)
		}
		if len(rec.Fertilizer) == 0 {
			t.Errorf("%s: no fertilizer advice", label)
		}
		if rec.Irrigation == "" {
			t.Errorf("%s: empty irrigation", label)
		}
	}
}

func TestRecommend_UnknownLabelMarshalsEmpty(t *testing.T) {
	rec := Recommend("Martian Soil")
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("unknown label marshals to %s, want {}", raw)
	}
}

func TestRecommend_BlackSoilCrops(t *testing.T) {
	rec := Recommend("Black Soil")
	want := []string{"Cotton", "Maize", "Wheat", "Sunflower", "Moong/Chickpea"}
	if len(rec.BestCrops) != len(want) {
		t.Fatalf("crops = %v, want %v", rec.BestCrops, want)
	}
	for i, crop := range want {
		if rec.BestCrops[i] != crop {
			t.Errorf("crops[%d] = %s, want %s", i, rec.BestCrops[i], crop)
		}
	}
}
