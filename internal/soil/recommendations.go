// Package soil holds the static agronomic advice served alongside soil-type
// predictions. Pure data, looked up by exact label match.
package soil

// Recommendation is the advice record for one soil type. All fields carry
// omitempty so an unknown label marshals as an empty JSON object.
type Recommendation struct {
	Characteristics string   `json:"characteristics,omitempty"`
	BestCrops       []string `json:"best_crops,omitempty"`
	Fertilizer      []string `json:"fertilizer,omitempty"`
	Tips            []string `json:"tips,omitempty"`
	Irrigation      string   `json:"irrigation,omitempty"`
}

var recommendations = map[string]Recommendation{
	"Black Soil": {
		Characteristics: "Clayey, moisture-retentive, rich in lime, iron, magnesia; good for deep-rooted crops.",
		BestCrops:       []string{"Cotton", "Maize", "Wheat", "Sunflower", "Moong/Chickpea"},
		Fertilizer: []string{
			"Apply 1 bag DAP per acre before sowing.",
			"Use 1–1.5 bags Urea per acre in 2 split doses during crop growth.",
			"Add 2 tractor-trolleys gobar compost to soften soil.",
		},
		Tips: []string{
			"Black soil cracks; maintain steady moisture.",
			"Use mulching in cotton to reduce evaporation.",
			"Avoid over-watering with tube-well irrigation.",
		},
		Irrigation: "Light, frequent irrigation for cotton/maize; stage-wise irrigation for wheat.",
	},
	"Cinder Soil": {
		Characteristics: "Soil derived from volcanic ash/lava, porous, well-drained, rich in minerals but sometimes low in organic matter",
		BestCrops:       []string{"Kinnow", "Grapes", "Cotton", "Sugarcane", "Vegetables"},
		Fertilizer: []string{
			"Apply 1 bag DAP per acre before sowing.",
			"Use 2–3 bags Urea in split doses.",
			"Apply mulch or wheat straw to conserve moisture.",
		},
		Tips: []string{
			"Soil is porous; keep soil covered.",
			"Drip irrigation recommended for kinnow and grapes.",
		},
		Irrigation: "Frequent light irrigation with mulching.",
	},
	"Laterite Soil": {
		Characteristics: "Red/reddish-brown, iron and aluminum rich, acidic pH, low fertility",
		BestCrops:       []string{"Maize", "Sugarcane", "Mustard", "Groundnut", "Vegetables"},
		Fertilizer: []string{
			"Apply 1 bag DAP per acre before sowing.",
			"Use 1 bag MOP for sugarcane/vegetables.",
			"Add compost or green manure (sunhemp/dhaincha).",
		},
		Tips: []string{
			"Foothill regions—risk of erosion; use contour farming.",
			"Add crop residues to improve soil body.",
		},
		Irrigation: "Regular irrigation; avoid runoff.",
	},
	"Peat Soil": {
		Characteristics: "Organic-rich, dark brown/black, acidic, high water retention, low nutrient availability",
		BestCrops:       []string{"Rice", "Potato", "Berseem", "Oat", "Vegetables"},
		Fertilizer: []string{
			"Apply 1 bag DAP per acre before sowing.",
			"Add cow dung compost.",
			"Mix sand to improve drainage.",
		},
		Tips: []string{
			"Peat soil stays wet; avoid heavy irrigation.",
			"Ideal for paddy-fodder cropping system.",
		},
		Irrigation: "Light irrigation only; keep moist but not water-logged except for rice.",
	},
	"Yellow Soil": {
		Characteristics: "Sandy to sandy-loam texture, low organic matter, acidic pH, low fertility, well-drained",
		BestCrops:       []string{"Maize", "Groundnut", "Sugarcane", "Vegetables", "Pulses"},
		Fertilizer: []string{
			"Apply 1 bag DAP per acre before sowing.",
			"Use 1.5–2 bags Urea during crop growth.",
			"Add compost or green manure crops.",
		},
		Tips: []string{
			"Add compost to improve soil life.",
			"Grow dhaincha for 45 days before main crop.",
		},
		Irrigation: "Moderate irrigation; avoid over-watering to prevent soil washing.",
	},
}

// Recommend returns the advice for a soil label. Labels without an entry
// yield the zero record.
func Recommend(label string) Recommendation {
	return recommendations[label]
}
