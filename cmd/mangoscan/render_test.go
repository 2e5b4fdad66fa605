package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/supermango/mangoscan/internal/model"
	"github.com/supermango/mangoscan/internal/pipeline"
)

func TestRenderResult(t *testing.T) {
	outcome := &pipeline.Outcome{
		Result: &model.AnalysisResult{
			PercentSeverityIndex: 62.3,
			OverallLabel:         model.SeveritySevere,
			Recommendation: model.Recommendation{
				SeverityLabel: "Severe",
				WeatherRisk:   model.RiskHigh,
				ActionLabel:   "Act now",
				Advice:        "Spray a protectant fungicide.",
				Info:          "Anthracnose spreads fastest on wet leaves.",
				AdviceTagalog: "Mag-spray ng fungicide.",
			},
		},
		Params: model.RouteParams{
			PSI:          "62.3",
			OverallLabel: "Severe",
			Humidity:     "80",
			Temperature:  "29.5",
			Wetness:      "1.2",
		},
	}

	out := renderResult(outcome)

	assert.Contains(t, out, "Severe")
	assert.Contains(t, out, "62.3%")
	assert.Contains(t, out, "80%")
	assert.Contains(t, out, "29.5°C")
	assert.Contains(t, out, "Act now")
	assert.Contains(t, out, "Spray a protectant fungicide.")
	assert.Contains(t, out, "Mag-spray ng fungicide.")
}

func TestRenderStoredRecommendation(t *testing.T) {
	t.Run("well formed json", func(t *testing.T) {
		raw := `{"severity_label":"Mild","weather_risk":"Low","action_label":"Monitor","advice":"Check again in a week.","info":"Early spots only."}`

		out := renderStoredRecommendation(raw)
		assert.Contains(t, out, "Monitor")
		assert.Contains(t, out, "Check again in a week.")
		assert.Contains(t, out, "Early spots only.")
	})

	t.Run("unparseable text is shown raw", func(t *testing.T) {
		out := renderStoredRecommendation("not json at all")
		assert.Contains(t, out, "not json at all")
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, renderStoredRecommendation(""))
	})
}

func TestRenderSavedRecord(t *testing.T) {
	rec := &model.SavedTreeRecord{
		ID:        "1756300000000000000",
		Name:      "Backyard tree",
		ImageURI:  "/photos/leaf_0.jpg",
		Timestamp: 1756300000000,
		Payload: model.RouteParams{
			PSI:          "12.5",
			OverallLabel: "Mild",
			Humidity:     "70",
			Temperature:  "31",
			Wetness:      "0.4",
		},
	}

	out := renderSavedRecord(rec)
	assert.Contains(t, out, "Backyard tree")
	assert.Contains(t, out, "/photos/leaf_0.jpg")
	assert.Contains(t, out, "Mild")
	assert.Contains(t, out, "12.5%")
}

func TestRenderHowToScan(t *testing.T) {
	english := renderHowToScan(false)
	assert.Contains(t, english, "Clean Lens")
	assert.Contains(t, english, "One Leaf Only")
	assert.Contains(t, english, "Good Lighting")

	tagalog := renderHowToScan(true)
	assert.Contains(t, tagalog, "Linisin ang Kamera")
	assert.Contains(t, tagalog, "Isang Dahon Lamang")
	assert.Contains(t, tagalog, "Maliwanag na Ilaw")
}

func TestRenderUnclearPhotos(t *testing.T) {
	out := renderUnclearPhotos()
	assert.Contains(t, out, "not recognized as mango leaves")
	assert.Contains(t, out, "Hindi nakilala")
	assert.Contains(t, out, "how-to-scan")
}
