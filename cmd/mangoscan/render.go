package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/supermango/mangoscan/internal/cli"
	"github.com/supermango/mangoscan/internal/model"
	"github.com/supermango/mangoscan/internal/pipeline"
)

// renderResult formats a completed analysis for the terminal.
func renderResult(outcome *pipeline.Outcome) string {
	r := outcome.Result
	rec := r.Recommendation

	var b strings.Builder

	fmt.Fprintf(&b, "Overall: %s\n", cli.StyleSeverity(string(r.OverallLabel)))
	fmt.Fprintf(&b, "Severity index: %s%%\n", outcome.Params.PSI)
	fmt.Fprintf(&b, "Weather risk: %s\n\n", string(rec.WeatherRisk))

	fmt.Fprintf(&b, "%s Conditions at the tree:\n", cli.CloudIcon)
	fmt.Fprintf(&b, "  Humidity: %s%%\n", outcome.Params.Humidity)
	fmt.Fprintf(&b, "  Temperature: %s°C\n", outcome.Params.Temperature)
	fmt.Fprintf(&b, "  Leaf wetness: %s\n\n", outcome.Params.Wetness)

	fmt.Fprintf(&b, "%s %s\n", cli.LeafIcon, cli.BoldStyle.Render(rec.ActionLabel))
	if rec.Advice != "" {
		fmt.Fprintf(&b, "%s\n", rec.Advice)
	}
	if rec.Info != "" {
		fmt.Fprintf(&b, "\n%s\n", cli.InfoStyle.Render(rec.Info))
	}

	if tagalog := renderTagalog(rec); tagalog != "" {
		fmt.Fprintf(&b, "\n%s", tagalog)
	}

	return cli.RenderBox(cli.MangoIcon+" Leaf Health Report", strings.TrimRight(b.String(), "\n"))
}

// renderTagalog collects the translated advice when the service provides it.
func renderTagalog(rec model.Recommendation) string {
	parts := []string{}
	if rec.ActionLabelTagalog != "" {
		parts = append(parts, cli.BoldStyle.Render(rec.ActionLabelTagalog))
	}
	if rec.AdviceTagalog != "" {
		parts = append(parts, rec.AdviceTagalog)
	}
	if rec.InfoTagalog != "" {
		parts = append(parts, rec.InfoTagalog)
	}
	if len(parts) == 0 {
		return ""
	}
	return cli.SubtleStyle.Render(strings.Join(parts, "\n"))
}

// renderSavedRecord formats a stored tree entry for the show command.
func renderSavedRecord(rec *model.SavedTreeRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", cli.TreeIcon, cli.BoldStyle.Render(rec.Name))
	fmt.Fprintf(&b, "Photo: %s\n", rec.ImageURI)
	fmt.Fprintf(&b, "Saved: %s\n\n", formatTimestamp(rec.Timestamp))

	fmt.Fprintf(&b, "Overall: %s\n", cli.StyleSeverity(rec.Payload.OverallLabel))
	fmt.Fprintf(&b, "Severity index: %s%%\n", rec.Payload.PSI)
	fmt.Fprintf(&b, "Humidity: %s%%  Temperature: %s°C  Wetness: %s\n", rec.Payload.Humidity, rec.Payload.Temperature, rec.Payload.Wetness)

	if advice := renderStoredRecommendation(rec.Payload.Recommendation); advice != "" {
		fmt.Fprintf(&b, "\n%s", advice)
	}

	return cli.RenderBox("Saved Tree", strings.TrimRight(b.String(), "\n"))
}

// renderStoredRecommendation parses the recommendation JSON exactly as it
// was handed off at scan time. Unparseable text is shown raw rather than
// dropped.
func renderStoredRecommendation(raw string) string {
	if raw == "" {
		return ""
	}

	var rec model.Recommendation
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return cli.SubtleStyle.Render(raw)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", cli.LeafIcon, cli.BoldStyle.Render(rec.ActionLabel))
	if rec.Advice != "" {
		fmt.Fprintf(&b, "%s\n", rec.Advice)
	}
	if rec.Info != "" {
		fmt.Fprintf(&b, "%s\n", cli.InfoStyle.Render(rec.Info))
	}
	if tagalog := renderTagalog(rec); tagalog != "" {
		fmt.Fprintf(&b, "%s\n", tagalog)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format("Jan 2, 2006 3:04 PM")
}
