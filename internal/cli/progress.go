package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/supermango/mangoscan/internal/pipeline"
)

// phaseDescriptions are the stage captions shown under the bar while a
// submission runs.
var phaseDescriptions = map[pipeline.Phase]string{
	pipeline.PhaseLocationPending:  "Capturing location...",
	pipeline.PhaseWeatherPending:   "Fetching weather data...",
	pipeline.PhaseUploading:        "Uploading images...",
	pipeline.PhaseAwaitingResponse: "Analyzing leaf health...",
	pipeline.PhaseSuccess:          "Generating results...",
}

// ScanProgress renders pipeline progress as a terminal bar. The bar is
// purely cosmetic and never influences the submission itself.
type ScanProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewScanProgress creates a progress bar writing to w.
func NewScanProgress(w io.Writer) *ScanProgress {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Starting scan...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	return &ScanProgress{bar: bar, writer: w}
}

// Update is a pipeline.ProgressFunc. It maps each phase to its caption
// and advances the bar to the reported fraction.
func (s *ScanProgress) Update(phase pipeline.Phase, fraction float64) {
	if phase == pipeline.PhaseIdle || phase == pipeline.PhaseFailed {
		// Resets and failures leave the bar where it is; the caller
		// prints the outcome separately.
		return
	}

	if desc, ok := phaseDescriptions[phase]; ok {
		s.bar.Describe(fmt.Sprintf("[cyan][bold]%s[reset]", desc))
	}

	if err := s.bar.Set(int(fraction * 100)); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
