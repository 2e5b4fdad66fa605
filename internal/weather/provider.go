// Package weather fetches ambient conditions for a submission from one of
// two providers, with a strict primary-then-secondary fallback order.
package weather

import (
	"context"
	"math"

	"github.com/supermango/mangoscan/internal/model"
)

// Provider abstracts a weather data source. Each provider maps its own
// field names and units onto the canonical WeatherReading shape.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, pos model.GeoPosition) (model.WeatherReading, error)
}

// roundWetness mirrors the original client, which carried wetness with two
// decimal places regardless of provider.
func roundWetness(v float64) float64 {
	return math.Round(v*100) / 100
}
