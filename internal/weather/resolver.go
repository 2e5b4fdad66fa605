package weather

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/model"
)

// Resolver evaluates an ordered list of providers and returns the first
// successful reading. The fallback policy is the provider order itself:
// a failing provider's error is logged and never propagated unless every
// provider fails.
type Resolver struct {
	providers []Provider
}

// NewResolver creates a resolver that tries providers in the given order.
func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{providers: providers}
}

// Resolve fetches exactly one WeatherReading for the position. All-providers
// failure yields ErrWeatherUnavailable; the submission cannot proceed
// without weather data.
func (r *Resolver) Resolve(ctx context.Context, pos model.GeoPosition) (model.WeatherReading, error) {
	if len(r.providers) == 0 {
		return model.WeatherReading{}, fmt.Errorf("%w: no providers configured", common.ErrWeatherUnavailable)
	}

	var lastErr error
	for _, p := range r.providers {
		reading, err := p.Fetch(ctx, pos)
		if err == nil {
			slog.Debug("Weather resolved",
				"provider", p.Name(),
				"humidity", reading.Humidity,
				"temperature", reading.Temperature,
				"wetness", reading.Wetness)
			return reading, nil
		}

		slog.Warn("Weather provider failed, trying next",
			"provider", p.Name(),
			"error", err)
		lastErr = err
	}

	return model.WeatherReading{}, fmt.Errorf("%w: all providers failed, last error: %v", common.ErrWeatherUnavailable, lastErr)
}
