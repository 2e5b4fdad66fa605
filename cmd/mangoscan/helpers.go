package main

import (
	"net/http"

	"github.com/supermango/mangoscan/internal/config"
	"github.com/supermango/mangoscan/internal/geo"
	"github.com/supermango/mangoscan/internal/history"
	"github.com/supermango/mangoscan/internal/pipeline"
	"github.com/supermango/mangoscan/internal/weather"
)

// initStore opens the scan history database at the configured path.
func initStore(cfg *config.Config) (*history.Store, error) {
	return history.Open(cfg.DatabasePath)
}

// buildLocator picks the position source: explicit coordinates win over
// IP geolocation. Nil means no source is configured, which surfaces as a
// location failure when a submission starts.
func buildLocator(cfg *config.Config) geo.Locator {
	if cfg.Location.Lat != nil && cfg.Location.Lon != nil {
		return geo.NewStaticLocator(*cfg.Location.Lat, *cfg.Location.Lon)
	}
	if cfg.Location.UseIP {
		return geo.NewIPLocator()
	}
	return nil
}

// buildWeather assembles the provider chain. OpenWeatherMap goes first
// when a key is present; Open-Meteo needs no key and always closes the
// chain.
func buildWeather(cfg *config.Config) *weather.Resolver {
	providers := []weather.Provider{}
	if cfg.OWMAPIKey != "" {
		providers = append(providers, weather.NewOpenWeatherMap(cfg.OWMAPIKey))
	}
	providers = append(providers, weather.NewOpenMeteo())
	return weather.NewResolver(providers...)
}

// buildPipeline wires the full submission pipeline from configuration.
func buildPipeline(cfg *config.Config, progress pipeline.ProgressFunc, client *http.Client) *pipeline.Pipeline {
	pcfg := pipeline.Config{
		LocalEndpoint:  cfg.LocalURL,
		TunnelEndpoint: cfg.TunnelURL,
		LocalTimeout:   cfg.LocalTimeout,
	}

	opts := []pipeline.Option{}
	if progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}
	if client != nil {
		opts = append(opts, pipeline.WithHTTPClient(client))
	}

	return pipeline.New(pcfg, buildLocator(cfg), buildWeather(cfg), opts...)
}
