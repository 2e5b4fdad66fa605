package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/model"
)

// OpenWeatherMap is the primary provider. It needs an API key and reports
// wetness as rain accumulated over the last 3 hours, in mm.
type OpenWeatherMap struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherMap creates the primary provider. An empty key is allowed;
// Fetch will fail fast and let the resolver fall through to the secondary.
func NewOpenWeatherMap(apiKey string) *OpenWeatherMap {
	return &OpenWeatherMap{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name identifies the provider in logs.
func (p *OpenWeatherMap) Name() string { return "openweathermap" }

type owmResponse struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		ThreeHour *float64 `json:"3h"`
	} `json:"rain"`
}

// Fetch reads current conditions for the position, in metric units.
func (p *OpenWeatherMap) Fetch(ctx context.Context, pos model.GeoPosition) (model.WeatherReading, error) {
	if p.apiKey == "" {
		return model.WeatherReading{}, fmt.Errorf("openweathermap api key not set")
	}

	u, err := url.Parse(p.baseURL)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(pos.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(pos.Longitude, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", p.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return model.WeatherReading{}, fmt.Errorf("openweathermap error: %d - %s", resp.StatusCode, string(body))
	}

	var parsed owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.WeatherReading{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return model.WeatherReading{
		Humidity:    common.DefaultOr(parsed.Main.Humidity, 0),
		Temperature: common.DefaultOr(parsed.Main.Temp, 0),
		Wetness:     roundWetness(common.DefaultOr(parsed.Rain.ThreeHour, 0)),
	}, nil
}
