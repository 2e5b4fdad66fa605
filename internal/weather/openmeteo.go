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

// OpenMeteo is the key-less secondary provider. Its wetness field is the
// current precipitation reading, not a 3-hour accumulation like the
// primary's; the difference is deliberate and passed through untouched.
type OpenMeteo struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenMeteo creates the secondary provider.
func NewOpenMeteo() *OpenMeteo {
	return &OpenMeteo{
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name identifies the provider in logs.
func (p *OpenMeteo) Name() string { return "open-meteo" }

type openMeteoResponse struct {
	Current struct {
		Temperature2m      *float64 `json:"temperature_2m"`
		RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
		Precipitation      *float64 `json:"precipitation"`
	} `json:"current"`
}

// Fetch reads current conditions for the position.
func (p *OpenMeteo) Fetch(ctx context.Context, pos model.GeoPosition) (model.WeatherReading, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(pos.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(pos.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,precipitation")
	q.Set("timezone", "auto")
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
		return model.WeatherReading{}, fmt.Errorf("open-meteo error: %d - %s", resp.StatusCode, string(body))
	}

	var parsed openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.WeatherReading{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return model.WeatherReading{
		Humidity:    common.DefaultOr(parsed.Current.RelativeHumidity2m, 0),
		Temperature: common.DefaultOr(parsed.Current.Temperature2m, 0),
		Wetness:     roundWetness(common.DefaultOr(parsed.Current.Precipitation, 0)),
	}, nil
}
