// Package geo resolves the device position used to key weather lookups and
// tag submissions.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/supermango/mangoscan/internal/model"
)

// Locator produces a single current position. Implementations read the
// position once per call; there is no continuous tracking.
type Locator interface {
	Current(ctx context.Context) (model.GeoPosition, error)
}

// StaticLocator returns coordinates fixed in configuration, the CLI
// equivalent of a granted location permission.
type StaticLocator struct {
	pos model.GeoPosition
}

// NewStaticLocator creates a locator pinned to the given coordinates.
func NewStaticLocator(lat, lon float64) *StaticLocator {
	return &StaticLocator{pos: model.GeoPosition{Latitude: lat, Longitude: lon}}
}

// Current returns the configured position.
func (l *StaticLocator) Current(_ context.Context) (model.GeoPosition, error) {
	return l.pos, nil
}

// IPLocator resolves an approximate position from the machine's public IP
// via ip-api.com. Accuracy is city-level, which is enough to key a weather
// lookup.
type IPLocator struct {
	baseURL    string
	httpClient *http.Client
}

// NewIPLocator creates an IP-based locator against the public ip-api.com
// endpoint.
func NewIPLocator() *IPLocator {
	return &IPLocator{
		baseURL: "http://ip-api.com/json",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Current fetches the position for the current public IP.
func (l *IPLocator) Current(ctx context.Context) (model.GeoPosition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL, nil)
	if err != nil {
		return model.GeoPosition{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return model.GeoPosition{}, fmt.Errorf("failed to reach ip-api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.GeoPosition{}, fmt.Errorf("ip-api error: %d - %s", resp.StatusCode, string(body))
	}

	var parsed ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.GeoPosition{}, fmt.Errorf("failed to decode ip-api response: %w", err)
	}

	if parsed.Status != "success" {
		return model.GeoPosition{}, fmt.Errorf("ip-api lookup failed: %s", parsed.Message)
	}

	return model.GeoPosition{Latitude: parsed.Lat, Longitude: parsed.Lon}, nil
}
