// Package pipeline runs the capture-to-submission flow: position, weather,
// multipart upload, response validation and the handoff of the parsed result
// to the display layer.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/supermango/mangoscan/internal/collector"
	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/gate"
	"github.com/supermango/mangoscan/internal/geo"
	"github.com/supermango/mangoscan/internal/model"
)

// Phase names one step of a submission. Phases are strictly ordered; there
// is no parallelism and no reordering within a submission.
type Phase int

// Submission phases.
const (
	PhaseIdle Phase = iota
	PhaseLocationPending
	PhaseWeatherPending
	PhaseUploading
	PhaseAwaitingResponse
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLocationPending:
		return "location"
	case PhaseWeatherPending:
		return "weather"
	case PhaseUploading:
		return "uploading"
	case PhaseAwaitingResponse:
		return "awaiting response"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// ProgressFunc receives phase transitions with a 0..1 fraction. The signal
// is cosmetic, for the loading display only; it carries no retry or
// cancellation semantics.
type ProgressFunc func(phase Phase, fraction float64)

// WeatherSource is the slice of the weather resolver the pipeline needs.
type WeatherSource interface {
	Resolve(ctx context.Context, pos model.GeoPosition) (model.WeatherReading, error)
}

// Config holds the endpoint policy. When LocalEndpoint is set it is tried
// first with its own short timeout, then the tunnel endpoint; one POST per
// endpoint, no retries.
type Config struct {
	LocalEndpoint  string
	TunnelEndpoint string
	LocalTimeout   time.Duration
	UploadTimeout  time.Duration
}

const prescriptionPath = "/getPrescription"

// Outcome is what a successful submission hands to the display layer.
type Outcome struct {
	Result *model.AnalysisResult
	Params model.RouteParams
}

// Pipeline executes submissions sequentially. A loading guard rejects an
// overlapping submission instead of queueing it.
type Pipeline struct {
	cfg      Config
	locator  geo.Locator
	weather  WeatherSource
	client   *http.Client
	progress ProgressFunc

	mu       sync.Mutex
	inFlight bool
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithProgress installs the loading-display callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithHTTPClient overrides the upload client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// New creates a submission pipeline.
func New(cfg Config, locator geo.Locator, weather WeatherSource, opts ...Option) *Pipeline {
	if cfg.LocalTimeout <= 0 {
		cfg.LocalTimeout = 3 * time.Second
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 120 * time.Second
	}

	p := &Pipeline{
		cfg:     cfg,
		locator: locator,
		weather: weather,
		client:  &http.Client{Timeout: cfg.UploadTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) report(phase Phase, fraction float64) {
	if p.progress != nil {
		p.progress(phase, fraction)
	}
}

// Submit runs one full submission: location, weather, multipart upload,
// response validation. The photo count precondition is checked before any
// network activity. Whatever the outcome, the pipeline returns to idle and
// the progress signal is cleared.
func (p *Pipeline) Submit(ctx context.Context, images []model.CapturedImage, verifyFirst bool) (*Outcome, error) {
	if len(images) != collector.MaxPhotos {
		return nil, common.NewUserError(
			fmt.Sprintf("Need %d photos, have %d. Please add more images.", collector.MaxPhotos, len(images)),
			common.ErrCollectionIncomplete)
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, common.ErrSubmissionInFlight
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
		p.report(PhaseIdle, 0)
	}()

	outcome, err := p.run(ctx, images, verifyFirst)
	if err != nil {
		p.report(PhaseFailed, 0)
		return nil, err
	}
	return outcome, nil
}

func (p *Pipeline) run(ctx context.Context, images []model.CapturedImage, verifyFirst bool) (*Outcome, error) {
	// Location permission is requested here, at submission start, not at
	// screen entry.
	p.report(PhaseLocationPending, 0.1)
	if err := gate.CheckLocation(p.locator); err != nil {
		return nil, err
	}
	pos, err := p.locator.Current(ctx)
	if err != nil {
		return nil, common.NewUserError("Could not determine your location",
			fmt.Errorf("%w: %v", common.ErrLocationDenied, err))
	}
	p.report(PhaseLocationPending, 0.2)

	p.report(PhaseWeatherPending, 0.3)
	reading, err := p.weather.Resolve(ctx, pos)
	if err != nil {
		// Fatal: no submission proceeds without weather data.
		return nil, err
	}
	p.report(PhaseWeatherPending, 0.4)

	p.report(PhaseUploading, 0.5)
	req := model.SubmissionRequest{
		Images:      images,
		Weather:     reading,
		Position:    pos,
		VerifyFirst: verifyFirst,
	}
	body, contentType, err := buildPayload(req)
	if err != nil {
		return nil, err
	}
	p.report(PhaseUploading, 0.6)

	p.report(PhaseUploading, 0.7)
	raw, err := p.postWithFallback(ctx, body, contentType)
	if err != nil {
		return nil, err
	}

	p.report(PhaseAwaitingResponse, 0.9)
	result, rawRecommendation, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	p.report(PhaseSuccess, 1.0)
	return &Outcome{
		Result: result,
		Params: buildRouteParams(result, rawRecommendation),
	}, nil
}

type endpoint struct {
	url    string
	client *http.Client
}

func (p *Pipeline) endpoints() []endpoint {
	var eps []endpoint
	if p.cfg.LocalEndpoint != "" {
		eps = append(eps, endpoint{
			url:    strings.TrimSuffix(p.cfg.LocalEndpoint, "/") + prescriptionPath,
			client: &http.Client{Timeout: p.cfg.LocalTimeout},
		})
	}
	if p.cfg.TunnelEndpoint != "" {
		eps = append(eps, endpoint{
			url:    strings.TrimSuffix(p.cfg.TunnelEndpoint, "/") + prescriptionPath,
			client: p.client,
		})
	}
	return eps
}

// postWithFallback tries each configured endpoint in order, one POST per
// endpoint, and returns the first 2xx body. No retries, no backoff.
func (p *Pipeline) postWithFallback(ctx context.Context, body []byte, contentType string) ([]byte, error) {
	eps := p.endpoints()
	if len(eps) == 0 {
		return nil, fmt.Errorf("%w: no submission endpoint configured", common.ErrMissingConfig)
	}

	var lastErr error
	for _, ep := range eps {
		raw, err := postOnce(ctx, ep, body, contentType)
		if err == nil {
			return raw, nil
		}
		slog.Warn("Upload attempt failed", "endpoint", ep.url, "error", err)
		lastErr = err
	}

	return nil, common.NewUserError("Upload error",
		fmt.Errorf("%w: %v", common.ErrNetworkFailure, lastErr))
}

func postOnce(ctx context.Context, ep endpoint, body []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := ep.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(raw))
	}

	return raw, nil
}
