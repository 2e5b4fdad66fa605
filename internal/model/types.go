// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// SeverityLabel is the overall tree condition returned by the inference
// backend.
type SeverityLabel string

// Known severity labels, ordered from best to worst.
const (
	SeverityHealthy  SeverityLabel = "Healthy"
	SeverityMild     SeverityLabel = "Mild"
	SeverityModerate SeverityLabel = "Moderate"
	SeveritySevere   SeverityLabel = "Severe"
)

// Valid reports whether the label is one the backend is allowed to return.
func (s SeverityLabel) Valid() bool {
	switch s {
	case SeverityHealthy, SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// WeatherRisk classifies how favourable current weather is for anthracnose
// spread.
type WeatherRisk string

// Weather risk levels.
const (
	RiskLow    WeatherRisk = "Low"
	RiskMedium WeatherRisk = "Medium"
	RiskHigh   WeatherRisk = "High"
)

// CapturedImage is an opaque reference to a leaf photo on local disk.
type CapturedImage struct {
	Path string
}

// WeatherReading holds the ambient conditions sampled once per submission.
// Wetness is provider-dependent: OpenWeatherMap reports 3-hour rain
// accumulation in mm, Open-Meteo reports current precipitation. The two are
// deliberately not reconciled; consumers treat the value as opaque.
type WeatherReading struct {
	Humidity    float64 `json:"humidity"`
	Temperature float64 `json:"temperature"`
	Wetness     float64 `json:"wetness"`
}

// GeoPosition is a single device position, read once per submission.
type GeoPosition struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// SubmissionRequest bundles everything one upload needs. It is constructed
// fresh per submission and never persisted.
type SubmissionRequest struct {
	Images      []CapturedImage
	Weather     WeatherReading
	Position    GeoPosition
	VerifyFirst bool
}

// Recommendation is the agronomic advice block produced by the backend.
// The Tagalog fields are optional parallel translations.
type Recommendation struct {
	SeverityLabel      string      `json:"severity_label"`
	WeatherRisk        WeatherRisk `json:"weather_risk"`
	ActionLabel        string      `json:"action_label"`
	Advice             string      `json:"advice"`
	Info               string      `json:"info"`
	ActionLabelTagalog string      `json:"action_label_tagalog,omitempty"`
	AdviceTagalog      string      `json:"advice_tagalog,omitempty"`
	InfoTagalog        string      `json:"info_tagalog,omitempty"`
}

// AnalysisResult is the parsed success response from the inference backend.
type AnalysisResult struct {
	PercentSeverityIndex float64        `json:"percent_severity_index"`
	OverallLabel         SeverityLabel  `json:"overall_label"`
	Weather              WeatherReading `json:"weather"`
	Recommendation       Recommendation `json:"recommendation"`
}

// RouteParams is the stringified parameter set handed from the submission
// pipeline to the display layer. Numbers are cast to strings and the
// recommendation is carried as its exact JSON text, matching how the result
// is passed between screens.
type RouteParams struct {
	PSI            string `json:"psi"`
	OverallLabel   string `json:"overallLabel"`
	Humidity       string `json:"humidity"`
	Temperature    string `json:"temperature"`
	Wetness        string `json:"wetness"`
	Recommendation string `json:"recommendation"`
}

// SavedTreeRecord is the only persisted entity: a named analysis result the
// user chose to keep.
type SavedTreeRecord struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	ImageURI  string      `json:"imageUri"`
	Timestamp int64       `json:"timestamp"`
	Payload   RouteParams `json:"payload"`
}

// NewRecordID returns a time-based record identifier. Nanosecond precision
// keeps ids distinct even for back-to-back saves.
func NewRecordID(t time.Time) string {
	return fmt.Sprintf("%d", t.UnixNano())
}
