package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/supermango/mangoscan/internal/common"
)

// Defaults applied when neither the config file nor the environment
// provides a value.
const (
	// DefaultTunnelURL is the public tunnel in front of the prescription
	// service, reachable from anywhere.
	DefaultTunnelURL = "https://gopher-loved-largely.ngrok-free.app"

	// DefaultDatabasePath stores scan history next to other app state.
	DefaultDatabasePath = "$HOME/.local/share/mangoscan/history.db"

	// DefaultLocalTimeout bounds the probe of the LAN endpoint before
	// falling back to the tunnel.
	DefaultLocalTimeout = 3 * time.Second
)

// Location describes where the scan is happening. Coordinates set in
// config take priority; UseIP enables the IP geolocation fallback.
type Location struct {
	Lat   *float64
	Lon   *float64
	UseIP bool
}

// Config holds everything the scan workflow needs outside of its inputs.
type Config struct {
	LocalURL     string
	TunnelURL    string
	LocalTimeout time.Duration
	OWMAPIKey    string
	DatabasePath string
	Location     Location
}

// Load reads configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or MANGOSCAN_ env vars)
// 2. Direct environment variables (OWM_API_KEY)
// 3. Default values
func Load() (*Config, error) {
	cfg := &Config{
		TunnelURL:    DefaultTunnelURL,
		LocalTimeout: DefaultLocalTimeout,
		DatabasePath: DefaultDatabasePath,
	}

	if v := viper.GetString("api.local_url"); v != "" {
		cfg.LocalURL = v
	}
	if v := viper.GetString("api.tunnel_url"); v != "" {
		cfg.TunnelURL = v
	}
	if v := viper.GetDuration("api.local_timeout"); v > 0 {
		cfg.LocalTimeout = v
	}
	if v := viper.GetString("database.path"); v != "" {
		cfg.DatabasePath = v
	}
	cfg.DatabasePath = ExpandPath(cfg.DatabasePath)

	cfg.OWMAPIKey = viper.GetString("weather.owm_api_key")
	if cfg.OWMAPIKey == "" {
		cfg.OWMAPIKey = os.Getenv("OWM_API_KEY")
	}

	if viper.IsSet("location.lat") {
		lat := viper.GetFloat64("location.lat")
		cfg.Location.Lat = &lat
	}
	if viper.IsSet("location.lon") {
		lon := viper.GetFloat64("location.lon")
		cfg.Location.Lon = &lon
	}
	cfg.Location.UseIP = viper.GetBool("location.use_ip")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.TunnelURL == "" && c.LocalURL == "" {
		return fmt.Errorf("%w: at least one of api.local_url or api.tunnel_url is required", common.ErrMissingConfig)
	}

	for key, raw := range map[string]string{
		"api.local_url":  c.LocalURL,
		"api.tunnel_url": c.TunnelURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s is not a valid URL: %q", common.ErrInvalidConfig, key, raw)
		}
	}

	if (c.Location.Lat == nil) != (c.Location.Lon == nil) {
		return fmt.Errorf("%w: location.lat and location.lon must be set together", common.ErrInvalidConfig)
	}
	if c.Location.Lat != nil {
		if *c.Location.Lat < -90 || *c.Location.Lat > 90 {
			return fmt.Errorf("%w: location.lat out of range: %s", common.ErrInvalidConfig, strconv.FormatFloat(*c.Location.Lat, 'f', -1, 64))
		}
		if *c.Location.Lon < -180 || *c.Location.Lon > 180 {
			return fmt.Errorf("%w: location.lon out of range: %s", common.ErrInvalidConfig, strconv.FormatFloat(*c.Location.Lon, 'f', -1, 64))
		}
	}

	return nil
}
