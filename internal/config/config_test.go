package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supermango/mangoscan/internal/common"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultTunnelURL, cfg.TunnelURL)
	assert.Empty(t, cfg.LocalURL)
	assert.Equal(t, DefaultLocalTimeout, cfg.LocalTimeout)
	assert.NotEmpty(t, cfg.DatabasePath)
	assert.NotContains(t, cfg.DatabasePath, "$HOME", "path must be expanded")
	assert.Nil(t, cfg.Location.Lat)
	assert.False(t, cfg.Location.UseIP)
}

func TestLoad_ConfiguredValues(t *testing.T) {
	resetViper(t)
	viper.Set("api.local_url", "http://192.168.1.20:8000")
	viper.Set("api.tunnel_url", "https://example.ngrok-free.app")
	viper.Set("weather.owm_api_key", "abc123")
	viper.Set("location.lat", 14.6042)
	viper.Set("location.lon", 121.0)
	viper.Set("location.use_ip", true)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.1.20:8000", cfg.LocalURL)
	assert.Equal(t, "https://example.ngrok-free.app", cfg.TunnelURL)
	assert.Equal(t, "abc123", cfg.OWMAPIKey)
	require.NotNil(t, cfg.Location.Lat)
	require.NotNil(t, cfg.Location.Lon)
	assert.InDelta(t, 14.6042, *cfg.Location.Lat, 1e-9)
	assert.InDelta(t, 121.0, *cfg.Location.Lon, 1e-9)
	assert.True(t, cfg.Location.UseIP)
}

func TestLoad_EnvFallbackForAPIKey(t *testing.T) {
	resetViper(t)
	t.Setenv("OWM_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OWMAPIKey)
}

func TestValidate(t *testing.T) {
	lat := 14.6
	lon := 121.0
	badLat := 91.0

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "tunnel only",
			cfg:  Config{TunnelURL: "https://example.com"},
		},
		{
			name:    "no endpoints",
			cfg:     Config{},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "malformed local url",
			cfg:     Config{TunnelURL: "https://example.com", LocalURL: "not a url"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "lat without lon",
			cfg:     Config{TunnelURL: "https://example.com", Location: Location{Lat: &lat}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "lat out of range",
			cfg:     Config{TunnelURL: "https://example.com", Location: Location{Lat: &badLat, Lon: &lon}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "valid coordinates",
			cfg:  Config{TunnelURL: "https://example.com", Location: Location{Lat: &lat, Lon: &lon}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("MANGOSCAN_TEST_DIR", "/tmp/mangoscan")

	assert.Equal(t, "/tmp/mangoscan/history.db", ExpandPath("$MANGOSCAN_TEST_DIR/history.db"))
	assert.Equal(t, "", ExpandPath(""))
	assert.NotContains(t, ExpandPath("~/state.db"), "~")
}
