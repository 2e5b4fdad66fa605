package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLocator(t *testing.T) {
	l := NewStaticLocator(14.6, 121.0)

	pos, err := l.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14.6, pos.Latitude)
	assert.Equal(t, 121.0, pos.Longitude)
}

func TestIPLocator_Current(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		wantLat float64
		wantLon float64
	}{
		{
			name:    "successful lookup",
			status:  http.StatusOK,
			body:    `{"status":"success","lat":14.6042,"lon":120.9822}`,
			wantLat: 14.6042,
			wantLon: 120.9822,
		},
		{
			name:    "provider reports failure",
			status:  http.StatusOK,
			body:    `{"status":"fail","message":"private range"}`,
			wantErr: true,
		},
		{
			name:    "http error",
			status:  http.StatusTooManyRequests,
			body:    `slow down`,
			wantErr: true,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			l := NewIPLocator()
			l.baseURL = srv.URL

			pos, err := l.Current(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLat, pos.Latitude)
			assert.Equal(t, tt.wantLon, pos.Longitude)
		})
	}
}
