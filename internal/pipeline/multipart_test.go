package pipeline

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supermango/mangoscan/internal/model"
)

func TestContentTypeForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{ext: "jpg", want: "image/jpeg"},
		{ext: ".jpg", want: "image/jpeg"},
		{ext: "JPEG", want: "image/jpeg"},
		{ext: "png", want: "image/png"},
		{ext: "webp", want: "image/webp"},
		{ext: "bmp", want: "image/jpeg"},
		{ext: "", want: "image/jpeg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, contentTypeForExt(tt.ext), "ext %q", tt.ext)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "62.3", formatNumber(62.3))
	assert.Equal(t, "80", formatNumber(80))
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "14.6042", formatNumber(14.6042))
	assert.Equal(t, "-1.5", formatNumber(-1.5))
}

func TestBuildPayload_PartNamingAndOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "noext"),
	}
	for i, p := range paths {
		require.NoError(t, os.WriteFile(p, []byte{byte(i)}, 0o600))
	}

	req := model.SubmissionRequest{
		Images: []model.CapturedImage{
			{Path: paths[0]}, {Path: paths[1]}, {Path: paths[2]},
		},
		Weather:  model.WeatherReading{Humidity: 80, Temperature: 29.5, Wetness: 1.2},
		Position: model.GeoPosition{Latitude: 14.6, Longitude: 121.0},
	}

	body, contentType, err := buildPayload(req)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	wantFiles := []struct {
		filename string
		mimeType string
	}{
		{filename: "leaf_0.png", mimeType: "image/png"},
		{filename: "leaf_1.jpg", mimeType: "image/jpeg"},
		{filename: "leaf_2.jpg", mimeType: "image/jpeg"},
	}

	for i, want := range wantFiles {
		part, err := reader.NextPart()
		require.NoError(t, err, "file part %d", i)
		assert.Equal(t, "files", part.FormName())
		assert.Equal(t, want.filename, part.FileName())
		assert.Equal(t, want.mimeType, part.Header.Get("Content-Type"))

		data, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, data, "part %d must carry the file bytes", i)
	}

	wantFields := [][2]string{
		{"humidity", "80"},
		{"temperature", "29.5"},
		{"wetness", "1.20"},
		{"lat", "14.6"},
		{"lon", "121"},
		{"verify_first", "false"},
	}
	for _, want := range wantFields {
		part, err := reader.NextPart()
		require.NoError(t, err, "field %s", want[0])
		assert.Equal(t, want[0], part.FormName())

		data, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, want[1], string(data))
	}

	_, err = reader.NextPart()
	assert.Equal(t, io.EOF, err, "no extra parts")
}

func TestBuildPayload_MissingFile(t *testing.T) {
	req := model.SubmissionRequest{
		Images: []model.CapturedImage{{Path: filepath.Join(t.TempDir(), "gone.jpg")}},
	}

	_, _, err := buildPayload(req)
	assert.Error(t, err)
}
