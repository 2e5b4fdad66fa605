package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/supermango/mangoscan/internal/model"
)

// Field names the backend expects alongside the repeated files parts.
const (
	fieldFiles       = "files"
	fieldHumidity    = "humidity"
	fieldTemperature = "temperature"
	fieldWetness     = "wetness"
	fieldLat         = "lat"
	fieldLon         = "lon"
	fieldVerifyFirst = "verify_first"
)

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"heic": "image/heic",
	"gif":  "image/gif",
}

// contentTypeForExt infers a part content type from a file extension,
// defaulting to image/jpeg for anything unrecognized.
func contentTypeForExt(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return ct
	}
	return "image/jpeg"
}

// imageExt returns the extension without the dot, defaulting to jpg.
func imageExt(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}

// formatNumber renders a float the way the app stringified route numbers:
// shortest exact representation, no trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// buildPayload assembles the multipart form for one submission: one files
// part per photo named leaf_<i>.<ext>, then the six scalar string fields.
// Wetness keeps the two-decimal formatting the backend has always received.
func buildPayload(req model.SubmissionRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for i, img := range req.Images {
		ext := imageExt(img.Path)

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldFiles, fmt.Sprintf("leaf_%d.%s", i, ext)))
		h.Set("Content-Type", contentTypeForExt(ext))

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form part: %w", err)
		}

		f, err := os.Open(img.Path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open photo %s: %w", img.Path, err)
		}
		if _, err := io.Copy(part, f); err != nil {
			_ = f.Close()
			return nil, "", fmt.Errorf("failed to read photo %s: %w", img.Path, err)
		}
		_ = f.Close()
	}

	fields := [][2]string{
		{fieldHumidity, formatNumber(req.Weather.Humidity)},
		{fieldTemperature, formatNumber(req.Weather.Temperature)},
		{fieldWetness, fmt.Sprintf("%.2f", req.Weather.Wetness)},
		{fieldLat, formatNumber(req.Position.Latitude)},
		{fieldLon, formatNumber(req.Position.Longitude)},
		{fieldVerifyFirst, strconv.FormatBool(req.VerifyFirst)},
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
