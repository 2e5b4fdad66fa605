// Package gate holds the preflight checks that guard camera, library and
// location use. A failed check blocks the dependent action and surfaces a
// user-visible message with a retry affordance, instead of letting the
// action limp along.
package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/geo"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// CheckImage verifies a single photo reference is a readable image file.
func CheckImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("Cannot access photo %q", path),
			fmt.Errorf("%w: %v", common.ErrPermissionDenied, err))
	}
	if info.IsDir() {
		return common.NewUserError(
			fmt.Sprintf("%q is a directory, not a photo", path),
			common.ErrPermissionDenied)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !imageExtensions[ext] {
		return common.NewUserError(
			fmt.Sprintf("%q does not look like a leaf photo (unsupported extension)", path),
			common.ErrPermissionDenied)
	}

	f, err := os.Open(path)
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("Photo %q is not readable", path),
			fmt.Errorf("%w: %v", common.ErrPermissionDenied, err))
	}
	_ = f.Close()

	return nil
}

// CheckImages verifies every collected photo before submission.
func CheckImages(paths []string) error {
	for _, p := range paths {
		if err := CheckImage(p); err != nil {
			return err
		}
	}
	return nil
}

// CheckLocation verifies a position source exists. It is called lazily at
// the moment a submission begins, never at command entry; a failure here
// aborts the whole submission.
func CheckLocation(loc geo.Locator) error {
	if loc == nil {
		return common.NewUserError(
			"Location is required: set location.lat/location.lon in the config, or enable location.use_ip",
			common.ErrLocationDenied)
	}
	return nil
}
