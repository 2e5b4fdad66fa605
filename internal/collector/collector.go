// Package collector accumulates leaf photo references for one submission.
package collector

import (
	"fmt"

	"github.com/supermango/mangoscan/internal/model"
)

// MaxPhotos is the number of photos a submission requires. The bound is
// strict in both directions: the collection never grows past it, and the
// pipeline refuses to submit with fewer.
const MaxPhotos = 10

// Collector holds up to MaxPhotos image references in insertion order.
// All mutations replace the slice wholesale, so readers never observe a
// partially-applied change.
type Collector struct {
	images []model.CapturedImage
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

// Add appends a single captured photo. It reports whether the photo was
// accepted; a full collection makes it a no-op.
func (c *Collector) Add(path string) bool {
	if len(c.images) >= MaxPhotos {
		return false
	}
	c.images = append(c.images, model.CapturedImage{Path: path})
	return true
}

// AddBatch appends picked photos up to the remaining capacity, silently
// truncating any overflow. It returns how many were accepted.
func (c *Collector) AddBatch(paths []string) int {
	remaining := MaxPhotos - len(c.images)
	if remaining <= 0 {
		return 0
	}
	if len(paths) > remaining {
		paths = paths[:remaining]
	}
	for _, p := range paths {
		c.images = append(c.images, model.CapturedImage{Path: p})
	}
	return len(paths)
}

// Remove deletes the photo at position i, preserving the order of the rest.
func (c *Collector) Remove(i int) error {
	if i < 0 || i >= len(c.images) {
		return fmt.Errorf("no photo at position %d", i)
	}
	c.images = append(c.images[:i:i], c.images[i+1:]...)
	return nil
}

// Clear empties the collection. Confirmation is the caller's job.
func (c *Collector) Clear() {
	c.images = nil
}

// Len returns the current photo count.
func (c *Collector) Len() int {
	return len(c.images)
}

// Remaining returns how many more photos are needed.
func (c *Collector) Remaining() int {
	return MaxPhotos - len(c.images)
}

// Complete reports whether the collection holds exactly MaxPhotos.
func (c *Collector) Complete() bool {
	return len(c.images) == MaxPhotos
}

// Images returns a copy of the collected photos.
func (c *Collector) Images() []model.CapturedImage {
	out := make([]model.CapturedImage, len(c.images))
	copy(out, c.images)
	return out
}
