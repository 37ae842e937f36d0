// Package catalog supplies the duration and section markers of a track to
// scrub sessions. Sources are interchangeable: a watched directory of JSON
// files, MySQL through GORM, or objects in MinIO, optionally fronted by a
// Redis cache.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"Scrubline/core/scrub"
)

// ErrTimelineNotFound is returned (wrapped) when a source has no timeline for
// a track.
var ErrTimelineNotFound = errors.New("timeline not found")

// Timeline is the scrub-relevant description of a track.
type Timeline struct {
	TrackID  string                `json:"trackId"`
	Title    string                `json:"title,omitempty"`
	Duration float64               `json:"duration"`
	Markers  []scrub.SectionMarker `json:"markers"`
}

// Normalize sorts the markers and clamps a negative duration to zero.
func (t *Timeline) Normalize() {
	if t.Duration < 0 {
		t.Duration = 0
	}
	t.Markers = scrub.SortMarkers(t.Markers)
}

// Validate reports a timeline that cannot be stored.
func (t *Timeline) Validate() error {
	if t.TrackID == "" {
		return errors.New("timeline has no track id")
	}
	return nil
}

// Source looks timelines up by track id.
type Source interface {
	Timeline(ctx context.Context, trackID string) (*Timeline, error)
}

// Store is a Source that can also be written to.
type Store interface {
	Source
	SaveTimeline(ctx context.Context, t *Timeline) error
}

// Cache holds timelines between source lookups. Get returns nil, nil on a
// miss.
type Cache interface {
	Get(ctx context.Context, trackID string) (*Timeline, error)
	Set(ctx context.Context, t *Timeline) error
	Invalidate(ctx context.Context, trackID string) error
}

// NotFound wraps ErrTimelineNotFound for trackID.
func NotFound(trackID string) error {
	return fmt.Errorf("track %q: %w", trackID, ErrTimelineNotFound)
}
