package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Cached is a read-through cache in front of a Source. Cache failures are
// logged and fall back to the source.
type Cached struct {
	source Source
	cache  Cache
	log    *zap.Logger
}

// NewCached wraps source with cache.
func NewCached(source Source, cache Cache, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{source: source, cache: cache, log: log}
}

func (c *Cached) Timeline(ctx context.Context, trackID string) (*Timeline, error) {
	if t, err := c.cache.Get(ctx, trackID); err != nil {
		c.log.Warn("timeline cache read failed", zap.String("track", trackID), zap.Error(err))
	} else if t != nil {
		return t, nil
	}

	t, err := c.source.Timeline(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, t); err != nil {
		c.log.Warn("timeline cache write failed", zap.String("track", trackID), zap.Error(err))
	}
	return t, nil
}

// SaveTimeline writes through to the source when it is a Store and drops the
// cached copy.
func (c *Cached) SaveTimeline(ctx context.Context, t *Timeline) error {
	store, ok := c.source.(Store)
	if !ok {
		return ErrReadOnly
	}
	if err := store.SaveTimeline(ctx, t); err != nil {
		return err
	}
	if err := c.cache.Invalidate(ctx, t.TrackID); err != nil {
		c.log.Warn("timeline cache invalidate failed", zap.String("track", t.TrackID), zap.Error(err))
	}
	return nil
}

// ErrReadOnly is returned when saving to a source that cannot be written.
var ErrReadOnly = errors.New("timeline source is read-only")
