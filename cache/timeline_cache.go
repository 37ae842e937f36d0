package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Scrubline/core/catalog"
	"Scrubline/logger"

	"github.com/redis/go-redis/v9"
)

const timelineKeyPrefix = "timeline:"

// TimelineCache stores timelines as JSON in Redis. It satisfies
// catalog.Cache.
type TimelineCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTimelineCache creates a cache with the given entry lifetime.
func NewTimelineCache(client *redis.Client, ttl time.Duration) *TimelineCache {
	return &TimelineCache{client: client, ttl: ttl}
}

// TimelineKey returns the Redis key of a track's timeline.
func TimelineKey(trackID string) string {
	return timelineKeyPrefix + trackID
}

// Get returns nil, nil on a miss.
func (c *TimelineCache) Get(ctx context.Context, trackID string) (*catalog.Timeline, error) {
	data, err := c.client.Get(ctx, TimelineKey(trackID)).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Debug("timeline cache miss", logger.String("track", trackID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timeline cache: %w", err)
	}

	var t catalog.Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		// a corrupt entry behaves like a miss and is dropped
		logger.Warn("discarding corrupt timeline cache entry",
			logger.String("track", trackID),
			logger.ErrorField(err))
		c.client.Del(ctx, TimelineKey(trackID))
		return nil, nil
	}
	return &t, nil
}

func (c *TimelineCache) Set(ctx context.Context, t *catalog.Timeline) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, TimelineKey(t.TrackID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set timeline cache: %w", err)
	}
	logger.Debug("timeline cached",
		logger.String("track", t.TrackID),
		logger.Duration("ttl", c.ttl))
	return nil
}

func (c *TimelineCache) Invalidate(ctx context.Context, trackID string) error {
	return c.client.Del(ctx, TimelineKey(trackID)).Err()
}
