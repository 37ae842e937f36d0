package config

import (
	"testing"
	"time"

	"Scrubline/core/scrub"
	"Scrubline/logger"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCRUB_ADDR", ":9999")
	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, SourceFile, cfg.TimelineSource)
	assert.Equal(t, scrub.DefaultDeadzone, cfg.Deadzone)
	assert.Equal(t, scrub.DefaultMinTouchTarget, cfg.MinTouchTarget)
	assert.True(t, cfg.HapticsEnabled)
	assert.False(t, cfg.ScrubFromAnywhere)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TIMELINE_SOURCE", "DB")
	t.Setenv("SCRUB_DEADZONE", "12.5")
	t.Setenv("SCRUB_HAPTICS", "false")
	t.Setenv("SCRUB_FROM_ANYWHERE", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TIMELINE_CACHE_TTL", "30")
	t.Setenv("SCRUB_MIN_TOUCH_TARGET", "not-a-number")

	cfg := Load()
	assert.Equal(t, SourceDB, cfg.TimelineSource)
	assert.Equal(t, 12.5, cfg.Deadzone)
	assert.False(t, cfg.HapticsEnabled)
	assert.True(t, cfg.ScrubFromAnywhere)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.TimelineCacheTTL)
	assert.Equal(t, scrub.DefaultMinTouchTarget, cfg.MinTouchTarget)
}

func TestEngineOptions(t *testing.T) {
	cfg := &Config{
		Deadzone:          8,
		MinTouchTarget:    48,
		HapticsEnabled:    true,
		ScrubFromAnywhere: true,
		HandleSize:        24,
		TrackHeight:       30,
	}
	markers := []scrub.SectionMarker{{Time: 3}}
	opts := cfg.EngineOptions(120, markers)

	assert.Equal(t, 120.0, opts.Duration)
	assert.Equal(t, markers, opts.Markers)
	assert.Equal(t, 8.0, opts.Deadzone)
	assert.Equal(t, 48.0, opts.MinTouchTarget)
	assert.True(t, opts.HapticFeedbackEnabled)
	assert.True(t, opts.ScrubFromAnywhere)
	assert.Equal(t, scrub.Size{Width: 24, Height: 24}, opts.HandleSize)
	assert.Equal(t, 30.0, opts.TrackHeight)
}

func TestLoggerConfig(t *testing.T) {
	cfg := &Config{LogLevel: "WARN", LogFile: "/tmp/x.log", LogMaxSize: 1}
	lc := cfg.LoggerConfig()
	assert.Equal(t, logger.WarnLevel, lc.Level)
	assert.Equal(t, "/tmp/x.log", lc.OutputPath)
}
