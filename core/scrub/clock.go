package scrub

import "math"

// DefaultDuration is the duration of a freshly created clock, in seconds.
const DefaultDuration = 1.0

// Clock owns the duration and the clamped playhead position. Every write goes
// through clamp so the position always stays within [0, duration].
type Clock struct {
	duration float64
	position float64
}

// NewClock returns a clock at position 0 with the given duration.
func NewClock(duration float64) *Clock {
	c := &Clock{}
	c.SetDuration(duration)
	return c
}

// Duration returns the current duration in seconds.
func (c *Clock) Duration() float64 { return c.duration }

// Position returns the clamped playhead position in seconds.
func (c *Clock) Position() float64 { return c.position }

// SetDuration stores max(0, d) and re-clamps the position. A position still
// inside the new range is left untouched.
func (c *Clock) SetDuration(d float64) {
	c.duration = math.Max(0, sanitize(d))
	c.position = c.clamp(c.position)
}

// SetPosition clamps v into [0, duration] and stores it.
func (c *Clock) SetPosition(v float64) {
	c.position = c.clamp(v)
}

// ProgressFraction returns position/duration, or 0 for a zero duration.
func (c *Clock) ProgressFraction() float64 {
	if c.duration == 0 {
		return 0
	}
	return c.position / c.duration
}

func (c *Clock) clamp(v float64) float64 {
	return math.Min(c.duration, math.Max(0, sanitize(v)))
}

// sanitize maps non-finite input onto something clamp can handle.
func sanitize(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}
