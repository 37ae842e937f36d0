package scrub

import "math"

// Tick is a marker's position along the track.
type Tick struct {
	Index    int     `json:"index"`
	Fraction float64 `json:"fraction"`
	X        float64 `json:"x"`
}

// Highlight is the half-open section [Start, End) the playhead is in, as
// track fractions. StartsAtEdge and EndsAtEdge mark bounds that are the track
// ends rather than markers.
type Highlight struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	StartsAtEdge bool    `json:"startsAtEdge"`
	EndsAtEdge   bool    `json:"endsAtEdge"`
}

// Layout is everything a renderer needs to draw the control.
type Layout struct {
	Phase       string     `json:"phase"`
	CurrentTime float64    `json:"currentTime"`
	Duration    float64    `json:"duration"`
	Progress    float64    `json:"progress"`
	HandleX     float64    `json:"handleX"`
	HandleFrame Rect       `json:"handleFrame"`
	TouchTarget Rect       `json:"touchTarget"`
	Ticks       []Tick     `json:"ticks"`
	Highlight   *Highlight `json:"highlight,omitempty"`
}

// Project computes the layout for the given state. It has no side effects.
func Project(clock *Clock, markers *MarkerIndex, state InteractionState, g Geometry, minTouchTarget float64) Layout {
	progress := clock.ProgressFraction()
	frame := handleFrame(g, progress)
	return Layout{
		Phase:       state.Phase.String(),
		CurrentTime: clock.Position(),
		Duration:    clock.Duration(),
		Progress:    progress,
		HandleX:     frame.Center().X,
		HandleFrame: frame,
		TouchTarget: frame.Expanded(minTouchTarget),
		Ticks:       ticks(clock.Duration(), markers, g),
		Highlight:   highlight(clock, markers, state),
	}
}

func handleFrame(g Geometry, progress float64) Rect {
	center := Point{X: g.xAt(progress), Y: g.TrackHeight / 2}
	return RectCentered(center, g.HandleSize)
}

// ticks skips markers outside [0, duration]; a zero duration has no ticks.
func ticks(duration float64, markers *MarkerIndex, g Geometry) []Tick {
	out := []Tick{}
	if duration == 0 {
		return out
	}
	for i := 0; i < markers.Len(); i++ {
		t := markers.At(i).Time
		if t < 0 || t > duration {
			continue
		}
		f := t / duration
		out = append(out, Tick{Index: i, Fraction: f, X: g.xAt(f)})
	}
	return out
}

func highlight(clock *Clock, markers *MarkerIndex, state InteractionState) *Highlight {
	d := clock.Duration()
	if state.Phase != PhaseScrubbing || markers.Len() == 0 || d == 0 {
		return nil
	}
	next := markers.UpperIndex(clock.Position())
	h := &Highlight{Start: 0, End: 1, StartsAtEdge: true, EndsAtEdge: true}
	if start := next - 1; start >= 0 {
		h.Start = unit(markers.At(start).Time / d)
		h.StartsAtEdge = false
	}
	if next < markers.Len() {
		h.End = unit(markers.At(next).Time / d)
		h.EndsAtEdge = false
	}
	return h
}

func unit(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}
