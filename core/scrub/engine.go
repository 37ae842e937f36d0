// Package scrub implements the interaction engine behind a media scrub
// control: a clamped playhead clock, an ordered set of section markers, the
// gesture state machine that turns pointer events into scrubs, and the
// haptic and notification side effects of a scrub.
//
// An Engine is not safe for concurrent use. Hosts deliver every call from a
// single goroutine, in event order.
package scrub

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultDeadzone is how far a touch away from the handle has to travel
	// before it commits to a scrub.
	DefaultDeadzone = 10.0
	// DefaultMinTouchTarget is the minimum side of the handle hit area.
	DefaultMinTouchTarget = 44.0
)

// PointerID identifies one touch or mouse pointer.
type PointerID int64

// Options configures an Engine.
type Options struct {
	Duration              float64         `json:"duration"`
	Markers               []SectionMarker `json:"sectionMarkers,omitempty"`
	HapticFeedbackEnabled bool            `json:"isHapticFeedbackEnabled"`
	ScrubFromAnywhere     bool            `json:"allowScrubbingFromAnyTouchLocation"`
	HandleSize            Size            `json:"handleSize"`
	TrackHeight           float64         `json:"trackHeight"`
	Deadzone              float64         `json:"deadzone"`
	MinTouchTarget        float64         `json:"minTouchTarget"`
}

// DefaultOptions returns the options of a stock control.
func DefaultOptions() Options {
	return Options{
		Duration:              DefaultDuration,
		HapticFeedbackEnabled: true,
		HandleSize:            Size{Width: 20, Height: 20},
		TrackHeight:           44,
		Deadzone:              DefaultDeadzone,
		MinTouchTarget:        DefaultMinTouchTarget,
	}
}

// Engine is the scrub control state machine.
type Engine struct {
	clock     *Clock
	markers   *MarkerIndex
	preceding int

	state    InteractionState
	pointer  PointerID
	geometry Geometry

	hapticsEnabled    bool
	scrubFromAnywhere bool
	deadzone          float64
	minTouchTarget    float64

	feedback feedback
	notifier Notifier
	log      *zap.Logger
}

// New creates an engine. notifier, device and log may be nil.
func New(opts Options, notifier Notifier, device HapticDevice, log *zap.Logger) *Engine {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Deadzone <= 0 {
		opts.Deadzone = DefaultDeadzone
	}
	if opts.MinTouchTarget <= 0 {
		opts.MinTouchTarget = DefaultMinTouchTarget
	}
	e := &Engine{
		clock:             NewClock(opts.Duration),
		markers:           NewMarkerIndex(opts.Markers),
		preceding:         -1,
		state:             Idle(),
		hapticsEnabled:    opts.HapticFeedbackEnabled,
		scrubFromAnywhere: opts.ScrubFromAnywhere,
		deadzone:          opts.Deadzone,
		minTouchTarget:    opts.MinTouchTarget,
		geometry: Geometry{
			TrackHeight: opts.TrackHeight,
			HandleSize:  opts.HandleSize,
		},
		feedback: feedback{device: device},
		notifier: notifier,
		log:      log,
	}
	e.refreshPreceding()
	return e
}

// Duration returns the track duration in seconds.
func (e *Engine) Duration() float64 { return e.clock.Duration() }

// SetDuration changes the duration and re-clamps the playhead.
func (e *Engine) SetDuration(d float64) {
	e.clock.SetDuration(d)
	e.refreshPreceding()
}

// CurrentTime returns the playhead position in seconds.
func (e *Engine) CurrentTime() float64 { return e.clock.Position() }

// SetCurrentTime moves the playhead on behalf of the host, e.g. as playback
// advances. Writes are dropped while a scrub is in progress and the return
// value reports whether v was applied.
func (e *Engine) SetCurrentTime(v float64) bool {
	if e.state.Phase == PhaseScrubbing {
		e.log.Debug("seek ignored while scrubbing", zap.Float64("time", v))
		return false
	}
	e.clock.SetPosition(v)
	e.refreshPreceding()
	return true
}

// ProgressFraction returns the playhead position as a fraction of duration.
func (e *Engine) ProgressFraction() float64 { return e.clock.ProgressFraction() }

// Markers returns the section markers in time order.
func (e *Engine) Markers() []SectionMarker { return e.markers.Markers() }

// SetMarkers replaces the section markers. The list is sorted by time.
func (e *Engine) SetMarkers(list []SectionMarker) {
	e.markers.Set(list)
	e.refreshPreceding()
}

// PrecedingMarker returns the index of the last marker before the playhead.
func (e *Engine) PrecedingMarker() (int, bool) {
	return e.preceding, e.preceding >= 0
}

// State returns the current interaction state.
func (e *Engine) State() InteractionState { return e.state }

// HapticFeedbackEnabled reports whether marker crossings produce impulses.
func (e *Engine) HapticFeedbackEnabled() bool { return e.hapticsEnabled }

// SetHapticFeedbackEnabled toggles haptics. Turning them off mid-gesture
// stops further impulses; the held handle is still released at the end.
func (e *Engine) SetHapticFeedbackEnabled(enabled bool) { e.hapticsEnabled = enabled }

// ScrubFromAnywhere reports whether touches away from the handle may scrub.
func (e *Engine) ScrubFromAnywhere() bool { return e.scrubFromAnywhere }

// SetScrubFromAnywhere toggles scrubbing from any touch location.
func (e *Engine) SetScrubFromAnywhere(allowed bool) { e.scrubFromAnywhere = allowed }

// Geometry returns the last geometry reported by the renderer.
func (e *Engine) Geometry() Geometry { return e.geometry }

// SetGeometry records the track and handle dimensions used for hit testing
// and for mapping pointer x to time.
func (e *Engine) SetGeometry(g Geometry) { e.geometry = g }

// Impulses returns the number of haptic impulses fired so far.
func (e *Engine) Impulses() int { return e.feedback.fired }

// HandleFrame returns the visual frame of the playhead handle.
func (e *Engine) HandleFrame() Rect {
	return handleFrame(e.geometry, e.clock.ProgressFraction())
}

// TouchTarget returns the handle hit area, at least MinTouchTarget on a side.
func (e *Engine) TouchTarget() Rect {
	return e.HandleFrame().Expanded(e.minTouchTarget)
}

// PointerDown starts a gesture at p. A touch on the handle commits to a scrub
// immediately; any other touch becomes a candidate scrub when scrubbing from
// anywhere is allowed and is ignored otherwise. While a gesture is active,
// further pointers are ignored.
func (e *Engine) PointerDown(id PointerID, p Point) {
	if e.state.Phase != PhaseIdle {
		e.log.Debug("pointer ignored, gesture in progress",
			zap.Int64("pointer", int64(id)), zap.Int64("active", int64(e.pointer)))
		return
	}

	switch {
	case e.TouchTarget().Contains(p):
		e.pointer = id
		e.feedback.begin(e.hapticsEnabled)
		e.beginScrub()
	case e.scrubFromAnywhere:
		e.pointer = id
		e.feedback.begin(e.hapticsEnabled)
		e.transition(MaybeScrubbing(p.X))
	default:
		e.log.Debug("touch outside handle ignored", zap.Float64("x", p.X), zap.Float64("y", p.Y))
	}
}

// PointerMove advances the gesture. A candidate scrub that leaves the
// deadzone begins a scrub and the same move is applied as the first update.
func (e *Engine) PointerMove(id PointerID, p Point) {
	if e.state.Phase == PhaseIdle || id != e.pointer {
		return
	}

	if e.state.Phase == PhaseMaybeScrubbing {
		if math.Abs(p.X-e.state.InitialTouchX) < e.deadzone {
			return
		}
		e.beginScrub()
	}

	e.scrubTo(p.X)
}

// PointerUp finishes the gesture.
func (e *Engine) PointerUp(id PointerID) {
	if e.state.Phase == PhaseIdle || id != e.pointer {
		return
	}
	scrubbing := e.state.Phase == PhaseScrubbing
	e.transition(Idle())
	e.feedback.end()
	if scrubbing {
		e.notifier.EndScrub(e.clock.Position())
	}
}

// PointerCancel aborts the gesture. A committed scrub puts the playhead back
// where it started before reporting the end.
func (e *Engine) PointerCancel(id PointerID) {
	if e.state.Phase == PhaseIdle || id != e.pointer {
		return
	}
	prev := e.state
	e.transition(Idle())
	e.feedback.end()
	if prev.Phase == PhaseScrubbing {
		e.clock.SetPosition(prev.InitialPosition)
		e.refreshPreceding()
		e.notifier.EndScrub(e.clock.Position())
	}
}

// Cancel aborts the active gesture, if any, as if its pointer had been
// cancelled. Hosts call it when the event source goes away mid-gesture.
func (e *Engine) Cancel() {
	if e.state.Phase != PhaseIdle {
		e.PointerCancel(e.pointer)
	}
}

// Layout projects the current state onto drawing quantities.
func (e *Engine) Layout() Layout {
	return Project(e.clock, e.markers, e.state, e.geometry, e.minTouchTarget)
}

func (e *Engine) beginScrub() {
	e.transition(Scrubbing(e.clock.Position()))
	e.notifier.BeginScrub(e.clock.Position())
}

func (e *Engine) scrubTo(x float64) {
	old := e.clock.Position()
	e.clock.SetPosition(e.geometry.fractionAt(x) * e.clock.Duration())
	e.refreshPreceding()

	now := e.clock.Position()
	if e.markers.CrossedBetween(old, now) {
		e.feedback.fire(e.hapticsEnabled)
	}
	e.notifier.Scrub(now)
}

func (e *Engine) transition(next InteractionState) {
	e.log.Debug("scrub state",
		zap.Stringer("from", e.state),
		zap.Stringer("to", next),
		zap.Float64("time", e.clock.Position()))
	e.state = next
}

func (e *Engine) refreshPreceding() {
	if i, ok := e.markers.PrecedingIndex(e.clock.Position()); ok {
		e.preceding = i
		return
	}
	e.preceding = -1
}
