package scrub

import "fmt"

// Phase is the tag of an InteractionState.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMaybeScrubbing
	PhaseScrubbing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMaybeScrubbing:
		return "maybe_scrubbing"
	case PhaseScrubbing:
		return "scrubbing"
	default:
		return "unknown"
	}
}

// InteractionState is the gesture state of a control. InitialTouchX is only
// meaningful in PhaseMaybeScrubbing and InitialPosition only in
// PhaseScrubbing.
type InteractionState struct {
	Phase           Phase
	InitialTouchX   float64
	InitialPosition float64
}

// Idle is the resting state.
func Idle() InteractionState { return InteractionState{Phase: PhaseIdle} }

// MaybeScrubbing is entered by a touch away from the handle when scrubbing
// from anywhere is allowed.
func MaybeScrubbing(initialTouchX float64) InteractionState {
	return InteractionState{Phase: PhaseMaybeScrubbing, InitialTouchX: initialTouchX}
}

// Scrubbing is a committed scrub remembering where the playhead started.
func Scrubbing(initialPosition float64) InteractionState {
	return InteractionState{Phase: PhaseScrubbing, InitialPosition: initialPosition}
}

func (s InteractionState) String() string {
	switch s.Phase {
	case PhaseMaybeScrubbing:
		return fmt.Sprintf("maybe_scrubbing(x=%g)", s.InitialTouchX)
	case PhaseScrubbing:
		return fmt.Sprintf("scrubbing(from=%g)", s.InitialPosition)
	default:
		return s.Phase.String()
	}
}
