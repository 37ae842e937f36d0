// Package replay runs a recorded gesture through a scrub engine and reports
// what the engine did, for debugging renderer integrations from the command
// line.
package replay

import (
	"encoding/json"
	"fmt"
	"io"

	"Scrubline/core/scrub"

	"go.uber.org/zap"
)

// Event is one recorded input. Pointer events use ID, X and Y; seek uses
// Time; duration uses Time as the new duration.
type Event struct {
	Type string  `json:"type"`
	ID   int64   `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Time float64 `json:"time"`
}

// Script is a replayable recording.
type Script struct {
	Options  scrub.Options  `json:"options"`
	Geometry scrub.Geometry `json:"geometry"`
	Events   []Event        `json:"events"`
}

// Entry is one line of the transcript: something the engine emitted while
// processing the event at Step.
type Entry struct {
	Step int     `json:"step"`
	Kind string  `json:"kind"`
	Time float64 `json:"time"`
}

// Result is the outcome of a replay.
type Result struct {
	Transcript []Entry      `json:"transcript"`
	Impulses   int          `json:"impulses"`
	Final      scrub.Layout `json:"final"`
}

// Load decodes a script. Options missing from the file keep their defaults.
func Load(r io.Reader) (*Script, error) {
	s := &Script{Options: scrub.DefaultOptions()}
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return s, nil
}

type recorder struct {
	step    int
	entries []Entry
}

func (r *recorder) add(kind string, t float64) {
	r.entries = append(r.entries, Entry{Step: r.step, Kind: kind, Time: t})
}

func (r *recorder) BeginScrub(t float64) { r.add("begin", t) }
func (r *recorder) Scrub(t float64)      { r.add("scrub", t) }
func (r *recorder) EndScrub(t float64)   { r.add("end", t) }

type handle struct{ r *recorder }

func (h handle) Prepare() {}
func (h handle) Impulse() { h.r.add("haptic", 0) }
func (h handle) Release() {}

// Run replays s on a fresh engine.
func Run(s *Script, log *zap.Logger) (*Result, error) {
	rec := &recorder{}
	device := scrub.HapticDeviceFunc(func() scrub.HapticHandle { return handle{rec} })
	e := scrub.New(s.Options, rec, device, log)
	e.SetGeometry(s.Geometry)

	for i, ev := range s.Events {
		rec.step = i
		id := scrub.PointerID(ev.ID)
		p := scrub.Point{X: ev.X, Y: ev.Y}
		switch ev.Type {
		case "down":
			e.PointerDown(id, p)
		case "move":
			e.PointerMove(id, p)
		case "up":
			e.PointerUp(id)
		case "cancel":
			e.PointerCancel(id)
		case "seek":
			if !e.SetCurrentTime(ev.Time) {
				rec.add("seek_ignored", ev.Time)
			}
		case "duration":
			e.SetDuration(ev.Time)
		default:
			return nil, fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
	}

	return &Result{
		Transcript: rec.entries,
		Impulses:   e.Impulses(),
		Final:      e.Layout(),
	}, nil
}

// WriteText prints the transcript one entry per line.
func (r *Result) WriteText(w io.Writer) error {
	for _, e := range r.Transcript {
		if _, err := fmt.Fprintf(w, "#%-3d %-12s %.3f\n", e.Step, e.Kind, e.Time); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "impulses=%d final=%.3f/%.3f phase=%s\n",
		r.Impulses, r.Final.CurrentTime, r.Final.Duration, r.Final.Phase)
	return err
}
