// Package session hosts scrub engines for remote renderers. A renderer
// forwards geometry and pointer events as websocket messages; the session
// feeds them to its engine in arrival order and answers with lifecycle
// notifications, haptic commands and fresh layout.
package session

import (
	"encoding/json"
	"fmt"

	"Scrubline/core/scrub"

	"go.uber.org/zap"
)

// Sender delivers messages to the renderer.
type Sender interface {
	Send(msg *Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(msg *Message) error

func (f SenderFunc) Send(msg *Message) error { return f(msg) }

// Session binds one engine to one renderer connection. It is driven from a
// single goroutine.
type Session struct {
	ID      string
	TrackID string

	engine *scrub.Engine
	out    Sender
	log    *zap.Logger
}

// New creates a session whose engine reports through out.
func New(id, trackID string, opts scrub.Options, out Sender, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		ID:      id,
		TrackID: trackID,
		out:     out,
		log:     log.With(zap.String("session", id), zap.String("track", trackID)),
	}
	s.engine = scrub.New(opts, notifier{s}, remoteHaptics{s}, s.log.Named("engine"))
	return s
}

// Engine exposes the session's engine for inspection.
func (s *Session) Engine() *scrub.Engine { return s.engine }

// Hello sends the greeting carrying the session id and initial layout.
func (s *Session) Hello() error {
	return s.send(MsgTypeHello, HelloData{
		SessionID: s.ID,
		TrackID:   s.TrackID,
		Markers:   s.engine.Markers(),
		Layout:    s.engine.Layout(),
	})
}

// Handle applies one renderer message. Malformed messages are answered with
// an error message; the returned error is only for failed sends.
func (s *Session) Handle(msg *Message) error {
	e := s.engine

	switch msg.Type {
	case MsgTypePing:
		return s.send(MsgTypePong, nil)

	case MsgTypeLayout:
		// explicit redraw request, nothing to apply

	case MsgTypeGeometry:
		var g scrub.Geometry
		if err := decode(msg, &g); err != nil {
			return s.reject(msg, err)
		}
		e.SetGeometry(g)

	case MsgTypeDown, MsgTypeMove:
		var p PointerData
		if err := decode(msg, &p); err != nil {
			return s.reject(msg, err)
		}
		pt := scrub.Point{X: p.X, Y: p.Y}
		if msg.Type == MsgTypeDown {
			e.PointerDown(scrub.PointerID(p.PointerID), pt)
		} else {
			e.PointerMove(scrub.PointerID(p.PointerID), pt)
		}

	case MsgTypeUp, MsgTypeCancel:
		var p PointerData
		if err := decode(msg, &p); err != nil {
			return s.reject(msg, err)
		}
		if msg.Type == MsgTypeUp {
			e.PointerUp(scrub.PointerID(p.PointerID))
		} else {
			e.PointerCancel(scrub.PointerID(p.PointerID))
		}

	case MsgTypeSeek:
		var d TimeData
		if err := decode(msg, &d); err != nil {
			return s.reject(msg, err)
		}
		if !e.SetCurrentTime(d.Time) {
			s.log.Debug("seek dropped during scrub", zap.Float64("time", d.Time))
		}

	case MsgTypeDuration:
		var d DurationData
		if err := decode(msg, &d); err != nil {
			return s.reject(msg, err)
		}
		e.SetDuration(d.Duration)

	case MsgTypeMarkers:
		var d MarkersData
		if err := decode(msg, &d); err != nil {
			return s.reject(msg, err)
		}
		e.SetMarkers(d.Markers)

	case MsgTypeOptions:
		var d OptionsData
		if err := decode(msg, &d); err != nil {
			return s.reject(msg, err)
		}
		if d.HapticFeedbackEnabled != nil {
			e.SetHapticFeedbackEnabled(*d.HapticFeedbackEnabled)
		}
		if d.ScrubFromAnywhere != nil {
			e.SetScrubFromAnywhere(*d.ScrubFromAnywhere)
		}

	default:
		return s.reject(msg, fmt.Errorf("unknown message type %q", msg.Type))
	}

	return s.send(MsgTypeLayout, e.Layout())
}

// Close cancels any gesture still in progress so the haptic handle is
// released and the playhead restored.
func (s *Session) Close() {
	s.engine.Cancel()
}

func (s *Session) reject(msg *Message, err error) error {
	s.log.Warn("rejected message", zap.String("type", string(msg.Type)), zap.Error(err))
	return s.send(MsgTypeError, ErrorData{Message: err.Error()})
}

func (s *Session) send(t MessageType, data interface{}) error {
	msg, err := NewMessage(t, s.ID, data)
	if err != nil {
		return err
	}
	return s.out.Send(msg)
}

// notify sends from inside engine callbacks, where errors cannot be returned.
func (s *Session) notify(t MessageType, data interface{}) {
	if err := s.send(t, data); err != nil {
		s.log.Warn("send failed", zap.String("type", string(t)), zap.Error(err))
	}
}

func decode(msg *Message, v interface{}) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%s: missing data", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}

type notifier struct{ s *Session }

func (n notifier) BeginScrub(t float64) { n.s.notify(MsgTypeBeginScrub, TimeData{Time: t}) }
func (n notifier) Scrub(t float64)      { n.s.notify(MsgTypeScrub, TimeData{Time: t}) }
func (n notifier) EndScrub(t float64)   { n.s.notify(MsgTypeEndScrub, TimeData{Time: t}) }

// remoteHaptics drives the renderer's haptic engine over the wire. The
// renderer prepares its generator on haptic_prepare and plays on
// haptic_impulse.
type remoteHaptics struct{ s *Session }

func (r remoteHaptics) Open() scrub.HapticHandle { return r }
func (r remoteHaptics) Prepare()                 { r.s.notify(MsgTypeHapticPrepare, nil) }
func (r remoteHaptics) Impulse()                 { r.s.notify(MsgTypeHapticImpulse, nil) }
func (r remoteHaptics) Release()                 { r.s.notify(MsgTypeHapticRelease, nil) }
