package session

import (
	"encoding/json"
	"time"

	"Scrubline/core/scrub"
)

// MessageType names a websocket message.
type MessageType string

const (
	// renderer -> server
	MsgTypeGeometry MessageType = "geometry"
	MsgTypeDown     MessageType = "down"
	MsgTypeMove     MessageType = "move"
	MsgTypeUp       MessageType = "up"
	MsgTypeCancel   MessageType = "cancel"
	MsgTypeSeek     MessageType = "seek"
	MsgTypeDuration MessageType = "duration"
	MsgTypeMarkers  MessageType = "markers"
	MsgTypeOptions  MessageType = "options"
	MsgTypeLayout   MessageType = "layout" // also sent back after every change
	MsgTypePing     MessageType = "ping"

	// server -> renderer
	MsgTypeHello         MessageType = "hello"
	MsgTypeBeginScrub    MessageType = "begin_scrub"
	MsgTypeScrub         MessageType = "scrub"
	MsgTypeEndScrub      MessageType = "end_scrub"
	MsgTypeHapticPrepare MessageType = "haptic_prepare"
	MsgTypeHapticImpulse MessageType = "haptic_impulse"
	MsgTypeHapticRelease MessageType = "haptic_release"
	MsgTypeError         MessageType = "error"
	MsgTypePong          MessageType = "pong"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type      MessageType     `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// PointerData carries a pointer event. X and Y are relative to the track
// origin; up and cancel only need the pointer id.
type PointerData struct {
	PointerID int64   `json:"pointerId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// TimeData carries a playhead time in seconds.
type TimeData struct {
	Time float64 `json:"time"`
}

type DurationData struct {
	Duration float64 `json:"duration"`
}

type MarkersData struct {
	Markers []scrub.SectionMarker `json:"markers"`
}

// OptionsData toggles engine options; absent fields are left alone.
type OptionsData struct {
	HapticFeedbackEnabled *bool `json:"isHapticFeedbackEnabled,omitempty"`
	ScrubFromAnywhere     *bool `json:"allowScrubbingFromAnyTouchLocation,omitempty"`
}

type HelloData struct {
	SessionID string                `json:"sessionId"`
	TrackID   string                `json:"trackId"`
	Markers   []scrub.SectionMarker `json:"markers"`
	Layout    scrub.Layout          `json:"layout"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// NewMessage builds a stamped message with data encoded as JSON.
func NewMessage(t MessageType, sessionID string, data interface{}) (*Message, error) {
	msg := &Message{Type: t, SessionID: sessionID, Timestamp: time.Now().UnixMilli()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return msg, nil
}
