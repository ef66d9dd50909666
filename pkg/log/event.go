package log

import (
	"time"
)

// Event represents one protocol event in a control session.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the socket session the event belongs to
	// (UUID, one per public engine operation).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates line flow relative to the engine.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// RemoteAddr is the receiver address (host:port).
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (exactly one is set).
	Line        *LineEvent        `cbor:"6,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"7,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"8,keyasint,omitempty"`
}

// Direction indicates the direction of line flow.
type Direction uint8

const (
	// DirectionIn indicates a line received from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates a line sent to the device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLine indicates a command or reply line.
	CategoryLine Category = 0
	// CategoryWake indicates wake-handshake traffic.
	CategoryWake Category = 1
	// CategoryState indicates a decoded device-state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLine:
		return "LINE"
	case CategoryWake:
		return "WAKE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LineEvent captures one line of protocol text.
type LineEvent struct {
	// Text is the line without its terminator.
	Text string `cbor:"1,keyasint"`

	// ExpectedPrefix is the reply prefix the engine was waiting for
	// when this line arrived (incoming lines only).
	ExpectedPrefix string `cbor:"2,keyasint,omitempty"`

	// Unsolicited marks an incoming line that did not match the
	// expected prefix and was skipped by the classifier.
	Unsolicited bool `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures a device-state field transition.
type StateChangeEvent struct {
	// Field names the state field that changed (power, volume, ...).
	Field string `cbor:"1,keyasint"`

	// OldValue is the previous rendering (may be empty).
	OldValue string `cbor:"2,keyasint,omitempty"`

	// NewValue is the new rendering.
	NewValue string `cbor:"3,keyasint"`
}

// ErrorEvent captures a non-fatal protocol error.
type ErrorEvent struct {
	// Stage names the step that failed (dial, wake, classify, decode, ...).
	Stage string `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`
}

// NewLineEvent builds a line event.
func NewLineEvent(sessionID string, dir Direction, text, expectedPrefix string, unsolicited bool) Event {
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: dir,
		Category:  CategoryLine,
		Line: &LineEvent{
			Text:           text,
			ExpectedPrefix: expectedPrefix,
			Unsolicited:    unsolicited,
		},
	}
}

// NewWakeEvent builds a wake-handshake event. For incoming direction,
// text carries whatever the device answered (possibly nothing).
func NewWakeEvent(sessionID string, dir Direction, text string) Event {
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: dir,
		Category:  CategoryWake,
		Line:      &LineEvent{Text: text},
	}
}

// NewStateEvent builds a state-change event.
func NewStateEvent(sessionID, field, oldValue, newValue string) Event {
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			Field:    field,
			OldValue: oldValue,
			NewValue: newValue,
		},
	}
}

// NewErrorEvent builds an error event.
func NewErrorEvent(sessionID, stage string, err error) Event {
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Category:  CategoryError,
		Error: &ErrorEvent{
			Stage:   stage,
			Message: err.Error(),
		},
	}
}
