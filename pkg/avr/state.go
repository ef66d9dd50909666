package avr

import (
	"fmt"
	"strconv"

	"github.com/avr-protocol/avr-go/pkg/wire"
)

// PowerState is the receiver's power condition as last observed.
type PowerState int

const (
	// PowerUnknown indicates no PWR reply has been classified yet.
	PowerUnknown PowerState = iota

	// PowerOn indicates the receiver is on (PWR0).
	PowerOn

	// PowerStandbyA indicates the first standby mode (PWR1).
	PowerStandbyA

	// PowerStandbyB indicates the second standby mode (PWR2).
	PowerStandbyB

	// PowerDisconnected indicates the last connect attempt was refused
	// or failed. Exited only by a later successful session.
	PowerDisconnected
)

// String returns the power state name.
func (p PowerState) String() string {
	switch p {
	case PowerUnknown:
		return "UNKNOWN"
	case PowerOn:
		return "ON"
	case PowerStandbyA:
		return "STANDBY_A"
	case PowerStandbyB:
		return "STANDBY_B"
	case PowerDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// powerFromTag maps a verbatim PWR reply token to the power enum.
func powerFromTag(tag string) PowerState {
	switch tag {
	case "PWR0":
		return PowerOn
	case "PWR1":
		return PowerStandbyA
	case "PWR2":
		return PowerStandbyB
	default:
		return PowerUnknown
	}
}

// State is a snapshot of device state. Absent data is represented by
// nil pointers and empty strings, never by zero-like defaults: a volume
// the device has not reported is unknown, not silent.
type State struct {
	// Power is the decoded power condition.
	Power PowerState

	// PowerTag is the verbatim PWR reply token the power state was
	// decoded from ("PWR0", "PWR1", ...). Empty until first classified.
	PowerTag string

	// Volume is the volume fraction in [0,1], nil when unknown.
	Volume *float64

	// Muted is the mute flag, nil when unknown.
	Muted *bool

	// SourceID is the active input's two-digit id, empty when unknown.
	SourceID string

	// SourceName is SourceID resolved through the catalog. Empty when
	// the id is unknown or not yet resolvable.
	SourceName string

	// SoundMode is the index into wire.SoundModes, nil when unknown.
	SoundMode *int
}

// SoundModeName returns the active sound mode's display name, or the
// empty string when the mode is unknown.
func (s State) SoundModeName() string {
	if s.SoundMode == nil {
		return ""
	}
	return wire.SoundModes[*s.SoundMode]
}

// clone deep-copies the snapshot so callers never alias engine state.
func (s State) clone() State {
	out := s
	if s.Volume != nil {
		v := *s.Volume
		out.Volume = &v
	}
	if s.Muted != nil {
		m := *s.Muted
		out.Muted = &m
	}
	if s.SoundMode != nil {
		n := *s.SoundMode
		out.SoundMode = &n
	}
	return out
}

// Rendering helpers for state-change log events.

func renderVolume(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

func renderMute(m *bool) string {
	if m == nil {
		return ""
	}
	return strconv.FormatBool(*m)
}

func renderSoundMode(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d (%s)", *n, wire.SoundModes[*n])
}
