package wire

import (
	"fmt"
	"math"
)

// Protocol line terminators. Commands are terminated by a bare CR;
// replies arrive terminated by CRLF.
const (
	CommandTerminator = "\r"
	ReplyTerminator   = "\r\n"
)

// Device-wide protocol constants.
const (
	// MaxVolume is the top of the device's integer volume scale.
	MaxVolume = 185

	// MaxSourceSlots is the number of addressable input-source slots.
	// Slot indices run 0 through MaxSourceSlots-1.
	MaxSourceSlots = 60
)

// Query commands. Each elicits a reply carrying the matching prefix.
const (
	QueryPower     = "?P"
	QueryVolume    = "?V"
	QueryMute      = "?M"
	QuerySource    = "?F"
	QuerySoundMode = "?SPK"
)

// Action commands with no parameters.
const (
	PowerOn    = "PO"
	PowerOff   = "PF"
	VolumeUp   = "VU"
	VolumeDown = "VD"
	MuteOn     = "MO"
	MuteOff    = "MF"
)

// Reply prefixes. A reply line is attributed to a command by matching
// its leading characters against the prefix the command elicits.
const (
	PrefixPower     = "PWR"
	PrefixVolume    = "VOL"
	PrefixMute      = "MUT"
	PrefixSource    = "FN"
	PrefixSlot      = "RGB"
	PrefixSoundMode = "SPK"
)

// SoundModes is the fixed speaker-configuration list. SPK replies carry
// an index into this list.
var SoundModes = []string{"OFF", "A ON", "B ON", "A+B ON"}

// SoundModeIndex returns the index of the named sound mode, or false if
// the name is not in SoundModes.
func SoundModeIndex(name string) (int, bool) {
	for i, mode := range SoundModes {
		if mode == name {
			return i, true
		}
	}
	return 0, false
}

// SetVolumeCommand encodes an absolute volume-set command for a fraction
// in [0,1]. The fraction is clamped before scaling to the 0..185 range.
func SetVolumeCommand(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	return fmt.Sprintf("%03dVL", int(math.Round(fraction*MaxVolume)))
}

// SelectSourceCommand encodes a source-select command for a two-digit
// source id ("00".."59").
func SelectSourceCommand(id string) string {
	return id + "FN"
}

// SelectSoundModeCommand encodes a sound-mode-select command for an
// index into SoundModes.
func SelectSoundModeCommand(index int) string {
	return fmt.Sprintf("%dSPK", index)
}

// ProbeSlotCommand encodes a source-slot probe for the given slot index.
// The reply, if the slot is populated, carries the PrefixSlot prefix.
func ProbeSlotCommand(slot int) string {
	return fmt.Sprintf("?RGB%02d", slot)
}

// SourceID formats a slot index as the two-digit zero-padded source id
// used on the wire.
func SourceID(slot int) string {
	return fmt.Sprintf("%02d", slot)
}
