package wire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Decode errors.
var (
	// ErrShortReply indicates a reply too short to carry its payload.
	ErrShortReply = errors.New("reply too short")

	// ErrBadPrefix indicates a reply that does not start with the
	// prefix the decoder expects.
	ErrBadPrefix = errors.New("unexpected reply prefix")

	// ErrModeOutOfRange indicates an SPK reply whose index falls
	// outside the fixed sound-mode list. Such replies are rejected
	// rather than clamped; the device never legitimately reports a
	// mode it does not have.
	ErrModeOutOfRange = errors.New("sound mode index out of range")
)

// payload strips prefix from token after validating shape.
func payload(token, prefix string) (string, error) {
	if !strings.HasPrefix(token, prefix) {
		return "", fmt.Errorf("%w: %q does not start with %q", ErrBadPrefix, token, prefix)
	}
	if len(token) == len(prefix) {
		return "", fmt.Errorf("%w: %q", ErrShortReply, token)
	}
	return token[len(prefix):], nil
}

// DecodeVolume converts a VOL reply into a fraction in [0,1] on the
// device's 0..185 scale.
func DecodeVolume(token string) (float64, error) {
	p, err := payload(token, PrefixVolume)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", token, err)
	}
	return float64(n) / MaxVolume, nil
}

// DecodeMute interprets a MUT reply. Only the exact token "MUT0" means
// muted; every other reply means audible.
func DecodeMute(token string) bool {
	return token == PrefixMute+"0"
}

// DecodeSourceID extracts the two-digit source id from an FN reply.
func DecodeSourceID(token string) (string, error) {
	p, err := payload(token, PrefixSource)
	if err != nil {
		return "", err
	}
	if len(p) != 2 {
		return "", fmt.Errorf("%w: source id %q", ErrShortReply, token)
	}
	return p, nil
}

// DecodeSoundMode extracts the sound-mode index from an SPK reply.
// Indices outside SoundModes are rejected with ErrModeOutOfRange.
func DecodeSoundMode(token string) (int, error) {
	p, err := payload(token, PrefixSoundMode)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("parse sound mode %q: %w", token, err)
	}
	if n < 0 || n >= len(SoundModes) {
		return 0, fmt.Errorf("%w: %d", ErrModeOutOfRange, n)
	}
	return n, nil
}

// Slot describes one input-source slot as reported by an RGB probe
// reply: "RGB" + two-digit slot + enabled flag + display name.
type Slot struct {
	Enabled bool
	Name    string
}

// DecodeSlot parses an RGB probe reply. The enabled flag sits at a
// fixed offset after the prefix and slot digits; the remainder of the
// line is the display name.
func DecodeSlot(token string) (Slot, error) {
	p, err := payload(token, PrefixSlot)
	if err != nil {
		return Slot{}, err
	}
	// Two slot digits, the enabled flag, and at least one name byte.
	if len(p) < 4 {
		return Slot{}, fmt.Errorf("%w: slot reply %q", ErrShortReply, token)
	}
	return Slot{
		Enabled: p[2] == '1',
		Name:    p[3:],
	}, nil
}
