package avr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avr-protocol/avr-go/pkg/log"
	"github.com/avr-protocol/avr-go/pkg/transport"
	"github.com/avr-protocol/avr-go/pkg/wire"
)

// classifyAttempts bounds how many lines the engine reads looking for
// the reply to the command it just sent. Unsolicited pushes consume
// attempts; so do timed-out reads.
const classifyAttempts = 3

// Engine errors.
var (
	// ErrUnknownSource indicates a source name absent from the catalog.
	// No command is sent; state is unchanged.
	ErrUnknownSource = errors.New("unknown source name")

	// ErrUnknownSoundMode indicates a sound-mode name outside the fixed
	// mode list. No command is sent; state is unchanged.
	ErrUnknownSoundMode = errors.New("unknown sound mode")
)

// Options configures a Device. Host is required; everything else has a
// usable zero value.
type Options struct {
	// Host is the receiver's address. Required.
	Host string

	// Port is the control port (default: transport.DefaultPort).
	Port int

	// ConnectTimeout bounds each session's TCP connect. Zero means no
	// explicit timeout.
	ConnectTimeout time.Duration

	// ReadTimeout bounds each line read (default: transport.DefaultReadTimeout).
	ReadTimeout time.Duration

	// Sources is an optional static source name->id map. When set, slot
	// probing is skipped entirely and enabled flags are not collected.
	Sources map[string]string

	// AllSources disables the enabled-only filter on SourceList, so
	// slots the device marks disabled are listed too.
	AllSources bool

	// DisabledSources names sources to hide from SourceList regardless
	// of the device's enabled flags.
	DisabledSources []string

	// Logger receives protocol events. Nil disables capture.
	Logger log.Logger
}

// Device is the control engine for one receiver. It is not safe for
// concurrent use: the protocol is half duplex and the device tolerates
// only one conversation at a time, so callers serialize operations.
type Device struct {
	dialer   *transport.Dialer
	logger   log.Logger
	catalog  *Catalog
	state    State
	all      bool
	disabled []string
}

// New creates a Device for the receiver described by opts.
func New(opts Options) *Device {
	logger := opts.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	catalog := newCatalog()
	if len(opts.Sources) > 0 {
		catalog = newStaticCatalog(opts.Sources)
	}

	return &Device{
		dialer: &transport.Dialer{
			Host:           opts.Host,
			Port:           opts.Port,
			ConnectTimeout: opts.ConnectTimeout,
			ReadTimeout:    opts.ReadTimeout,
			Logger:         logger,
		},
		logger:   logger,
		catalog:  catalog,
		all:      opts.AllSources,
		disabled: opts.DisabledSources,
	}
}

// State returns a snapshot of the last observed device state.
func (d *Device) State() State {
	return d.state.clone()
}

// SourceList returns the selectable source names under the configured
// filtering policy. Empty until the catalog is built.
func (d *Device) SourceList() []string {
	return d.catalog.Names(!d.all, d.disabled)
}

// SoundModeList returns the fixed sound-mode names.
func (d *Device) SoundModeList() []string {
	out := make([]string, len(wire.SoundModes))
	copy(out, wire.SoundModes)
	return out
}

// Refresh polls the receiver for its full state: power, volume, mute,
// active source, and sound mode. The first successful session also
// probes the source-slot catalog unless a static map was configured.
// A connect failure maps power to Disconnected and returns the error;
// missing replies map the affected fields to unknown and do not fail
// the refresh.
func (d *Device) Refresh(ctx context.Context) error {
	session, err := d.dialer.Dial(ctx)
	if err != nil {
		d.markDisconnected(err)
		return err
	}
	defer session.Close()

	session.Wake()

	if !d.catalog.Built() {
		d.buildCatalog(session)
	}

	queries := []struct {
		command string
		prefix  string
	}{
		{wire.QueryPower, wire.PrefixPower},
		{wire.QueryVolume, wire.PrefixVolume},
		{wire.QueryMute, wire.PrefixMute},
		{wire.QuerySource, wire.PrefixSource},
		{wire.QuerySoundMode, wire.PrefixSoundMode},
	}
	for _, q := range queries {
		if err := session.SendLine(q.command); err != nil {
			return err
		}
		token, ok := d.classify(session, q.prefix)
		d.apply(session.ID(), q.prefix, token, ok)
	}
	return nil
}

// PowerOn turns the receiver on.
func (d *Device) PowerOn(ctx context.Context) error {
	return d.command(ctx, wire.PowerOn, wire.PrefixPower)
}

// PowerOff puts the receiver into standby.
func (d *Device) PowerOff(ctx context.Context) error {
	return d.command(ctx, wire.PowerOff, wire.PrefixPower)
}

// VolumeUp raises the volume one device step.
func (d *Device) VolumeUp(ctx context.Context) error {
	return d.command(ctx, wire.VolumeUp, wire.PrefixVolume)
}

// VolumeDown lowers the volume one device step.
func (d *Device) VolumeDown(ctx context.Context) error {
	return d.command(ctx, wire.VolumeDown, wire.PrefixVolume)
}

// SetVolume sets the volume to a fraction in [0,1].
func (d *Device) SetVolume(ctx context.Context, fraction float64) error {
	return d.command(ctx, wire.SetVolumeCommand(fraction), wire.PrefixVolume)
}

// SetMute mutes or unmutes the receiver.
func (d *Device) SetMute(ctx context.Context, mute bool) error {
	command := wire.MuteOff
	if mute {
		command = wire.MuteOn
	}
	return d.command(ctx, command, wire.PrefixMute)
}

// SelectSource switches the active input to the named source. The name
// must be in the catalog; otherwise ErrUnknownSource is returned and no
// command is sent.
func (d *Device) SelectSource(ctx context.Context, name string) error {
	id, ok := d.catalog.IDForName(name)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownSource, name)
		d.logger.Log(log.NewErrorEvent("", "select_source", err))
		return err
	}
	return d.command(ctx, wire.SelectSourceCommand(id), wire.PrefixSource)
}

// SelectSoundMode switches the speaker configuration to the named mode.
// The name must be one of SoundModeList; otherwise ErrUnknownSoundMode
// is returned and no command is sent.
func (d *Device) SelectSoundMode(ctx context.Context, name string) error {
	index, ok := wire.SoundModeIndex(name)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownSoundMode, name)
		d.logger.Log(log.NewErrorEvent("", "select_sound_mode", err))
		return err
	}
	return d.command(ctx, wire.SelectSoundModeCommand(index), wire.PrefixSoundMode)
}

// command runs one session for a single command: dial, wake, send,
// classify the reply, fold it into state. An empty expectedPrefix makes
// the command fire-and-forget.
func (d *Device) command(ctx context.Context, command, expectedPrefix string) error {
	session, err := d.dialer.Dial(ctx)
	if err != nil {
		d.markDisconnected(err)
		return err
	}
	defer session.Close()

	session.Wake()

	if err := session.SendLine(command); err != nil {
		return err
	}
	if expectedPrefix == "" {
		return nil
	}

	token, ok := d.classify(session, expectedPrefix)
	d.apply(session.ID(), expectedPrefix, token, ok)
	return nil
}

// classify reads up to classifyAttempts lines looking for one carrying
// the expected prefix. Non-matching lines are unsolicited device pushes;
// they are logged and skipped so they can never be mistaken for the
// answer to the current command.
func (d *Device) classify(session *transport.Session, expectedPrefix string) (string, bool) {
	for attempt := 0; attempt < classifyAttempts; attempt++ {
		line, ok := session.ReadLine()
		if !ok {
			continue
		}
		if strings.HasPrefix(line, expectedPrefix) {
			d.logger.Log(log.NewLineEvent(session.ID(), log.DirectionIn, line, expectedPrefix, false))
			return line, true
		}
		d.logger.Log(log.NewLineEvent(session.ID(), log.DirectionIn, line, expectedPrefix, true))
	}
	return "", false
}

// apply dispatches a classified reply (or its absence) to the decoder
// for the expected prefix. The prefix set is closed; anything else is
// logged and ignored without touching state.
func (d *Device) apply(sessionID, prefix, token string, found bool) {
	switch prefix {
	case wire.PrefixPower:
		d.setPower(sessionID, token, found)
	case wire.PrefixVolume:
		d.setVolume(sessionID, token, found)
	case wire.PrefixMute:
		d.setMute(sessionID, token, found)
	case wire.PrefixSource:
		d.setSource(sessionID, token, found)
	case wire.PrefixSoundMode:
		d.setSoundMode(sessionID, token, found)
	default:
		d.logger.Log(log.NewErrorEvent(sessionID, "decode",
			fmt.Errorf("no decoder for prefix %q", prefix)))
	}
}

// setPower stores a verbatim PWR token. Power is the one field a
// missing reply leaves untouched: the tag only moves on evidence.
func (d *Device) setPower(sessionID, token string, found bool) {
	if !found || token == "" {
		return
	}
	old := d.state.Power
	d.state.PowerTag = token
	d.state.Power = powerFromTag(token)
	if d.state.Power != old {
		d.logger.Log(log.NewStateEvent(sessionID, "power", old.String(), d.state.Power.String()))
	}
}

func (d *Device) setVolume(sessionID, token string, found bool) {
	old := renderVolume(d.state.Volume)
	if !found {
		d.state.Volume = nil
	} else {
		fraction, err := wire.DecodeVolume(token)
		if err != nil {
			d.logger.Log(log.NewErrorEvent(sessionID, "decode", err))
			d.state.Volume = nil
		} else {
			d.state.Volume = &fraction
		}
	}
	if now := renderVolume(d.state.Volume); now != old {
		d.logger.Log(log.NewStateEvent(sessionID, "volume", old, now))
	}
}

func (d *Device) setMute(sessionID, token string, found bool) {
	old := renderMute(d.state.Muted)
	if !found {
		d.state.Muted = nil
	} else {
		muted := wire.DecodeMute(token)
		d.state.Muted = &muted
	}
	if now := renderMute(d.state.Muted); now != old {
		d.logger.Log(log.NewStateEvent(sessionID, "muted", old, now))
	}
}

func (d *Device) setSource(sessionID, token string, found bool) {
	old := d.state.SourceID
	if !found {
		d.state.SourceID = ""
		d.state.SourceName = ""
	} else {
		id, err := wire.DecodeSourceID(token)
		if err != nil {
			d.logger.Log(log.NewErrorEvent(sessionID, "decode", err))
			d.state.SourceID = ""
			d.state.SourceName = ""
		} else {
			// An id the catalog cannot resolve yet is retained; the
			// name stays empty until the catalog knows it.
			d.state.SourceID = id
			d.state.SourceName, _ = d.catalog.NameForID(id)
		}
	}
	if d.state.SourceID != old {
		d.logger.Log(log.NewStateEvent(sessionID, "source", old, d.state.SourceID))
	}
}

func (d *Device) setSoundMode(sessionID, token string, found bool) {
	old := renderSoundMode(d.state.SoundMode)
	if !found {
		d.state.SoundMode = nil
	} else {
		index, err := wire.DecodeSoundMode(token)
		if err != nil {
			// Out-of-range indices are rejected, not clamped; the
			// field becomes unknown rather than inventing a mode.
			d.logger.Log(log.NewErrorEvent(sessionID, "decode", err))
			d.state.SoundMode = nil
		} else {
			d.state.SoundMode = &index
		}
	}
	if now := renderSoundMode(d.state.SoundMode); now != old {
		d.logger.Log(log.NewStateEvent(sessionID, "sound_mode", old, now))
	}
}

// buildCatalog probes every source slot sequentially. A slot that never
// answers within the classify budget is unpopulated and skipped; that
// is expected, not an error.
func (d *Device) buildCatalog(session *transport.Session) {
	for i := 0; i < wire.MaxSourceSlots; i++ {
		if err := session.SendLine(wire.ProbeSlotCommand(i)); err != nil {
			d.logger.Log(log.NewErrorEvent(session.ID(), "probe", err))
			return
		}
		token, ok := d.classify(session, wire.PrefixSlot)
		if !ok {
			continue
		}
		slot, err := wire.DecodeSlot(token)
		if err != nil {
			d.logger.Log(log.NewErrorEvent(session.ID(), "decode", err))
			continue
		}
		d.catalog.add(wire.SourceID(i), slot.Name, slot.Enabled)
	}
}

// markDisconnected folds a connect failure into the power state. Other
// fields keep their last observation; only power carries the evidence
// that the device is unreachable.
func (d *Device) markDisconnected(err error) {
	d.logger.Log(log.NewErrorEvent("", "dial", err))
	old := d.state.Power
	d.state.Power = PowerDisconnected
	d.state.PowerTag = ""
	if old != PowerDisconnected {
		d.logger.Log(log.NewStateEvent("", "power", old.String(), PowerDisconnected.String()))
	}
}
