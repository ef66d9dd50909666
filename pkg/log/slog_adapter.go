package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger. Useful in
// development to watch the conversation with the receiver on console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote_addr", event.RemoteAddr))
	}

	switch {
	case event.Line != nil:
		attrs = append(attrs, slog.String("text", event.Line.Text))
		if event.Line.ExpectedPrefix != "" {
			attrs = append(attrs, slog.String("expected_prefix", event.Line.ExpectedPrefix))
		}
		if event.Line.Unsolicited {
			attrs = append(attrs, slog.Bool("unsolicited", true))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("field", event.StateChange.Field),
			slog.String("old_value", event.StateChange.OldValue),
			slog.String("new_value", event.StateChange.NewValue),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("stage", event.Error.Stage),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "avr", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
