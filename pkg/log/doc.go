// Package log provides structured protocol logging for the AVR engine.
//
// This package defines the Logger interface and Event types capturing
// every step of a control session: lines sent and received (including
// unsolicited pushes the classifier skipped), wake handshakes, device
// state transitions, and errors. It is separate from operational logging
// (slog); protocol capture yields a complete machine-readable trace of
// the conversation with the receiver.
//
// # Basic Usage
//
// Callers configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	opts.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For long captures: write to binary file
//	opts.Logger, _ = log.NewFileLogger("/var/log/avr/living-room.avrlog")
//
//	// Both: use MultiLogger
//	opts.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with integer keys, conventionally with the
// .avrlog extension. Reader replays a file, optionally filtered.
package log
