package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avr-protocol/avr-go/pkg/log"
	"github.com/avr-protocol/avr-go/pkg/wire"
)

// Transport defaults.
const (
	// DefaultPort is the telnet control port most receivers listen on.
	// Some models use 8102 instead.
	DefaultPort = 23

	// DefaultReadTimeout bounds each individual line read.
	DefaultReadTimeout = 200 * time.Millisecond

	// WakeDelay is the pause between the two bare terminators of the
	// wake handshake.
	WakeDelay = 100 * time.Millisecond
)

// Dialer opens sessions to one receiver.
type Dialer struct {
	// Host is the receiver's address (IP or hostname). Required.
	Host string

	// Port is the control port (default: DefaultPort).
	Port int

	// ConnectTimeout bounds the TCP connect. Zero means no explicit
	// timeout; the connect blocks until the OS gives up.
	ConnectTimeout time.Duration

	// ReadTimeout bounds each line read (default: DefaultReadTimeout).
	ReadTimeout time.Duration

	// Logger receives protocol events. Nil disables capture.
	Logger log.Logger
}

// Addr returns the host:port the dialer connects to.
func (d *Dialer) Addr() string {
	port := d.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(d.Host, fmt.Sprintf("%d", port))
}

// Dial opens a session to the receiver. Connection refusal or any other
// connect-time error is returned to the caller; the engine maps it to
// the Disconnected power state.
func (d *Dialer) Dial(ctx context.Context) (*Session, error) {
	addr := d.Addr()

	dialer := &net.Dialer{Timeout: d.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	readTimeout := d.ReadTimeout
	if readTimeout == 0 {
		readTimeout = DefaultReadTimeout
	}

	logger := d.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	return &Session{
		id:          uuid.NewString(),
		conn:        conn,
		reader:      bufio.NewReader(conn),
		readTimeout: readTimeout,
		logger:      logger,
	}, nil
}

// Session is one open-socket lifetime spanning a single logical
// operation. Sessions are not safe for concurrent use; the engine
// serializes all traffic.
type Session struct {
	id          string
	conn        net.Conn
	reader      *bufio.Reader
	readTimeout time.Duration
	logger      log.Logger
}

// ID returns the session's unique identifier, used to correlate
// protocol log events.
func (s *Session) ID() string {
	return s.id
}

// RemoteAddr returns the receiver's address.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// SendLine writes a command followed by the protocol terminator (a bare
// carriage return). Writes are not retried.
func (s *Session) SendLine(command string) error {
	if _, err := s.conn.Write([]byte(command + wire.CommandTerminator)); err != nil {
		return fmt.Errorf("send %q: %w", command, err)
	}
	s.logger.Log(log.NewLineEvent(s.id, log.DirectionOut, command, "", false))
	return nil
}

// ReadLine reads one CRLF-terminated reply line, bounded by the per-read
// timeout. It returns the line with terminators and surrounding
// whitespace trimmed, and false if no complete line arrived in time.
func (s *Session) ReadLine() (string, bool) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return "", false
	}

	line, err := s.reader.ReadString('\n')
	if err != nil {
		// Timeout or connection loss. A partial line is dropped; the
		// classifier treats both the same as "no line".
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Wake primes the receiver's control-socket listener. The device needs
// traffic before it reliably answers queries: two bare terminators with
// a short pause, then one bounded read for the ready sentinel (a line
// ending in "R"). The read outcome is advisory; some firmware skips the
// handshake reply entirely, so failure here never aborts the session.
func (s *Session) Wake() {
	for i := 0; i < 2; i++ {
		if i > 0 {
			time.Sleep(WakeDelay)
		}
		if _, err := s.conn.Write([]byte(wire.CommandTerminator)); err != nil {
			s.logger.Log(log.NewErrorEvent(s.id, "wake", err))
			return
		}
	}
	s.logger.Log(log.NewWakeEvent(s.id, log.DirectionOut, ""))

	reply, ready := s.readWakeReply()
	if !ready {
		reply = "(no handshake reply)"
	}
	s.logger.Log(log.NewWakeEvent(s.id, log.DirectionIn, reply))
}

// readWakeReply performs one bounded read for the wake sentinel. The
// sentinel line ends in "R" followed by a bare CR, so this read stops at
// CR rather than LF.
func (s *Session) readWakeReply() (string, bool) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return "", false
	}

	chunk, err := s.reader.ReadString('\r')
	if err != nil {
		return "", false
	}

	// Firmware that terminates the sentinel with CRLF leaves the LF
	// behind; drop it so it cannot leak into reply classification.
	if s.reader.Buffered() > 0 {
		if next, err := s.reader.Peek(1); err == nil && next[0] == '\n' {
			_, _ = s.reader.Discard(1)
		}
	}

	line := strings.TrimSpace(chunk)
	return line, strings.HasSuffix(line, "R")
}

// Close closes the socket. The session must not be used afterwards.
func (s *Session) Close() error {
	return s.conn.Close()
}
