// Package fake provides an in-process stand-in for a Pioneer network
// receiver, used by transport, engine, and integration tests.
//
// The fake listens on a loopback TCP port and mimics the device's
// line discipline: commands arrive terminated by a bare CR, replies go
// out terminated by CRLF. Tests script it per command and can inject
// unsolicited status pushes ahead of any solicited reply, answer or
// ignore the wake handshake, and stay silent for unknown commands.
package fake

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
)

// Receiver is a scriptable fake AVR.
type Receiver struct {
	listener net.Listener

	mu sync.Mutex

	// replies maps a command to the reply lines it elicits. A command
	// mapped to no lines (or not mapped at all) elicits silence.
	replies map[string][]string

	// noise lines are pushed before the reply to every scripted
	// command, mimicking spontaneous status updates.
	noise []string

	// answerWake controls whether the bare-CR wake traffic is
	// acknowledged with the ready sentinel.
	answerWake bool

	// commands records every non-empty command received.
	commands []string
}

// NewReceiver starts a fake receiver on an ephemeral loopback port.
// It answers the wake handshake by default.
func NewReceiver() (*Receiver, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	r := &Receiver{
		listener:   ln,
		replies:    make(map[string][]string),
		answerWake: true,
	}
	go r.serve()
	return r, nil
}

// Addr returns the host:port the fake listens on.
func (r *Receiver) Addr() string {
	return r.listener.Addr().String()
}

// HostPort returns the listen address split for engine configuration.
func (r *Receiver) HostPort() (string, int) {
	host, portStr, _ := net.SplitHostPort(r.Addr())
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// Handle scripts the reply lines for a command. No lines means the
// command is received but never answered.
func (r *Receiver) Handle(command string, replyLines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies[command] = replyLines
}

// SetNoise injects unsolicited lines pushed ahead of every scripted
// reply.
func (r *Receiver) SetNoise(lines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noise = lines
}

// SetAnswerWake controls whether wake traffic gets the ready sentinel.
func (r *Receiver) SetAnswerWake(answer bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answerWake = answer
}

// Commands returns every non-empty command received so far.
func (r *Receiver) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}

// Close shuts the fake down. The address becomes a refused connection,
// which tests use to exercise the Disconnected path.
func (r *Receiver) Close() {
	r.listener.Close()
}

func (r *Receiver) serve() {
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			return
		}
		go r.handleConn(conn)
	}
}

func (r *Receiver) handleConn(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	wokenUp := false

	for {
		command, err := readCommand(reader)
		if err != nil {
			return
		}

		if command == "" {
			// Bare CR: wake traffic. Acknowledge once per connection.
			r.mu.Lock()
			answer := r.answerWake && !wokenUp
			r.mu.Unlock()
			if answer {
				wokenUp = true
				if _, err := conn.Write([]byte("R\r\n")); err != nil {
					return
				}
			}
			continue
		}

		r.mu.Lock()
		r.commands = append(r.commands, command)
		lines, scripted := r.replies[command]
		noise := r.noise
		r.mu.Unlock()

		if !scripted {
			continue
		}
		for _, line := range noise {
			if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
				return
			}
		}
		for _, line := range lines {
			if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
				return
			}
		}
	}
}

// readCommand reads one CR-terminated command, tolerating stray LFs
// left over from CRLF-minded clients.
func readCommand(reader *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", io.EOF
		}
		switch b {
		case '\r':
			return sb.String(), nil
		case '\n':
			// skip
		default:
			sb.WriteByte(b)
		}
	}
}
