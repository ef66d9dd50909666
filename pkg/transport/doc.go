// Package transport provides the socket session layer for the AVR engine.
//
// The receiver speaks a half-duplex ASCII protocol over a plain TCP
// socket (port 23 on most models, 8102 on some). There is no framing
// beyond line terminators and no authentication. Sessions are ephemeral:
// the engine opens one socket per logical operation, primes it with a
// wake handshake, exchanges lines, and closes it again.
//
// # Session Lifecycle
//
//	dialer := &transport.Dialer{Host: "192.0.2.10", Port: 23}
//	session, err := dialer.Dial(ctx)
//	if err != nil {
//	    // receiver unreachable
//	}
//	defer session.Close()
//	session.Wake()
//	session.SendLine("?P")
//	line, ok := session.ReadLine()
//
// # Timeouts
//
// The connect is bounded by the dialer's ConnectTimeout (zero means the
// OS default applies). Every line read is bounded by a short per-read
// deadline; an expired read reports "no line" rather than blocking. The
// device pushes unsolicited status lines at will, so callers must never
// assume the next line answers the last command — see the classifier in
// package avr.
package transport
