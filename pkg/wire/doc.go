// Package wire defines the ASCII command/response vocabulary spoken by
// Pioneer network receivers and the pure encode/decode helpers for it.
//
// The protocol is line oriented with no framing beyond line terminators:
// commands are terminated by a bare carriage return, replies by CRLF.
// Replies carry a fixed 2-3 character prefix (PWR, VOL, MUT, FN, RGB, SPK)
// followed by a terse payload, for example "VOL121" or "FN04".
//
// # Volume Scale
//
// The device addresses volume as an integer 0..185. This package converts
// between that scale and a fraction in [0,1]; round-tripping is exact to
// within 1/185.
//
// # Purity
//
// Nothing in this package performs I/O. Session handling lives in package
// transport, stateful decoding in package avr.
package wire
