// Package avr implements the control engine for Pioneer network
// receivers.
//
// A Device wraps one receiver. Every public operation opens its own
// ephemeral socket session, primes it with the wake handshake, exchanges
// lines, updates the in-memory state snapshot, and closes the session
// again. Operations are fully synchronous and must be serialized by the
// caller; the engine holds no connection between calls.
//
// # Reply Classification
//
// The receiver interleaves replies with spontaneous status pushes (a
// volume turn on the physical remote, for example). After sending a
// command the engine reads a bounded number of lines and takes the first
// one carrying the expected prefix; everything else is logged as
// unsolicited and skipped. If no matching line arrives the affected
// state field becomes unknown rather than keeping a stale value.
//
// # Source Catalog
//
// Receivers name their input-source slots dynamically. On the first
// Refresh the engine probes all 60 slots to build a name/id catalog with
// per-slot enabled flags; supplying a static source map at construction
// skips probing entirely. The catalog is immutable once built.
//
// # Failure Model
//
// All failures are local and non-fatal. A refused connection maps to the
// Disconnected power state; a missing reply maps to an unknown field; an
// unknown source or sound-mode name aborts the operation before any I/O.
// Every operation is safe to retry on the next poll cycle.
package avr
