// Package poller drives periodic state refreshes against a receiver.
//
// The engine itself is scheduling-free: it exposes synchronous
// operations and a state snapshot, and somebody has to call Refresh on
// a cadence. Poller is that caller. While the receiver answers, it
// refreshes on a fixed interval; when sessions start failing (receiver
// unplugged, network partition) it falls back to exponential backoff
// with jitter so an unreachable device is not hammered once a second,
// and resets to the fixed interval on the first success.
//
// A Poller serializes its own refreshes, upholding the engine's
// single-conversation requirement, but callers issuing commands
// alongside a running poller must provide their own serialization.
package poller
