// Package discovery locates Pioneer receivers on the local network via
// mDNS browsing.
//
// Receivers advertise their control service over multicast DNS; the
// Browser turns those advertisements into host/port candidates for the
// engine configuration. Discovery only finds the device — control
// traffic itself always runs over the engine's plain text socket.
package discovery
