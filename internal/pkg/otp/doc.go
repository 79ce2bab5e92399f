// Package otp wraps time-based one-time password generation and validation.
//
// The identity stub uses it in deterministic mode: each email gets a secret
// derived from a server seed, so the "current" code for an address is stable
// across stub restarts and needs no storage.
package otp
