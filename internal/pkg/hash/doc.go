// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is one-time code storage: store only the digest, then verify
// user input by comparing the plaintext against the stored digest behind a
// small interface.
package hash
