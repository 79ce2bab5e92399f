// Package jwt wraps token signing, verification and inspection behind a small
// interface.
//
// The identity stub signs tokens it hands out; the client side only ever
// treats tokens as opaque, but may Peek at claims for display purposes.
package jwt
