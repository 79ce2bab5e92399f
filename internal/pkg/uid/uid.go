// Package uid provides ID generation behind small interfaces so callers can
// swap generators in tests.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	// Generate returns a new identifier.
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	// Generate returns a new identifier.
	Generate() int64
}
