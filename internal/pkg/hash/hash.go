package hash

// Hash digests a plaintext and verifies plaintexts against stored digests.
type Hash interface {
	// Hash returns the digest of the input string.
	Hash(str string) ([]byte, error)
	// Verify reports whether the plaintext matches the given digest.
	Verify(hashed, str string) bool
}
