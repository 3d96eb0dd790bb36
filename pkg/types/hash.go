// Package types defines primitive value types shared by the wallet packages.
package types

import "encoding/hex"

// HashSize is the length of a BLAKE3-256 digest in bytes.
const HashSize = 32

// Hash is a BLAKE3-256 digest. Transaction IDs, signing hashes and
// placeholder account keys are built from it.
type Hash [HashSize]byte

// String returns the lowercase hex encoding.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the digest.
func (h Hash) Bytes() []byte {
	return append([]byte(nil), h[:]...)
}
