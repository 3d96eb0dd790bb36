package wallet

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Key derivation constants.
const (
	SaltSize = 16
	KeySize  = chacha20poly1305.KeySize

	// maxKDFMemory caps parameters read back from stored records.
	maxKDFMemory = 4 * 1024 * 1024 // 4 GB in KiB
)

// KDFParams holds Argon2id cost parameters.
type KDFParams struct {
	Memory      uint32 `json:"memory"` // in KiB
	Iterations  uint32 `json:"iterations"`
	Parallelism uint8  `json:"parallelism"`
}

// DefaultKDFParams returns the Argon2id parameters used for new keystores.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// IsZero reports whether no parameter has been set.
func (p KDFParams) IsZero() bool {
	return p == KDFParams{}
}

// Validate rejects parameters argon2 cannot run with.
func (p KDFParams) Validate() error {
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1", ErrKeyDerivation)
	}
	if p.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1", ErrKeyDerivation)
	}
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("%w: memory must be at least %d KiB", ErrKeyDerivation, 8*uint32(p.Parallelism))
	}
	if p.Memory > maxKDFMemory {
		return fmt.Errorf("%w: memory must be at most %d KiB", ErrKeyDerivation, maxKDFMemory)
	}
	return nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches password into a KeySize-byte key with Argon2id.
// The same (password, salt, params) always yields the same key.
// The caller owns the returned key and should wipe it after use.
func DeriveKey(password string, salt []byte, params KDFParams) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrKeyDerivation, SaltSize, len(salt))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	pw := []byte(password)
	defer zeroBytes(pw)
	return argon2.IDKey(pw, salt, params.Iterations, params.Memory, params.Parallelism, KeySize), nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
