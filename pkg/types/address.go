package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// AddressSize is the length of an address payload in bytes.
const AddressSize = 20

// Address version bytes. The version is the first byte of the encoded form
// so mainnet and testnet addresses cannot be confused.
const (
	MainnetVersion byte = 0x4b
	TestnetVersion byte = 0x6f
)

// checksumSize is the number of BLAKE3 bytes appended to an encoded address.
const checksumSize = 4

// activeVersion is used by String() and MarshalJSON().
// Set once at startup via SetAddressVersion(). Default is mainnet.
var activeVersion = MainnetVersion

// SetAddressVersion sets the active address version byte (call once at startup).
func SetAddressVersion(v byte) {
	activeVersion = v
}

// AddressVersion returns the active address version byte.
func AddressVersion() byte {
	return activeVersion
}

// Address represents a 160-bit public key hash.
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the base58check encoding of the address:
// base58(version || payload || blake3(version || payload)[:4]).
func (a Address) String() string {
	return a.Encode(activeVersion)
}

// Encode returns the base58check encoding of the address under the given version.
func (a Address) Encode(version byte) string {
	buf := make([]byte, 0, 1+AddressSize+checksumSize)
	buf = append(buf, version)
	buf = append(buf, a[:]...)
	sum := blake3.Sum256(buf)
	buf = append(buf, sum[:checksumSize]...)
	return base58.Encode(buf)
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a base58check string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a base58check string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, _, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes a base58check address and returns the payload and
// its version byte. The checksum must match.
func ParseAddress(s string) (Address, byte, error) {
	if s == "" {
		return Address{}, 0, fmt.Errorf("empty address")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, 0, fmt.Errorf("invalid base58 address: %w", err)
	}
	if len(raw) != 1+AddressSize+checksumSize {
		return Address{}, 0, fmt.Errorf("address must decode to %d bytes, got %d", 1+AddressSize+checksumSize, len(raw))
	}
	body := raw[:1+AddressSize]
	sum := blake3.Sum256(body)
	if !bytes.Equal(sum[:checksumSize], raw[1+AddressSize:]) {
		return Address{}, 0, fmt.Errorf("address checksum mismatch")
	}
	var a Address
	copy(a[:], body[1:])
	return a, body[0], nil
}
