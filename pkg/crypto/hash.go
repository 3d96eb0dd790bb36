// Package crypto provides the hashing and signature primitives used by the wallet.
package crypto

import (
	"encoding/binary"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// TaggedHash computes BLAKE3 in key-derivation mode with tag as the context
// string. Each part is length-prefixed so that ("ab","c") and ("a","bc")
// hash differently.
func TaggedHash(tag string, parts ...[]byte) types.Hash {
	h := blake3.NewDeriveKey(tag)
	var lenBuf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// AddressFromPubKey derives an address from a compressed public key.
// Address = BLAKE3(compressed_pubkey)[:20].
func AddressFromPubKey(pubKey []byte) types.Address {
	return AddressFromHash(Hash(pubKey))
}

// AddressFromHash truncates a hash to an address.
func AddressFromHash(h types.Hash) types.Address {
	var addr types.Address
	copy(addr[:], h[:types.AddressSize])
	return addr
}
