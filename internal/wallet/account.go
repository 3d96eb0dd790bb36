package wallet

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/klingnet-wallet/pkg/crypto"
)

// Account represents a wallet account.
type Account struct {
	Index     uint32 `json:"index"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	PublicKey []byte `json:"public_key"`
	Balance   uint64 `json:"balance"`
}

// DefaultAccountName returns the name given to a newly derived account.
func DefaultAccountName(index uint32) string {
	return fmt.Sprintf("Account %d", index)
}

// clone returns a deep copy of the account.
func (a Account) clone() Account {
	a.PublicKey = bytes.Clone(a.PublicKey)
	return a
}

// AccountDeriver maps an account index to its address and public key.
// Implementations must be deterministic.
type AccountDeriver interface {
	Derive(index uint32) (Account, error)
}

// DerivationMode selects the AccountDeriver a wallet uses.
type DerivationMode string

const (
	// DerivationHD derives accounts from the recovery phrase (BIP-32).
	DerivationHD DerivationMode = "hd"
	// DerivationIndex derives accounts from the index alone. Two wallets
	// get the same address for the same index; use only where that is
	// acceptable, such as fixtures.
	DerivationIndex DerivationMode = "index"
)

// ParseDerivationMode validates a derivation mode string.
func ParseDerivationMode(s string) (DerivationMode, error) {
	switch DerivationMode(s) {
	case DerivationHD, DerivationIndex:
		return DerivationMode(s), nil
	case "":
		return DerivationHD, nil
	default:
		return "", fmt.Errorf("unknown derivation mode %q (want %q or %q)", s, DerivationHD, DerivationIndex)
	}
}

// Domain tags for index-only derivation.
const (
	indexPubKeyTag  = "klingnet-wallet/account/public-key/v1"
	indexAddressTag = "klingnet-wallet/account/address/v1"
)

// IndexDeriver derives accounts from BLAKE3 of the index alone.
type IndexDeriver struct{}

// Derive returns the account for index.
func (IndexDeriver) Derive(index uint32) (Account, error) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], index)

	pub := crypto.TaggedHash(indexPubKeyTag, buf[:])
	addr := crypto.AddressFromHash(crypto.TaggedHash(indexAddressTag, buf[:]))
	return Account{
		Index:     index,
		Name:      DefaultAccountName(index),
		Address:   addr.String(),
		PublicKey: pub.Bytes(),
	}, nil
}
