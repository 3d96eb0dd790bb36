package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-wallet/pkg/crypto"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeKlingnet is the coin type (hardened).
	CoinTypeKlingnet = bip32.FirstHardenedChild + 8888

	// ChangeExternal is for receiving addresses.
	ChangeExternal = 0
)

// SeedSize is the length of a BIP-39 seed in bytes.
const SeedSize = 64

// SeedFromPhrase stretches a phrase into a 64-byte BIP-39 seed. The BIP-39
// checksum is not checked, matching ParsePhrase.
func SeedFromPhrase(p Phrase) []byte {
	return bip39.NewSeed(p.String(), "")
}

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// ParseExtendedKey decodes a base58 serialized extended key.
func ParseExtendedKey(s string) (*HDKey, error) {
	key, err := bip32.B58Deserialize(s)
	if err != nil {
		return nil, fmt.Errorf("decode extended key: %w", err)
	}
	return &HDKey{key: key}, nil
}

// DeriveChild derives a child key at the given index.
// Public-only keys can derive non-hardened children only.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	if !k.key.IsPrivate && index >= bip32.FirstHardenedChild {
		return nil, fmt.Errorf("derive child %d: hardened derivation needs a private key", index)
	}
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the account node m/44'/8888'/account'.
func (k *HDKey) DeriveAccount(account uint32) (*HDKey, error) {
	return k.DerivePath(PurposeBIP44, CoinTypeKlingnet, bip32.FirstHardenedChild+account)
}

// PrivateKeyBytes returns the raw 32-byte private key, or nil for a
// public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 stores private keys with a leading 0x00 when 33 bytes long.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	if !k.key.IsPrivate {
		return k.key.Key
	}
	return k.key.PublicKey().Key
}

// Signer returns a Schnorr signer for this key's private scalar.
func (k *HDKey) Signer() (*crypto.PrivateKey, error) {
	priv := k.PrivateKeyBytes()
	if priv == nil {
		return nil, fmt.Errorf("cannot create signer from public key")
	}
	return crypto.PrivateKeyFromBytes(priv)
}

// Address returns BLAKE3(compressed_pubkey)[:20].
func (k *HDKey) Address() types.Address {
	return crypto.AddressFromPubKey(k.PublicKeyBytes())
}

// Neuter returns a public-key-only copy.
func (k *HDKey) Neuter() *HDKey {
	if !k.key.IsPrivate {
		return k
	}
	return &HDKey{key: k.key.PublicKey()}
}

// String returns the base58 serialized extended key.
func (k *HDKey) String() string {
	return k.key.B58Serialize()
}

// HDDeriver derives accounts as external children of a public account node,
// so it needs no secret once constructed.
type HDDeriver struct {
	account *HDKey
}

// NewHDDeriver builds a deriver from a recovery phrase. Only the neutered
// account node is kept.
func NewHDDeriver(p Phrase) (*HDDeriver, error) {
	master, err := NewMasterKey(SeedFromPhrase(p))
	if err != nil {
		return nil, err
	}
	acct, err := master.DeriveAccount(0)
	if err != nil {
		return nil, err
	}
	return &HDDeriver{account: acct.Neuter()}, nil
}

// HDDeriverFromXPub restores a deriver from its serialized account node.
func HDDeriverFromXPub(xpub string) (*HDDeriver, error) {
	key, err := ParseExtendedKey(xpub)
	if err != nil {
		return nil, err
	}
	return &HDDeriver{account: key.Neuter()}, nil
}

// XPub returns the serialized public account node.
func (d *HDDeriver) XPub() string {
	return d.account.String()
}

// Derive returns the account at m/44'/8888'/0'/0/index.
func (d *HDDeriver) Derive(index uint32) (Account, error) {
	key, err := d.account.DerivePath(ChangeExternal, index)
	if err != nil {
		return Account{}, err
	}
	pub := key.PublicKeyBytes()
	if err := crypto.ValidatePublicKey(pub); err != nil {
		return Account{}, err
	}
	return Account{
		Index:     index,
		Name:      DefaultAccountName(index),
		Address:   key.Address().String(),
		PublicKey: append([]byte(nil), pub...),
	}, nil
}

// signingKey re-derives the private key for account index from the phrase.
// The caller must Zero the returned key.
func signingKey(p Phrase, index uint32) (*crypto.PrivateKey, error) {
	master, err := NewMasterKey(SeedFromPhrase(p))
	if err != nil {
		return nil, err
	}
	key, err := master.DerivePath(PurposeBIP44, CoinTypeKlingnet, bip32.FirstHardenedChild, ChangeExternal, index)
	if err != nil {
		return nil, err
	}
	return key.Signer()
}
