// Package tx defines value-transfer transactions and their construction.
package tx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/Klingon-tech/klingnet-wallet/pkg/crypto"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// IDPrefix is prepended to the hex transaction ID.
const IDPrefix = "tx_"

// Domain tags for transaction hashing.
const (
	idTag      = "klingnet-wallet/tx/id/v1"
	signingTag = "klingnet-wallet/tx/signing/v1"
)

// Transaction is a transfer from one account address to a recipient.
type Transaction struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Fee       uint64 `json:"fee"`
	Status    Status `json:"status"`
	Timestamp int64  `json:"timestamp"` // unix seconds
	PubKey    []byte `json:"pubkey,omitempty"`
	Signature []byte `json:"signature,omitempty"`
}

// ComputeID returns the content ID of a transfer: a BLAKE3 hash of
// (from, to, amount). Fee and time are not part of it, so repeating the
// same transfer yields the same ID.
func ComputeID(from, to string, amount uint64) string {
	var amt [8]byte
	binary.LittleEndian.PutUint64(amt[:], amount)
	h := crypto.TaggedHash(idTag, []byte(from), []byte(to), amt[:])
	return IDPrefix + h.String()
}

// Total returns Amount + Fee. Transactions from Build never overflow.
func (tx *Transaction) Total() uint64 {
	return tx.Amount + tx.Fee
}

// Time returns the creation timestamp.
func (tx *Transaction) Time() time.Time {
	return time.Unix(tx.Timestamp, 0).UTC()
}

// SetStatus moves the transaction to next. Pending may become Confirmed or
// Failed; both are terminal.
func (tx *Transaction) SetStatus(next Status) error {
	if !tx.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, tx.Status, next)
	}
	tx.Status = next
	return nil
}

// SigningBytes returns the canonical byte representation used for signing.
// Format: len-prefixed id | from | to, then amount(8) | fee(8) | timestamp(8).
func (tx *Transaction) SigningBytes() []byte {
	var buf []byte
	for _, s := range []string{tx.ID, tx.From, tx.To} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
		buf = append(buf, s...)
	}
	buf = binary.LittleEndian.AppendUint64(buf, tx.Amount)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Fee)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(tx.Timestamp))
	return buf
}

// Hash returns the signing hash. Status and signature are excluded.
func (tx *Transaction) Hash() types.Hash {
	return crypto.TaggedHash(signingTag, tx.SigningBytes())
}

// Sign attaches signer's signature and public key.
func (tx *Transaction) Sign(signer crypto.Signer) error {
	hash := tx.Hash()
	sig, err := signer.Sign(hash[:])
	if err != nil {
		return fmt.Errorf("sign tx: %w", err)
	}
	tx.Signature = sig
	tx.PubKey = signer.PublicKey()
	return nil
}

// IsSigned reports whether a signature is attached.
func (tx *Transaction) IsSigned() bool {
	return len(tx.Signature) > 0
}

// Verify checks the attached signature, and that the public key hashes to
// From when From is an address.
func (tx *Transaction) Verify() error {
	if !tx.IsSigned() || len(tx.PubKey) == 0 {
		return fmt.Errorf("%w: missing signature", ErrInvalidTransaction)
	}
	hash := tx.Hash()
	if !crypto.VerifySignature(hash[:], tx.Signature, tx.PubKey) {
		return fmt.Errorf("%w: bad signature", ErrInvalidTransaction)
	}
	if from, _, err := types.ParseAddress(tx.From); err == nil {
		if crypto.AddressFromPubKey(tx.PubKey) != from {
			return fmt.Errorf("%w: public key does not match sender", ErrInvalidTransaction)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (tx *Transaction) Clone() *Transaction {
	c := *tx
	c.PubKey = bytes.Clone(tx.PubKey)
	c.Signature = bytes.Clone(tx.Signature)
	return &c
}
