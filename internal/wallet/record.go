package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Klingon-tech/klingnet-wallet/pkg/tx"
	"github.com/google/uuid"
)

// RecordVersion is the current persisted wallet format.
const RecordVersion = 1

// Record is the persisted form of a Wallet. It holds no plaintext secret:
// the phrase is inside Keystore.EncryptedSecret and AccountXPub is public.
type Record struct {
	Version     int               `json:"version"`
	ID          string            `json:"id"`
	CreatedAt   int64             `json:"created_at"` // unix seconds
	Keystore    KeystoreRecord    `json:"keystore"`
	Derivation  DerivationMode    `json:"derivation"`
	AccountXPub string            `json:"account_xpub,omitempty"`
	Accounts    []Account         `json:"accounts"`
	Active      uint32            `json:"active_account"`
	Balance     uint64            `json:"balance"`
	History     []*tx.Transaction `json:"history"`
}

// Record returns the persisted form of w.
func (w *Wallet) Record() Record {
	return Record{
		Version:     RecordVersion,
		ID:          w.id,
		CreatedAt:   w.createdAt.Unix(),
		Keystore:    w.keystore.Record(),
		Derivation:  w.derivation,
		AccountXPub: w.accountXPub,
		Accounts:    w.Accounts(),
		Active:      w.active,
		Balance:     w.balance,
		History:     w.History(),
	}
}

// FromRecord restores a wallet. Every account is re-derived and must match
// the stored address and public key. opts supplies the password policy and
// clock; the derivation mode comes from the record.
func FromRecord(rec Record, opts Options) (*Wallet, error) {
	if rec.Version != RecordVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidRecord, rec.Version)
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrInvalidRecord, err)
	}
	ks, err := KeystoreFromRecord(rec.Keystore)
	if err != nil {
		return nil, err
	}
	mode, err := ParseDerivationMode(string(rec.Derivation))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	w := &Wallet{
		id:         rec.ID,
		createdAt:  time.Unix(rec.CreatedAt, 0).UTC(),
		keystore:   ks,
		policy:     opts.Keystore.policy(),
		derivation: mode,
		builder:    tx.NewBuilder(opts.Now),
		balance:    rec.Balance,
	}

	switch mode {
	case DerivationHD:
		if rec.AccountXPub == "" {
			return nil, fmt.Errorf("%w: missing account xpub", ErrInvalidRecord)
		}
		d, err := HDDeriverFromXPub(rec.AccountXPub)
		if err != nil {
			return nil, fmt.Errorf("%w: account xpub: %v", ErrInvalidRecord, err)
		}
		w.deriver = d
		w.accountXPub = rec.AccountXPub
	default:
		w.deriver = IndexDeriver{}
	}

	if len(rec.Accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts", ErrInvalidRecord)
	}
	for i, stored := range rec.Accounts {
		if stored.Index != uint32(i) {
			return nil, fmt.Errorf("%w: account %d has index %d", ErrInvalidRecord, i, stored.Index)
		}
		derived, err := w.deriver.Derive(stored.Index)
		if err != nil {
			return nil, fmt.Errorf("%w: derive account %d: %v", ErrInvalidRecord, i, err)
		}
		if derived.Address != stored.Address || !bytes.Equal(derived.PublicKey, stored.PublicKey) {
			return nil, fmt.Errorf("%w: account %d does not match its derivation", ErrInvalidRecord, i)
		}
		if stored.Name != "" {
			derived.Name = stored.Name
		}
		derived.Balance = stored.Balance
		w.accounts = append(w.accounts, derived)
	}
	if int(rec.Active) >= len(w.accounts) {
		return nil, fmt.Errorf("%w: active account %d out of range", ErrInvalidRecord, rec.Active)
	}
	w.active = rec.Active

	history, err := tx.NewHistory(rec.History)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	w.history = history
	return w, nil
}

// MarshalRecord encodes w as JSON.
func MarshalRecord(w *Wallet) ([]byte, error) {
	return json.Marshal(w.Record())
}

// UnmarshalRecord decodes and restores a wallet from JSON.
func UnmarshalRecord(data []byte, opts Options) (*Wallet, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return FromRecord(rec, opts)
}
