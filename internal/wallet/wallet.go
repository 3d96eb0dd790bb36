package wallet

import (
	"fmt"
	"strings"
	"time"

	"github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/pkg/tx"
	"github.com/google/uuid"
)

// Options configures wallet creation and restore.
type Options struct {
	Keystore   KeystoreOptions
	Derivation DerivationMode   // empty means DerivationHD
	Now        func() time.Time // nil means time.Now
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Wallet owns one keystore, its derived accounts, a balance and a
// transaction history. It is not safe for concurrent use; session.Session
// provides locking.
type Wallet struct {
	id        string
	createdAt time.Time

	keystore    *Keystore
	policy      PasswordPolicy
	derivation  DerivationMode
	accountXPub string // HD mode only
	deriver     AccountDeriver
	builder     *tx.Builder

	accounts []Account
	active   uint32
	balance  uint64
	history  *tx.History
}

// New creates a wallet with a freshly generated recovery phrase and its
// first account.
func New(password string, opts Options) (*Wallet, error) {
	mode, err := ParseDerivationMode(string(opts.Derivation))
	if err != nil {
		return nil, err
	}
	ks, phrase, err := createKeystore(password, opts.Keystore)
	if err != nil {
		return nil, err
	}
	return newWallet(ks, phrase, mode, opts)
}

// Import restores a wallet from an existing recovery phrase.
func Import(phrase, password string, opts Options) (*Wallet, error) {
	mode, err := ParseDerivationMode(string(opts.Derivation))
	if err != nil {
		return nil, err
	}
	ks, p, err := importKeystore(phrase, password, opts.Keystore)
	if err != nil {
		return nil, err
	}
	return newWallet(ks, p, mode, opts)
}

func newWallet(ks *Keystore, phrase Phrase, mode DerivationMode, opts Options) (*Wallet, error) {
	w := &Wallet{
		id:         uuid.NewString(),
		createdAt:  opts.now().UTC().Truncate(time.Second),
		keystore:   ks,
		policy:     opts.Keystore.policy(),
		derivation: mode,
		builder:    tx.NewBuilder(opts.Now),
		history:    &tx.History{},
	}

	switch mode {
	case DerivationHD:
		d, err := NewHDDeriver(phrase)
		if err != nil {
			return nil, err
		}
		w.deriver = d
		w.accountXPub = d.XPub()
	default:
		w.deriver = IndexDeriver{}
	}

	if _, err := w.AddAccount(""); err != nil {
		return nil, err
	}
	return w, nil
}

// ID returns the wallet's immutable identifier.
func (w *Wallet) ID() string { return w.id }

// CreatedAt returns the creation time.
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }

// Derivation returns the account derivation mode.
func (w *Wallet) Derivation() DerivationMode { return w.derivation }

// Keystore returns the wallet's keystore.
func (w *Wallet) Keystore() *Keystore { return w.keystore }

// Balance returns the spendable balance in base units.
func (w *Wallet) Balance() uint64 { return w.balance }

// SetBalance replaces the balance, typically with a value from sync.
func (w *Wallet) SetBalance(balance uint64) { w.balance = balance }

// Clone returns a copy of w that shares no mutable state with it. The
// account deriver is read-only and stays shared.
func (w *Wallet) Clone() *Wallet {
	c := *w
	c.keystore = w.keystore.clone()
	c.accounts = w.Accounts()
	c.history = w.history.Clone()
	return &c
}

// Accounts returns copies of all accounts in index order.
func (w *Wallet) Accounts() []Account {
	out := make([]Account, len(w.accounts))
	for i, a := range w.accounts {
		out[i] = a.clone()
	}
	return out
}

// Account returns a copy of the account at index.
func (w *Wallet) Account(index uint32) (Account, error) {
	if int(index) >= len(w.accounts) {
		return Account{}, fmt.Errorf("%w: index %d", ErrAccountNotFound, index)
	}
	return w.accounts[index].clone(), nil
}

// ActiveAccount returns a copy of the active account.
func (w *Wallet) ActiveAccount() Account {
	return w.accounts[w.active].clone()
}

// ActiveIndex returns the index of the active account.
func (w *Wallet) ActiveIndex() uint32 { return w.active }

// SetActiveAccount makes index the active account.
func (w *Wallet) SetActiveAccount(index uint32) error {
	if int(index) >= len(w.accounts) {
		return fmt.Errorf("%w: index %d", ErrAccountNotFound, index)
	}
	w.active = index
	return nil
}

// AddAccount derives the next account. An empty name gets the default.
func (w *Wallet) AddAccount(name string) (Account, error) {
	index := uint32(len(w.accounts))
	acct, err := w.deriver.Derive(index)
	if err != nil {
		return Account{}, fmt.Errorf("derive account %d: %w", index, err)
	}
	if name = strings.TrimSpace(name); name != "" {
		acct.Name = name
	}
	w.accounts = append(w.accounts, acct)
	log.WithWallet(log.Wallet, w.id).Debug().Uint32("index", index).Str("address", acct.Address).Msg("Account derived")
	return acct.clone(), nil
}

// RenameAccount changes an account's display name.
func (w *Wallet) RenameAccount(index uint32, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if int(index) >= len(w.accounts) {
		return fmt.Errorf("%w: index %d", ErrAccountNotFound, index)
	}
	w.accounts[index].Name = name
	return nil
}

// SetAccountBalance records the balance reported for one account.
func (w *Wallet) SetAccountBalance(index uint32, balance uint64) error {
	if int(index) >= len(w.accounts) {
		return fmt.Errorf("%w: index %d", ErrAccountNotFound, index)
	}
	w.accounts[index].Balance = balance
	return nil
}

// CreateTransaction builds a pending transfer from the active account
// against the wallet balance. Neither balance nor history change.
func (w *Wallet) CreateTransaction(recipient string, amount, fee uint64) (*tx.Transaction, error) {
	src := tx.Source{
		From:    w.accounts[w.active].Address,
		Balance: w.balance,
	}
	return w.builder.Build(src, recipient, amount, fee)
}

// SignTransaction signs t with the key of the account it is sent from.
// password unlocks the recovery phrase, which is discarded afterwards.
func (w *Wallet) SignTransaction(t *tx.Transaction, password string) error {
	if w.derivation != DerivationHD {
		return ErrNoSigningKey
	}
	index, ok := w.accountIndex(t.From)
	if !ok {
		return fmt.Errorf("%w: sender %s", ErrAccountNotFound, t.From)
	}
	phrase, err := w.keystore.Export(password)
	if err != nil {
		return err
	}
	key, err := signingKey(phrase, index)
	if err != nil {
		return err
	}
	defer key.Zero()
	return t.Sign(key)
}

func (w *Wallet) accountIndex(address string) (uint32, bool) {
	for _, a := range w.accounts {
		if a.Address == address {
			return a.Index, true
		}
	}
	return 0, false
}

// AddTransaction records t in the history. Pending transfers are not yet
// debited; see UpdateTransactionStatus.
func (w *Wallet) AddTransaction(t *tx.Transaction) error {
	return w.history.Add(t)
}

// UpdateTransactionStatus settles the pending transaction with the given ID.
// Confirming debits Total from the balance and fails with
// tx.ErrInsufficientBalance, leaving everything unchanged, if it cannot.
func (w *Wallet) UpdateTransactionStatus(id string, status tx.Status) (*tx.Transaction, error) {
	if status == tx.StatusConfirmed {
		for _, p := range w.history.Pending() {
			if p.ID == id && p.Total() > w.balance {
				return nil, fmt.Errorf("%w: have %d, need %d", tx.ErrInsufficientBalance, w.balance, p.Total())
			}
		}
	}
	settled, err := w.history.SetStatus(id, status)
	if err != nil {
		return nil, err
	}
	if settled.Status == tx.StatusConfirmed {
		w.balance -= settled.Total()
	}
	return settled, nil
}

// MarkConfirmed moves a pending transaction to Confirmed without touching
// the balance. It is for confirmations reported alongside a balance that
// already reflects the spend.
func (w *Wallet) MarkConfirmed(id string) (*tx.Transaction, error) {
	return w.history.SetStatus(id, tx.StatusConfirmed)
}

// History returns copies of all recorded transactions, oldest first.
func (w *Wallet) History() []*tx.Transaction {
	return w.history.List()
}

// ExportPhrase decrypts the recovery phrase.
func (w *Wallet) ExportPhrase(password string) (Phrase, error) {
	return w.keystore.Export(password)
}

// ChangePassword re-encrypts the keystore under newPassword.
func (w *Wallet) ChangePassword(oldPassword, newPassword string) error {
	return w.keystore.ChangePassword(oldPassword, newPassword, w.policy)
}

// Snapshot is a read-only copy of the wallet state handed to sync.
type Snapshot struct {
	WalletID      string            `json:"wallet_id"`
	ActiveAccount Account           `json:"active_account"`
	Accounts      []Account         `json:"accounts"`
	Balance       uint64            `json:"balance"`
	History       []*tx.Transaction `json:"history"`
}

// Snapshot returns a copy of the state sync consumes.
func (w *Wallet) Snapshot() Snapshot {
	return Snapshot{
		WalletID:      w.id,
		ActiveAccount: w.ActiveAccount(),
		Accounts:      w.Accounts(),
		Balance:       w.balance,
		History:       w.History(),
	}
}
