// Package session holds the single wallet an application works with and
// serializes access to it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/syncer"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/pkg/tx"
)

// ErrNoWalletLoaded is returned by every wallet operation while no wallet
// is loaded.
var ErrNoWalletLoaded = errors.New("no wallet loaded")

// Config wires a Session to its collaborators. Store and Syncer are optional.
type Config struct {
	Wallet wallet.Options
	Store  *wallet.Store
	Syncer syncer.Syncer
}

// Info summarizes the loaded wallet.
type Info struct {
	ID            string                `json:"id"`
	CreatedAt     time.Time             `json:"created_at"`
	Derivation    wallet.DerivationMode `json:"derivation"`
	ActiveAccount wallet.Account        `json:"active_account"`
	Accounts      int                   `json:"accounts"`
	Balance       uint64                `json:"balance"`
	Pending       int                   `json:"pending"`
}

// Session owns at most one wallet. Reads take a shared lock; creation,
// import, export and mutations take an exclusive lock. Mutations are
// persisted to the Store, when configured, before the lock is released.
type Session struct {
	mu     sync.RWMutex
	w      *wallet.Wallet
	opts   wallet.Options
	store  *wallet.Store
	syncer syncer.Syncer
}

// New returns an empty session. A nil Syncer is replaced by syncer.Nop.
func New(cfg Config) *Session {
	s := cfg.Syncer
	if s == nil {
		s = syncer.NewNop(cfg.Wallet.Now)
	}
	return &Session{
		opts:   cfg.Wallet,
		store:  cfg.Store,
		syncer: s,
	}
}

// Create generates a new wallet and makes it the loaded one and the
// Store's default.
func (s *Session) Create(password string) (Info, error) {
	done := log.Benchmark(log.Session, "create")
	defer done()

	w, err := wallet.New(password, s.opts)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveDefault(w); err != nil {
		return Info{}, err
	}
	s.w = w
	log.WithWallet(log.Session, w.ID()).Info().
		Str("derivation", string(w.Derivation())).
		Msg("Wallet created")
	return infoOf(w), nil
}

// Import restores a wallet from a recovery phrase and makes it the loaded
// one and the Store's default.
func (s *Session) Import(phrase, password string) (Info, error) {
	done := log.Benchmark(log.Session, "import")
	defer done()

	w, err := wallet.Import(phrase, password, s.opts)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveDefault(w); err != nil {
		return Info{}, err
	}
	s.w = w
	log.WithWallet(log.Session, w.ID()).Info().Msg("Wallet imported")
	return infoOf(w), nil
}

// Load reads a wallet from the Store and makes it the loaded one.
func (s *Session) Load(id string) (Info, error) {
	if s.store == nil {
		return Info{}, fmt.Errorf("load wallet %s: no store configured", id)
	}
	w, err := s.store.Load(id)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
	log.WithWallet(log.Session, id).Debug().Msg("Wallet loaded")
	return infoOf(w), nil
}

// Unload drops the loaded wallet.
func (s *Session) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = nil
}

// Loaded reports whether a wallet is loaded.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w != nil
}

// Info summarizes the loaded wallet.
func (s *Session) Info() (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.w == nil {
		return Info{}, ErrNoWalletLoaded
	}
	return infoOf(s.w), nil
}

// Balance returns the loaded wallet's balance.
func (s *Session) Balance() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.w == nil {
		return 0, ErrNoWalletLoaded
	}
	return s.w.Balance(), nil
}

// Accounts returns the loaded wallet's accounts.
func (s *Session) Accounts() ([]wallet.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.w == nil {
		return nil, ErrNoWalletLoaded
	}
	return s.w.Accounts(), nil
}

// ActiveAccount returns the loaded wallet's active account.
func (s *Session) ActiveAccount() (wallet.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.w == nil {
		return wallet.Account{}, ErrNoWalletLoaded
	}
	return s.w.ActiveAccount(), nil
}

// History returns the loaded wallet's transactions, oldest first.
func (s *Session) History() ([]*tx.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.w == nil {
		return nil, ErrNoWalletLoaded
	}
	return s.w.History(), nil
}

// CreateTransaction builds a pending transfer without recording it.
func (s *Session) CreateTransaction(recipient string, amount, fee uint64) (*tx.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.w == nil {
		return nil, ErrNoWalletLoaded
	}
	return s.w.CreateTransaction(recipient, amount, fee)
}

// SetBalance replaces the loaded wallet's balance.
func (s *Session) SetBalance(balance uint64) error {
	return s.update(func(w *wallet.Wallet) error {
		w.SetBalance(balance)
		return nil
	})
}

// AddAccount derives the next account of the loaded wallet.
func (s *Session) AddAccount(name string) (wallet.Account, error) {
	var acct wallet.Account
	err := s.update(func(w *wallet.Wallet) error {
		var err error
		acct, err = w.AddAccount(name)
		return err
	})
	return acct, err
}

// RenameAccount changes an account's name.
func (s *Session) RenameAccount(index uint32, name string) error {
	return s.update(func(w *wallet.Wallet) error {
		return w.RenameAccount(index, name)
	})
}

// SetActiveAccount switches the active account.
func (s *Session) SetActiveAccount(index uint32) error {
	return s.update(func(w *wallet.Wallet) error {
		return w.SetActiveAccount(index)
	})
}

// AddTransaction records a transaction in the loaded wallet's history.
func (s *Session) AddTransaction(t *tx.Transaction) error {
	return s.update(func(w *wallet.Wallet) error {
		return w.AddTransaction(t)
	})
}

// UpdateTransactionStatus settles a pending transaction.
func (s *Session) UpdateTransactionStatus(id string, status tx.Status) (*tx.Transaction, error) {
	var settled *tx.Transaction
	err := s.update(func(w *wallet.Wallet) error {
		var err error
		settled, err = w.UpdateTransactionStatus(id, status)
		return err
	})
	return settled, err
}

// Send builds a transfer from the active account, signs it when the wallet
// has signing keys, and records it as pending.
func (s *Session) Send(recipient string, amount, fee uint64, password string) (*tx.Transaction, error) {
	var out *tx.Transaction
	err := s.update(func(w *wallet.Wallet) error {
		t, err := w.CreateTransaction(recipient, amount, fee)
		if err != nil {
			return err
		}
		if w.Derivation() == wallet.DerivationHD {
			if err := w.SignTransaction(t, password); err != nil {
				return err
			}
		} else if _, err := w.ExportPhrase(password); err != nil {
			// No keys to sign with, but the password still gates spending.
			return err
		}
		if err := w.AddTransaction(t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Session.Info().
		Str("tx_id", out.ID).
		Uint64("amount", out.Amount).
		Uint64("fee", out.Fee).
		Msg("Transaction created")
	return out, nil
}

// ExportPhrase decrypts the loaded wallet's recovery phrase.
func (s *Session) ExportPhrase(password string) (wallet.Phrase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return wallet.Phrase{}, ErrNoWalletLoaded
	}
	p, err := s.w.ExportPhrase(password)
	if err != nil {
		log.WithWallet(log.Session, s.w.ID()).Warn().Msg("Phrase export rejected")
		return wallet.Phrase{}, err
	}
	return p, nil
}

// ChangePassword re-encrypts the loaded wallet's keystore.
func (s *Session) ChangePassword(oldPassword, newPassword string) error {
	return s.update(func(w *wallet.Wallet) error {
		return w.ChangePassword(oldPassword, newPassword)
	})
}

// Sync pushes a snapshot of the loaded wallet to the syncer and applies
// any update it returns. The lock is not held while the syncer runs.
func (s *Session) Sync(ctx context.Context) error {
	s.mu.RLock()
	if s.w == nil {
		s.mu.RUnlock()
		return ErrNoWalletLoaded
	}
	id := s.w.ID()
	snap := s.w.Snapshot()
	s.mu.RUnlock()

	us, ok := s.syncer.(syncer.UpdateSyncer)
	if !ok {
		return s.syncer.Sync(ctx, snap)
	}
	upd, err := us.SyncUpdate(ctx, snap)
	if err != nil || upd.Empty() {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil || s.w.ID() != id {
		// A different wallet was loaded while syncing.
		return nil
	}
	return s.commit(func(w *wallet.Wallet) error {
		applyUpdate(w, upd)
		return nil
	})
}

// LastSync returns when the syncer last succeeded.
func (s *Session) LastSync() time.Time {
	return s.syncer.LastSync()
}

// applyUpdate takes the backend balance first and then records the
// backend's settlements. A reported balance already accounts for confirmed
// spends, so confirmations are only debited locally when no balance came
// with them.
func applyUpdate(w *wallet.Wallet, upd syncer.Update) {
	l := log.WithWallet(log.Sync, w.ID())
	confirm := w.UpdateTransactionStatus
	if upd.Balance != nil {
		w.SetBalance(*upd.Balance)
		confirm = func(id string, _ tx.Status) (*tx.Transaction, error) {
			return w.MarkConfirmed(id)
		}
	}
	settle := func(ids []string, status tx.Status, apply func(string, tx.Status) (*tx.Transaction, error)) {
		for _, id := range ids {
			if _, err := apply(id, status); err != nil {
				l.Warn().Str("tx_id", id).Str("status", status.String()).Err(err).Msg("Ignoring sync update")
			}
		}
	}
	settle(upd.Confirmed, tx.StatusConfirmed, confirm)
	settle(upd.Failed, tx.StatusFailed, w.UpdateTransactionStatus)
}

// update runs fn on the loaded wallet under the write lock and persists
// the result if fn succeeds.
func (s *Session) update(fn func(w *wallet.Wallet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return ErrNoWalletLoaded
	}
	return s.commit(fn)
}

// commit applies fn to a copy of the loaded wallet and swaps the copy in
// only once it is saved. On any error the loaded wallet is unchanged.
// Callers hold the write lock.
func (s *Session) commit(fn func(w *wallet.Wallet) error) error {
	next := s.w.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.w = next
	return nil
}

func (s *Session) save(w *wallet.Wallet) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(w); err != nil {
		log.WithWallet(log.Session, w.ID()).Error().Err(err).Msg("Failed to persist wallet")
		return err
	}
	return nil
}

func (s *Session) saveDefault(w *wallet.Wallet) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveDefault(w); err != nil {
		log.WithWallet(log.Session, w.ID()).Error().Err(err).Msg("Failed to persist wallet")
		return err
	}
	return nil
}

func infoOf(w *wallet.Wallet) Info {
	pending := 0
	for _, t := range w.History() {
		if t.Status == tx.StatusPending {
			pending++
		}
	}
	return Info{
		ID:            w.ID(),
		CreatedAt:     w.CreatedAt(),
		Derivation:    w.Derivation(),
		ActiveAccount: w.ActiveAccount(),
		Accounts:      len(w.Accounts()),
		Balance:       w.Balance(),
		Pending:       pending,
	}
}
