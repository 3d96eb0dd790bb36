package wallet

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
)

// ErrWalletNotFound is returned when no record exists for a wallet ID.
var ErrWalletNotFound = errors.New("wallet not found")

var (
	// storePrefix namespaces wallet records inside a shared database.
	storePrefix = []byte("wallet/")
	// defaultKey holds the ID of the default wallet.
	defaultKey = []byte("meta/default")
)

// Store persists wallet records as JSON keyed by wallet ID, plus a pointer
// to the default wallet. Writes that touch both go through one batch.
type Store struct {
	raw     storage.DB
	wallets *storage.PrefixDB
	opts    Options
}

// NewStore returns a Store over db. opts is applied to loaded wallets.
func NewStore(db storage.DB, opts Options) *Store {
	return &Store{
		raw:     db,
		wallets: storage.NewPrefixDB(db, storePrefix),
		opts:    opts,
	}
}

// Save writes w, replacing any previous record with the same ID.
func (s *Store) Save(w *Wallet) error {
	data, err := MarshalRecord(w)
	if err != nil {
		return fmt.Errorf("encode wallet %s: %w", w.ID(), err)
	}
	if err := s.wallets.Put([]byte(w.ID()), data); err != nil {
		return fmt.Errorf("save wallet %s: %w", w.ID(), err)
	}
	log.Storage.Debug().Str("wallet_id", w.ID()).Int("bytes", len(data)).Msg("Wallet saved")
	return nil
}

// SaveDefault writes w and makes it the default wallet in one batch.
func (s *Store) SaveDefault(w *Wallet) error {
	data, err := MarshalRecord(w)
	if err != nil {
		return fmt.Errorf("encode wallet %s: %w", w.ID(), err)
	}
	b := storage.NewBatch(s.raw)
	if err := b.Put(s.wallets.Key([]byte(w.ID())), data); err != nil {
		return fmt.Errorf("save wallet %s: %w", w.ID(), err)
	}
	if err := b.Put(defaultKey, []byte(w.ID())); err != nil {
		return fmt.Errorf("save wallet %s: %w", w.ID(), err)
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("save wallet %s: %w", w.ID(), err)
	}
	log.Storage.Debug().Str("wallet_id", w.ID()).Int("bytes", len(data)).Msg("Wallet saved as default")
	return nil
}

// Default returns the default wallet ID, or "" when none is set.
func (s *Store) Default() (string, error) {
	id, err := s.raw.Get(defaultKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read default wallet: %w", err)
	}
	return string(id), nil
}

// SetDefault makes the stored wallet id the default.
func (s *Store) SetDefault(id string) error {
	ok, err := s.Has(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrWalletNotFound, id)
	}
	if err := s.raw.Put(defaultKey, []byte(id)); err != nil {
		return fmt.Errorf("set default wallet %s: %w", id, err)
	}
	log.Storage.Info().Str("wallet_id", id).Msg("Default wallet set")
	return nil
}

// Load reads and validates the wallet with the given ID.
func (s *Store) Load(id string) (*Wallet, error) {
	data, err := s.wallets.Get([]byte(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load wallet %s: %w", id, err)
	}
	w, err := UnmarshalRecord(data, s.opts)
	if err != nil {
		log.Storage.Warn().Str("wallet_id", id).Err(err).Msg("Stored wallet is invalid")
		return nil, err
	}
	if w.ID() != id {
		return nil, fmt.Errorf("%w: stored under %s but has id %s", ErrInvalidRecord, id, w.ID())
	}
	return w, nil
}

// List returns the IDs of all stored wallets in key order.
func (s *Store) List() ([]string, error) {
	var ids []string
	err := s.wallets.ForEach(nil, func(key, _ []byte) error {
		ids = append(ids, string(key))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return ids, nil
}

// Has reports whether a wallet with the given ID is stored.
func (s *Store) Has(id string) (bool, error) {
	return s.wallets.Has([]byte(id))
}

// Delete removes a stored wallet, and the default pointer with it when it
// names that wallet. Deleting an unknown ID is an error.
func (s *Store) Delete(id string) error {
	ok, err := s.Has(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrWalletNotFound, id)
	}
	def, err := s.Default()
	if err != nil {
		return err
	}

	b := storage.NewBatch(s.raw)
	if err := b.Delete(s.wallets.Key([]byte(id))); err != nil {
		return fmt.Errorf("delete wallet %s: %w", id, err)
	}
	if def == id {
		if err := b.Delete(defaultKey); err != nil {
			return fmt.Errorf("delete wallet %s: %w", id, err)
		}
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("delete wallet %s: %w", id, err)
	}
	log.Storage.Info().Str("wallet_id", id).Bool("was_default", def == id).Msg("Wallet deleted")
	return nil
}
