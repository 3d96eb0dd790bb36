// Package syncer connects a wallet to a ledger backend. Only the snapshot
// handoff is modeled; there is no peer networking.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// ErrSync is returned, wrapped with the cause, when a sync fails.
var ErrSync = errors.New("sync failed")

// Syncer pushes a read-only wallet snapshot to a backend.
type Syncer interface {
	Sync(ctx context.Context, snap wallet.Snapshot) error
	LastSync() time.Time
}

// Update is state a backend reports back after a sync.
type Update struct {
	Balance   *uint64  `json:"balance,omitempty"`
	Confirmed []string `json:"confirmed,omitempty"` // pending IDs now confirmed
	Failed    []string `json:"failed,omitempty"`    // pending IDs now failed
}

// Empty reports whether u carries no changes.
func (u Update) Empty() bool {
	return u.Balance == nil && len(u.Confirmed) == 0 && len(u.Failed) == 0
}

// UpdateSyncer is a Syncer that also returns the backend's Update.
type UpdateSyncer interface {
	Syncer
	SyncUpdate(ctx context.Context, snap wallet.Snapshot) (Update, error)
}

// lastSync records the time of the last successful sync.
type lastSync struct {
	mu  sync.Mutex
	at  time.Time
	now func() time.Time
}

func (l *lastSync) mark() {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	l.mu.Lock()
	l.at = now()
	l.mu.Unlock()
}

// LastSync returns the time of the last successful sync, or the zero time.
func (l *lastSync) LastSync() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.at
}

// Nop accepts every snapshot without contacting anything.
type Nop struct {
	lastSync
}

// NewNop returns a Nop syncer. A nil now uses time.Now.
func NewNop(now func() time.Time) *Nop {
	return &Nop{lastSync{now: now}}
}

// Sync records the sync time. It fails only if ctx is already done.
func (n *Nop) Sync(ctx context.Context, snap wallet.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSync, err)
	}
	n.mark()
	log.Sync.Debug().Str("wallet_id", snap.WalletID).Msg("Sync skipped (no backend)")
	return nil
}
