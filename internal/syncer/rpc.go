package syncer

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// MethodSync is the JSON-RPC method a snapshot is sent with.
const MethodSync = "wallet_sync"

// RPC syncs through a JSON-RPC backend.
type RPC struct {
	lastSync
	client *rpcclient.Client
}

// NewRPC returns a syncer that calls MethodSync on client.
func NewRPC(client *rpcclient.Client) *RPC {
	return &RPC{client: client}
}

// Sync sends snap and discards the backend's update.
func (r *RPC) Sync(ctx context.Context, snap wallet.Snapshot) error {
	_, err := r.SyncUpdate(ctx, snap)
	return err
}

// SyncUpdate sends snap and returns what the backend reports back.
func (r *RPC) SyncUpdate(ctx context.Context, snap wallet.Snapshot) (Update, error) {
	var upd Update
	if err := r.client.CallContext(ctx, MethodSync, []any{snap}, &upd); err != nil {
		log.Sync.Warn().
			Str("wallet_id", snap.WalletID).
			Str("endpoint", r.client.Endpoint()).
			Err(err).
			Msg("Sync failed")
		return Update{}, fmt.Errorf("%w: %s: %w", ErrSync, MethodSync, err)
	}
	r.mark()
	log.Sync.Debug().
		Str("wallet_id", snap.WalletID).
		Int("confirmed", len(upd.Confirmed)).
		Int("failed", len(upd.Failed)).
		Msg("Sync complete")
	return upd, nil
}
