package config

import (
	"testing"
	"time"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("KLINGNET_WALLET_NETWORK", "testnet")
	t.Setenv("KLINGNET_WALLET_DERIVATION", "index")
	t.Setenv("KLINGNET_WALLET_KDF_ITERATIONS", "5")
	t.Setenv("KLINGNET_WALLET_SYNC", "true")
	t.Setenv("KLINGNET_WALLET_SYNC_TIMEOUT", "30s")
	t.Setenv("KLINGNET_WALLET_LOG_LEVEL", "debug")

	cfg := DefaultMainnet()
	wantRPC := cfg.Sync.RPCURL
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("Network = %q", cfg.Network)
	}
	if cfg.Wallet.Derivation != "index" {
		t.Errorf("Derivation = %q", cfg.Wallet.Derivation)
	}
	if cfg.Wallet.KDFIterations != 5 {
		t.Errorf("KDFIterations = %d", cfg.Wallet.KDFIterations)
	}
	if cfg.Wallet.KDFMemory != DefaultMainnet().Wallet.KDFMemory {
		t.Errorf("unset KDFMemory changed to %d", cfg.Wallet.KDFMemory)
	}
	if !cfg.Sync.Enabled || cfg.Sync.Timeout != 30*time.Second {
		t.Errorf("Sync = %+v", cfg.Sync)
	}
	if cfg.Sync.RPCURL != wantRPC {
		t.Errorf("unset RPCURL changed to %q", cfg.Sync.RPCURL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestApplyEnv_IgnoresUnprefixed(t *testing.T) {
	t.Setenv("LOG_LEVEL", "trace")
	t.Setenv("NETWORK", "testnet")

	cfg := DefaultMainnet()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Network != Mainnet {
		t.Errorf("unprefixed variables applied: level=%q network=%q", cfg.Log.Level, cfg.Network)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("KLINGNET_WALLET_KDF_MEMORY", "plenty")
	if err := ApplyEnv(DefaultMainnet()); err == nil {
		t.Fatal("expected error for a non-numeric value")
	}
}
