package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--testnet", "--wallet", "abc", "--sync=false", "send", "KADDR", "100", "1"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.Network != "testnet" {
		t.Errorf("Network = %q", f.Network)
	}
	if f.WalletID != "abc" {
		t.Errorf("WalletID = %q", f.WalletID)
	}
	if !f.SetSync || f.Sync {
		t.Errorf("SetSync=%v Sync=%v", f.SetSync, f.Sync)
	}
	if f.Command != "send" {
		t.Errorf("Command = %q", f.Command)
	}
	if strings.Join(f.Args, " ") != "KADDR 100 1" {
		t.Errorf("Args = %v", f.Args)
	}
}

func TestParseFlags_Help(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		f, err := ParseFlags([]string{arg})
		if err != nil {
			t.Fatalf("ParseFlags(%s) error: %v", arg, err)
		}
		if !f.Help {
			t.Errorf("ParseFlags(%s).Help = false", arg)
		}
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := [][]string{
		{"--no-such-flag"},
		{"create", "--testnet"},
	}
	for _, args := range tests {
		if _, err := ParseFlags(args); err == nil {
			t.Errorf("ParseFlags(%v): expected error", args)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultMainnet()
	cfg.Log.JSON = true
	ApplyFlags(cfg, &Flags{
		Network:    "TESTNET",
		Derivation: "index",
		WalletID:   "w1",
		SyncRPC:    "http://node:1",
		LogJSON:    false,
		SetLogJSON: true,
	})
	if cfg.Network != Testnet || cfg.Wallet.Derivation != "index" || cfg.Wallet.Default != "w1" {
		t.Errorf("core/wallet flags not applied: %+v", cfg)
	}
	if cfg.Sync.RPCURL != "http://node:1" {
		t.Errorf("RPCURL = %q", cfg.Sync.RPCURL)
	}
	if cfg.Log.JSON {
		t.Error("explicit --log-json=false not applied")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "custom.conf")
	content := "wallet.derivation = index\nlog.level = info\nsync.timeout = 7s\n"
	if err := os.WriteFile(conf, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KLINGNET_WALLET_LOG_LEVEL", "error")

	cfg, flags, err := Load([]string{"--datadir", dir, "-c", conf, "--testnet", "--log-level", "debug", "balance"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if flags.Command != "balance" {
		t.Errorf("Command = %q", flags.Command)
	}
	if cfg.Network != Testnet || cfg.DataDir != dir {
		t.Errorf("network=%q datadir=%q", cfg.Network, cfg.DataDir)
	}
	if cfg.Wallet.Derivation != "index" {
		t.Errorf("file value not applied: derivation = %q", cfg.Wallet.Derivation)
	}
	if cfg.Sync.Timeout.String() != "7s" {
		t.Errorf("file value not applied: timeout = %v", cfg.Sync.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("flag should beat env and file: level = %q", cfg.Log.Level)
	}
	if _, err := os.Stat(cfg.WalletDBDir()); err != nil {
		t.Errorf("wallet db dir not created: %v", err)
	}
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "klingnet-wallet.conf"), []byte("log.level = info\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KLINGNET_WALLET_LOG_LEVEL", "error")

	cfg, _, err := Load([]string{"--datadir", dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("level = %q, want error", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := Load([]string{"--datadir", dir, "--derivation", "bip44"}); err == nil {
		t.Fatal("expected invalid config error")
	}
}

func TestLoad_Help(t *testing.T) {
	cfg, flags, err := Load([]string{"--help"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != nil || !flags.Help {
		t.Errorf("cfg=%v help=%v", cfg, flags.Help)
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, cmd := range []string{"create", "import", "export", "send", "sync", "KLINGNET_WALLET_"} {
		if !strings.Contains(buf.String(), cmd) {
			t.Errorf("usage missing %q", cmd)
		}
	}
}
