// Package config handles wallet application configuration.
//
// Values are layered: defaults, then the config file, then
// KLINGNET_WALLET_* environment variables, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds the wallet's runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Keystore and account derivation
	Wallet WalletConfig

	// Ledger sync backend
	Sync SyncConfig

	// Logging
	Log LogConfig
}

// WalletConfig holds keystore and derivation settings.
type WalletConfig struct {
	Derivation     string `conf:"wallet.derivation"` // hd or index
	WordlistFile   string `conf:"wallet.wordlist"`   // empty uses BIP-39 English
	Default        string `conf:"wallet.default"`    // wallet ID used when none is given
	KDFMemory      uint32 `conf:"wallet.kdf.memory"` // KiB
	KDFIterations  uint32 `conf:"wallet.kdf.iterations"`
	KDFParallelism uint8  `conf:"wallet.kdf.parallelism"`
}

// SyncConfig holds sync backend settings.
type SyncConfig struct {
	Enabled bool          `conf:"sync.enabled"`
	RPCURL  string        `conf:"sync.rpc"`
	Timeout time.Duration `conf:"sync.timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-wallet
//	macOS:   ~/Library/Application Support/KlingnetWallet
//	Windows: %APPDATA%\KlingnetWallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-wallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetWallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetWallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetWallet")
	default:
		return filepath.Join(home, ".klingnet-wallet")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// WalletDBDir returns the wallet database directory.
func (c *Config) WalletDBDir() string {
	return filepath.Join(c.NetworkDataDir(), "wallets")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "klingnet-wallet.conf")
}
