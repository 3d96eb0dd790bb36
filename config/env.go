package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable the wallet reads.
const EnvPrefix = "KLINGNET_WALLET"

// envConfig mirrors the overridable settings. Keys are spelled out in full
// so unprefixed variables like LOG_LEVEL are never picked up.
type envConfig struct {
	Network        string        `envconfig:"KLINGNET_WALLET_NETWORK"`
	DataDir        string        `envconfig:"KLINGNET_WALLET_DATADIR"`
	Derivation     string        `envconfig:"KLINGNET_WALLET_DERIVATION"`
	WordlistFile   string        `envconfig:"KLINGNET_WALLET_WORDLIST"`
	Default        string        `envconfig:"KLINGNET_WALLET_DEFAULT"`
	KDFMemory      uint32        `envconfig:"KLINGNET_WALLET_KDF_MEMORY"`
	KDFIterations  uint32        `envconfig:"KLINGNET_WALLET_KDF_ITERATIONS"`
	KDFParallelism uint8         `envconfig:"KLINGNET_WALLET_KDF_PARALLELISM"`
	SyncEnabled    bool          `envconfig:"KLINGNET_WALLET_SYNC"`
	SyncRPCURL     string        `envconfig:"KLINGNET_WALLET_SYNC_RPC"`
	SyncTimeout    time.Duration `envconfig:"KLINGNET_WALLET_SYNC_TIMEOUT"`
	LogLevel       string        `envconfig:"KLINGNET_WALLET_LOG_LEVEL"`
	LogFile        string        `envconfig:"KLINGNET_WALLET_LOG_FILE"`
	LogJSON        bool          `envconfig:"KLINGNET_WALLET_LOG_JSON"`
}

// ApplyEnv overrides cfg with any KLINGNET_WALLET_* variables that are set.
// Unset variables leave the current value in place.
func ApplyEnv(cfg *Config) error {
	env := envConfig{
		Network:        string(cfg.Network),
		DataDir:        cfg.DataDir,
		Derivation:     cfg.Wallet.Derivation,
		WordlistFile:   cfg.Wallet.WordlistFile,
		Default:        cfg.Wallet.Default,
		KDFMemory:      cfg.Wallet.KDFMemory,
		KDFIterations:  cfg.Wallet.KDFIterations,
		KDFParallelism: cfg.Wallet.KDFParallelism,
		SyncEnabled:    cfg.Sync.Enabled,
		SyncRPCURL:     cfg.Sync.RPCURL,
		SyncTimeout:    cfg.Sync.Timeout,
		LogLevel:       cfg.Log.Level,
		LogFile:        cfg.Log.File,
		LogJSON:        cfg.Log.JSON,
	}
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	cfg.Network = NetworkType(env.Network)
	cfg.DataDir = env.DataDir
	cfg.Wallet.Derivation = env.Derivation
	cfg.Wallet.WordlistFile = env.WordlistFile
	cfg.Wallet.Default = env.Default
	cfg.Wallet.KDFMemory = env.KDFMemory
	cfg.Wallet.KDFIterations = env.KDFIterations
	cfg.Wallet.KDFParallelism = env.KDFParallelism
	cfg.Sync.Enabled = env.SyncEnabled
	cfg.Sync.RPCURL = env.SyncRPCURL
	cfg.Sync.Timeout = env.SyncTimeout
	cfg.Log.Level = env.LogLevel
	cfg.Log.File = env.LogFile
	cfg.Log.JSON = env.LogJSON
	return nil
}
