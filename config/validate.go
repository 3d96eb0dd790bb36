package config

import (
	"fmt"
	"net/url"

	"github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// Validate checks the config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}
	if _, err := wallet.ParseDerivationMode(cfg.Wallet.Derivation); err != nil {
		return fmt.Errorf("wallet.derivation: %w", err)
	}
	if err := cfg.KDFParams().Validate(); err != nil {
		return fmt.Errorf("wallet.kdf: %w", err)
	}

	if cfg.Sync.Enabled {
		u, err := url.Parse(cfg.Sync.RPCURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("sync.rpc must be an http(s) URL, got %q", cfg.Sync.RPCURL)
		}
		if cfg.Sync.Timeout <= 0 {
			return fmt.Errorf("sync.timeout must be positive")
		}
	}

	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
	}
	return nil
}

// KDFParams returns the Argon2id parameters for new keystores.
func (c *Config) KDFParams() wallet.KDFParams {
	return wallet.KDFParams{
		Memory:      c.Wallet.KDFMemory,
		Iterations:  c.Wallet.KDFIterations,
		Parallelism: c.Wallet.KDFParallelism,
	}
}

// WalletOptions builds wallet options from the config. The wordlist file,
// if set, is read here.
func (c *Config) WalletOptions() (wallet.Options, error) {
	opts := wallet.Options{
		Keystore:   wallet.KeystoreOptions{Params: c.KDFParams()},
		Derivation: wallet.DerivationMode(c.Wallet.Derivation),
	}
	if c.Wallet.WordlistFile != "" {
		words, err := wallet.LoadWordlist(c.Wallet.WordlistFile)
		if err != nil {
			return wallet.Options{}, err
		}
		opts.Keystore.Wordlist = words
	}
	return opts, nil
}
