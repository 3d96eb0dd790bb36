package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads wallet configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "datadir":
		cfg.DataDir = value

	// Wallet
	case "wallet.derivation":
		cfg.Wallet.Derivation = strings.ToLower(value)
	case "wallet.wordlist":
		cfg.Wallet.WordlistFile = value
	case "wallet.default":
		cfg.Wallet.Default = value
	case "wallet.kdf.memory":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.KDFMemory = uint32(n)
	case "wallet.kdf.iterations":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.KDFIterations = uint32(n)
	case "wallet.kdf.parallelism":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return err
		}
		cfg.Wallet.KDFParallelism = uint8(n)

	// Sync
	case "sync.enabled", "sync":
		cfg.Sync.Enabled = parseBool(value)
	case "sync.rpc":
		cfg.Sync.RPCURL = value
	case "sync.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Sync.Timeout = d

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default wallet configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	d := Default(network)
	content := `# Klingnet Wallet Configuration
#
# Precedence: defaults < this file < KLINGNET_WALLET_* env < flags.

# Network: mainnet or testnet (default: mainnet, or testnet with --testnet)
# network = ` + string(network) + `

# Data directory (default: ~/.klingnet-wallet)
# datadir = ~/.klingnet-wallet

# ============================================================================
# Wallet
# ============================================================================

# Account derivation: hd (BIP-32, signs transactions) or index (watch-only)
wallet.derivation = ` + d.Wallet.Derivation + `

# Recovery phrase wordlist, one word per line (default: BIP-39 English)
# wallet.wordlist = /path/to/wordlist.txt

# Wallet ID used when --wallet is not given
# wallet.default =

# Argon2id parameters for new keystores. Existing keystores keep theirs.
wallet.kdf.memory = ` + strconv.FormatUint(uint64(d.Wallet.KDFMemory), 10) + `
wallet.kdf.iterations = ` + strconv.FormatUint(uint64(d.Wallet.KDFIterations), 10) + `
wallet.kdf.parallelism = ` + strconv.FormatUint(uint64(d.Wallet.KDFParallelism), 10) + `

# ============================================================================
# Sync
# ============================================================================

sync.enabled = false
# Backend URL (default: ` + d.Sync.RPCURL + ` on ` + string(network) + `)
# sync.rpc = ` + d.Sync.RPCURL + `
sync.timeout = ` + d.Sync.Timeout.String() + `

# ============================================================================
# Logging
# ============================================================================

# Log level: trace, debug, info, warn, error, off
log.level = ` + d.Log.Level + `

# Log file path (default: stderr only)
# log.file = /path/to/wallet.log

# Output logs as JSON
log.json = false
`

	return os.WriteFile(path, []byte(content), 0600)
}
