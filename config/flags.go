package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Flags holds command-line flags. The first positional argument is the
// wallet command; the rest are its arguments.
type Flags struct {
	// Core
	Network string
	Testnet bool
	DataDir string
	Config  string

	// Wallet
	WalletID   string
	Derivation string
	Wordlist   string

	// Sync
	Sync    bool
	SetSync bool
	SyncRPC string

	// Logging
	LogLevel   string
	LogFile    string
	LogJSON    bool
	SetLogJSON bool

	// Other
	Help    bool
	Version bool

	Command string
	Args    []string
}

// ParseFlags parses args (without the program name). It never exits the
// process; -h yields Flags.Help instead of flag.ErrHelp.
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("klingnet-wallet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet, testnet)")
	fs.BoolVar(&f.Testnet, "testnet", false, "Use testnet (shorthand for --network=testnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Wallet
	fs.StringVar(&f.WalletID, "wallet", "", "Wallet ID to open")
	fs.StringVar(&f.Derivation, "derivation", "", "Account derivation for new wallets (hd, index)")
	fs.StringVar(&f.Wordlist, "wordlist", "", "Recovery phrase wordlist file")

	// Sync
	fs.BoolVar(&f.Sync, "sync", false, "Enable the RPC sync backend")
	fs.StringVar(&f.SyncRPC, "sync-rpc", "", "Sync backend JSON-RPC URL")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	// Other
	fs.BoolVar(&f.Help, "help", false, "Show help")
	fs.BoolVar(&f.Help, "h", false, "Show help (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			f.Help = true
			return f, nil
		}
		return nil, err
	}

	if f.Testnet {
		f.Network = string(Testnet)
	}
	f.SetSync = isFlagSet(fs, "sync")
	f.SetLogJSON = isFlagSet(fs, "log-json")

	rest := fs.Args()
	if len(rest) > 0 {
		f.Command = rest[0]
		f.Args = rest[1:]
	}
	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("flag %q after command %q was not parsed (flags go before the command)", arg, f.Command)
		}
	}
	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Wallet
	if f.WalletID != "" {
		cfg.Wallet.Default = f.WalletID
	}
	if f.Derivation != "" {
		cfg.Wallet.Derivation = strings.ToLower(f.Derivation)
	}
	if f.Wordlist != "" {
		cfg.Wallet.WordlistFile = f.Wordlist
	}

	// Sync
	if f.SetSync {
		cfg.Sync.Enabled = f.Sync
	}
	if f.SyncRPC != "" {
		cfg.Sync.RPCURL = f.SyncRPC
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// PrintUsage writes the command-line help to w.
func PrintUsage(w io.Writer) {
	usage := `Klingnet Wallet - self-custodial wallet keystore

Usage:
  klingnet-wallet [options] <command> [arguments]

Commands:
  create                      Create a wallet with a new recovery phrase
  import                      Restore a wallet from a recovery phrase
  list                        List stored wallets (* marks the default)
  use <id>                    Make a stored wallet the default
  info                        Show the open wallet
  export                      Print the recovery phrase
  passwd                      Change the wallet password
  accounts                    List accounts
  new-account [name]          Derive the next account
  rename-account <i> <name>   Rename an account
  use-account <i>             Make an account active
  balance                     Show the balance
  send <to> <amount> [fee]    Create, sign and record a transfer
  history                     List transactions
  settle <id> <status>        Mark a pending transfer confirmed or failed
  sync                        Sync with the backend
  delete                      Remove a stored wallet

Core Options:
  --network       Network type: mainnet (default) or testnet
  --testnet       Shorthand for --network=testnet
  --datadir       Data directory (default: ~/.klingnet-wallet)
  --config, -c    Config file path (default: <datadir>/klingnet-wallet.conf)

Wallet Options:
  --wallet        Wallet ID (default: wallet.default, then the stored
                  default, then the only wallet)
  --derivation    Account derivation for new wallets: hd (default) or index
  --wordlist      Recovery phrase wordlist file (default: BIP-39 English)

Sync Options:
  --sync          Enable the RPC sync backend
  --sync-rpc      Sync backend URL (mainnet: http://127.0.0.1:8545)

Logging Options:
  --log-level     Log level (default: warn)
  --log-file      Log file path (default: stderr only)
  --log-json      Output logs as JSON

Environment:
  KLINGNET_WALLET_*   Overrides config file values, e.g.
                      KLINGNET_WALLET_LOG_LEVEL=debug
  KLINGNET_WALLET_PASSWORD and KLINGNET_WALLET_NEW_PASSWORD are read
  instead of prompting when stdin is not a terminal.
`
	fmt.Fprint(w, usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. KLINGNET_WALLET_* environment variables
// 5. Command-line flags
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	if flags.Help || flags.Version {
		return nil, flags, nil
	}

	network := Mainnet
	if strings.EqualFold(flags.Network, string(Testnet)) {
		network = Testnet
	}
	cfg := Default(network)

	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	} else if dir, ok := os.LookupEnv(EnvPrefix + "_DATADIR"); ok && dir != "" {
		cfg.DataDir = dir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, nil, err
	}

	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	// datadir may have moved with the file or env layers.
	if err := os.MkdirAll(cfg.WalletDBDir(), 0700); err != nil {
		return nil, nil, fmt.Errorf("creating directory %s: %w", cfg.WalletDBDir(), err)
	}

	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.WalletDBDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
