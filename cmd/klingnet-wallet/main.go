// klingnet-wallet is a command-line self-custodial wallet. It keeps an
// encrypted recovery phrase, derives accounts from it and records signed
// transfers in a local database.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-wallet/internal/session"
	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
	"github.com/Klingon-tech/klingnet-wallet/internal/syncer"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg   *config.Config
	store *wallet.Store
	sess  *session.Session

	stdin  *os.File // set when input may be a terminal
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// run executes one command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, flags, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if flags.Help {
		config.PrintUsage(stdout)
		return 0
	}
	if flags.Version {
		fmt.Fprintf(stdout, "klingnet-wallet version %s\n", version)
		return 0
	}
	if flags.Command == "" {
		config.PrintUsage(stderr)
		return 2
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.Network == config.Testnet {
		types.SetAddressVersion(types.TestnetVersion)
	} else {
		types.SetAddressVersion(types.MainnetVersion)
	}

	opts, err := cfg.WalletOptions()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	db, err := storage.NewBadger(cfg.WalletDBDir())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer db.Close()

	var sy syncer.Syncer
	if cfg.Sync.Enabled {
		sy = syncer.NewRPC(rpcclient.NewWithTimeout(cfg.Sync.RPCURL, cfg.Sync.Timeout))
	}

	store := wallet.NewStore(db, opts)
	a := &app{
		cfg:    cfg,
		store:  store,
		sess:   session.New(session.Config{Wallet: opts, Store: store, Syncer: sy}),
		in:     bufio.NewReader(stdin),
		out:    stdout,
		errOut: stderr,
	}
	if f, ok := stdin.(*os.File); ok {
		a.stdin = f
	}

	log.CLI.Debug().Str("command", flags.Command).Str("network", string(cfg.Network)).Msg("Running command")
	if err := a.dispatch(flags.Command, flags.Args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			return 2
		}
		return 1
	}
	return 0
}

// usageError marks a malformed command line.
type usageError string

func (e usageError) Error() string { return string(e) }

func usagef(format string, args ...any) error {
	return usageError(fmt.Sprintf(format, args...))
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "create":
		return a.cmdCreate(args)
	case "import":
		return a.cmdImport(args)
	case "list":
		return a.cmdList(args)
	case "use":
		return a.cmdUse(args)
	case "delete":
		return a.cmdDelete(args)
	}

	// Everything else works on a stored wallet.
	if err := a.open(); err != nil {
		return err
	}
	switch cmd {
	case "info":
		return a.cmdInfo(args)
	case "export":
		return a.cmdExport(args)
	case "passwd":
		return a.cmdPasswd(args)
	case "accounts":
		return a.cmdAccounts(args)
	case "new-account":
		return a.cmdNewAccount(args)
	case "rename-account":
		return a.cmdRenameAccount(args)
	case "use-account":
		return a.cmdUseAccount(args)
	case "balance":
		return a.cmdBalance(args)
	case "send":
		return a.cmdSend(args)
	case "history":
		return a.cmdHistory(args)
	case "settle":
		return a.cmdSettle(args)
	case "sync":
		return a.cmdSync(args)
	default:
		return usagef("unknown command %q (see --help)", cmd)
	}
}

// open loads the selected wallet into the session.
func (a *app) open() error {
	id, err := a.walletID()
	if err != nil {
		return err
	}
	_, err = a.sess.Load(id)
	return err
}

// walletID picks the configured wallet, then the stored default, then the
// only stored wallet.
func (a *app) walletID() (string, error) {
	if id := strings.TrimSpace(a.cfg.Wallet.Default); id != "" {
		return id, nil
	}
	def, err := a.store.Default()
	if err != nil {
		return "", err
	}
	if def != "" {
		return def, nil
	}
	ids, err := a.store.List()
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", errors.New("no wallets found (run create or import first)")
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%d wallets found, choose one with --wallet or use", len(ids))
	}
}
