package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Klingon-tech/klingnet-wallet/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/pkg/tx"
)

// defaultFeeRate is the base units per signing byte used when send is
// given no explicit fee.
const defaultFeeRate = 1

// ── Wallet lifecycle ────────────────────────────────────────────────────

func (a *app) cmdCreate(args []string) error {
	if len(args) != 0 {
		return usagef("usage: create")
	}
	pw, err := a.readNewPassword(envPassword)
	if err != nil {
		return err
	}
	info, err := a.sess.Create(pw)
	if err != nil {
		return err
	}
	phrase, err := a.sess.ExportPhrase(pw)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wallet created: %s\n", info.ID)
	fmt.Fprintf(a.out, "Address:        %s\n\n", info.ActiveAccount.Address)
	fmt.Fprintln(a.out, "Recovery phrase (write it down, it is shown only once):")
	printPhrase(a, phrase)
	return nil
}

func (a *app) cmdImport(args []string) error {
	if len(args) != 0 {
		return usagef("usage: import (the phrase is read from stdin)")
	}
	phrase, err := a.readLine("Recovery phrase: ")
	if err != nil {
		return err
	}
	pw, err := a.readNewPassword(envPassword)
	if err != nil {
		return err
	}
	info, err := a.sess.Import(phrase, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wallet imported: %s\n", info.ID)
	fmt.Fprintf(a.out, "Address:         %s\n", info.ActiveAccount.Address)
	return nil
}

func (a *app) cmdList(args []string) error {
	if len(args) != 0 {
		return usagef("usage: list")
	}
	ids, err := a.store.List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "No wallets.")
		return nil
	}
	def, err := a.store.Default()
	if err != nil {
		return err
	}
	for _, id := range ids {
		mark := " "
		if id == def {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s\n", mark, id)
	}
	return nil
}

func (a *app) cmdUse(args []string) error {
	if len(args) != 1 {
		return usagef("usage: use <wallet-id>")
	}
	id := strings.TrimSpace(args[0])
	if err := a.store.SetDefault(id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Default wallet: %s\n", id)
	return nil
}

func (a *app) cmdDelete(args []string) error {
	if len(args) != 0 {
		return usagef("usage: delete (select the wallet with --wallet)")
	}
	id := strings.TrimSpace(a.cfg.Wallet.Default)
	if id == "" {
		return usagef("delete requires --wallet")
	}
	// Require the password so a wallet cannot be removed by accident.
	if _, err := a.sess.Load(id); err != nil {
		return err
	}
	pw, err := a.readPassword("Password: ", envPassword)
	if err != nil {
		return err
	}
	if _, err := a.sess.ExportPhrase(pw); err != nil {
		return err
	}
	a.sess.Unload()
	if err := a.store.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wallet deleted: %s\n", id)
	return nil
}

func (a *app) cmdInfo(args []string) error {
	if len(args) != 0 {
		return usagef("usage: info")
	}
	info, err := a.sess.Info()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ID:         %s\n", info.ID)
	fmt.Fprintf(a.out, "Created:    %s\n", info.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(a.out, "Derivation: %s\n", info.Derivation)
	fmt.Fprintf(a.out, "Active:     %d (%s) %s\n", info.ActiveAccount.Index, info.ActiveAccount.Name, info.ActiveAccount.Address)
	fmt.Fprintf(a.out, "Accounts:   %d\n", info.Accounts)
	fmt.Fprintf(a.out, "Balance:    %d\n", info.Balance)
	fmt.Fprintf(a.out, "Pending:    %d\n", info.Pending)
	return nil
}

func (a *app) cmdExport(args []string) error {
	if len(args) != 0 {
		return usagef("usage: export")
	}
	pw, err := a.readPassword("Password: ", envPassword)
	if err != nil {
		return err
	}
	phrase, err := a.sess.ExportPhrase(pw)
	if err != nil {
		return err
	}
	printPhrase(a, phrase)
	return nil
}

func (a *app) cmdPasswd(args []string) error {
	if len(args) != 0 {
		return usagef("usage: passwd")
	}
	oldPw, err := a.readPassword("Current password: ", envPassword)
	if err != nil {
		return err
	}
	newPw, err := a.readNewPassword(envNewPassword)
	if err != nil {
		return err
	}
	if err := a.sess.ChangePassword(oldPw, newPw); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

func printPhrase(a *app, p wallet.Phrase) {
	for i, w := range p.Words() {
		fmt.Fprintf(a.out, "%2d. %s\n", i+1, w)
	}
}

// ── Accounts ────────────────────────────────────────────────────────────

func (a *app) cmdAccounts(args []string) error {
	if len(args) != 0 {
		return usagef("usage: accounts")
	}
	accounts, err := a.sess.Accounts()
	if err != nil {
		return err
	}
	active, err := a.sess.ActiveAccount()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tINDEX\tNAME\tADDRESS")
	for _, acct := range accounts {
		mark := ""
		if acct.Index == active.Index {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", mark, acct.Index, acct.Name, acct.Address)
	}
	return tw.Flush()
}

func (a *app) cmdNewAccount(args []string) error {
	if len(args) > 1 {
		return usagef("usage: new-account [name]")
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	acct, err := a.sess.AddAccount(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %d (%s): %s\n", acct.Index, acct.Name, acct.Address)
	return nil
}

func (a *app) cmdRenameAccount(args []string) error {
	if len(args) != 2 {
		return usagef("usage: rename-account <index> <name>")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if err := a.sess.RenameAccount(index, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %d renamed.\n", index)
	return nil
}

func (a *app) cmdUseAccount(args []string) error {
	if len(args) != 1 {
		return usagef("usage: use-account <index>")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if err := a.sess.SetActiveAccount(index); err != nil {
		return err
	}
	acct, err := a.sess.ActiveAccount()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Active account: %d (%s) %s\n", acct.Index, acct.Name, acct.Address)
	return nil
}

func parseIndex(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, usagef("invalid account index %q", s)
	}
	return uint32(n), nil
}

// ── Transfers ───────────────────────────────────────────────────────────

func (a *app) cmdBalance(args []string) error {
	if len(args) != 0 {
		return usagef("usage: balance")
	}
	balance, err := a.sess.Balance()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, balance)
	return nil
}

func (a *app) cmdSend(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usagef("usage: send <to> <amount> [fee]")
	}
	to := args[0]
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return usagef("invalid amount %q", args[1])
	}
	var fee uint64
	if len(args) == 3 {
		if fee, err = strconv.ParseUint(args[2], 10, 64); err != nil {
			return usagef("invalid fee %q", args[2])
		}
	} else {
		from, err := a.sess.ActiveAccount()
		if err != nil {
			return err
		}
		fee = tx.EstimateFee(from.Address, to, defaultFeeRate)
	}

	// Check the transfer before asking for the password.
	if _, err := a.sess.CreateTransaction(to, amount, fee); err != nil {
		return err
	}
	pw, err := a.readPassword("Password: ", envPassword)
	if err != nil {
		return err
	}
	t, err := a.sess.Send(to, amount, fee, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transaction: %s\n", t.ID)
	fmt.Fprintf(a.out, "Amount:      %d\n", t.Amount)
	fmt.Fprintf(a.out, "Fee:         %d\n", t.Fee)
	fmt.Fprintf(a.out, "Signed:      %t\n", t.IsSigned())
	return nil
}

func (a *app) cmdHistory(args []string) error {
	if len(args) != 0 {
		return usagef("usage: history")
	}
	txs, err := a.sess.History()
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tID\tTO\tAMOUNT\tFEE\tSTATUS")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			t.Time().Format(time.RFC3339), t.ID, t.To, t.Amount, t.Fee, t.Status)
	}
	return tw.Flush()
}

func (a *app) cmdSettle(args []string) error {
	if len(args) != 2 {
		return usagef("usage: settle <tx-id> confirmed|failed")
	}
	status, err := tx.ParseStatus(args[1])
	if err != nil {
		return usagef("%v", err)
	}
	t, err := a.sess.UpdateTransactionStatus(args[0], status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transaction %s is %s.\n", t.ID, t.Status)
	return nil
}

// ── Sync ────────────────────────────────────────────────────────────────

func (a *app) cmdSync(args []string) error {
	if len(args) != 0 {
		return usagef("usage: sync")
	}
	timeout := a.cfg.Sync.Timeout
	if timeout <= 0 {
		timeout = rpcclient.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.sess.Sync(ctx); err != nil {
		return err
	}
	info, err := a.sess.Info()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Synced at %s. Balance: %d, pending: %d\n",
		a.sess.LastSync().Format(time.RFC3339), info.Balance, info.Pending)
	return nil
}
