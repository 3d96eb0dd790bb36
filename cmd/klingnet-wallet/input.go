package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Environment variables read instead of prompting.
const (
	envPassword    = "KLINGNET_WALLET_PASSWORD"
	envNewPassword = "KLINGNET_WALLET_NEW_PASSWORD"
)

// isTerminal reports whether stdin is an interactive terminal.
func (a *app) isTerminal() bool {
	return a.stdin != nil && term.IsTerminal(int(a.stdin.Fd()))
}

// readPassword returns the password from envKey, a hidden terminal prompt,
// or the next line of stdin, in that order.
func (a *app) readPassword(prompt, envKey string) (string, error) {
	if v, ok := os.LookupEnv(envKey); ok {
		return v, nil
	}
	if !a.isTerminal() {
		return a.readLine("")
	}
	fmt.Fprint(a.errOut, prompt)
	raw, err := term.ReadPassword(int(a.stdin.Fd()))
	fmt.Fprintln(a.errOut) // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer clear(raw)
	return string(raw), nil
}

// readNewPassword asks for a password twice on a terminal.
func (a *app) readNewPassword(envKey string) (string, error) {
	pw, err := a.readPassword("New password: ", envKey)
	if err != nil {
		return "", err
	}
	if _, fromEnv := os.LookupEnv(envKey); fromEnv || !a.isTerminal() {
		return pw, nil
	}
	again, err := a.readPassword("Repeat password: ", envKey)
	if err != nil {
		return "", err
	}
	if again != pw {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}

// readLine prints prompt when interactive and returns the next line of
// input without its line ending.
func (a *app) readLine(prompt string) (string, error) {
	if prompt != "" && a.isTerminal() {
		fmt.Fprint(a.errOut, prompt)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("unexpected end of input")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
