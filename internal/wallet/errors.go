package wallet

import "errors"

// Wallet errors. Callers match them with errors.Is; some are wrapped with
// extra context (never with secret material).
var (
	ErrWeakPassword    = errors.New("password does not meet policy")
	ErrInvalidPhrase   = errors.New("invalid recovery phrase")
	ErrKeyDerivation   = errors.New("key derivation failed")
	ErrDecryption      = errors.New("decryption failed")
	ErrWeakWordlist    = errors.New("wordlist does not provide enough entropy")
	ErrInvalidRecord   = errors.New("invalid wallet record")
	ErrAccountNotFound = errors.New("account not found")
	ErrNoSigningKey    = errors.New("wallet has no signing keys in index derivation mode")
	ErrInvalidName     = errors.New("invalid account name")
)
