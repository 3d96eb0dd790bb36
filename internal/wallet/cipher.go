package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Sealed secret layout: nonce(12) | ciphertext | tag(16).
const (
	NonceSize     = chacha20poly1305.NonceSize
	TagSize       = chacha20poly1305.Overhead
	MinSealedSize = NonceSize + TagSize
)

// workingKeyContext binds every working key to this keystore format.
const workingKeyContext = "klingnet-wallet/keystore/secret/v1"

// Encrypt seals plaintext under key with ChaCha20-Poly1305 and a fresh
// random nonce. The AEAD key is derived from key and the nonce, never key
// itself. A nonce must never repeat under one key; 96 random bits make a
// collision negligible for the handful of encryptions a keystore sees.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	wk, err := workingKey(key, nonce)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(wk)

	aead, err := chacha20poly1305.New(wk)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	out := make([]byte, 0, NonceSize+len(plaintext)+TagSize)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Every failure (short blob,
// wrong key, tampered bytes, non-UTF-8 plaintext) returns ErrDecryption
// and nothing else, so callers cannot tell a wrong password from corruption.
func Decrypt(blob, key []byte) ([]byte, error) {
	if len(blob) < MinSealedSize || len(key) != KeySize {
		return nil, ErrDecryption
	}
	nonce := blob[:NonceSize]
	ciphertext := blob[NonceSize:]

	wk, err := workingKey(key, nonce)
	if err != nil {
		return nil, ErrDecryption
	}
	defer zeroBytes(wk)

	aead, err := chacha20poly1305.New(wk)
	if err != nil {
		return nil, ErrDecryption
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryption
	}
	if !utf8.Valid(plaintext) {
		zeroBytes(plaintext)
		return nil, ErrDecryption
	}
	return plaintext, nil
}

// workingKey runs HKDF-SHA256: extract binds key to workingKeyContext,
// expand binds the result to the nonce.
func workingKey(key, nonce []byte) ([]byte, error) {
	prk := hkdf.Extract(sha256.New, key, []byte(workingKeyContext))
	defer zeroBytes(prk)

	wk := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, nonce), wk); err != nil {
		return nil, fmt.Errorf("expand working key: %w", err)
	}
	return wk, nil
}
