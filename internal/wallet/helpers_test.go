package wallet

import (
	"bytes"
	"testing"
)

const (
	testPassword = "ValidPass123"
	testPhrase   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

// fastParams returns minimal Argon2id parameters so tests stay fast.
func fastParams() KDFParams {
	return KDFParams{Memory: 64, Iterations: 1, Parallelism: 1}
}

func fastOptions() KeystoreOptions {
	return KeystoreOptions{Params: fastParams()}
}

func testWalletOptions(mode DerivationMode) Options {
	return Options{Keystore: fastOptions(), Derivation: mode}
}

func mustImport(t *testing.T, mode DerivationMode) *Wallet {
	t.Helper()
	w, err := Import(testPhrase, testPassword, testWalletOptions(mode))
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	return w
}

// sameKeystore reports whether two keystores hold identical sealed bytes.
func sameKeystore(a, b *Keystore) bool {
	ra, rb := a.Record(), b.Record()
	return bytes.Equal(ra.EncryptedSecret, rb.EncryptedSecret) &&
		bytes.Equal(ra.Salt, rb.Salt) &&
		ra.KDF == rb.KDF
}
