package wallet

import (
	"bytes"
	"fmt"
)

// KeystoreOptions configures keystore creation. Zero fields fall back to
// DefaultPolicy, DefaultKDFParams and EnglishWordlist.
type KeystoreOptions struct {
	Policy   PasswordPolicy
	Params   KDFParams
	Wordlist Wordlist
}

func (o KeystoreOptions) policy() PasswordPolicy {
	if o.Policy == nil {
		return DefaultPolicy
	}
	return o.Policy
}

func (o KeystoreOptions) params() KDFParams {
	if o.Params.IsZero() {
		return DefaultKDFParams()
	}
	return o.Params
}

func (o KeystoreOptions) wordlist() Wordlist {
	if o.Wordlist == nil {
		return EnglishWordlist()
	}
	return o.Wordlist
}

// Keystore holds a recovery phrase encrypted under a password-derived key.
// It never retains the plaintext phrase or the derived key.
type Keystore struct {
	encryptedSecret []byte // nonce | ciphertext | tag
	salt            []byte
	params          KDFParams
}

// KeystoreRecord is the persisted form of a Keystore.
type KeystoreRecord struct {
	EncryptedSecret []byte    `json:"encrypted_secret"`
	Salt            []byte    `json:"salt"`
	KDF             KDFParams `json:"kdf_params"`
}

// NewKeystore generates a fresh recovery phrase and encrypts it under password.
func NewKeystore(password string, opts KeystoreOptions) (*Keystore, error) {
	ks, _, err := createKeystore(password, opts)
	return ks, err
}

// ImportKeystore encrypts an existing recovery phrase under password.
func ImportKeystore(phrase, password string, opts KeystoreOptions) (*Keystore, error) {
	ks, _, err := importKeystore(phrase, password, opts)
	return ks, err
}

// createKeystore is NewKeystore that also hands back the generated phrase,
// for callers that must derive accounts before the phrase goes out of scope.
func createKeystore(password string, opts KeystoreOptions) (*Keystore, Phrase, error) {
	// Policy first: derivation is expensive and pointless for a rejected password.
	if err := opts.policy().ValidatePassword(password); err != nil {
		return nil, Phrase{}, err
	}
	phrase, err := GeneratePhrase(opts.wordlist())
	if err != nil {
		return nil, Phrase{}, err
	}
	ks, err := sealPhrase(phrase, password, opts.params())
	if err != nil {
		return nil, Phrase{}, err
	}
	return ks, phrase, nil
}

func importKeystore(text, password string, opts KeystoreOptions) (*Keystore, Phrase, error) {
	phrase, err := ParsePhrase(text)
	if err != nil {
		return nil, Phrase{}, err
	}
	if err := opts.policy().ValidatePassword(password); err != nil {
		return nil, Phrase{}, err
	}
	ks, err := sealPhrase(phrase, password, opts.params())
	if err != nil {
		return nil, Phrase{}, err
	}
	return ks, phrase, nil
}

// sealPhrase encrypts phrase under a key derived from password and a new salt.
func sealPhrase(phrase Phrase, password string, params KDFParams) (*Keystore, error) {
	salt, err := NewSalt()
	if err != nil {
		return nil, err
	}
	key, err := DeriveKey(password, salt, params)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(key)

	plaintext := []byte(phrase.String())
	defer zeroBytes(plaintext)

	sealed, err := Encrypt(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt phrase: %w", err)
	}
	return &Keystore{
		encryptedSecret: sealed,
		salt:            salt,
		params:          params,
	}, nil
}

// Export decrypts and returns the recovery phrase. A wrong password and a
// corrupted keystore both return ErrDecryption.
func (ks *Keystore) Export(password string) (Phrase, error) {
	if len(ks.encryptedSecret) < MinSealedSize {
		return Phrase{}, ErrDecryption
	}
	key, err := DeriveKey(password, ks.salt, ks.params)
	if err != nil {
		return Phrase{}, err
	}
	defer zeroBytes(key)

	plaintext, err := Decrypt(ks.encryptedSecret, key)
	if err != nil {
		return Phrase{}, err
	}
	defer zeroBytes(plaintext)

	phrase, err := ParsePhrase(string(plaintext))
	if err != nil {
		// Authenticated but malformed: treat like any other unreadable secret.
		return Phrase{}, ErrDecryption
	}
	return phrase, nil
}

// ChangePassword re-encrypts the phrase under newPassword with a fresh salt
// and nonce. The keystore is unchanged if any step fails.
func (ks *Keystore) ChangePassword(oldPassword, newPassword string, policy PasswordPolicy) error {
	if policy == nil {
		policy = DefaultPolicy
	}
	if err := policy.ValidatePassword(newPassword); err != nil {
		return err
	}
	phrase, err := ks.Export(oldPassword)
	if err != nil {
		return err
	}
	next, err := sealPhrase(phrase, newPassword, ks.params)
	if err != nil {
		return err
	}
	*ks = *next
	return nil
}

// Params returns the KDF parameters the keystore was sealed with.
func (ks *Keystore) Params() KDFParams {
	return ks.params
}

func (ks *Keystore) clone() *Keystore {
	return &Keystore{
		encryptedSecret: bytes.Clone(ks.encryptedSecret),
		salt:            bytes.Clone(ks.salt),
		params:          ks.params,
	}
}

// Record returns the persisted form. The byte slices are copies.
func (ks *Keystore) Record() KeystoreRecord {
	return KeystoreRecord{
		EncryptedSecret: bytes.Clone(ks.encryptedSecret),
		Salt:            bytes.Clone(ks.salt),
		KDF:             ks.params,
	}
}

// KeystoreFromRecord restores a keystore, enforcing the salt and sealed
// secret length invariants.
func KeystoreFromRecord(rec KeystoreRecord) (*Keystore, error) {
	if len(rec.Salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidRecord, SaltSize, len(rec.Salt))
	}
	if len(rec.EncryptedSecret) < MinSealedSize {
		return nil, fmt.Errorf("%w: encrypted secret must be at least %d bytes, got %d",
			ErrInvalidRecord, MinSealedSize, len(rec.EncryptedSecret))
	}
	if err := rec.KDF.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return &Keystore{
		encryptedSecret: bytes.Clone(rec.EncryptedSecret),
		salt:            bytes.Clone(rec.Salt),
		params:          rec.KDF,
	}, nil
}
