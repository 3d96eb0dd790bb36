package wallet

import (
	"bytes"
	"errors"
	"testing"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func TestEncryptDecrypt(t *testing.T) {
	plaintext := []byte(testPhrase)
	key := testKey(0x11)

	blob, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if len(blob) != NonceSize+len(plaintext)+TagSize {
		t.Fatalf("blob length = %d, want %d", len(blob), NonceSize+len(plaintext)+TagSize)
	}
	if bytes.Contains(blob, plaintext) {
		t.Fatal("blob contains plaintext")
	}

	got, err := Decrypt(blob, key)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Decrypt() = %q, want %q", got, plaintext)
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	key := testKey(0x22)
	a, _ := Encrypt([]byte("same"), key)
	b, _ := Encrypt([]byte("same"), key)
	if bytes.Equal(a[:NonceSize], b[:NonceSize]) {
		t.Error("nonce reused")
	}
	if bytes.Equal(a, b) {
		t.Error("identical ciphertexts for identical plaintexts")
	}
}

func TestEncrypt_BadKey(t *testing.T) {
	if _, err := Encrypt([]byte("x"), make([]byte, 16)); err == nil {
		t.Fatal("Encrypt() with 16-byte key should fail")
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	blob, _ := Encrypt([]byte("secret"), testKey(0x01))
	if _, err := Decrypt(blob, testKey(0x02)); !errors.Is(err, ErrDecryption) {
		t.Fatalf("Decrypt() wrong key error = %v, want ErrDecryption", err)
	}
}

func TestDecrypt_TamperEveryByte(t *testing.T) {
	key := testKey(0x33)
	blob, err := Encrypt([]byte(testPhrase), key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	for i := range blob {
		tampered := bytes.Clone(blob)
		tampered[i] ^= 0x01
		if _, err := Decrypt(tampered, key); err != ErrDecryption {
			t.Fatalf("Decrypt() with byte %d flipped error = %v, want ErrDecryption", i, err)
		}
	}
}

func TestDecrypt_ShortBlob(t *testing.T) {
	key := testKey(0x44)
	for _, n := range []int{0, 1, NonceSize, MinSealedSize - 1} {
		if _, err := Decrypt(make([]byte, n), key); err != ErrDecryption {
			t.Errorf("Decrypt(%d bytes) error = %v, want ErrDecryption", n, err)
		}
	}
	// Minimum length passes the length check but fails authentication.
	if _, err := Decrypt(make([]byte, MinSealedSize), key); err != ErrDecryption {
		t.Errorf("Decrypt(%d zero bytes) error = %v, want ErrDecryption", MinSealedSize, err)
	}
}

func TestDecrypt_InvalidUTF8(t *testing.T) {
	key := testKey(0x55)
	blob, err := Encrypt([]byte{0xff, 0xfe, 0xfd}, key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := Decrypt(blob, key); err != ErrDecryption {
		t.Fatalf("Decrypt() non-UTF-8 error = %v, want ErrDecryption", err)
	}
}

func TestEncrypt_EmptyPlaintext(t *testing.T) {
	key := testKey(0x66)
	blob, err := Encrypt(nil, key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if len(blob) != MinSealedSize {
		t.Fatalf("blob length = %d, want %d", len(blob), MinSealedSize)
	}
	got, err := Decrypt(blob, key)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decrypt() = %q, want empty", got)
	}
}
