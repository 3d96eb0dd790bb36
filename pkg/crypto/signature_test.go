package crypto

import (
	"bytes"
	"testing"
)

// testKey returns a deterministic key whose scalar is fill repeated.
func testKey(t *testing.T, fill byte) *PrivateKey {
	t.Helper()
	key, err := PrivateKeyFromBytes(bytes.Repeat([]byte{fill}, 32))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	return key
}

func TestPrivateKeyFromBytes(t *testing.T) {
	key := testKey(t, 0x11)
	if len(key.PublicKey()) != 33 {
		t.Errorf("PublicKey() length = %d, want 33", len(key.PublicKey()))
	}
	if err := ValidatePublicKey(key.PublicKey()); err != nil {
		t.Errorf("ValidatePublicKey() error: %v", err)
	}
}

func TestPrivateKeyFromBytes_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 16, 64} {
		if _, err := PrivateKeyFromBytes(make([]byte, n)); err == nil {
			t.Errorf("PrivateKeyFromBytes(%d bytes) should fail", n)
		}
	}
}

func TestSign_Verify(t *testing.T) {
	key := testKey(t, 0x22)
	hash := Hash([]byte("message"))

	sig, err := key.Sign(hash[:])
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if !VerifySignature(hash[:], sig, key.PublicKey()) {
		t.Error("valid signature should verify")
	}

	other := Hash([]byte("other message"))
	if VerifySignature(other[:], sig, key.PublicKey()) {
		t.Error("signature should not verify for a different hash")
	}

	tampered := bytes.Clone(sig)
	tampered[0] ^= 0x01
	if VerifySignature(hash[:], tampered, key.PublicKey()) {
		t.Error("tampered signature should not verify")
	}
}

func TestSign_BadHashLength(t *testing.T) {
	key := testKey(t, 0x33)
	if _, err := key.Sign([]byte("short")); err == nil {
		t.Error("Sign() with non-32-byte hash should fail")
	}
}

func TestValidatePublicKey_Invalid(t *testing.T) {
	if err := ValidatePublicKey(make([]byte, 33)); err == nil {
		t.Error("all-zero key should be rejected")
	}
}
