package types

import (
	"strings"
	"testing"
)

func TestHash_String(t *testing.T) {
	var h Hash
	if s := h.String(); s != strings.Repeat("0", 2*HashSize) {
		t.Errorf("zero hash String() = %s, want all zeros", s)
	}

	h[0] = 0xab
	h[HashSize-1] = 0xcd
	s := h.String()
	if !strings.HasPrefix(s, "ab") || !strings.HasSuffix(s, "cd") {
		t.Errorf("String() = %s, want ab...cd", s)
	}
	if len(s) != 2*HashSize {
		t.Errorf("len(String()) = %d, want %d", len(s), 2*HashSize)
	}
}

func TestHash_Bytes(t *testing.T) {
	h := Hash{0x01, 0x02, 0x03}
	b := h.Bytes()
	if len(b) != HashSize || b[2] != 0x03 {
		t.Fatalf("Bytes() = %x", b)
	}
	b[0] = 0xff
	if h[0] == 0xff {
		t.Error("Bytes() should return a copy")
	}
}
