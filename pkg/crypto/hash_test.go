package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		},
		{
			name:  "hello",
			input: []byte("hello"),
			want:  "ea8f163db38682925e4491c5e58d4bb3506ef8c14eb78a86e908c5624a67200f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hash(tt.input).String(); got != tt.want {
				t.Errorf("Hash(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestTaggedHash_DomainSeparation(t *testing.T) {
	a := TaggedHash("tag-a", []byte("data"))
	b := TaggedHash("tag-b", []byte("data"))
	if a == b {
		t.Error("different tags should produce different hashes")
	}
	if a == Hash([]byte("data")) {
		t.Error("tagged hash should differ from plain hash")
	}
}

func TestTaggedHash_LengthPrefixed(t *testing.T) {
	a := TaggedHash("t", []byte("ab"), []byte("c"))
	b := TaggedHash("t", []byte("a"), []byte("bc"))
	if a == b {
		t.Error("part boundaries should affect the hash")
	}
	if a != TaggedHash("t", []byte("ab"), []byte("c")) {
		t.Error("TaggedHash is not deterministic")
	}
}

func TestAddressFromPubKey(t *testing.T) {
	pub, _ := hex.DecodeString("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	addr := AddressFromPubKey(pub)
	h := Hash(pub)
	for i := 0; i < types.AddressSize; i++ {
		if addr[i] != h[i] {
			t.Fatalf("address byte %d = %x, want %x", i, addr[i], h[i])
		}
	}
}
