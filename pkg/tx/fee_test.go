package tx

import (
	"errors"
	"math"
	"testing"
)

func TestRequiredFee(t *testing.T) {
	tx, err := Build(Source{From: "sender", Balance: 100}, "recipient", 10, 0)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	want := uint64(len(tx.SigningBytes())) * 3
	if got := RequiredFee(tx, 3); got != want {
		t.Errorf("RequiredFee() = %d, want %d", got, want)
	}
}

func TestEstimateFee_MatchesBuilt(t *testing.T) {
	tx, err := Build(Source{From: "sender", Balance: 100}, "recipient", 10, 0)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if EstimateFee("sender", "recipient", 2) != RequiredFee(tx, 2) {
		t.Error("EstimateFee() should match the fee of a built transfer")
	}
	if EstimateFee("sender", "recipient", 0) != 0 {
		t.Error("zero fee rate should give zero fee")
	}
}

func TestRequiredFee_Saturates(t *testing.T) {
	tx, err := Build(Source{From: "sender", Balance: 100}, "recipient", 10, 0)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := RequiredFee(tx, math.MaxUint64/2); got != math.MaxUint64 {
		t.Errorf("RequiredFee() = %d, want saturation at MaxUint64", got)
	}
	if got := EstimateFee("sender", "recipient", math.MaxUint64); got != math.MaxUint64 {
		t.Errorf("EstimateFee() = %d, want MaxUint64", got)
	}

	// A saturated fee is rejected by the builder, not wrapped into a small one.
	fee := RequiredFee(tx, math.MaxUint64/2)
	if _, err := Build(Source{From: "sender", Balance: math.MaxUint64}, "recipient", 1, fee); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Build() error = %v, want ErrInsufficientBalance", err)
	}
}
