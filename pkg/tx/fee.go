package tx

import (
	"math"
	"math/bits"
)

// EstimateFee returns the fee for a transfer at feeRate base units per byte
// of SigningBytes. Signatures are not counted.
func EstimateFee(from, to string, feeRate uint64) uint64 {
	sample := Transaction{ID: ComputeID(from, to, 1), From: from, To: to}
	return RequiredFee(&sample, feeRate)
}

// RequiredFee returns len(SigningBytes) * feeRate for a built transaction,
// saturating at math.MaxUint64. A saturated fee never fits a balance, so
// the builder rejects it.
func RequiredFee(transaction *Transaction, feeRate uint64) uint64 {
	hi, lo := bits.Mul64(uint64(len(transaction.SigningBytes())), feeRate)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
