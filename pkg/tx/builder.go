package tx

import (
	"errors"
	"fmt"
	"math/bits"
	"time"
)

// Builder errors.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// Source is the read-only wallet state a transfer is funded from.
type Source struct {
	From    string // sender address
	Balance uint64
}

// Builder constructs transfers. The zero value uses the wall clock.
type Builder struct {
	now func() time.Time
}

// NewBuilder returns a Builder that stamps transactions with now.
func NewBuilder(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Build validates a transfer of amount plus fee from src to recipient and
// returns it as Pending. src is not modified; debiting the balance and
// recording history is the caller's job once the transfer is confirmed.
func (b *Builder) Build(src Source, recipient string, amount, fee uint64) (*Transaction, error) {
	total, carry := bits.Add64(amount, fee, 0)
	if carry != 0 {
		return nil, fmt.Errorf("%w: amount %d + fee %d overflows", ErrInsufficientBalance, amount, fee)
	}
	if total > src.Balance {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, src.Balance, total)
	}
	if recipient == "" {
		return nil, fmt.Errorf("%w: empty recipient", ErrInvalidTransaction)
	}
	if src.From == "" {
		return nil, fmt.Errorf("%w: empty sender", ErrInvalidTransaction)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}

	now := time.Now
	if b != nil && b.now != nil {
		now = b.now
	}
	return &Transaction{
		ID:        ComputeID(src.From, recipient, amount),
		From:      src.From,
		To:        recipient,
		Amount:    amount,
		Fee:       fee,
		Status:    StatusPending,
		Timestamp: now().Unix(),
	}, nil
}

// Build is Builder.Build with the wall clock.
func Build(src Source, recipient string, amount, fee uint64) (*Transaction, error) {
	var b *Builder
	return b.Build(src, recipient, amount, fee)
}
