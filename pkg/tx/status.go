package tx

import (
	"errors"
	"fmt"
)

// ErrInvalidStatusTransition is returned when a status change is not allowed.
var ErrInvalidStatusTransition = errors.New("invalid transaction status transition")

// Status is the lifecycle state of a transaction.
type Status uint8

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusFailed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// CanTransition reports whether s may move to next.
// Only Pending -> Confirmed and Pending -> Failed are allowed.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "failed":
		return StatusFailed, nil
	default:
		return 0, fmt.Errorf("unknown transaction status %q", s)
	}
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("unknown transaction status %d", uint8(s))
	}
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
