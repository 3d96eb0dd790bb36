package tx

import (
	"errors"
	"fmt"
)

// ErrTransactionNotFound is returned when no transaction has the given ID.
var ErrTransactionNotFound = errors.New("transaction not found")

// History is an append-only transaction log in insertion order.
//
// IDs hash (from, to, amount) only, so repeating a transfer reuses its ID.
// At most one entry per ID may be Pending at a time; status updates apply
// to that entry.
type History struct {
	entries []*Transaction
}

// NewHistory returns a history holding copies of txs. It rejects entries
// that Add would reject.
func NewHistory(txs []*Transaction) (*History, error) {
	h := &History{}
	for i, t := range txs {
		if err := h.Add(t); err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
	}
	return h, nil
}

// Add appends a copy of t.
func (h *History) Add(t *Transaction) error {
	if t == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidTransaction)
	}
	if t.From == "" || t.To == "" || t.Amount == 0 {
		return fmt.Errorf("%w: missing sender, recipient or amount", ErrInvalidTransaction)
	}
	if t.ID != ComputeID(t.From, t.To, t.Amount) {
		return fmt.Errorf("%w: id %s does not match content", ErrInvalidTransaction, t.ID)
	}
	if t.Status == StatusPending && h.pending(t.ID) != nil {
		return fmt.Errorf("%w: %s is already pending", ErrInvalidTransaction, t.ID)
	}
	h.entries = append(h.entries, t.Clone())
	return nil
}

// Get returns a copy of the newest entry with the given ID.
func (h *History) Get(id string) (*Transaction, error) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].ID == id {
			return h.entries[i].Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
}

// SetStatus moves the pending entry with the given ID to next and returns a
// copy of it. An ID with no pending entry fails with
// ErrInvalidStatusTransition, or ErrTransactionNotFound if unknown.
func (h *History) SetStatus(id string, next Status) (*Transaction, error) {
	t := h.pending(id)
	if t == nil {
		if _, err := h.Get(id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s has no pending entry", ErrInvalidStatusTransition, id)
	}
	if err := t.SetStatus(next); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Pending returns copies of all pending entries, oldest first.
func (h *History) Pending() []*Transaction {
	var out []*Transaction
	for _, t := range h.entries {
		if t.Status == StatusPending {
			out = append(out, t.Clone())
		}
	}
	return out
}

// List returns copies of all entries, oldest first.
func (h *History) List() []*Transaction {
	out := make([]*Transaction, len(h.entries))
	for i, t := range h.entries {
		out[i] = t.Clone()
	}
	return out
}

// Clone returns an independent copy of h.
func (h *History) Clone() *History {
	return &History{entries: h.List()}
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) pending(id string) *Transaction {
	for _, t := range h.entries {
		if t.ID == id && t.Status == StatusPending {
			return t
		}
	}
	return nil
}
