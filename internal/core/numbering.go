package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
)

var invoiceNoPattern = regexp.MustCompile(`^\d{4}-\d{3,}$`)

// FormatInvoiceNumber renders a year-scoped sequence as YYYY-NNN. The
// sequence is zero-padded to three digits and grows past 999 unpadded.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("%04d-%03d", year, seq)
}

// allocateAttempts bounds the retry loop on number collisions.
const allocateAttempts = 3

// Allocator hands out year-scoped sequential invoice numbers. In-process
// allocations are serialized by a mutex; across processes the store's
// unique constraint on invoice_no rejects a stale sequence and the
// allocator retries with a fresh read. Numbers are never reused: the
// sequence only moves forward, even if an invoice is later deleted.
type Allocator struct {
	store Store
	mu    sync.Mutex
}

func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// AllocateAndInsert assigns the next free number for the invoice's year and
// persists the invoice in one step. On a number collision it re-reads the
// current maximum and retries, up to allocateAttempts times, then fails
// with *AllocationError.
func (a *Allocator) AllocateAndInsert(ctx context.Context, inv *Invoice) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	year := inv.Date.Year()
	for attempt := 0; attempt < allocateAttempts; attempt++ {
		seq, err := a.store.MaxSequenceForYear(ctx, year)
		if err != nil {
			return &AllocationError{Year: year, Attempts: attempt + 1, Err: err}
		}

		inv.InvoiceNo = FormatInvoiceNumber(year, seq+1)
		err = a.store.InsertInvoice(ctx, inv)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrDuplicateNumber) {
			continue
		}
		return &AllocationError{Year: year, Attempts: attempt + 1, Err: err}
	}
	return &AllocationError{Year: year, Attempts: allocateAttempts}
}
