package core

import "context"

// SearchFilter narrows an invoice search. Zero-value fields are ignored.
// Customer matches as a substring, Number exactly, Month as YYYY-MM,
// DateFrom/DateTo as inclusive YYYY-MM-DD bounds.
type SearchFilter struct {
	Customer string
	Number   string
	Month    string
	Type     InvoiceType
	DateFrom string
	DateTo   string
}

// Store is the storage contract the engine consumes. Every call is assumed
// transactional on its own; InsertInvoice writes the invoice and its items
// atomically and reports ErrDuplicateNumber when the invoice number is
// already taken.
type Store interface {
	// FindInvoiceByNumber returns the invoice with its items, or a
	// *NotFoundError.
	FindInvoiceByNumber(ctx context.Context, number string) (*Invoice, error)

	// SearchInvoices returns matches ordered by invoice_no descending.
	// An empty result is success, not an error. Re-querying re-executes
	// the filter; no cursor state is shared across calls.
	SearchInvoices(ctx context.Context, f SearchFilter) ([]Invoice, error)

	// MaxSequenceForYear returns the highest NNN already allocated for the
	// year, or 0 when the year has no invoices.
	MaxSequenceForYear(ctx context.Context, year int) (int, error)

	// InsertInvoice persists the invoice and its items atomically, filling
	// in generated IDs. Returns ErrDuplicateNumber on a number collision.
	InsertInvoice(ctx context.Context, inv *Invoice) error

	// UpdateInvoice replaces a persisted invoice and its items.
	UpdateInvoice(ctx context.Context, inv *Invoice) error

	// FindCustomerByName returns the customer with the exact name, or
	// (nil, nil) when no such customer exists.
	FindCustomerByName(ctx context.Context, name string) (*Customer, error)

	// FindItemByName returns the item master record with the exact name,
	// or (nil, nil) when no such item exists.
	FindItemByName(ctx context.Context, name string) (*Item, error)
}
