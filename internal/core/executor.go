package core

import (
	"context"
	"fmt"
	"time"

	"invoice-studio/internal/command"
)

// Result is the success payload of one executed command.
type Result struct {
	Message  string
	Invoice  *Invoice  // new / open / duplicate
	Invoices []Invoice // search
}

// Executor interprets parsed commands against the store and the invoice
// domain model. It holds no state between calls; every side effect goes
// through the Store.
type Executor struct {
	store Store
	alloc *Allocator
	now   func() time.Time
}

func NewExecutor(store Store) *Executor {
	return &Executor{
		store: store,
		alloc: NewAllocator(store),
		now:   time.Now,
	}
}

// Execute dispatches on the command tag. Failures come back as the typed
// errors of this package (and are safe to show to the user verbatim).
func (e *Executor) Execute(ctx context.Context, cmd *command.Command) (*Result, error) {
	switch cmd.Kind {
	case command.KindNewInvoice:
		return e.executeNew(ctx, cmd)
	case command.KindSearchInvoice:
		return e.executeSearch(ctx, cmd)
	case command.KindOpenInvoice:
		return e.executeOpen(ctx, cmd)
	case command.KindDuplicateInvoice:
		return e.executeDuplicate(ctx, cmd)
	default:
		return nil, fmt.Errorf("no handler for command kind %q", cmd.Kind)
	}
}

func (e *Executor) executeNew(ctx context.Context, cmd *command.Command) (*Result, error) {
	now := e.now()
	inv := &Invoice{
		Date:         now,
		Type:         InvoiceType(cmd.Type),
		CustomerName: cmd.Customer,
		Currency:     cmd.Currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Link the customer master record when one exists; a free-text
	// customer name is still valid.
	customer, err := e.store.FindCustomerByName(ctx, cmd.Customer)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if customer != nil {
		inv.CustomerID = &customer.ID
	}

	// A command without total= creates a zero-amount draft to be filled in
	// later; cmd.Total is zero then, so the draft's amounts all come out 0.
	inv.CalculateFromTotal(cmd.Total)

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := e.alloc.AllocateAndInsert(ctx, inv); err != nil {
		return nil, err
	}

	return &Result{
		Message: fmt.Sprintf("Created new %s invoice: %s", inv.Type, inv.InvoiceNo),
		Invoice: inv,
	}, nil
}

func (e *Executor) executeSearch(ctx context.Context, cmd *command.Command) (*Result, error) {
	filter := SearchFilter{
		Customer: cmd.Customer,
		Number:   cmd.Number,
		Month:    cmd.Month,
		Type:     InvoiceType(cmd.TypeFilter),
		DateFrom: cmd.DateFrom,
		DateTo:   cmd.DateTo,
	}
	invoices, err := e.store.SearchInvoices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return &Result{
		Message:  fmt.Sprintf("Found %d invoice(s)", len(invoices)),
		Invoices: invoices,
	}, nil
}

func (e *Executor) executeOpen(ctx context.Context, cmd *command.Command) (*Result, error) {
	inv, err := e.store.FindInvoiceByNumber(ctx, cmd.Number)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("Opened invoice: %s", inv.InvoiceNo),
		Invoice: inv,
	}, nil
}

func (e *Executor) executeDuplicate(ctx context.Context, cmd *command.Command) (*Result, error) {
	src, err := e.store.FindInvoiceByNumber(ctx, cmd.Number)
	if err != nil {
		return nil, err
	}

	dup := src.Duplicate(e.now())
	if err := dup.Validate(); err != nil {
		return nil, err
	}
	if err := e.alloc.AllocateAndInsert(ctx, dup); err != nil {
		return nil, err
	}

	return &Result{
		Message: fmt.Sprintf("Duplicated invoice %s as %s", src.InvoiceNo, dup.InvoiceNo),
		Invoice: dup,
	}, nil
}
