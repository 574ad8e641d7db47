package app

import (
	"context"

	"invoice-studio/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI)
// call. It decouples presentation from business logic. Implementations must
// contain no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// RunCommand parses and executes one raw command line. Parse and
	// execution failures come back as the typed errors of the command and
	// core packages and are safe to show to the user verbatim.
	RunCommand(ctx context.Context, raw string) (*CommandResult, error)

	// Suggestions returns command-bar autocomplete templates for a partial
	// input.
	Suggestions(partial string) []string

	// ExtractInvoiceDraft runs AI extraction over purchase order text and
	// builds an unsaved invoice draft carrying the extraction confidence.
	// The draft is not persisted; the editing surface saves it explicitly.
	ExtractInvoiceDraft(ctx context.Context, documentText string, invoiceType core.InvoiceType) (*DraftResult, error)

	// SaveInvoice validates and persists changes to an existing invoice.
	SaveInvoice(ctx context.Context, inv *core.Invoice) error
}
