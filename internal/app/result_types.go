package app

import (
	"invoice-studio/internal/command"
	"invoice-studio/internal/core"
)

// CommandResult is returned by RunCommand.
type CommandResult struct {
	Kind     command.Kind
	Message  string
	Invoice  *core.Invoice
	Invoices []core.Invoice
}

// DraftResult is returned by ExtractInvoiceDraft.
type DraftResult struct {
	Invoice    *core.Invoice
	Confidence float64
	Skipped    int // extracted line items dropped as invalid
}
