package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invoice-studio/internal/app"
	"invoice-studio/internal/command"
	"invoice-studio/internal/core"
	"invoice-studio/internal/store"
)

func newService(st *store.Memory) app.ApplicationService {
	return app.NewAppService(st, nil, zerolog.Nop())
}

func TestRunCommandEndToEnd(t *testing.T) {
	st := store.NewMemory()
	svc := newService(st)
	ctx := context.Background()

	created, err := svc.RunCommand(ctx, `new tax invoice 고객="대한상사" 총액=3,300,000`)
	if err != nil {
		t.Fatalf("RunCommand(new): %v", err)
	}
	if created.Kind != command.KindNewInvoice {
		t.Errorf("Kind = %q", created.Kind)
	}
	if !created.Invoice.Subtotal.Equal(decimal.NewFromInt(3000000)) {
		t.Errorf("Subtotal = %s, want 3000000", created.Invoice.Subtotal)
	}

	found, err := svc.RunCommand(ctx, `search invoice 고객="대한"`)
	if err != nil {
		t.Fatalf("RunCommand(search): %v", err)
	}
	if len(found.Invoices) != 1 {
		t.Fatalf("got %d invoices, want 1", len(found.Invoices))
	}

	opened, err := svc.RunCommand(ctx, `open invoice 번호="`+created.Invoice.InvoiceNo+`"`)
	if err != nil {
		t.Fatalf("RunCommand(open): %v", err)
	}
	if opened.Invoice.InvoiceNo != created.Invoice.InvoiceNo {
		t.Errorf("opened %q, want %q", opened.Invoice.InvoiceNo, created.Invoice.InvoiceNo)
	}

	duped, err := svc.RunCommand(ctx, `duplicate invoice 번호="`+created.Invoice.InvoiceNo+`"`)
	if err != nil {
		t.Fatalf("RunCommand(duplicate): %v", err)
	}
	if duped.Invoice.InvoiceNo == created.Invoice.InvoiceNo {
		t.Error("duplicate must get a fresh number")
	}
}

func TestRunCommandSurfacesTypedErrors(t *testing.T) {
	svc := newService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.RunCommand(ctx, `frobnicate invoice`)
	var unknownErr *command.UnknownCommandError
	if !errors.As(err, &unknownErr) {
		t.Errorf("err = %v, want *UnknownCommandError", err)
	}

	_, err = svc.RunCommand(ctx, `open invoice 번호="2030-001"`)
	var nfErr *core.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("err = %v, want *NotFoundError", err)
	}

	_, err = svc.RunCommand(ctx, `new tax invoice total=100`)
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("err = %v, want *ValidationError", err)
	}
}

func TestSuggestionsPassThrough(t *testing.T) {
	svc := newService(store.NewMemory())
	got := svc.Suggestions("new tax")
	if len(got) == 0 || !strings.HasPrefix(got[0], "new tax invoice") {
		t.Errorf("Suggestions = %v", got)
	}
}

func TestExtractWithoutExtractorFails(t *testing.T) {
	svc := newService(store.NewMemory())
	_, err := svc.ExtractInvoiceDraft(context.Background(), "some document", core.TypeTax)
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("err = %v, want a configuration error naming OPENAI_API_KEY", err)
	}
}

func TestSaveInvoice(t *testing.T) {
	st := store.NewMemory()
	svc := newService(st)
	ctx := context.Background()

	created, err := svc.RunCommand(ctx, `new tax invoice customer="ABC Corp" total=1100`)
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}

	inv := created.Invoice
	inv.Notes = "payment due end of month"
	if err := svc.SaveInvoice(ctx, inv); err != nil {
		t.Fatalf("SaveInvoice: %v", err)
	}

	reloaded, err := st.FindInvoiceByNumber(ctx, inv.InvoiceNo)
	if err != nil {
		t.Fatalf("FindInvoiceByNumber: %v", err)
	}
	if reloaded.Notes != "payment due end of month" {
		t.Errorf("Notes = %q, save did not persist", reloaded.Notes)
	}
}

func TestSaveInvoiceRejectsUnnumbered(t *testing.T) {
	svc := newService(store.NewMemory())
	inv := &core.Invoice{Type: core.TypeTax, CustomerName: "ABC Corp"}
	inv.CalculateFromTotal(decimal.NewFromInt(1100))
	if err := svc.SaveInvoice(context.Background(), inv); err == nil {
		t.Error("saving an invoice without a number must fail")
	}
}

func TestSaveInvoiceValidatesFirst(t *testing.T) {
	st := store.NewMemory()
	svc := newService(st)
	ctx := context.Background()

	created, err := svc.RunCommand(ctx, `new normal invoice customer="ABC Corp" total=1000`)
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}

	inv := created.Invoice
	inv.VAT = decimal.NewFromInt(100) // invalid on a normal invoice
	err = svc.SaveInvoice(ctx, inv)
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
}
