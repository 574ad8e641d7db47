package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invoice-studio/internal/ai"
	"invoice-studio/internal/command"
	"invoice-studio/internal/core"
)

type appService struct {
	store     core.Store
	executor  *core.Executor
	extractor *ai.Extractor // nil when extraction is not configured
	log       zerolog.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
// extractor may be nil; ExtractInvoiceDraft then fails with a clear error.
func NewAppService(store core.Store, extractor *ai.Extractor, log zerolog.Logger) ApplicationService {
	return &appService{
		store:     store,
		executor:  core.NewExecutor(store),
		extractor: extractor,
		log:       log.With().Str("component", "app").Logger(),
	}
}

// RunCommand parses and executes one raw command line.
func (s *appService) RunCommand(ctx context.Context, raw string) (*CommandResult, error) {
	cmd, err := command.Parse(raw)
	if err != nil {
		s.log.Debug().Err(err).Str("raw", raw).Msg("command rejected")
		return nil, err
	}

	result, err := s.executor.Execute(ctx, cmd)
	if err != nil {
		s.log.Debug().Err(err).Str("kind", string(cmd.Kind)).Msg("command failed")
		return nil, err
	}

	s.log.Info().Str("kind", string(cmd.Kind)).Str("message", result.Message).Msg("command executed")
	return &CommandResult{
		Kind:     cmd.Kind,
		Message:  result.Message,
		Invoice:  result.Invoice,
		Invoices: result.Invoices,
	}, nil
}

// Suggestions returns command-bar autocomplete templates.
func (s *appService) Suggestions(partial string) []string {
	return command.Suggestions(partial)
}

// ExtractInvoiceDraft runs AI extraction and builds an unsaved draft.
func (s *appService) ExtractInvoiceDraft(ctx context.Context, documentText string, invoiceType core.InvoiceType) (*DraftResult, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("extraction is not configured: set OPENAI_API_KEY")
	}

	extracted, err := s.extractor.ExtractInvoice(ctx, documentText)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	now := time.Now()
	inv := &core.Invoice{
		Date:         now,
		Type:         invoiceType,
		CustomerName: extracted.CustomerName,
		Currency:     extracted.Currency,
		Notes:        extracted.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inv.ExtractionConfidence = &extracted.Confidence

	if extracted.Date != "" {
		if d, err := time.Parse("2006-01-02", extracted.Date); err == nil {
			inv.Date = d
		}
	}

	if customer, err := s.store.FindCustomerByName(ctx, extracted.CustomerName); err == nil && customer != nil {
		inv.CustomerID = &customer.ID
	}

	skipped := 0
	for _, line := range extracted.Items {
		qty, qErr := decimal.NewFromString(line.Quantity)
		price, pErr := decimal.NewFromString(line.UnitPrice)
		if qErr != nil || pErr != nil {
			skipped++
			continue
		}
		var itemID *int
		if item, err := s.store.FindItemByName(ctx, line.Description); err == nil && item != nil {
			itemID = &item.ID
		}
		if err := inv.AddItem(line.Description, qty, price, itemID); err != nil {
			skipped++
		}
	}
	inv.CalculateTotals()

	return &DraftResult{Invoice: inv, Confidence: extracted.Confidence, Skipped: skipped}, nil
}

// SaveInvoice validates and persists changes to an existing invoice.
func (s *appService) SaveInvoice(ctx context.Context, inv *core.Invoice) error {
	if inv.InvoiceNo == "" {
		return fmt.Errorf("invoice has no number; create it through a new/duplicate command first")
	}
	if err := inv.Validate(); err != nil {
		return err
	}
	inv.UpdatedAt = time.Now()
	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("save invoice %s: %w", inv.InvoiceNo, err)
	}
	s.log.Info().Str("invoice_no", inv.InvoiceNo).Msg("invoice saved")
	return nil
}
