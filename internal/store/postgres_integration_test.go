package store_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"invoice-studio/internal/core"
	"invoice-studio/internal/store"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE invoice_items, invoices, purchase_orders, items, customers RESTART IDENTITY CASCADE;

		INSERT INTO customers (name, contact_person) VALUES
		('ABC Corp', 'Kim Minji'),
		('대한상사', '박준호');

		INSERT INTO items (name, unit, default_price) VALUES
		('Consulting (day)', 'DAY', 800000.00),
		('License seat', 'EA', 55000.00);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func testInvoice(number string, date time.Time) *core.Invoice {
	inv := &core.Invoice{
		InvoiceNo:    number,
		Date:         date,
		Type:         core.TypeTax,
		CustomerName: "ABC Corp",
		Currency:     "KRW",
		CreatedAt:    date,
		UpdatedAt:    date,
	}
	inv.CalculateFromTotal(decimal.NewFromInt(3300000))
	return inv
}

func TestPostgres_InsertAndFind(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	ctx := context.Background()

	inv := testInvoice("2026-001", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if err := inv.AddItem("Consulting (day)", decimal.NewFromInt(2), decimal.NewFromInt(800000), nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	inv.CalculateTotals()

	if err := pg.InsertInvoice(ctx, inv); err != nil {
		t.Fatalf("InsertInvoice: %v", err)
	}
	if inv.ID == 0 {
		t.Error("insert must fill in the generated ID")
	}

	got, err := pg.FindInvoiceByNumber(ctx, "2026-001")
	if err != nil {
		t.Fatalf("FindInvoiceByNumber: %v", err)
	}
	if got.CustomerName != "ABC Corp" || len(got.Items) != 1 {
		t.Errorf("loaded invoice = %+v", got)
	}
	if !got.Total.Equal(inv.Total) {
		t.Errorf("Total = %s, want %s", got.Total, inv.Total)
	}

	_, err = pg.FindInvoiceByNumber(ctx, "2026-999")
	var nfErr *core.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("err = %v, want *NotFoundError", err)
	}
}

func TestPostgres_DuplicateNumberIsConstraintViolation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	ctx := context.Background()

	if err := pg.InsertInvoice(ctx, testInvoice("2026-001", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := pg.InsertInvoice(ctx, testInvoice("2026-001", time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)))
	if !errors.Is(err, core.ErrDuplicateNumber) {
		t.Errorf("err = %v, want ErrDuplicateNumber", err)
	}
}

func TestPostgres_SearchAndMaxSequence(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	ctx := context.Background()

	for i, date := range []time.Time{
		time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	} {
		if err := pg.InsertInvoice(ctx, testInvoice(core.FormatInvoiceNumber(2026, i+1), date)); err != nil {
			t.Fatalf("InsertInvoice: %v", err)
		}
	}

	all, err := pg.SearchInvoices(ctx, core.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchInvoices: %v", err)
	}
	if len(all) != 3 || all[0].InvoiceNo != "2026-003" {
		t.Errorf("unfiltered search = %d results, first %q", len(all), all[0].InvoiceNo)
	}

	byMonth, err := pg.SearchInvoices(ctx, core.SearchFilter{Month: "2026-08"})
	if err != nil {
		t.Fatalf("SearchInvoices(month): %v", err)
	}
	if len(byMonth) != 2 {
		t.Errorf("month filter = %d results, want 2", len(byMonth))
	}

	max, err := pg.MaxSequenceForYear(ctx, 2026)
	if err != nil {
		t.Fatalf("MaxSequenceForYear: %v", err)
	}
	if max != 3 {
		t.Errorf("max = %d, want 3", max)
	}
	if max, _ := pg.MaxSequenceForYear(ctx, 2025); max != 0 {
		t.Errorf("2025 max = %d, want 0", max)
	}
}

func TestPostgres_SearchOrdersNumerically(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	ctx := context.Background()

	for _, no := range []string{"2026-999", "2026-1000", "2025-002"} {
		if err := pg.InsertInvoice(ctx, testInvoice(no, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))); err != nil {
			t.Fatalf("InsertInvoice(%s): %v", no, err)
		}
	}

	all, err := pg.SearchInvoices(ctx, core.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchInvoices: %v", err)
	}
	want := []string{"2026-1000", "2026-999", "2025-002"}
	for i, no := range want {
		if all[i].InvoiceNo != no {
			t.Errorf("result[%d] = %s, want %s", i, all[i].InvoiceNo, no)
		}
	}

	if max, _ := pg.MaxSequenceForYear(ctx, 2026); max != 1000 {
		t.Errorf("2026 max = %d, want 1000", max)
	}

	// Items-less invoices reload as total-specified and still validate.
	got, err := pg.FindInvoiceByNumber(ctx, "2026-999")
	if err != nil {
		t.Fatalf("FindInvoiceByNumber: %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("reloaded invoice failed validation: %v", err)
	}
}

func TestPostgres_UpdateInvoiceReplacesItems(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	ctx := context.Background()

	inv := testInvoice("2026-001", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if err := inv.AddItem("Consulting (day)", decimal.NewFromInt(1), decimal.NewFromInt(800000), nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	inv.CalculateTotals()
	if err := pg.InsertInvoice(ctx, inv); err != nil {
		t.Fatalf("InsertInvoice: %v", err)
	}

	inv.Items = nil
	if err := inv.AddItem("License seat", decimal.NewFromInt(10), decimal.NewFromInt(55000), nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	inv.CalculateTotals()
	if err := pg.UpdateInvoice(ctx, inv); err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}

	got, err := pg.FindInvoiceByNumber(ctx, "2026-001")
	if err != nil {
		t.Fatalf("FindInvoiceByNumber: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Description != "License seat" {
		t.Errorf("items after update = %+v", got.Items)
	}
}

func TestPostgres_ConcurrentAllocation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	alloc := core.NewAllocator(pg)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv := testInvoice("", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
			if err := alloc.AllocateAndInsert(ctx, inv); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent allocation error: %v", err)
	}

	all, err := pg.SearchInvoices(ctx, core.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchInvoices: %v", err)
	}
	if len(all) != workers {
		t.Fatalf("got %d invoices, want %d", len(all), workers)
	}
	seen := make(map[string]bool)
	for _, inv := range all {
		if seen[inv.InvoiceNo] {
			t.Fatalf("duplicate invoice number: %s", inv.InvoiceNo)
		}
		seen[inv.InvoiceNo] = true
	}
}

func TestPostgres_MasterLookups(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	pg := store.NewPostgres(pool)
	ctx := context.Background()

	c, err := pg.FindCustomerByName(ctx, "대한상사")
	if err != nil || c == nil {
		t.Fatalf("FindCustomerByName = %v, %v", c, err)
	}
	if c, err := pg.FindCustomerByName(ctx, "missing"); err != nil || c != nil {
		t.Errorf("missing customer must be (nil, nil), got %v, %v", c, err)
	}

	it, err := pg.FindItemByName(ctx, "License seat")
	if err != nil || it == nil {
		t.Fatalf("FindItemByName = %v, %v", it, err)
	}
	if !it.DefaultPrice.Equal(decimal.RequireFromString("55000")) {
		t.Errorf("DefaultPrice = %s", it.DefaultPrice)
	}
}
