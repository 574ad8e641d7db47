package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"invoice-studio/internal/core"
)

var _ core.Store = (*Memory)(nil)
var _ core.Store = (*Postgres)(nil)

// Postgres implements core.Store over a pgx connection pool. The UNIQUE
// constraint on invoices.invoice_no backs the allocator's conflict-retry
// path in multi-writer deployments.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const invoiceColumns = `id, invoice_no, date, type, customer_id, customer_name, currency,
	subtotal, vat, total, po_id, extraction_confidence, file_path, notes, created_at, updated_at`

func (s *Postgres) FindInvoiceByNumber(ctx context.Context, number string) (*core.Invoice, error) {
	inv := &core.Invoice{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE invoice_no = $1`, number,
	).Scan(
		&inv.ID, &inv.InvoiceNo, &inv.Date, &inv.Type, &inv.CustomerID, &inv.CustomerName,
		&inv.Currency, &inv.Subtotal, &inv.VAT, &inv.Total, &inv.PurchaseOrderID,
		&inv.ExtractionConfidence, &inv.FilePath, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Number: number}
		}
		return nil, fmt.Errorf("find invoice %s: %w", number, err)
	}

	items, err := s.loadItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	// A persisted invoice without line items got its amounts from a
	// directly specified total.
	inv.TotalSpecified = len(items) == 0
	return inv, nil
}

func (s *Postgres) loadItems(ctx context.Context, invoiceID int) ([]core.InvoiceItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_id, item_id, description, quantity, unit_price, amount, line_order
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_order`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("load items for invoice %d: %w", invoiceID, err)
	}
	defer rows.Close()

	var items []core.InvoiceItem
	for rows.Next() {
		var it core.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ItemID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Amount, &it.LineOrder); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Postgres) SearchInvoices(ctx context.Context, f core.SearchFilter) ([]core.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}

	if f.Customer != "" {
		add("customer_name LIKE $%d", "%"+f.Customer+"%")
	}
	if f.Number != "" {
		add("invoice_no = $%d", f.Number)
	}
	if f.Month != "" {
		add("to_char(date, 'YYYY-MM') = $%d", f.Month)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.DateFrom != "" {
		add("date >= $%d", f.DateFrom)
	}
	if f.DateTo != "" {
		add("date <= $%d", f.DateTo)
	}
	// Numeric ordering: the sequence part grows past 999 unpadded, where
	// text ordering would put "2026-1000" before "2026-999".
	query += ` ORDER BY SPLIT_PART(invoice_no, '-', 1)::int DESC, SPLIT_PART(invoice_no, '-', 2)::int DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		var inv core.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNo, &inv.Date, &inv.Type, &inv.CustomerID, &inv.CustomerName,
			&inv.Currency, &inv.Subtotal, &inv.VAT, &inv.Total, &inv.PurchaseOrderID,
			&inv.ExtractionConfidence, &inv.FilePath, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}

	for i := range invoices {
		items, err := s.loadItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
		invoices[i].TotalSpecified = len(items) == 0
	}
	return invoices, nil
}

func (s *Postgres) MaxSequenceForYear(ctx context.Context, year int) (int, error) {
	var max int
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SPLIT_PART(invoice_no, '-', 2) AS INTEGER)), 0)
		FROM invoices
		WHERE invoice_no LIKE $1`,
		fmt.Sprintf("%04d-%%", year),
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max sequence for year %d: %w", year, err)
	}
	return max, nil
}

func (s *Postgres) InsertInvoice(ctx context.Context, inv *core.Invoice) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert invoice: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_no, date, type, customer_id, customer_name, currency,
		                      subtotal, vat, total, po_id, extraction_confidence, file_path,
		                      notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		inv.InvoiceNo, inv.Date, string(inv.Type), inv.CustomerID, inv.CustomerName,
		inv.Currency, inv.Subtotal, inv.VAT, inv.Total, inv.PurchaseOrderID,
		inv.ExtractionConfidence, inv.FilePath, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateNumber
		}
		return fmt.Errorf("insert invoice %s: %w", inv.InvoiceNo, err)
	}

	if err := s.insertItemsTx(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert invoice: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateInvoice(ctx context.Context, inv *core.Invoice) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update invoice: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE invoices SET date = $1, type = $2, customer_id = $3, customer_name = $4,
		       currency = $5, subtotal = $6, vat = $7, total = $8, file_path = $9,
		       notes = $10, updated_at = now()
		WHERE invoice_no = $11`,
		inv.Date, string(inv.Type), inv.CustomerID, inv.CustomerName, inv.Currency,
		inv.Subtotal, inv.VAT, inv.Total, inv.FilePath, inv.Notes, inv.InvoiceNo,
	)
	if err != nil {
		return fmt.Errorf("update invoice %s: %w", inv.InvoiceNo, err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Number: inv.InvoiceNo}
	}

	// Line items are owned by the invoice: replace wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("clear items for invoice %s: %w", inv.InvoiceNo, err)
	}
	if err := s.insertItemsTx(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update invoice: %w", err)
	}
	return nil
}

func (s *Postgres) insertItemsTx(ctx context.Context, tx pgx.Tx, inv *core.Invoice) error {
	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID
		item.LineOrder = i
		err := tx.QueryRow(ctx, `
			INSERT INTO invoice_items (invoice_id, item_id, description, quantity, unit_price, amount, line_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			inv.ID, item.ItemID, item.Description, item.Quantity, item.UnitPrice, item.Amount, item.LineOrder,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert invoice item %d: %w", i, err)
		}
	}
	return nil
}

func (s *Postgres) FindCustomerByName(ctx context.Context, name string) (*core.Customer, error) {
	c := &core.Customer{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, contact_person, address, email, phone, created_at, updated_at
		FROM customers WHERE name = $1`,
		name,
	).Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find customer %q: %w", name, err)
	}
	return c, nil
}

func (s *Postgres) FindItemByName(ctx context.Context, name string) (*core.Item, error) {
	it := &core.Item{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, default_price, unit, created_at, updated_at
		FROM items WHERE name = $1`,
		name,
	).Scan(&it.ID, &it.Name, &it.Description, &it.DefaultPrice, &it.Unit, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find item %q: %w", name, err)
	}
	return it, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
