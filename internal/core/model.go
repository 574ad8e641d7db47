package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceType string

const (
	TypeTax    InvoiceType = "Tax"
	TypeNormal InvoiceType = "Normal"
)

// Invoice is the persisted invoice record. InvoiceNo is the identity
// (format YYYY-NNN) and is assigned exactly once, by the Allocator.
type Invoice struct {
	ID                   int             `json:"id"`
	InvoiceNo            string          `json:"invoice_no"`
	Date                 time.Time       `json:"date"`
	Type                 InvoiceType     `json:"type"`
	CustomerID           *int            `json:"customer_id,omitempty"`
	CustomerName         string          `json:"customer_name"`
	Currency             string          `json:"currency"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	VAT                  decimal.Decimal `json:"vat"`
	Total                decimal.Decimal `json:"total"`
	Items                []InvoiceItem   `json:"items"`
	PurchaseOrderID      *int            `json:"po_id,omitempty"`
	ExtractionConfidence *float64        `json:"extraction_confidence,omitempty"`
	FilePath             *string         `json:"file_path,omitempty"`
	Notes                string          `json:"notes"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`

	// TotalSpecified records that the amounts came from a directly given
	// total rather than line items. Set by CalculateFromTotal, and by
	// stores when loading an invoice that has no line items. Not persisted.
	TotalSpecified bool `json:"-"`
}

// InvoiceItem is a line owned by exactly one invoice and destroyed with it.
// ItemID optionally references the item master; free-text lines leave it nil.
type InvoiceItem struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	ItemID      *int            `json:"item_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	LineOrder   int             `json:"line_order"`
}

// Customer is referenced by invoices by identifier only; an invoice never
// owns its customer's lifecycle.
type Customer struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Item is a master record used to pre-fill invoice lines. It is never
// mutated by invoice operations.
type Item struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	Unit         string          `json:"unit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
