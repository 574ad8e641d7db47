package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// amountTolerance is the rounding slack for money comparisons: 0.01.
var amountTolerance = decimal.New(1, -2)

var (
	vatDivisor = decimal.RequireFromString("1.1")
	vatRate    = decimal.RequireFromString("0.1")
)

// vatPolicy computes VAT either backwards from a VAT-inclusive total or
// forwards from a line-item subtotal. One pure function pair per invoice
// type; no state.
type vatPolicy struct {
	fromTotal    func(total decimal.Decimal) (subtotal, vat decimal.Decimal)
	fromSubtotal func(subtotal decimal.Decimal) (vat, total decimal.Decimal)
}

var vatPolicies = map[InvoiceType]vatPolicy{
	TypeTax: {
		fromTotal: func(total decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			subtotal := total.Div(vatDivisor).Round(2)
			return subtotal, total.Sub(subtotal)
		},
		fromSubtotal: func(subtotal decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			vat := subtotal.Mul(vatRate).Round(2)
			return vat, subtotal.Add(vat)
		},
	},
	TypeNormal: {
		fromTotal: func(total decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			return total, decimal.Zero
		},
		fromSubtotal: func(subtotal decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			return decimal.Zero, subtotal
		},
	},
}

func policyFor(t InvoiceType) vatPolicy {
	if p, ok := vatPolicies[t]; ok {
		return p
	}
	return vatPolicies[TypeNormal]
}

// AddItem appends a line item, computing its amount as quantity * unit price.
func (inv *Invoice) AddItem(description string, quantity, unitPrice decimal.Decimal, itemID *int) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("item quantity must be positive, got %s", quantity)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("item unit price must be non-negative, got %s", unitPrice)
	}
	inv.Items = append(inv.Items, InvoiceItem{
		ItemID:      itemID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
		LineOrder:   len(inv.Items),
	})
	return nil
}

// CalculateTotals derives subtotal, VAT and total from the line items.
func (inv *Invoice) CalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	inv.Subtotal = subtotal
	inv.VAT, inv.Total = policyFor(inv.Type).fromSubtotal(subtotal)
}

// CalculateFromTotal derives subtotal and VAT backwards from a VAT-inclusive
// total, for commands that specify the total directly.
func (inv *Invoice) CalculateFromTotal(total decimal.Decimal) {
	inv.Subtotal, inv.VAT = policyFor(inv.Type).fromTotal(total)
	inv.Total = total
	inv.TotalSpecified = true
}

// Duplicate produces an unsaved copy with the same customer, type, currency
// and line items, the given date, and recomputed totals. Identity, file path
// and extraction metadata are not carried over, and no state is shared with
// the source.
func (inv *Invoice) Duplicate(date time.Time) *Invoice {
	dup := &Invoice{
		Date:         date,
		Type:         inv.Type,
		CustomerID:   copyIntPtr(inv.CustomerID),
		CustomerName: inv.CustomerName,
		Currency:     inv.Currency,
		Notes:        inv.Notes,
		CreatedAt:    date,
		UpdatedAt:    date,
	}
	for _, item := range inv.Items {
		dup.Items = append(dup.Items, InvoiceItem{
			ItemID:      copyIntPtr(item.ItemID),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			LineOrder:   item.LineOrder,
		})
	}
	if len(dup.Items) > 0 {
		dup.CalculateTotals()
	} else {
		dup.CalculateFromTotal(inv.Total)
	}
	return dup
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Validate checks every persistence invariant and reports all violations
// at once as a *ValidationError.
func (inv *Invoice) Validate() error {
	var violations []string

	if inv.CustomerName == "" {
		violations = append(violations, "customer is required")
	}
	if len(inv.Items) == 0 && !inv.TotalSpecified {
		violations = append(violations, "invoice needs at least one line item or an explicit total")
	}
	if inv.Subtotal.IsNegative() || inv.VAT.IsNegative() || inv.Total.IsNegative() {
		violations = append(violations, "amounts must be non-negative")
	}

	if len(inv.Items) > 0 {
		lineSum := decimal.Zero
		for i, item := range inv.Items {
			if !item.Quantity.IsPositive() {
				violations = append(violations, fmt.Sprintf("line %d: quantity must be positive", i+1))
			}
			if item.UnitPrice.IsNegative() {
				violations = append(violations, fmt.Sprintf("line %d: unit price must be non-negative", i+1))
			}
			if item.Amount.Sub(item.Quantity.Mul(item.UnitPrice)).Abs().GreaterThan(amountTolerance) {
				violations = append(violations, fmt.Sprintf("line %d: amount does not equal quantity * unit price", i+1))
			}
			lineSum = lineSum.Add(item.Amount)
		}
		if lineSum.Sub(inv.Subtotal).Abs().GreaterThan(amountTolerance) {
			violations = append(violations, fmt.Sprintf("subtotal %s does not match line item sum %s", inv.Subtotal, lineSum))
		}
	}

	if inv.Subtotal.Add(inv.VAT).Sub(inv.Total).Abs().GreaterThan(amountTolerance) {
		violations = append(violations, fmt.Sprintf("total %s does not equal subtotal %s + vat %s", inv.Total, inv.Subtotal, inv.VAT))
	}

	switch inv.Type {
	case TypeTax:
		expectedSubtotal := inv.Total.Div(vatDivisor).Round(2)
		expectedVAT := inv.Total.Sub(expectedSubtotal)
		if inv.VAT.Sub(expectedVAT).Abs().GreaterThan(amountTolerance) {
			violations = append(violations, fmt.Sprintf("vat %s inconsistent with 10%% VAT on total %s", inv.VAT, inv.Total))
		}
	case TypeNormal:
		if !inv.VAT.IsZero() {
			violations = append(violations, "normal invoice must have zero vat")
		}
		if inv.Subtotal.Sub(inv.Total).Abs().GreaterThan(amountTolerance) {
			violations = append(violations, "normal invoice subtotal must equal total")
		}
	default:
		violations = append(violations, fmt.Sprintf("unknown invoice type %q", inv.Type))
	}

	if inv.InvoiceNo != "" && !invoiceNoPattern.MatchString(inv.InvoiceNo) {
		violations = append(violations, fmt.Sprintf("invoice number %q does not match YYYY-NNN", inv.InvoiceNo))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
