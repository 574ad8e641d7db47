package command

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the command variant produced by Parse.
type Kind string

const (
	KindNewInvoice       Kind = "new_invoice"
	KindSearchInvoice    Kind = "search_invoice"
	KindOpenInvoice      Kind = "open_invoice"
	KindDuplicateInvoice Kind = "duplicate_invoice"
)

// InvoiceType is the wire-level invoice type a `new` command carries.
type InvoiceType string

const (
	TaxInvoice    InvoiceType = "Tax"
	NormalInvoice InvoiceType = "Normal"
)

// Currencies accepted by the `currency` parameter. KRW is the default.
var allowedCurrencies = map[string]bool{
	"KRW": true,
	"USD": true,
	"EUR": true,
	"JPY": true,
}

// Command is the typed, validated result of parsing one command line.
// It is ephemeral: Raw is kept only for error reporting and display.
type Command struct {
	Kind Kind
	Raw  string

	// New invoice fields.
	Type     InvoiceType
	Customer string
	Total    decimal.Decimal
	HasTotal bool
	Currency string

	// Search / open / duplicate fields.
	Number     string
	Month      string // YYYY-MM
	TypeFilter InvoiceType
	DateFrom   string // YYYY-MM-DD
	DateTo     string // YYYY-MM-DD

	// Unrecognized parameters, kept verbatim.
	Extra map[string]string
}

// Parse turns a raw command line into a Command or a typed parse failure:
// *TokenizeError, *UnknownCommandError, *MissingParameterError or
// *InvalidValueError.
func Parse(raw string) (*Command, error) {
	verb, tokens, err := Tokenize(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	params := Resolve(tokens)
	cmd := &Command{Raw: raw, Extra: params.Extra}

	switch strings.ToLower(verb) {
	case "new tax invoice":
		cmd.Kind = KindNewInvoice
		cmd.Type = TaxInvoice
	case "new normal invoice":
		cmd.Kind = KindNewInvoice
		cmd.Type = NormalInvoice
	case "search invoice":
		cmd.Kind = KindSearchInvoice
	case "open invoice":
		cmd.Kind = KindOpenInvoice
	case "duplicate invoice":
		cmd.Kind = KindDuplicateInvoice
	default:
		return nil, &UnknownCommandError{Verb: verb, Raw: raw}
	}

	if v, ok := params.Get(FieldCustomer); ok {
		cmd.Customer = v
	}
	if v, ok := params.Get(FieldNumber); ok {
		cmd.Number = v
	}

	if v, ok := params.Get(FieldTotal); ok {
		total, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
		if err != nil {
			return nil, &InvalidValueError{Field: FieldTotal, Value: v, Reason: "not a number"}
		}
		if total.IsNegative() {
			return nil, &InvalidValueError{Field: FieldTotal, Value: v, Reason: "must be non-negative"}
		}
		cmd.Total = total
		cmd.HasTotal = true
	}

	if v, ok := params.Get(FieldMonth); ok {
		if _, err := time.Parse("2006-01", v); err != nil {
			return nil, &InvalidValueError{Field: FieldMonth, Value: v, Reason: "expected YYYY-MM"}
		}
		cmd.Month = v
	}

	cmd.Currency = "KRW"
	if v, ok := params.Get(FieldCurrency); ok {
		code := strings.ToUpper(strings.TrimSpace(v))
		if !allowedCurrencies[code] {
			return nil, &InvalidValueError{Field: FieldCurrency, Value: v, Reason: "allowed: KRW, USD, EUR, JPY"}
		}
		cmd.Currency = code
	}

	if v, ok := params.Get(FieldType); ok && cmd.Kind == KindSearchInvoice {
		switch strings.ToLower(v) {
		case "tax":
			cmd.TypeFilter = TaxInvoice
		case "normal":
			cmd.TypeFilter = NormalInvoice
		default:
			return nil, &InvalidValueError{Field: FieldType, Value: v, Reason: "allowed: Tax, Normal"}
		}
	}

	for _, f := range []struct {
		field string
		dst   *string
	}{
		{FieldDateFrom, &cmd.DateFrom},
		{FieldDateTo, &cmd.DateTo},
	} {
		if v, ok := params.Get(f.field); ok {
			if _, err := time.Parse("2006-01-02", v); err != nil {
				return nil, &InvalidValueError{Field: f.field, Value: v, Reason: "expected YYYY-MM-DD"}
			}
			*f.dst = v
		}
	}

	// Command-specific required fields.
	switch cmd.Kind {
	case KindOpenInvoice, KindDuplicateInvoice:
		if cmd.Number == "" {
			return nil, &MissingParameterError{Field: FieldNumber}
		}
	}

	return cmd, nil
}

// Suggestions returns command-bar autocomplete templates filtered by the
// partial input. An empty partial returns every template.
func Suggestions(partial string) []string {
	templates := []string{
		`new tax invoice 고객="" 총액=`,
		`new normal invoice 고객="" 통화="USD"`,
		`search invoice 고객="" 월=`,
		`open invoice 번호=""`,
		`duplicate invoice 번호=""`,
	}
	partial = strings.ToLower(strings.TrimSpace(partial))
	if partial == "" {
		return templates
	}

	var filtered []string
	for _, t := range templates {
		if strings.HasPrefix(strings.ToLower(t), partial) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) > 0 {
		return filtered
	}

	for _, t := range templates {
		for _, word := range strings.Fields(partial) {
			if strings.Contains(strings.ToLower(t), word) {
				filtered = append(filtered, t)
				break
			}
		}
	}
	if len(filtered) > 0 {
		return filtered
	}
	return templates
}
