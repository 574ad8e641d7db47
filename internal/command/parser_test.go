package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseNewTaxInvoice(t *testing.T) {
	cmd, err := Parse(`new tax invoice customer="ABC Corp" total=3300000`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cmd.Kind != KindNewInvoice {
		t.Errorf("Kind = %q, want %q", cmd.Kind, KindNewInvoice)
	}
	if cmd.Type != TaxInvoice {
		t.Errorf("Type = %q, want Tax", cmd.Type)
	}
	if cmd.Customer != "ABC Corp" {
		t.Errorf("Customer = %q, want ABC Corp", cmd.Customer)
	}
	if !cmd.HasTotal || !cmd.Total.Equal(decimal.NewFromInt(3300000)) {
		t.Errorf("Total = %s (has=%v), want 3300000", cmd.Total, cmd.HasTotal)
	}
	if cmd.Currency != "KRW" {
		t.Errorf("Currency = %q, want default KRW", cmd.Currency)
	}
}

func TestParseKoreanAliases(t *testing.T) {
	cmd, err := Parse(`new normal invoice 고객="대한상사" 총액=1,500,000 통화="usd"`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cmd.Type != NormalInvoice {
		t.Errorf("Type = %q, want Normal", cmd.Type)
	}
	if cmd.Customer != "대한상사" {
		t.Errorf("Customer = %q", cmd.Customer)
	}
	if !cmd.Total.Equal(decimal.NewFromInt(1500000)) {
		t.Errorf("Total = %s, commas must be stripped", cmd.Total)
	}
	if cmd.Currency != "USD" {
		t.Errorf("Currency = %q, want uppercased USD", cmd.Currency)
	}
}

func TestParseSearchInvoice(t *testing.T) {
	cmd, err := Parse(`search invoice 고객="ABC" month=2026-08 type=tax date_from=2026-08-01 date_to=2026-08-31`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cmd.Kind != KindSearchInvoice {
		t.Fatalf("Kind = %q", cmd.Kind)
	}
	if cmd.Month != "2026-08" || cmd.TypeFilter != TaxInvoice {
		t.Errorf("Month=%q TypeFilter=%q", cmd.Month, cmd.TypeFilter)
	}
	if cmd.DateFrom != "2026-08-01" || cmd.DateTo != "2026-08-31" {
		t.Errorf("DateFrom=%q DateTo=%q", cmd.DateFrom, cmd.DateTo)
	}
}

func TestParseOpenAndDuplicate(t *testing.T) {
	for _, tt := range []struct {
		raw  string
		kind Kind
	}{
		{`open invoice 번호="2026-001"`, KindOpenInvoice},
		{`duplicate invoice number=2026-001`, KindDuplicateInvoice},
	} {
		cmd, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tt.raw, err)
		}
		if cmd.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %q, want %q", tt.raw, cmd.Kind, tt.kind)
		}
		if cmd.Number != "2026-001" {
			t.Errorf("Parse(%q).Number = %q", tt.raw, cmd.Number)
		}
	}
}

func TestParseUnknownVerb(t *testing.T) {
	_, err := Parse(`delete invoice number=2026-001`)
	var unknownErr *UnknownCommandError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("err = %v, want *UnknownCommandError", err)
	}
	if unknownErr.Verb != "delete invoice" {
		t.Errorf("Verb = %q", unknownErr.Verb)
	}
}

func TestParseMissingNumber(t *testing.T) {
	for _, raw := range []string{`open invoice`, `duplicate invoice 고객="ABC"`} {
		_, err := Parse(raw)
		var missingErr *MissingParameterError
		if !errors.As(err, &missingErr) {
			t.Fatalf("Parse(%q) err = %v, want *MissingParameterError", raw, err)
		}
		if missingErr.Field != FieldNumber {
			t.Errorf("Field = %q, want number", missingErr.Field)
		}
	}
}

func TestParseInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"total not a number", `new tax invoice total=abc`, FieldTotal},
		{"negative total", `new tax invoice total=-100`, FieldTotal},
		{"bad month", `search invoice month=August`, FieldMonth},
		{"bad currency", `new tax invoice currency=GBP`, FieldCurrency},
		{"bad type filter", `search invoice type=draft`, FieldType},
		{"bad date", `search invoice date_from=01-08-2026`, FieldDateFrom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			var invErr *InvalidValueError
			if !errors.As(err, &invErr) {
				t.Fatalf("err = %v, want *InvalidValueError", err)
			}
			if invErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", invErr.Field, tt.field)
			}
		})
	}
}

func TestParseTypeFilterOnlyForSearch(t *testing.T) {
	// `type` on a new command is not a filter; it stays unrecognized rather
	// than failing the parse.
	cmd, err := Parse(`new tax invoice type=normal`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cmd.TypeFilter != "" {
		t.Errorf("TypeFilter = %q, want empty outside search", cmd.TypeFilter)
	}
}

func TestParseKeepsExtraParams(t *testing.T) {
	cmd, err := Parse(`new tax invoice customer="ABC" memo="net 30"`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cmd.Extra["memo"] != "net 30" {
		t.Errorf("Extra = %v, want memo carried through", cmd.Extra)
	}
}

func TestSuggestions(t *testing.T) {
	all := Suggestions("")
	if len(all) == 0 {
		t.Fatal("empty partial must return templates")
	}

	prefixed := Suggestions("new tax")
	if len(prefixed) != 1 || !strings.HasPrefix(prefixed[0], "new tax invoice") {
		t.Errorf("Suggestions(\"new tax\") = %v", prefixed)
	}

	// No prefix match falls back to word containment.
	byWord := Suggestions("invoice 번호")
	for _, s := range byWord {
		if !strings.Contains(s, "번호") && !strings.Contains(s, "invoice") {
			t.Errorf("suggestion %q matches neither word", s)
		}
	}
}
