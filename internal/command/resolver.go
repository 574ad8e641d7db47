package command

import "strings"

// Canonical field names the bilingual aliases resolve to.
const (
	FieldCustomer = "customer"
	FieldTotal    = "total"
	FieldCurrency = "currency"
	FieldMonth    = "month"
	FieldNumber   = "number"
	FieldType     = "type"
	FieldDateFrom = "date_from"
	FieldDateTo   = "date_to"
)

// aliases maps every accepted key spelling (Korean or English, lowercase)
// to its canonical field name. Extending language support means adding
// rows here, not new code paths.
var aliases = map[string]string{
	"고객":        FieldCustomer,
	"customer":  FieldCustomer,
	"총액":        FieldTotal,
	"total":     FieldTotal,
	"amount":    FieldTotal,
	"통화":        FieldCurrency,
	"currency":  FieldCurrency,
	"월":         FieldMonth,
	"month":     FieldMonth,
	"번호":        FieldNumber,
	"number":    FieldNumber,
	"no":        FieldNumber,
	"타입":        FieldType,
	"type":      FieldType,
	"시작일":       FieldDateFrom,
	"date_from": FieldDateFrom,
	"종료일":       FieldDateTo,
	"date_to":   FieldDateTo,
}

// Params holds resolved command parameters: canonical fields plus an
// "extra" bucket for keys outside the alias table, kept verbatim so
// forward-compatible parameters do not break parsing.
type Params struct {
	Fields map[string]string
	Extra  map[string]string
}

// Get returns the canonical field value and whether it was present.
func (p Params) Get(field string) (string, bool) {
	v, ok := p.Fields[field]
	return v, ok
}

// Resolve maps raw tokens to canonical fields. Key matching is
// case-insensitive; when the same canonical field is given twice the
// later token wins.
func Resolve(tokens []Token) Params {
	p := Params{
		Fields: make(map[string]string),
		Extra:  make(map[string]string),
	}
	for _, t := range tokens {
		key := strings.ToLower(t.Key)
		if canonical, ok := aliases[key]; ok {
			p.Fields[canonical] = t.Value
		} else {
			p.Extra[key] = t.Value
		}
	}
	return p
}
