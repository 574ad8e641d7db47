package ai

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ExtractedInvoice
		want ExtractedInvoice
	}{
		{
			"trims and uppercases",
			ExtractedInvoice{CustomerName: "  ABC Corp ", Currency: " usd ", Confidence: 0.9},
			ExtractedInvoice{CustomerName: "ABC Corp", Currency: "USD", Confidence: 0.9},
		},
		{
			"empty currency defaults to KRW",
			ExtractedInvoice{CustomerName: "ABC", Confidence: 0.5},
			ExtractedInvoice{CustomerName: "ABC", Currency: "KRW", Confidence: 0.5},
		},
		{
			"confidence clamped low",
			ExtractedInvoice{Confidence: -0.2},
			ExtractedInvoice{Currency: "KRW", Confidence: 0},
		},
		{
			"confidence clamped high",
			ExtractedInvoice{Confidence: 1.7},
			ExtractedInvoice{Currency: "KRW", Confidence: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.normalize()
			if got.CustomerName != tt.want.CustomerName ||
				got.Currency != tt.want.Currency ||
				got.Confidence != tt.want.Confidence {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
