package repl

import (
	"fmt"
	"strings"

	"invoice-studio/internal/core"
)

func printInvoice(inv *core.Invoice) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  INVOICE %s (%s)\n", inv.InvoiceNo, inv.Type)
	fmt.Printf("  Date     : %s\n", inv.Date.Format("2006-01-02"))
	fmt.Printf("  Customer : %s\n", inv.CustomerName)
	fmt.Printf("  Currency : %s\n", inv.Currency)
	if inv.ExtractionConfidence != nil {
		fmt.Printf("  Extracted: confidence %.2f\n", *inv.ExtractionConfidence)
	}
	if len(inv.Items) > 0 {
		fmt.Println(strings.Repeat("-", 62))
		fmt.Printf("  %-28s %8s %12s %12s\n", "DESCRIPTION", "QTY", "UNIT PRICE", "AMOUNT")
		for _, item := range inv.Items {
			fmt.Printf("  %-28s %8s %12s %12s\n",
				item.Description, item.Quantity.String(),
				item.UnitPrice.StringFixed(2), item.Amount.StringFixed(2))
		}
	}
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-30s %29s\n", "Subtotal", inv.Subtotal.StringFixed(2))
	fmt.Printf("  %-30s %29s\n", "VAT", inv.VAT.StringFixed(2))
	fmt.Printf("  %-30s %29s\n", "Total", inv.Total.StringFixed(2))
	if inv.Notes != "" {
		fmt.Printf("  Notes: %s\n", inv.Notes)
	}
	fmt.Println(strings.Repeat("=", 62))
}

func printInvoiceList(invoices []core.Invoice) {
	if len(invoices) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-10s %-12s %-8s %-20s %15s\n", "NUMBER", "DATE", "TYPE", "CUSTOMER", "TOTAL")
	fmt.Println(strings.Repeat("-", 72))
	for _, inv := range invoices {
		fmt.Printf("  %-10s %-12s %-8s %-20s %15s\n",
			inv.InvoiceNo, inv.Date.Format("2006-01-02"), inv.Type,
			inv.CustomerName, inv.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 72))
}
