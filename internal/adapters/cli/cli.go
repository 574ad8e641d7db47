package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"invoice-studio/internal/app"
)

// Exec runs a single raw command and prints the result. With asJSON set the
// payload is emitted as indented JSON on stdout for scripting; otherwise a
// short human summary is printed.
func Exec(ctx context.Context, svc app.ApplicationService, raw string, asJSON bool) error {
	result, err := svc.RunCommand(ctx, raw)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if result.Invoice != nil {
			return enc.Encode(result.Invoice)
		}
		return enc.Encode(result.Invoices)
	}

	fmt.Println(result.Message)
	if result.Invoice != nil {
		fmt.Printf("  %s  %s  %s  %s  total %s\n",
			result.Invoice.InvoiceNo, result.Invoice.Date.Format("2006-01-02"),
			result.Invoice.Type, result.Invoice.CustomerName,
			result.Invoice.Total.StringFixed(2))
	}
	for _, inv := range result.Invoices {
		fmt.Printf("  %s  %s  %s  %s  total %s\n",
			inv.InvoiceNo, inv.Date.Format("2006-01-02"), inv.Type,
			inv.CustomerName, inv.Total.StringFixed(2))
	}
	return nil
}
