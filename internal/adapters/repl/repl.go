package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"invoice-studio/internal/app"
)

// Run starts the interactive command bar loop. Everything the user types is
// routed through the command engine; only help/suggest/exit are handled
// locally.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Invoice Studio")
	fmt.Println(`Type a command like: new tax invoice customer="ABC Corp" total=3300000`)
	fmt.Println("Type 'help' for the command list, 'exit' to quit.")
	fmt.Println(strings.Repeat("-", 70))

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "help", "h", "?":
			printHelp(svc)
			continue
		case "exit", "quit", "q":
			fmt.Println("Goodbye!")
			return
		}

		if partial, ok := strings.CutPrefix(input, "suggest"); ok {
			for _, s := range svc.Suggestions(strings.TrimSpace(partial)) {
				fmt.Printf("  %s\n", s)
			}
			continue
		}

		result, err := svc.RunCommand(ctx, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Println(result.Message)
		if result.Invoice != nil {
			printInvoice(result.Invoice)
		}
		if result.Invoices != nil {
			printInvoiceList(result.Invoices)
		}
	}
}

func printHelp(svc app.ApplicationService) {
	fmt.Println("Commands (keys accept Korean or English aliases):")
	for _, s := range svc.Suggestions("") {
		fmt.Printf("  %s\n", s)
	}
	fmt.Println(`  search also accepts: type=Tax|Normal, date_from/date_to (YYYY-MM-DD)`)
	fmt.Println("  help       show this help")
	fmt.Println("  suggest X  show command templates matching X")
	fmt.Println("  exit       quit")
}
