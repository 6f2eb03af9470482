// Command sheet-check verifies the Google Sheets setup from the command line:
// it resolves the credential and sheet key the same way the server does,
// opens the worksheet and prints what it finds.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/credentials"
	"expensetracker/internal/secrets"
	gsheet "expensetracker/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()

	store, err := secrets.Load(cfg.SecretsFile)
	if err != nil {
		log.Fatalf("secrets: %v", err)
	}
	cred, err := credentials.Resolver{Secrets: store, File: cfg.ServiceAccountFile}.Resolve()
	if err != nil {
		log.Fatalf("credential: %v", err)
	}
	key, err := gsheet.ResolveSheetKey(store, cfg.SheetKey)
	if err != nil {
		log.Fatalf("sheet key: %v", err)
	}
	fmt.Printf("Credential: %s (from %s)\n", cred.ClientEmail, cred.Source)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc, err := gsheet.Authenticate(ctx, cred)
	if err != nil {
		log.Fatalf("authenticate: %v", err)
	}
	ws, err := gsheet.OpenWorksheet(ctx, svc, key)
	if err != nil {
		log.Fatalf("open worksheet: %v", err)
	}
	tbl, err := ws.ListExpenses(ctx)
	if err != nil {
		log.Fatalf("read worksheet: %v", err)
	}

	sum := core.Summarize(tbl, cfg.MonthlyBudget)
	fmt.Printf("Spreadsheet: %s\n", ws.SpreadsheetName())
	fmt.Printf("Worksheet:   %s\n", ws.Worksheet())
	fmt.Printf("Header:      %s\n", strings.Join(tbl.Columns, " | "))
	fmt.Printf("Rows:        %d\n", sum.Rows)
	fmt.Printf("Total:       %s\n", sum.TotalSpent.StringFixed(2))
	if tbl.Index(core.ColumnAmount) < 0 {
		fmt.Fprintln(os.Stderr, "warning: no Amount column in the header row; totals will be zero")
	}
}
