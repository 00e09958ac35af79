// Command reconcile checks that user balances and open escrow add up to the
// coins minted through the ledger.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"microtask/internal/app"
	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
	"microtask/pkg/config"
	"microtask/pkg/logger"
)

func main() {
	driver := pflag.String("driver", "", "storage driver to check (defaults to DATABASE_DRIVER)")
	asJSON := pflag.Bool("json", false, "print the report as JSON")
	timeout := pflag.Duration("timeout", 2*time.Minute, "give up after this long")
	pflag.Parse()

	os.Exit(run(*driver, *asJSON, *timeout))
}

func run(driver string, asJSON bool, timeout time.Duration) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}
	if driver != "" {
		cfg.DatabaseDriver = driver
	}
	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return 2
	}
	defer stores.Close()

	ledger := usecase.NewLedgerUseCase(stores.Entries, stores.Users, stores.Tasks, stores.Submissions)
	report, err := ledger.Reconcile(ctx, usecase.Actor{Email: "reconcile", Role: entity.RoleAdmin})
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		return 2
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
	} else {
		printReport(report)
	}

	if !report.Balanced {
		return 1
	}
	return 0
}

func printReport(r *usecase.ReconcileReport) {
	fmt.Printf("users:              %d\n", r.Users)
	fmt.Printf("ledger entries:     %d\n", r.Entries)
	fmt.Printf("minted:             %d\n", r.Minted)
	fmt.Printf("withdrawn:          %d\n", r.Withdrawn)
	fmt.Printf("forfeited:          %d\n", r.Forfeited)
	fmt.Printf("circulating:        %d\n", r.Circulating())
	fmt.Printf("balances:           %d\n", r.TotalBalances)
	fmt.Printf("escrow outstanding: %d\n", r.EscrowOutstanding)

	for _, d := range r.Drifts {
		fmt.Printf("drift %s: balance %d, entries %d (%+d)\n", d.Email, d.Balance, d.EntrySum, d.Drift)
	}

	if r.Balanced {
		fmt.Println("ledger balanced")
	} else {
		fmt.Println("ledger NOT balanced")
	}
}
