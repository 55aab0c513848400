// Command tripmate loads the shared trip snapshot and prints the day
// schedule and the expense ledger. Point TRIPMATE_DSN at the shared
// Postgres store, or leave it unset for a local SQLite file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/khuan/tripmate/internal/gateway/sqlstore"
	"github.com/khuan/tripmate/internal/ledger"
	"github.com/khuan/tripmate/internal/schedule"
	"github.com/khuan/tripmate/internal/state"
	"github.com/khuan/tripmate/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	dsn := getEnv("TRIPMATE_DSN", "./data/tripmate.db")

	gw, err := sqlstore.Open(dsn)
	if err != nil {
		slog.Error("Failed to open gateway", "dsn", dsn, "error", err)
		os.Exit(1)
	}
	defer gw.Close()
	slog.Info("Gateway opened", "dsn", dsn)

	store := state.New(gw)
	report := store.LoadAll(context.Background())
	if !report.OK() {
		for kind, err := range report.Errors {
			slog.Warn("Collection unavailable", "collection", kind, "error", err)
		}
	}

	stores := store.Stores()
	items := store.Items()
	done, total := state.Progress(items)

	fmt.Printf("Shopping list: %d/%d purchased\n\n", done, total)

	for _, day := range schedule.Days() {
		fmt.Printf("%s (%s) — %s\n", day.Label, day.Date, day.Goal)
		assigned := schedule.StoresForDay(stores, day.ID)
		if len(assigned) == 0 {
			fmt.Println("  (no stores planned)")
			continue
		}
		for _, st := range assigned {
			fmt.Printf("  - %s", st.Name)
			if st.Category != "" {
				fmt.Printf(" [%s]", st.Category)
			}
			fmt.Println()
		}
	}
	if unplanned := schedule.UnscheduledStores(stores); len(unplanned) > 0 {
		fmt.Printf("\nUnscheduled stores: %d\n", len(unplanned))
	}

	summary := ledger.Summarize(store.Expenses())
	fmt.Printf("\nSpent so far: %s\n", orDash(ledger.Format(summary.Total)))
	for _, ca := range summary.ByCategory {
		fmt.Printf("  %-10s %s\n", ca.Category, ledger.Format(ca.Amount))
	}
}

// orDash keeps the zero total readable: Format renders zero as "".
func orDash(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
