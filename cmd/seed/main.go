// Command seed loads teams and player cards from a YAML roster file. Teams that
// already exist (same city and name) are left untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nedgladstone/cardball/internal/app"
)

func main() {
	path := flag.String("file", "roster.yaml", "YAML roster file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roster, err := app.LoadRosterFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read roster: %v\n", err)
		os.Exit(1)
	}
	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	n, err := a.SeedRoster(ctx, roster)
	if err != nil {
		a.Log.Error("Seeding failed", "file", *path, "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Roster seeded", "file", *path, "teams", n)
}
