package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/demo/seed"
	"github.com/askdata/askdata/internal/migrations"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/warehouse"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up|down|status|seed")
	steps := flag.Int("steps", 0, "number of migration steps; 0 means all for up, 1 for down")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadDatabase("askdata-migrate", os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	dialect, err := warehouse.DialectFor(cfg.Database.Driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := warehouse.Open(ctx, warehouse.DBConfigFrom(cfg.Database))
	if err != nil {
		fmt.Fprintf(os.Stderr, "database open error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	runner := migrations.NewRunner(dialect)
	switch *direction {
	case "up":
		applied, err := runner.Up(ctx, db, *steps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migration up failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("applied %d migration(s)\n", applied)
	case "down":
		applied, err := runner.Down(ctx, db, *steps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migration down failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("rolled back %d migration(s)\n", applied)
	case "status":
		pending, err := runner.Pending(ctx, db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migration status failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d pending migration(s) %v\n", len(pending), pending)
	case "seed":
		seedCfg, err := seed.LoadConfigFromEnv(os.LookupEnv)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed config error: %v\n", err)
			os.Exit(1)
		}
		logger := observability.NewLogger(cfg, os.Stdout)
		counts, err := seed.NewLoader(db, dialect, logger).Load(ctx, seed.Generate(seedCfg), seedCfg.Reset)
		if err != nil {
			logger.Error("seed failed", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Printf("seeded %d customers, %d products, %d orders, %d order items\n",
			counts.Customers, counts.Products, counts.Orders, counts.OrderItems)
	default:
		fmt.Fprintf(os.Stderr, "invalid direction: %s\n", *direction)
		os.Exit(1)
	}
}
