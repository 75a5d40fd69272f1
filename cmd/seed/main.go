package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportehq/support-metrics/internal/adapters/secondary/postgres"
	"github.com/soportehq/support-metrics/internal/config"
	"github.com/soportehq/support-metrics/internal/infrastructure/logging"
	"github.com/soportehq/support-metrics/internal/sampledata"
)

// Seeds the tickets table with generated sample data. Intended for local
// development and demo environments.
func main() {
	var (
		count = flag.Int("count", 200, "number of tickets to generate")
		seed  = flag.Int64("seed", 42, "generator seed")
	)
	flag.Parse()

	logger := logging.NewLogger(logging.Config{
		Level:       "info",
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "support-metrics-seed",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	gen := sampledata.NewGenerator(*seed, time.Now().UTC())
	tickets := gen.Tickets(*count)

	repo := postgres.NewTicketRepository(pool)
	if err := repo.InsertTickets(ctx, tickets); err != nil {
		logger.Error("failed to insert tickets", "error", err)
		os.Exit(1)
	}

	logger.Info("sample data inserted", "count", len(tickets), "seed", *seed)
}
