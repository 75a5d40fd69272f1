package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportehq/support-metrics/internal/adapters/secondary/export"
	"github.com/soportehq/support-metrics/internal/adapters/secondary/memory"
	"github.com/soportehq/support-metrics/internal/adapters/secondary/postgres"
	"github.com/soportehq/support-metrics/internal/config"
	"github.com/soportehq/support-metrics/internal/core/ports"
	"github.com/soportehq/support-metrics/internal/core/services"
	"github.com/soportehq/support-metrics/internal/infrastructure/logging"
	"github.com/soportehq/support-metrics/internal/sampledata"
)

// One-shot report export: assemble the full snapshot and write it to a JSON
// file. With -sample the dataset is generated in memory instead of read from
// the database, which keeps the tool usable without a running instance.
func main() {
	var (
		outPath   = flag.String("out", "report.json", "output file path")
		threshold = flag.Float64("threshold", 0, "SLA threshold in hours (0 uses the configured default)")
		weeks     = flag.Int("weeks", 0, "trend window in weeks (0 uses the configured default)")
		sample    = flag.Bool("sample", false, "use generated sample data instead of the database")
		count     = flag.Int("count", 200, "sample ticket count when -sample is set")
		seed      = flag.Int64("seed", 42, "sample data seed when -sample is set")
	)
	flag.Parse()

	logger := logging.NewLogger(logging.Config{
		Level:       "info",
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "support-metrics-export",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var ticketRepo ports.TicketRepository
	if *sample {
		gen := sampledata.NewGenerator(*seed, time.Now().UTC())
		ticketRepo = memory.NewTicketRepository(gen.Tickets(*count))
		logger.Info("using generated sample data", "count", *count, "seed", *seed)
	} else {
		cfg, err := config.Load()
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}

		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		ticketRepo = postgres.NewTicketRepository(pool)
	}

	reportService := services.NewReportService(ticketRepo, logger)
	report, err := reportService.AssembleReport(ctx, ports.AssembleReportParams{
		SLAThresholdHours: *threshold,
		TrendWeeks:        *weeks,
	})
	if err != nil {
		logger.Error("failed to assemble report", "error", err)
		os.Exit(1)
	}

	exporter := export.NewJSONExporter(*outPath, logger)
	if err := exporter.Export(ctx, report); err != nil {
		logger.Error("failed to export report", "error", err)
		os.Exit(1)
	}

	logger.Info("report exported", "path", *outPath, "tickets", report.Totals.Total)
}
