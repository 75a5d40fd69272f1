package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/soportehq/support-metrics/internal/core/domain"
	apperrors "github.com/soportehq/support-metrics/internal/core/errors"
	"github.com/soportehq/support-metrics/internal/core/metrics"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// ReportService assembles report snapshots from a single dataset fetch.
type ReportService struct {
	ticketRepo ports.TicketRepository
	logger     *slog.Logger
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service.
func NewReportService(ticketRepo ports.TicketRepository, logger *slog.Logger) ports.ReportService {
	return &ReportService{
		ticketRepo: ticketRepo,
		logger:     logger.With("service", "report"),
	}
}

// AssembleReport runs the fixed set of metrics calls against one dataset
// fetch. Every sub-report reads the same materialized view; a sub-report
// failure is recorded under its section name and the remaining sections are
// still delivered. Only a failed fetch is fatal.
func (s *ReportService) AssembleReport(ctx context.Context, params ports.AssembleReportParams) (*domain.ReportSnapshot, error) {
	threshold := params.SLAThresholdHours
	if threshold <= 0 {
		threshold = metrics.DefaultSLAThresholdHours
	}
	weeks := params.TrendWeeks
	if weeks <= 0 {
		weeks = 8
	}

	// 1. Materialize the dataset once. All sub-reports share this view.
	tickets, err := s.ticketRepo.Fetch(ctx, params.Filter)
	if err != nil {
		return nil, fmt.Errorf("fetching tickets: %w", err)
	}

	// 2. Validate at ingestion; skipped records are counted, never silent.
	dataset := metrics.NewDataset(tickets)
	for _, skipped := range dataset.Skipped {
		s.logger.Warn("skipping malformed ticket record",
			"ticket_id", skipped.TicketID,
			"error", skipped.Err,
		)
	}

	report := &domain.ReportSnapshot{
		GeneratedAt:       time.Now().UTC(),
		SLAThresholdHours: threshold,
		SkippedRecords:    dataset.SkippedCount(),
		Errors:            make(map[string]string),
	}
	records := dataset.Records

	// 3. Compute the sub-reports. Each one is a read-only pass over the
	// shared records, so they can run concurrently.
	var wg sync.WaitGroup
	var mu sync.Mutex

	run := func(section string, fn func()) {
		s.runSection(&wg, &mu, report, section, fn)
	}

	run(domain.ReportTotals, func() {
		report.Totals = metrics.TotalCounts(records)
	})
	run(domain.ReportResolutionRate, func() {
		report.ResolutionRate = metrics.ResolutionRate(records)
	})
	run(domain.ReportAvgResolution, func() {
		report.AvgResolutionHours = metrics.AverageResolutionTime(records)
	})
	run(domain.ReportSLACompliance, func() {
		report.SLACompliance = metrics.SLACompliance(records, threshold)
	})
	run(domain.ReportAvgSatisfaction, func() {
		report.AvgSatisfaction = metrics.AverageSatisfaction(records)
	})
	run(domain.ReportByCategory, func() {
		report.ByCategory = metrics.GroupBy(domain.ReportByCategory, records, metrics.ByCategory, metrics.OrderBySizeDesc)
	})
	run(domain.ReportByPriority, func() {
		report.ByPriority = metrics.GroupBy(domain.ReportByPriority, records, metrics.ByPriority, metrics.OrderByPriorityRank)
	})
	run(domain.ReportByChannel, func() {
		report.ByChannel = metrics.GroupBy(domain.ReportByChannel, records, metrics.ByChannel, metrics.OrderBySizeDesc)
	})
	run(domain.ReportAgentPerformance, func() {
		report.AgentPerformance = metrics.GroupBy(domain.ReportAgentPerformance, resolvedOnly(records), metrics.ByAgent, metrics.OrderBySizeDesc)
	})
	run(domain.ReportWeeklyTrend, func() {
		report.WeeklyTrend = metrics.WeeklyTrend(records, weeks)
	})

	wg.Wait()

	s.logger.Info("report assembled",
		"total_tickets", report.Totals.Total,
		"skipped_records", report.SkippedRecords,
		"failed_sections", len(report.Errors),
	)

	return report, nil
}

// runSection computes one sub-report in its own goroutine. A panic inside fn
// is recorded under the section name and never propagates: the remaining
// sections still deliver their results.
func (s *ReportService) runSection(wg *sync.WaitGroup, mu *sync.Mutex, report *domain.ReportSnapshot, section string, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				subErr := &apperrors.SubReportError{
					Section: section,
					Err:     fmt.Errorf("panic: %v", r),
				}
				s.logger.Error("sub-report failed", "section", section, "error", subErr)
				mu.Lock()
				report.Errors[section] = subErr.Error()
				mu.Unlock()
			}
		}()
		fn()
	}()
}

// resolvedOnly narrows the dataset to terminal tickets. Agent performance is
// measured over resolved work only.
func resolvedOnly(tickets []domain.Ticket) []domain.Ticket {
	resolved := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if tickets[i].IsResolved() {
			resolved = append(resolved, tickets[i])
		}
	}
	return resolved
}
