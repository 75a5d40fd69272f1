// Package export writes report snapshots to dashboard-friendly JSON files.
// Values are rounded to two decimals at this edge; undefined averages are
// emitted as null, never as zero.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/metrics"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// JSONExporter serializes a report snapshot to a JSON file.
type JSONExporter struct {
	path   string
	logger *slog.Logger
}

var _ ports.Exporter = (*JSONExporter)(nil)

// NewJSONExporter creates an exporter writing to the given file path.
func NewJSONExporter(path string, logger *slog.Logger) *JSONExporter {
	return &JSONExporter{
		path:   path,
		logger: logger.With("component", "json_exporter"),
	}
}

// Export writes the report document to the configured path.
func (e *JSONExporter) Export(ctx context.Context, report *domain.ReportSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := BuildDocument(report)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.WriteFile(e.path, data, 0o644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}

	e.logger.InfoContext(ctx, "report exported",
		"path", e.path,
		"total_tickets", report.Totals.Total,
		"failed_sections", len(report.Errors),
	)
	return nil
}

// Document is the exported file layout.
type Document struct {
	GeneratedAt time.Time `json:"generated_at"`
	Metrics     Metrics   `json:"metrics"`
	Summary     Summary   `json:"summary"`
}

// Metrics carries every report section in presentation form.
type Metrics struct {
	TotalCounts        TotalCounts `json:"total_counts"`
	ResolutionRate     float64     `json:"resolution_rate"`
	AvgResolutionHours *float64    `json:"avg_resolution_hours"`
	SLACompliance      float64     `json:"sla_compliance"`
	SLAThresholdHours  float64     `json:"sla_threshold_hours"`
	AvgSatisfaction    *float64    `json:"avg_satisfaction"`
	ByCategory         []GroupRow  `json:"tickets_by_category"`
	ByPriority         []GroupRow  `json:"tickets_by_priority"`
	ByChannel          []GroupRow  `json:"tickets_by_channel"`
	AgentPerformance   []GroupRow  `json:"agent_performance"`
	WeeklyTrend        []GroupRow  `json:"weekly_trend"`
}

// TotalCounts mirrors domain.TotalCounts with JSON tags.
type TotalCounts struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Open     int `json:"open"`
}

// GroupRow is one presentation row of a grouped section.
type GroupRow struct {
	Key                string   `json:"key"`
	Count              int      `json:"count"`
	ResolvedCount      int      `json:"resolved_count"`
	PercentOfTotal     float64  `json:"percent_of_total"`
	ResolutionRate     float64  `json:"resolution_rate"`
	AvgResolutionHours *float64 `json:"avg_resolution_hours"`
	AvgSatisfaction    *float64 `json:"avg_satisfaction"`
}

// Summary carries the document-level counters.
type Summary struct {
	TotalTickets   int               `json:"total_tickets"`
	SkippedRecords int               `json:"skipped_records"`
	FailedSections map[string]string `json:"failed_sections,omitempty"`
}

// BuildDocument maps a report snapshot to its export form, rounding every
// percentage and average to two decimals.
func BuildDocument(report *domain.ReportSnapshot) Document {
	return Document{
		GeneratedAt: report.GeneratedAt,
		Metrics: Metrics{
			TotalCounts: TotalCounts{
				Total:    report.Totals.Total,
				Resolved: report.Totals.Resolved,
				Open:     report.Totals.Open,
			},
			ResolutionRate:     metrics.Round2(report.ResolutionRate),
			AvgResolutionHours: averageValue(report.AvgResolutionHours),
			SLACompliance:      metrics.Round2(report.SLACompliance),
			SLAThresholdHours:  report.SLAThresholdHours,
			AvgSatisfaction:    averageValue(report.AvgSatisfaction),
			ByCategory:         groupRows(report.ByCategory),
			ByPriority:         groupRows(report.ByPriority),
			ByChannel:          groupRows(report.ByChannel),
			AgentPerformance:   groupRows(report.AgentPerformance),
			WeeklyTrend:        groupRows(report.WeeklyTrend),
		},
		Summary: Summary{
			TotalTickets:   report.Totals.Total,
			SkippedRecords: report.SkippedRecords,
			FailedSections: failedSections(report.Errors),
		},
	}
}

func groupRows(snapshot *domain.MetricSnapshot) []GroupRow {
	if snapshot == nil {
		return nil
	}
	rows := make([]GroupRow, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		rows = append(rows, GroupRow{
			Key:                row.Key,
			Count:              row.Count,
			ResolvedCount:      row.ResolvedCount,
			PercentOfTotal:     metrics.Round2(row.PercentOfTotal),
			ResolutionRate:     metrics.Round2(row.ResolutionRate),
			AvgResolutionHours: averageValue(row.AvgResolutionHours),
			AvgSatisfaction:    averageValue(row.AvgSatisfaction),
		})
	}
	return rows
}

func averageValue(avg domain.Average) *float64 {
	if !avg.Defined {
		return nil
	}
	value := metrics.Round2(avg.Value)
	return &value
}

func failedSections(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
