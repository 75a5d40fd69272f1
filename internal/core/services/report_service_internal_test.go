package services

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soportehq/support-metrics/internal/core/domain"
)

func TestReportService_SectionFailureIsRecordedAndIsolated(t *testing.T) {
	svc := &ReportService{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	report := &domain.ReportSnapshot{
		GeneratedAt: time.Now().UTC(),
		Errors:      make(map[string]string),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	svc.runSection(&wg, &mu, report, domain.ReportByCategory, func() {
		panic("category grouping blew up")
	})
	svc.runSection(&wg, &mu, report, domain.ReportWeeklyTrend, func() {
		panic("trend bucketing blew up")
	})
	svc.runSection(&wg, &mu, report, domain.ReportTotals, func() {
		report.Totals = domain.TotalCounts{Total: 3, Resolved: 2, Open: 1}
	})
	svc.runSection(&wg, &mu, report, domain.ReportResolutionRate, func() {
		report.ResolutionRate = 66.666666
	})
	wg.Wait()

	// Both failures are recorded under their section names.
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[domain.ReportByCategory], "category grouping blew up")
	assert.Contains(t, report.Errors[domain.ReportWeeklyTrend], "trend bucketing blew up")
	assert.False(t, report.Complete())

	// The surviving sections still delivered their results.
	assert.Equal(t, 3, report.Totals.Total)
	assert.Equal(t, 66.666666, report.ResolutionRate)
	assert.NotContains(t, report.Errors, domain.ReportTotals)
	assert.NotContains(t, report.Errors, domain.ReportResolutionRate)
}
