package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/mocks"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

func newTestReportHandler(reportSvc *mocks.MockReportService, escalationSvc *mocks.MockEscalationService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewReportHandler(reportSvc, escalationSvc, NewErrorHandler(logger), logger)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func minimalReport() *domain.ReportSnapshot {
	return &domain.ReportSnapshot{
		GeneratedAt:        time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Totals:             domain.TotalCounts{Total: 3, Resolved: 2, Open: 1},
		ResolutionRate:     66.666666,
		AvgResolutionHours: domain.DefinedAverage(12.5),
		SLACompliance:      50,
		SLAThresholdHours:  24,
		AvgSatisfaction:    domain.UndefinedAverage(),
		ByCategory:         &domain.MetricSnapshot{Name: domain.ReportByCategory},
		ByPriority:         &domain.MetricSnapshot{Name: domain.ReportByPriority},
		ByChannel:          &domain.MetricSnapshot{Name: domain.ReportByChannel},
		AgentPerformance:   &domain.MetricSnapshot{Name: domain.ReportAgentPerformance},
		WeeklyTrend: &domain.MetricSnapshot{
			Name: domain.ReportWeeklyTrend,
			Rows: []domain.GroupRow{
				{Key: "2025-W23", Count: 2, ResolvedCount: 1, ResolutionRate: 50},
				{Key: "2025-W22", Count: 1, ResolvedCount: 1, ResolutionRate: 100},
			},
		},
		Errors: map[string]string{},
	}
}

func TestReportHandler_HandleOverview(t *testing.T) {
	t.Run("returns the rounded snapshot", func(t *testing.T) {
		reportSvc := mocks.NewMockReportService()
		escalationSvc := mocks.NewMockEscalationService()
		router := newTestReportHandler(reportSvc, escalationSvc)

		reportSvc.On("AssembleReport", mock.Anything, mock.Anything).
			Return(minimalReport(), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/reports/overview", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body OverviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Totals.Total)
		assert.Equal(t, 66.67, body.ResolutionRate)
		require.NotNil(t, body.AvgResolutionHours)
		assert.Equal(t, 12.5, *body.AvgResolutionHours)
		assert.Nil(t, body.AvgSatisfaction)
		reportSvc.AssertExpectations(t)
	})

	t.Run("passes query parameters through", func(t *testing.T) {
		reportSvc := mocks.NewMockReportService()
		escalationSvc := mocks.NewMockEscalationService()
		router := newTestReportHandler(reportSvc, escalationSvc)

		reportSvc.On("AssembleReport", mock.Anything, mock.MatchedBy(func(p ports.AssembleReportParams) bool {
			return p.SLAThresholdHours == 48 && p.TrendWeeks == 4 &&
				p.Filter.Agent != nil && *p.Filter.Agent == "agent-1"
		})).Return(minimalReport(), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/reports/overview?threshold=48&weeks=4&agent=agent-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		reportSvc.AssertExpectations(t)
	})

	t.Run("rejects a non-positive threshold", func(t *testing.T) {
		router := newTestReportHandler(mocks.NewMockReportService(), mocks.NewMockEscalationService())

		req := httptest.NewRequest(http.MethodGet, "/reports/overview?threshold=0", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an unknown status filter", func(t *testing.T) {
		router := newTestReportHandler(mocks.NewMockReportService(), mocks.NewMockEscalationService())

		req := httptest.NewRequest(http.MethodGet, "/reports/overview?status=ARCHIVED", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed timestamp", func(t *testing.T) {
		router := newTestReportHandler(mocks.NewMockReportService(), mocks.NewMockEscalationService())

		req := httptest.NewRequest(http.MethodGet, "/reports/overview?from=yesterday", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "timestamp must be RFC 3339")
	})

	t.Run("rejects an inverted time window", func(t *testing.T) {
		router := newTestReportHandler(mocks.NewMockReportService(), mocks.NewMockEscalationService())

		req := httptest.NewRequest(http.MethodGet,
			"/reports/overview?from=2025-06-02T00:00:00Z&to=2025-06-01T00:00:00Z", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service failure maps to 500", func(t *testing.T) {
		reportSvc := mocks.NewMockReportService()
		router := newTestReportHandler(reportSvc, mocks.NewMockEscalationService())

		reportSvc.On("AssembleReport", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		req := httptest.NewRequest(http.MethodGet, "/reports/overview", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestReportHandler_HandleWeeklyTrend(t *testing.T) {
	reportSvc := mocks.NewMockReportService()
	router := newTestReportHandler(reportSvc, mocks.NewMockEscalationService())

	reportSvc.On("AssembleReport", mock.Anything, mock.Anything).
		Return(minimalReport(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/reports/weekly-trend?weeks=8", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body WeeklyTrendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Weeks, 2)
	assert.Equal(t, "2025-W23", body.Weeks[0].Key)
	assert.Equal(t, "2025-W22", body.Weeks[1].Key)
}

func TestReportHandler_HandleSLA(t *testing.T) {
	escalationSvc := mocks.NewMockEscalationService()
	router := newTestReportHandler(mocks.NewMockReportService(), escalationSvc)

	slow := domain.Ticket{ID: "T-9", Priority: domain.PriorityHigh, Agent: "agent-2"}
	escalationSvc.On("SLAOverview", mock.Anything, 48.0).
		Return(domain.SLAOverview{
			ThresholdHours: 48,
			Compliance:     83.333333,
			Breaches: []domain.SLABreach{
				{Ticket: slow, ResolutionHours: 72.123456, ThresholdHours: 48},
			},
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/metrics/sla?threshold=48", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body SLAResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 48.0, body.ThresholdHours)
	assert.Equal(t, 83.33, body.Compliance)
	require.Len(t, body.Breaches, 1)
	assert.Equal(t, "T-9", body.Breaches[0].TicketID)
	assert.Equal(t, 72.12, body.Breaches[0].ResolutionHours)
	escalationSvc.AssertExpectations(t)
}

func TestReportHandler_HandlePending(t *testing.T) {
	t.Run("returns the pending list", func(t *testing.T) {
		escalationSvc := mocks.NewMockEscalationService()
		router := newTestReportHandler(mocks.NewMockReportService(), escalationSvc)

		old := domain.Ticket{ID: "T-3", Priority: domain.PriorityCritical, Agent: "agent-1", Category: "Network"}
		escalationSvc.On("PendingOver", mock.Anything, 5.0, mock.Anything).
			Return([]domain.PendingTicket{{Ticket: old, ElapsedDays: 6.789}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/alerts/pending?days=5", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body ListResponse[PendingTicketDTO]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "T-3", body.Data[0].TicketID)
		assert.Equal(t, 6.79, body.Data[0].ElapsedDays)
		escalationSvc.AssertExpectations(t)
	})

	t.Run("rejects a non-positive days value", func(t *testing.T) {
		router := newTestReportHandler(mocks.NewMockReportService(), mocks.NewMockEscalationService())

		req := httptest.NewRequest(http.MethodGet, "/alerts/pending?days=-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
