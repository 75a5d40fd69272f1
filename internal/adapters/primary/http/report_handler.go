package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soportehq/support-metrics/internal/adapters/primary/validation"
	"github.com/soportehq/support-metrics/internal/core/domain"
	apperrors "github.com/soportehq/support-metrics/internal/core/errors"
	"github.com/soportehq/support-metrics/internal/core/metrics"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// ReportHandler handles HTTP requests for reports and alerts
type ReportHandler struct {
	reportService     ports.ReportService
	escalationService ports.EscalationService
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reportService ports.ReportService,
	escalationService ports.EscalationService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService:     reportService,
		escalationService: escalationService,
		errorHandler:      errorHandler,
		logger:            logger.With("handler", "report"),
	}
}

// RegisterRoutes sets up the routing for all report and alert endpoints.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/overview", h.HandleOverview)
		r.Get("/weekly-trend", h.HandleWeeklyTrend)
	})
	r.Get("/metrics/sla", h.HandleSLA)
	r.Get("/alerts/pending", h.HandlePending)
}

// --- Response DTOs ---

// OverviewResponse is the full report snapshot in presentation form.
type OverviewResponse struct {
	GeneratedAt        time.Time         `json:"generated_at"`
	Totals             TotalCountsDTO    `json:"total_counts"`
	ResolutionRate     float64           `json:"resolution_rate"`
	AvgResolutionHours *float64          `json:"avg_resolution_hours"`
	SLACompliance      float64           `json:"sla_compliance"`
	SLAThresholdHours  float64           `json:"sla_threshold_hours"`
	AvgSatisfaction    *float64          `json:"avg_satisfaction"`
	ByCategory         []GroupRowDTO     `json:"tickets_by_category"`
	ByPriority         []GroupRowDTO     `json:"tickets_by_priority"`
	ByChannel          []GroupRowDTO     `json:"tickets_by_channel"`
	AgentPerformance   []GroupRowDTO     `json:"agent_performance"`
	WeeklyTrend        []GroupRowDTO     `json:"weekly_trend"`
	SkippedRecords     int               `json:"skipped_records"`
	Errors             map[string]string `json:"errors,omitempty"`
}

// TotalCountsDTO carries the headline totals.
type TotalCountsDTO struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Open     int `json:"open"`
}

// GroupRowDTO is one presentation row of a grouped metric.
type GroupRowDTO struct {
	Key                string   `json:"key"`
	Count              int      `json:"count"`
	ResolvedCount      int      `json:"resolved_count"`
	PercentOfTotal     float64  `json:"percent_of_total"`
	ResolutionRate     float64  `json:"resolution_rate"`
	AvgResolutionHours *float64 `json:"avg_resolution_hours"`
	AvgSatisfaction    *float64 `json:"avg_satisfaction"`
}

// WeeklyTrendResponse carries the trend rows alone.
type WeeklyTrendResponse struct {
	Weeks []GroupRowDTO `json:"weeks"`
}

// SLAResponse carries the compliance rate plus the breaching tickets.
type SLAResponse struct {
	ThresholdHours float64        `json:"threshold_hours"`
	Compliance     float64        `json:"compliance"`
	Breaches       []SLABreachDTO `json:"breaches"`
}

// SLABreachDTO is one ticket that exceeded the SLA.
type SLABreachDTO struct {
	TicketID        string  `json:"ticket_id"`
	Priority        string  `json:"priority"`
	Agent           string  `json:"agent,omitempty"`
	ResolutionHours float64 `json:"resolution_hours"`
}

// PendingTicketDTO is one unresolved ticket past the age cutoff.
type PendingTicketDTO struct {
	TicketID    string  `json:"ticket_id"`
	Priority    string  `json:"priority"`
	Agent       string  `json:"agent,omitempty"`
	Category    string  `json:"category"`
	ElapsedDays float64 `json:"elapsed_days"`
}

// --- Handlers ---

// HandleOverview returns the full report snapshot.
// GET /api/v1/reports/overview?threshold=24&weeks=8&from=...&to=...&status=...
func (h *ReportHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseReportParams(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	report, err := h.reportService.AssembleReport(r.Context(), params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toOverviewResponse(report))
}

// HandleWeeklyTrend returns the weekly creation/resolution trend.
// GET /api/v1/reports/weekly-trend?weeks=8
func (h *ReportHandler) HandleWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseReportParams(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	report, err := h.reportService.AssembleReport(r.Context(), params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, WeeklyTrendResponse{
		Weeks: toGroupRows(report.WeeklyTrend),
	})
}

// HandleSLA returns the SLA compliance rate and the breaching tickets. Both
// come from one escalation-service call so they describe the same dataset.
// GET /api/v1/metrics/sla?threshold=24
func (h *ReportHandler) HandleSLA(w http.ResponseWriter, r *http.Request) {
	threshold, err := validation.ParsePositiveFloatQueryParam(r, "threshold", 0, apperrors.ErrInvalidThreshold)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	overview, err := h.escalationService.SLAOverview(r.Context(), threshold)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := SLAResponse{
		ThresholdHours: overview.ThresholdHours,
		Compliance:     metrics.Round2(overview.Compliance),
		Breaches:       make([]SLABreachDTO, 0, len(overview.Breaches)),
	}
	for _, b := range overview.Breaches {
		response.Breaches = append(response.Breaches, SLABreachDTO{
			TicketID:        b.Ticket.ID,
			Priority:        string(b.Ticket.Priority),
			Agent:           b.Ticket.Agent,
			ResolutionHours: metrics.Round2(b.ResolutionHours),
		})
	}

	WriteJSON(w, http.StatusOK, response)
}

// HandlePending returns the unresolved tickets older than the cutoff.
// GET /api/v1/alerts/pending?days=3
func (h *ReportHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	days, err := validation.ParsePositiveFloatQueryParam(r, "days", 0, apperrors.ErrInvalidPendingDays)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	pending, err := h.escalationService.PendingOver(r.Context(), days, time.Now().UTC())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	items := make([]PendingTicketDTO, 0, len(pending))
	for _, p := range pending {
		items = append(items, PendingTicketDTO{
			TicketID:    p.Ticket.ID,
			Priority:    string(p.Ticket.Priority),
			Agent:       p.Ticket.Agent,
			Category:    p.Ticket.Category,
			ElapsedDays: metrics.Round2(p.ElapsedDays),
		})
	}

	WriteList(w, items)
}

// parseReportParams extracts the assembly parameters and dataset filter from
// the query string.
func (h *ReportHandler) parseReportParams(r *http.Request) (ports.AssembleReportParams, error) {
	var params ports.AssembleReportParams

	threshold, err := validation.ParsePositiveFloatQueryParam(r, "threshold", 0, apperrors.ErrInvalidThreshold)
	if err != nil {
		return params, err
	}
	params.SLAThresholdHours = threshold

	weeks, err := validation.ParsePositiveIntQueryParam(r, "weeks", 0, apperrors.ErrInvalidTrendWeeks)
	if err != nil {
		return params, err
	}
	params.TrendWeeks = weeks

	filter, err := parseTicketFilter(r)
	if err != nil {
		return params, err
	}
	params.Filter = filter

	return params, nil
}

// parseTicketFilter builds the dataset filter from the query string. Enum
// parameters are rejected when they name an unknown value instead of being
// passed through to match nothing.
func parseTicketFilter(r *http.Request) (ports.TicketFilter, error) {
	var filter ports.TicketFilter

	from, err := validation.ParseTimeQueryParam(r, "from")
	if err != nil {
		return filter, err
	}
	to, err := validation.ParseTimeQueryParam(r, "to")
	if err != nil {
		return filter, err
	}
	if from != nil && to != nil && !from.Before(*to) {
		return filter, apperrors.ErrInvalidTimeWindow
	}
	filter.CreatedFrom = from
	filter.CreatedTo = to

	if value := validation.ParseStringQueryParam(r, "status"); value != nil {
		status := domain.TicketStatus(*value)
		if !status.IsValid() {
			return filter, apperrors.ErrInvalidStatus
		}
		filter.Status = &status
	}

	if value := validation.ParseStringQueryParam(r, "priority"); value != nil {
		priority := domain.TicketPriority(*value)
		if !priority.IsValid() {
			return filter, apperrors.ErrInvalidPriority
		}
		filter.Priority = &priority
	}

	filter.Category = validation.ParseStringQueryParam(r, "category")
	filter.Channel = validation.ParseStringQueryParam(r, "channel")
	filter.Agent = validation.ParseStringQueryParam(r, "agent")

	return filter, nil
}

// --- DTO mapping ---

func toOverviewResponse(report *domain.ReportSnapshot) OverviewResponse {
	return OverviewResponse{
		GeneratedAt: report.GeneratedAt,
		Totals: TotalCountsDTO{
			Total:    report.Totals.Total,
			Resolved: report.Totals.Resolved,
			Open:     report.Totals.Open,
		},
		ResolutionRate:     metrics.Round2(report.ResolutionRate),
		AvgResolutionHours: averageValue(report.AvgResolutionHours),
		SLACompliance:      metrics.Round2(report.SLACompliance),
		SLAThresholdHours:  report.SLAThresholdHours,
		AvgSatisfaction:    averageValue(report.AvgSatisfaction),
		ByCategory:         toGroupRows(report.ByCategory),
		ByPriority:         toGroupRows(report.ByPriority),
		ByChannel:          toGroupRows(report.ByChannel),
		AgentPerformance:   toGroupRows(report.AgentPerformance),
		WeeklyTrend:        toGroupRows(report.WeeklyTrend),
		SkippedRecords:     report.SkippedRecords,
		Errors:             report.Errors,
	}
}

func toGroupRows(snapshot *domain.MetricSnapshot) []GroupRowDTO {
	if snapshot == nil {
		return nil
	}
	rows := make([]GroupRowDTO, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		rows = append(rows, GroupRowDTO{
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
