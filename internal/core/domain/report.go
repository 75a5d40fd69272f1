package domain

import "time"

// Report section names. Sub-report failures are recorded under these keys.
const (
	ReportTotals           = "total_counts"
	ReportResolutionRate   = "resolution_rate"
	ReportAvgResolution    = "average_resolution_time"
	ReportSLACompliance    = "sla_compliance"
	ReportAvgSatisfaction  = "average_satisfaction"
	ReportByCategory       = "tickets_by_category"
	ReportByPriority       = "tickets_by_priority"
	ReportByChannel        = "tickets_by_channel"
	ReportAgentPerformance = "agent_performance"
	ReportWeeklyTrend      = "weekly_trend"
)

// ReportSnapshot bundles every named metric computed in one assembly pass
// against a single dataset fetch. A failed sub-report leaves its section
// zero-valued and records the failure in Errors; the rest of the report is
// still delivered.
type ReportSnapshot struct {
	GeneratedAt time.Time

	Totals             TotalCounts
	ResolutionRate     float64
	AvgResolutionHours Average
	SLACompliance      float64
	SLAThresholdHours  float64
	AvgSatisfaction    Average

	ByCategory       *MetricSnapshot
	ByPriority       *MetricSnapshot
	ByChannel        *MetricSnapshot
	AgentPerformance *MetricSnapshot
	WeeklyTrend      *MetricSnapshot

	// SkippedRecords counts malformed records rejected at ingestion.
	SkippedRecords int

	// Errors maps a report section name to the failure that produced no
	// result for it.
	Errors map[string]string
}

// Complete reports whether every sub-report was computed.
func (r *ReportSnapshot) Complete() bool {
	return len(r.Errors) == 0
}

// AlertType identifies the kind of outbound alert event.
type AlertType string

const (
	AlertPendingEscalation AlertType = "PENDING_ESCALATION"
	AlertSLABreach         AlertType = "SLA_BREACH"
)

// AlertEvent is the outbound payload handed to notification collaborators.
// Delivery, retries, and acknowledgement are theirs; the core only exposes
// the data.
type AlertEvent struct {
	Type       AlertType `json:"type"`
	TicketID   string    `json:"ticketId"`
	Priority   string    `json:"priority"`
	Agent      string    `json:"agent,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}
