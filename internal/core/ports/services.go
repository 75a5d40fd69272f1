package ports

import (
	"context"
	"time"

	"github.com/soportehq/support-metrics/internal/core/domain"
)

// AssembleReportParams defines the input for one report assembly pass.
type AssembleReportParams struct {
	Filter            TicketFilter
	SLAThresholdHours float64
	TrendWeeks        int
}

// ReportService assembles the full report snapshot: one dataset fetch,
// every sub-report computed against that same view, failures recorded per
// section rather than aborting the assembly.
type ReportService interface {
	AssembleReport(ctx context.Context, params AssembleReportParams) (*domain.ReportSnapshot, error)
}

// EscalationService exposes the data a notification collaborator consumes:
// tickets pending beyond a given age and resolved tickets that breached the
// SLA. SLAOverview bundles the compliance rate with the breach list from a
// single dataset fetch. Sweep computes the alert sets and hands them to the
// outbound collaborators.
type EscalationService interface {
	PendingOver(ctx context.Context, days float64, now time.Time) ([]domain.PendingTicket, error)
	SLABreaches(ctx context.Context, thresholdHours float64) ([]domain.SLABreach, error)
	SLAOverview(ctx context.Context, thresholdHours float64) (domain.SLAOverview, error)
	Sweep(ctx context.Context, now time.Time) error
	Shutdown()
}

// Notifier is the outbound fire-and-forget notification capability. The core
// never manages delivery, retries, or acknowledgement.
type Notifier interface {
	Notify(ctx context.Context, event domain.AlertEvent)
}

// AlertBroadcaster fans alert events out to connected real-time consumers.
type AlertBroadcaster interface {
	Broadcast(event domain.AlertEvent) error
}

// Exporter hands a report snapshot to an export collaborator for
// serialization. The format is the collaborator's concern.
type Exporter interface {
	Export(ctx context.Context, report *domain.ReportSnapshot) error
}
