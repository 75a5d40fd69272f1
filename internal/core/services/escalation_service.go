package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/metrics"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// EscalationService computes the alert-worthy ticket sets and hands them to
// the outbound collaborators. Notification delivery is fire-and-forget; the
// service only exposes the data.
type EscalationService struct {
	ticketRepo  ports.TicketRepository
	notifier    ports.Notifier
	broadcaster ports.AlertBroadcaster
	logger      *slog.Logger

	pendingDays       float64
	slaThresholdHours float64

	wg sync.WaitGroup
}

var _ ports.EscalationService = (*EscalationService)(nil)

// NewEscalationService creates a new escalation service. pendingDays and
// slaThresholdHours set the sweep defaults.
func NewEscalationService(
	ticketRepo ports.TicketRepository,
	notifier ports.Notifier,
	broadcaster ports.AlertBroadcaster,
	pendingDays float64,
	slaThresholdHours float64,
	logger *slog.Logger,
) *EscalationService {
	if pendingDays <= 0 {
		pendingDays = 3
	}
	if slaThresholdHours <= 0 {
		slaThresholdHours = metrics.DefaultSLAThresholdHours
	}
	return &EscalationService{
		ticketRepo:        ticketRepo,
		notifier:          notifier,
		broadcaster:       broadcaster,
		pendingDays:       pendingDays,
		slaThresholdHours: slaThresholdHours,
		logger:            logger.With("service", "escalation"),
	}
}

// PendingOver returns the unresolved tickets older than the given number of
// days, oldest first.
func (s *EscalationService) PendingOver(ctx context.Context, days float64, now time.Time) ([]domain.PendingTicket, error) {
	if days <= 0 {
		days = s.pendingDays
	}

	tickets, err := s.ticketRepo.Fetch(ctx, ports.TicketFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetching tickets: %w", err)
	}

	dataset := metrics.NewDataset(tickets)
	return metrics.PendingOver(dataset.Records, now, days), nil
}

// SLABreaches returns the resolved tickets that exceeded the threshold,
// slowest first.
func (s *EscalationService) SLABreaches(ctx context.Context, thresholdHours float64) ([]domain.SLABreach, error) {
	if thresholdHours <= 0 {
		thresholdHours = s.slaThresholdHours
	}

	tickets, err := s.ticketRepo.Fetch(ctx, ports.TicketFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetching tickets: %w", err)
	}

	dataset := metrics.NewDataset(tickets)
	return metrics.ExceedingSLA(dataset.Records, thresholdHours), nil
}

// SLAOverview returns the compliance rate together with the breaching
// tickets, both computed from one fetch so the scalar and the list always
// describe the same dataset view.
func (s *EscalationService) SLAOverview(ctx context.Context, thresholdHours float64) (domain.SLAOverview, error) {
	if thresholdHours <= 0 {
		thresholdHours = s.slaThresholdHours
	}

	tickets, err := s.ticketRepo.Fetch(ctx, ports.TicketFilter{})
	if err != nil {
		return domain.SLAOverview{}, fmt.Errorf("fetching tickets: %w", err)
	}

	dataset := metrics.NewDataset(tickets)
	return domain.SLAOverview{
		ThresholdHours: thresholdHours,
		Compliance:     metrics.SLACompliance(dataset.Records, thresholdHours),
		Breaches:       metrics.ExceedingSLA(dataset.Records, thresholdHours),
	}, nil
}

// Sweep runs one escalation pass: a single fetch, then both alert sets
// computed from it and dispatched to the notifier and the broadcaster.
func (s *EscalationService) Sweep(ctx context.Context, now time.Time) error {
	tickets, err := s.ticketRepo.Fetch(ctx, ports.TicketFilter{})
	if err != nil {
		return fmt.Errorf("fetching tickets: %w", err)
	}

	dataset := metrics.NewDataset(tickets)
	pending := metrics.PendingOver(dataset.Records, now, s.pendingDays)
	breaches := metrics.ExceedingSLA(dataset.Records, s.slaThresholdHours)

	for _, p := range pending {
		s.dispatch(domain.AlertEvent{
			Type:       domain.AlertPendingEscalation,
			TicketID:   p.Ticket.ID,
			Priority:   string(p.Ticket.Priority),
			Agent:      p.Ticket.Agent,
			Message:    fmt.Sprintf("Ticket %s pending for %.1f days", p.Ticket.ID, p.ElapsedDays),
			OccurredAt: now,
		})
	}

	for _, b := range breaches {
		s.dispatch(domain.AlertEvent{
			Type:       domain.AlertSLABreach,
			TicketID:   b.Ticket.ID,
			Priority:   string(b.Ticket.Priority),
			Agent:      b.Ticket.Agent,
			Message:    fmt.Sprintf("Ticket %s resolved in %.1fh, over the %.0fh SLA", b.Ticket.ID, b.ResolutionHours, b.ThresholdHours),
			OccurredAt: now,
		})
	}

	s.logger.Info("escalation sweep complete",
		"pending", len(pending),
		"sla_breaches", len(breaches),
	)

	return nil
}

// dispatch sends one alert to both collaborators. The notifier runs in the
// background with its own context since the sweep may already be done.
func (s *EscalationService) dispatch(event domain.AlertEvent) {
	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.Warn("alert broadcast failed", "ticket_id", event.TicketID, "error", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.notifier.Notify(context.Background(), event)
	}()
}

// Shutdown waits for in-flight notifications to drain.
func (s *EscalationService) Shutdown() {
	s.wg.Wait()
}
