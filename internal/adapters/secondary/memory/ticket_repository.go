// Package memory provides an in-memory ticket repository. It backs the
// export CLI when run over generated sample data and keeps service tests
// free of database containers.
package memory

import (
	"context"
	"sync"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// TicketRepository holds the dataset in memory and filters it on Fetch.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a repository pre-loaded with the given tickets.
func NewTicketRepository(tickets []domain.Ticket) *TicketRepository {
	repo := &TicketRepository{}
	repo.Replace(tickets)
	return repo
}

// Replace swaps the whole dataset.
func (r *TicketRepository) Replace(tickets []domain.Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = make([]domain.Ticket, len(tickets))
	copy(r.tickets, tickets)
}

// Fetch returns the tickets matching the filter.
func (r *TicketRepository) Fetch(ctx context.Context, filter ports.TicketFilter) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Ticket, 0, len(r.tickets))
	for i := range r.tickets {
		if matches(r.tickets[i], filter) {
			matched = append(matched, r.tickets[i])
		}
	}
	return matched, nil
}

func matches(t domain.Ticket, f ports.TicketFilter) bool {
	if f.CreatedFrom != nil && t.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !t.CreatedAt.Before(*f.CreatedTo) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Channel != nil && t.Channel != *f.Channel {
		return false
	}
	if f.Agent != nil && t.Agent != *f.Agent {
		return false
	}
	return true
}
