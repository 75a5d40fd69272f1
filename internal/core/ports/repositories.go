package ports

import (
	"context"
	"time"

	"github.com/soportehq/support-metrics/internal/core/domain"
)

// TicketFilter narrows a dataset fetch. Zero-valued fields are ignored.
// CreatedFrom/CreatedTo bound the creation timestamp as a half-open window
// [from, to); the remaining fields are equality predicates.
type TicketFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *string
	Channel     *string
	Agent       *string
}

// TicketRepository is the dataset accessor the core requires from its
// storage collaborator. Fetch materializes the full matching collection;
// the metrics engine never assumes any ordering from it.
type TicketRepository interface {
	Fetch(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}
