// Package sampledata generates deterministic ticket fixtures for seeding
// development databases and demos.
package sampledata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soportehq/support-metrics/internal/core/domain"
)

var (
	categories = []string{"Hardware", "Software", "Network", "Access", "Email", "Printer"}
	channels   = []string{"Email", "Phone", "Chat", "Portal", "Slack"}
	agents     = []string{"Ana García", "Carlos López", "María Rodríguez", "Juan Martínez"}
	priorities = []domain.TicketPriority{
		domain.PriorityCritical,
		domain.PriorityHigh,
		domain.PriorityMedium,
		domain.PriorityLow,
	}
)

// Generator produces reproducible ticket datasets: the same seed always
// yields the same tickets.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a generator anchored at now.
func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: now.UTC(),
	}
}

// Tickets generates n tickets spread over the last 90 days. Roughly 80% are
// resolved; resolved tickets carry a resolution time skewed around the SLA
// and usually a satisfaction rating.
func (g *Generator) Tickets(n int) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, n)
	for i := 0; i < n; i++ {
		createdAt := g.now.Add(-time.Duration(g.rng.Intn(90*24)) * time.Hour)

		ticket := domain.Ticket{
			ID:          fmt.Sprintf("TICK-%04d", i+1),
			Category:    pick(g.rng, categories),
			Priority:    pick(g.rng, priorities),
			Channel:     pick(g.rng, channels),
			Agent:       pick(g.rng, agents),
			Description: fmt.Sprintf("Incidencia %04d", i+1),
			CreatedAt:   createdAt,
		}

		if g.rng.Float64() < 0.8 {
			g.resolve(&ticket)
		} else if g.rng.Float64() < 0.5 {
			ticket.Status = domain.StatusInProgress
		} else {
			ticket.Status = domain.StatusOpen
		}

		tickets = append(tickets, ticket)
	}
	return tickets
}

// resolve marks the ticket terminal with a resolution time between 30 minutes
// and 72 hours, capped at the current instant, and usually rates it.
func (g *Generator) resolve(ticket *domain.Ticket) {
	ticket.Status = domain.StatusResolved
	if g.rng.Float64() < 0.3 {
		ticket.Status = domain.StatusClosed
	}

	resolutionHours := 0.5 + g.rng.Float64()*71.5
	resolvedAt := ticket.CreatedAt.Add(time.Duration(resolutionHours * float64(time.Hour)))
	if resolvedAt.After(g.now) {
		resolvedAt = g.now
	}
	ticket.ResolvedAt = &resolvedAt

	if g.rng.Float64() < 0.7 {
		rating := 1 + g.rng.Intn(5)
		ticket.Satisfaction = &rating
	}
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.Intn(len(values))]
}
