package domain

import (
	"time"

	apperrors "github.com/soportehq/support-metrics/internal/core/errors"
)

// TicketStatus represents the lifecycle state of a support ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusResolved   TicketStatus = "RESOLVED"
	StatusClosed     TicketStatus = "CLOSED"
)

// IsValid reports whether the status belongs to the closed enumeration.
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether the status marks a ticket as resolved.
func (s TicketStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

func (s TicketStatus) String() string { return string(s) }

// TicketPriority is an ordered enumeration: Critical outranks High outranks
// Medium outranks Low.
type TicketPriority string

const (
	PriorityCritical TicketPriority = "CRITICAL"
	PriorityHigh     TicketPriority = "HIGH"
	PriorityMedium   TicketPriority = "MEDIUM"
	PriorityLow      TicketPriority = "LOW"
)

// IsValid reports whether the priority belongs to the closed enumeration.
func (p TicketPriority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort rank of the priority, 1 (Critical) through 4 (Low).
// Unknown priorities rank last.
func (p TicketPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	}
	return 5
}

func (p TicketPriority) String() string { return string(p) }

// Ticket is the canonical record of one support ticket. Records are never
// mutated after construction; recomputation always produces fresh snapshots.
type Ticket struct {
	ID           string
	Category     string
	Priority     TicketPriority
	Channel      string
	Status       TicketStatus
	Agent        string
	Description  string
	CreatedAt    time.Time
	ResolvedAt   *time.Time
	Satisfaction *int
}

// TicketParams carries the input for constructing a validated ticket record.
type TicketParams struct {
	ID           string
	Category     string
	Priority     TicketPriority
	Channel      string
	Status       TicketStatus
	Agent        string
	Description  string
	CreatedAt    time.Time
	ResolvedAt   *time.Time
	Satisfaction *int
}

// NewTicket builds a ticket record, enforcing the shape invariants. Records
// that fail here are rejected, never coerced.
func NewTicket(params TicketParams) (*Ticket, error) {
	t := &Ticket{
		ID:           params.ID,
		Category:     params.Category,
		Priority:     params.Priority,
		Channel:      params.Channel,
		Status:       params.Status,
		Agent:        params.Agent,
		Description:  params.Description,
		CreatedAt:    params.CreatedAt,
		ResolvedAt:   params.ResolvedAt,
		Satisfaction: params.Satisfaction,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the shape invariants of a record, including records that
// arrive pre-built from a storage adapter:
//
//   - ID and CreatedAt are required
//   - Status and Priority take values only from their closed enumerations
//   - ResolvedAt is present iff Status is terminal
//   - the derived resolution time is never negative
//   - Satisfaction, when present, is a 1-5 rating
func (t *Ticket) Validate() error {
	if t.ID == "" {
		return apperrors.ErrMissingTicketID
	}
	if t.CreatedAt.IsZero() {
		return apperrors.ErrMissingCreatedAt
	}
	if !t.Status.IsValid() {
		return apperrors.ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return apperrors.ErrInvalidPriority
	}

	if t.Status.IsTerminal() {
		if t.ResolvedAt == nil {
			return apperrors.ErrResolvedAtMissing
		}
		if t.ResolvedAt.Before(t.CreatedAt) {
			return apperrors.ErrNegativeResolutionTime
		}
	} else if t.ResolvedAt != nil {
		return apperrors.ErrResolvedAtUnexpected
	}

	if t.Satisfaction != nil && (*t.Satisfaction < 1 || *t.Satisfaction > 5) {
		return apperrors.ErrSatisfactionOutOfRange
	}

	return nil
}

// IsResolved reports whether the ticket reached a terminal status.
func (t *Ticket) IsResolved() bool {
	return t.Status.IsTerminal()
}

// ResolutionHours returns the derived resolution time in hours. The second
// return value is false for unresolved tickets, where the duration is
// undefined rather than zero.
func (t *Ticket) ResolutionHours() (float64, bool) {
	if t.ResolvedAt == nil {
		return 0, false
	}
	return t.ResolvedAt.Sub(t.CreatedAt).Hours(), true
}

// AgeDays returns the elapsed days since the ticket was created.
func (t *Ticket) AgeDays(now time.Time) float64 {
	return now.Sub(t.CreatedAt).Hours() / 24
}
