package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool *pgxpool.Pool
	tm   *TransactionManager
}

// Ensure TicketRepository implements the ports.TicketRepository interface.
var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{
		pool: pool,
		tm:   NewTransactionManager(pool),
	}
}

const ticketColumns = `id, category, priority, channel, status, agent, description, created_at, resolved_at, satisfaction`

// Fetch returns the tickets matching the filter. A zero filter returns the
// full dataset. Row order is not significant; the metrics engine imposes its
// own ordering.
func (r *TicketRepository) Fetch(ctx context.Context, filter ports.TicketFilter) ([]domain.Ticket, error) {
	query, args := buildFetchQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// InsertTickets bulk-inserts ticket records atomically. Used by the seed
// tool and the integration tests; the serving path is read-only.
func (r *TicketRepository) InsertTickets(ctx context.Context, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := fmt.Sprintf(`INSERT INTO tickets (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, ticketColumns)
	for i := range tickets {
		t := tickets[i]
		batch.Queue(query,
			t.ID,
			t.Category,
			string(t.Priority),
			t.Channel,
			string(t.Status),
			textOrNull(t.Agent),
			textOrNull(t.Description),
			t.CreatedAt,
			timestampOrNull(t.ResolvedAt),
			satisfactionOrNull(t.Satisfaction),
		)
	}

	return r.tm.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range tickets {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("inserting tickets: %w", err)
			}
		}
		return nil
	})
}

// buildFetchQuery assembles the WHERE clause from the set filter fields.
func buildFetchQuery(filter ports.TicketFilter) (string, []any) {
	var conditions []string
	var args []any

	addCondition := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	if filter.CreatedFrom != nil {
		addCondition("created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		addCondition("created_at < $%d", *filter.CreatedTo)
	}
	if filter.Status != nil {
		addCondition("status = $%d", string(*filter.Status))
	}
	if filter.Priority != nil {
		addCondition("priority = $%d", string(*filter.Priority))
	}
	if filter.Category != nil {
		addCondition("category = $%d", *filter.Category)
	}
	if filter.Channel != nil {
		addCondition("channel = $%d", *filter.Channel)
	}
	if filter.Agent != nil {
		addCondition("agent = $%d", *filter.Agent)
	}

	query := fmt.Sprintf("SELECT %s FROM tickets", ticketColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query, args
}

func scanTicket(rows pgx.Rows) (domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		priority     string
		status       string
		agent        pgtype.Text
		description  pgtype.Text
		createdAt    pgtype.Timestamptz
		resolvedAt   pgtype.Timestamptz
		satisfaction pgtype.Int2
	)

	if err := rows.Scan(
		&ticket.ID,
		&ticket.Category,
		&priority,
		&ticket.Channel,
		&status,
		&agent,
		&description,
		&createdAt,
		&resolvedAt,
		&satisfaction,
	); err != nil {
		return domain.Ticket{}, err
	}

	ticket.Priority = domain.TicketPriority(priority)
	ticket.Status = domain.TicketStatus(status)
	ticket.Agent = textOrEmpty(agent)
	ticket.Description = textOrEmpty(description)
	ticket.CreatedAt = createdAt.Time

	if resolvedAt.Valid {
		value := resolvedAt.Time
		ticket.ResolvedAt = &value
	}
	if satisfaction.Valid {
		value := int(satisfaction.Int16)
		ticket.Satisfaction = &value
	}

	return ticket, nil
}

func textOrEmpty(text pgtype.Text) string {
	if text.Valid {
		return text.String
	}
	return ""
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func timestampOrNull(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func satisfactionOrNull(rating *int) pgtype.Int2 {
	if rating == nil {
		return pgtype.Int2{}
	}
	return pgtype.Int2{Int16: int16(*rating), Valid: true}
}
