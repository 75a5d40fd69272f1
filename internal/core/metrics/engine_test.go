package metrics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/metrics"
)

var baseTime = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type ticketOpt func(*domain.Ticket)

func withCategory(c string) ticketOpt {
	return func(t *domain.Ticket) { t.Category = c }
}

func withChannel(c string) ticketOpt {
	return func(t *domain.Ticket) { t.Channel = c }
}

func withAgent(a string) ticketOpt {
	return func(t *domain.Ticket) { t.Agent = a }
}

func withPriority(p domain.TicketPriority) ticketOpt {
	return func(t *domain.Ticket) { t.Priority = p }
}

func withCreatedAt(at time.Time) ticketOpt {
	return func(t *domain.Ticket) { t.CreatedAt = at }
}

func withSatisfaction(rating int) ticketOpt {
	return func(t *domain.Ticket) { t.Satisfaction = &rating }
}

// resolvedTicket builds a RESOLVED ticket with the given resolution time.
func resolvedTicket(id string, resolutionHours float64, opts ...ticketOpt) domain.Ticket {
	resolvedAt := baseTime.Add(time.Duration(resolutionHours * float64(time.Hour)))
	t := domain.Ticket{
		ID:         id,
		Category:   "Hardware",
		Priority:   domain.PriorityMedium,
		Channel:    "Email",
		Status:     domain.StatusResolved,
		Agent:      "agent-1",
		CreatedAt:  baseTime,
		ResolvedAt: &resolvedAt,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// openTicket builds an OPEN ticket.
func openTicket(id string, opts ...ticketOpt) domain.Ticket {
	t := domain.Ticket{
		ID:        id,
		Category:  "Hardware",
		Priority:  domain.PriorityMedium,
		Channel:   "Email",
		Status:    domain.StatusOpen,
		Agent:     "agent-1",
		CreatedAt: baseTime,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func TestTotalCounts(t *testing.T) {
	t.Run("resolved plus open equals total", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 2),
			resolvedTicket("T-2", 5),
			openTicket("T-3"),
			openTicket("T-4"),
			openTicket("T-5"),
		}

		counts := metrics.TotalCounts(tickets)

		assert.Equal(t, 5, counts.Total)
		assert.Equal(t, 2, counts.Resolved)
		assert.Equal(t, 3, counts.Open)
		assert.Equal(t, counts.Total, counts.Resolved+counts.Open)
	})

	t.Run("closed counts as resolved", func(t *testing.T) {
		closed := resolvedTicket("T-1", 2)
		closed.Status = domain.StatusClosed

		counts := metrics.TotalCounts([]domain.Ticket{closed})

		assert.Equal(t, 1, counts.Resolved)
		assert.Equal(t, 0, counts.Open)
	})

	t.Run("empty collection", func(t *testing.T) {
		counts := metrics.TotalCounts(nil)
		assert.Equal(t, domain.TotalCounts{}, counts)
	})
}

func TestAverageResolutionTime(t *testing.T) {
	t.Run("means over resolved tickets only", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 10),
			resolvedTicket("T-2", 20),
			openTicket("T-3"),
		}

		avg := metrics.AverageResolutionTime(tickets)

		require.True(t, avg.Defined)
		assert.InDelta(t, 15.0, avg.Value, 1e-9)
	})

	t.Run("undefined when nothing resolved", func(t *testing.T) {
		tickets := []domain.Ticket{openTicket("T-1"), openTicket("T-2")}

		avg := metrics.AverageResolutionTime(tickets)

		assert.False(t, avg.Defined)
	})

	t.Run("undefined on empty collection", func(t *testing.T) {
		avg := metrics.AverageResolutionTime(nil)
		assert.False(t, avg.Defined)
	})
}

func TestResolutionRate(t *testing.T) {
	tests := []struct {
		name    string
		tickets []domain.Ticket
		want    float64
	}{
		{
			name:    "empty collection is zero",
			tickets: nil,
			want:    0,
		},
		{
			name:    "all resolved",
			tickets: []domain.Ticket{resolvedTicket("T-1", 1), resolvedTicket("T-2", 2)},
			want:    100,
		},
		{
			name: "three of four resolved",
			tickets: []domain.Ticket{
				resolvedTicket("T-1", 1),
				resolvedTicket("T-2", 2),
				resolvedTicket("T-3", 3),
				openTicket("T-4"),
			},
			want: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, metrics.ResolutionRate(tt.tickets), 1e-9)
		})
	}
}

func TestSLACompliance(t *testing.T) {
	t.Run("four of six within threshold", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 2),
			resolvedTicket("T-2", 10),
			resolvedTicket("T-3", 23.5),
			resolvedTicket("T-4", 24), // exactly at the threshold is compliant
			resolvedTicket("T-5", 25),
			resolvedTicket("T-6", 48),
		}

		rate := metrics.SLACompliance(tickets, metrics.DefaultSLAThresholdHours)

		assert.InDelta(t, 66.666666, rate, 1e-4)
		assert.InDelta(t, 66.67, metrics.Round2(rate), 1e-9)
	})

	t.Run("unresolved tickets excluded from denominator", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 2),
			openTicket("T-2"),
			openTicket("T-3"),
		}

		assert.InDelta(t, 100.0, metrics.SLACompliance(tickets, 24), 1e-9)
	})

	t.Run("zero when nothing resolved", func(t *testing.T) {
		tickets := []domain.Ticket{openTicket("T-1")}
		assert.Zero(t, metrics.SLACompliance(tickets, 24))
	})
}

func TestAverageSatisfaction(t *testing.T) {
	t.Run("means over rated tickets only", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 1, withSatisfaction(5)),
			resolvedTicket("T-2", 2, withSatisfaction(4)),
			resolvedTicket("T-3", 3),
			openTicket("T-4"),
		}

		avg := metrics.AverageSatisfaction(tickets)

		require.True(t, avg.Defined)
		assert.InDelta(t, 4.5, avg.Value, 1e-9)
	})

	t.Run("undefined with no ratings", func(t *testing.T) {
		tickets := []domain.Ticket{resolvedTicket("T-1", 1), openTicket("T-2")}
		assert.False(t, metrics.AverageSatisfaction(tickets).Defined)
	})
}

func TestGroupBy(t *testing.T) {
	t.Run("size descending with key ascending tie-break", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 1, withCategory("Software")),
			resolvedTicket("T-2", 2, withCategory("Software")),
			openTicket("T-3", withCategory("Software")),
			resolvedTicket("T-4", 3, withCategory("Network")),
			openTicket("T-5", withCategory("Hardware")),
		}

		snap := metrics.GroupBy("tickets_by_category", tickets, metrics.ByCategory, metrics.OrderBySizeDesc)

		require.Len(t, snap.Rows, 3)
		assert.Equal(t, "Software", snap.Rows[0].Key)
		assert.Equal(t, 3, snap.Rows[0].Count)
		// Hardware and Network both have one ticket; key order decides.
		assert.Equal(t, "Hardware", snap.Rows[1].Key)
		assert.Equal(t, "Network", snap.Rows[2].Key)
	})

	t.Run("row measures", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 10, withCategory("Software"), withSatisfaction(4)),
			openTicket("T-2", withCategory("Software")),
			resolvedTicket("T-3", 1, withCategory("Hardware")),
			resolvedTicket("T-4", 3, withCategory("Hardware")),
		}

		snap := metrics.GroupBy("tickets_by_category", tickets, metrics.ByCategory, metrics.OrderBySizeDesc)

		require.Len(t, snap.Rows, 2)
		software := snap.Rows[1]
		require.Equal(t, "Software", software.Key)
		assert.Equal(t, 2, software.Count)
		assert.Equal(t, 1, software.ResolvedCount)
		assert.InDelta(t, 50.0, software.PercentOfTotal, 1e-9)
		assert.InDelta(t, 50.0, software.ResolutionRate, 1e-9)
		require.True(t, software.AvgResolutionHours.Defined)
		assert.InDelta(t, 10.0, software.AvgResolutionHours.Value, 1e-9)
		require.True(t, software.AvgSatisfaction.Defined)
		assert.InDelta(t, 4.0, software.AvgSatisfaction.Value, 1e-9)

		hardware := snap.Rows[0]
		require.Equal(t, "Hardware", hardware.Key)
		assert.InDelta(t, 2.0, hardware.AvgResolutionHours.Value, 1e-9)
		assert.False(t, hardware.AvgSatisfaction.Defined)
	})

	t.Run("priority order follows the enum rank", func(t *testing.T) {
		tickets := []domain.Ticket{
			openTicket("T-1", withPriority(domain.PriorityLow)),
			openTicket("T-2", withPriority(domain.PriorityLow)),
			openTicket("T-3", withPriority(domain.PriorityLow)),
			openTicket("T-4", withPriority(domain.PriorityCritical)),
			openTicket("T-5", withPriority(domain.PriorityHigh)),
			openTicket("T-6", withPriority(domain.PriorityHigh)),
		}

		snap := metrics.GroupBy("tickets_by_priority", tickets, metrics.ByPriority, metrics.OrderByPriorityRank)

		require.Len(t, snap.Rows, 3)
		assert.Equal(t, string(domain.PriorityCritical), snap.Rows[0].Key)
		assert.Equal(t, string(domain.PriorityHigh), snap.Rows[1].Key)
		assert.Equal(t, string(domain.PriorityLow), snap.Rows[2].Key)
	})

	t.Run("idempotent over an unchanged dataset", func(t *testing.T) {
		tickets := []domain.Ticket{
			openTicket("T-1", withChannel("Portal")),
			openTicket("T-2", withChannel("Chat")),
			resolvedTicket("T-3", 1, withChannel("Email")),
			resolvedTicket("T-4", 2, withChannel("Chat")),
		}

		first := metrics.GroupBy("tickets_by_channel", tickets, metrics.ByChannel, metrics.OrderBySizeDesc)
		second := metrics.GroupBy("tickets_by_channel", tickets, metrics.ByChannel, metrics.OrderBySizeDesc)

		assert.Equal(t, first.Rows, second.Rows)
	})

	t.Run("empty collection yields no rows", func(t *testing.T) {
		snap := metrics.GroupBy("tickets_by_agent", nil, metrics.ByAgent, metrics.OrderBySizeDesc)
		assert.Empty(t, snap.Rows)
	})
}

func TestPendingOver(t *testing.T) {
	now := baseTime.Add(10 * 24 * time.Hour)

	t.Run("strictly older than the cutoff", func(t *testing.T) {
		tickets := []domain.Ticket{
			openTicket("T-1", withCreatedAt(now.Add(-5*24*time.Hour))),
			openTicket("T-2", withCreatedAt(now.Add(-3*24*time.Hour))), // exactly 3 days is not over
			openTicket("T-3", withCreatedAt(now.Add(-2*24*time.Hour))),
			resolvedTicket("T-4", 1, withCreatedAt(now.Add(-9*24*time.Hour))),
		}

		pending := metrics.PendingOver(tickets, now, 3)

		require.Len(t, pending, 1)
		assert.Equal(t, "T-1", pending[0].Ticket.ID)
		assert.InDelta(t, 5.0, pending[0].ElapsedDays, 1e-9)
	})

	t.Run("ordered oldest first", func(t *testing.T) {
		tickets := []domain.Ticket{
			openTicket("T-1", withCreatedAt(now.Add(-4*24*time.Hour))),
			openTicket("T-2", withCreatedAt(now.Add(-8*24*time.Hour))),
			openTicket("T-3", withCreatedAt(now.Add(-6*24*time.Hour))),
		}

		pending := metrics.PendingOver(tickets, now, 3)

		require.Len(t, pending, 3)
		assert.Equal(t, "T-2", pending[0].Ticket.ID)
		assert.Equal(t, "T-3", pending[1].Ticket.ID)
		assert.Equal(t, "T-1", pending[2].Ticket.ID)
	})

	t.Run("nothing pending", func(t *testing.T) {
		tickets := []domain.Ticket{resolvedTicket("T-1", 1)}
		assert.Empty(t, metrics.PendingOver(tickets, now, 3))
	})
}

func TestExceedingSLA(t *testing.T) {
	t.Run("strictly over the threshold, slowest first", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolvedTicket("T-1", 30),
			resolvedTicket("T-2", 24), // exactly at the threshold does not breach
			resolvedTicket("T-3", 72),
			openTicket("T-4"),
		}

		breaches := metrics.ExceedingSLA(tickets, 24)

		require.Len(t, breaches, 2)
		assert.Equal(t, "T-3", breaches[0].Ticket.ID)
		assert.InDelta(t, 72.0, breaches[0].ResolutionHours, 1e-9)
		assert.InDelta(t, 24.0, breaches[0].ThresholdHours, 1e-9)
		assert.Equal(t, "T-1", breaches[1].Ticket.ID)
	})

	t.Run("unresolved tickets never breach", func(t *testing.T) {
		old := openTicket("T-1", withCreatedAt(baseTime.Add(-30*24*time.Hour)))
		assert.Empty(t, metrics.ExceedingSLA([]domain.Ticket{old}, 24))
	})
}

func TestWeeklyTrend(t *testing.T) {
	// 2025-06-02 is a Monday, ISO week 2025-W23.
	weekStart := func(weeksAgo int) time.Time {
		return baseTime.Add(-time.Duration(weeksAgo) * 7 * 24 * time.Hour)
	}

	t.Run("most recent weeks first", func(t *testing.T) {
		tickets := []domain.Ticket{
			openTicket("T-1", withCreatedAt(weekStart(0))),
			resolvedTicket("T-2", 1, withCreatedAt(weekStart(0))),
			openTicket("T-3", withCreatedAt(weekStart(2))),
			resolvedTicket("T-4", 1, withCreatedAt(weekStart(5))),
		}

		snap := metrics.WeeklyTrend(tickets, 8)

		require.Len(t, snap.Rows, 3)
		assert.Equal(t, "2025-W23", snap.Rows[0].Key)
		assert.Equal(t, 2, snap.Rows[0].Count)
		assert.Equal(t, 1, snap.Rows[0].ResolvedCount)
		assert.Equal(t, "2025-W21", snap.Rows[1].Key)
		assert.Equal(t, "2025-W18", snap.Rows[2].Key)
	})

	t.Run("limited to the requested window", func(t *testing.T) {
		var tickets []domain.Ticket
		for w := 0; w < 12; w++ {
			tickets = append(tickets, openTicket(fmt.Sprintf("T-%d", w), withCreatedAt(weekStart(w))))
		}

		snap := metrics.WeeklyTrend(tickets, 8)

		require.Len(t, snap.Rows, 8)
		// Lexicographic order of zero-padded keys matches time order.
		for i := 1; i < len(snap.Rows); i++ {
			assert.Greater(t, snap.Rows[i-1].Key, snap.Rows[i].Key)
		}
	})

	t.Run("year boundary keys keep time order", func(t *testing.T) {
		// 2024-12-30 falls in ISO week 2025-W01.
		lateDec := time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC)
		midDec := time.Date(2024, 12, 18, 12, 0, 0, 0, time.UTC)

		snap := metrics.WeeklyTrend([]domain.Ticket{
			openTicket("T-1", withCreatedAt(midDec)),
			openTicket("T-2", withCreatedAt(lateDec)),
		}, 8)

		require.Len(t, snap.Rows, 2)
		assert.Equal(t, "2025-W01", snap.Rows[0].Key)
		assert.Equal(t, "2024-W51", snap.Rows[1].Key)
	})

	t.Run("empty collection", func(t *testing.T) {
		snap := metrics.WeeklyTrend(nil, 8)
		assert.Empty(t, snap.Rows)
	})
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 66.67, metrics.Round2(66.666666), 1e-9)
	assert.InDelta(t, 66.66, metrics.Round2(66.664), 1e-9)
	assert.InDelta(t, 0.0, metrics.Round2(0), 1e-9)
}
