// Package metrics implements the support-desk metrics engine: pure,
// read-only aggregation functions over already-materialized ticket
// collections. The engine performs no I/O; ordering of its inputs is never
// assumed and ordering of its outputs is always imposed here.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/soportehq/support-metrics/internal/core/domain"
)

// DefaultSLAThresholdHours is the service-level agreement default: tickets
// are expected to resolve within 24 hours.
const DefaultSLAThresholdHours = 24.0

// TotalCounts returns the headline totals. Resolved counts terminal tickets;
// Open is everything else, so Resolved + Open == Total always holds.
func TotalCounts(tickets []domain.Ticket) domain.TotalCounts {
	counts := domain.TotalCounts{Total: len(tickets)}
	for i := range tickets {
		if tickets[i].IsResolved() {
			counts.Resolved++
		}
	}
	counts.Open = counts.Total - counts.Resolved
	return counts
}

// AverageResolutionTime returns the mean resolution time in hours over the
// tickets where it is defined. With no qualifying ticket the result is
// undefined, not zero.
func AverageResolutionTime(tickets []domain.Ticket) domain.Average {
	var sum float64
	var n int
	for i := range tickets {
		if hours, ok := tickets[i].ResolutionHours(); ok {
			sum += hours
			n++
		}
	}
	if n == 0 {
		return domain.UndefinedAverage()
	}
	return domain.DefinedAverage(sum / float64(n))
}

// ResolutionRate returns resolved/total as a percentage. An empty collection
// yields 0 by policy: an empty set trivially has no unresolved backlog.
func ResolutionRate(tickets []domain.Ticket) float64 {
	counts := TotalCounts(tickets)
	return percentage(counts.Resolved, counts.Total)
}

// SLACompliance returns the percentage of resolved tickets whose resolution
// time stayed within thresholdHours. Tickets without a defined resolution
// time are excluded from both numerator and denominator.
func SLACompliance(tickets []domain.Ticket, thresholdHours float64) float64 {
	var within, resolved int
	for i := range tickets {
		hours, ok := tickets[i].ResolutionHours()
		if !ok {
			continue
		}
		resolved++
		if hours <= thresholdHours {
			within++
		}
	}
	return percentage(within, resolved)
}

// AverageSatisfaction returns the mean of the defined satisfaction ratings.
// Same undefined-on-empty policy as AverageResolutionTime.
func AverageSatisfaction(tickets []domain.Ticket) domain.Average {
	var sum float64
	var n int
	for i := range tickets {
		if tickets[i].Satisfaction != nil {
			sum += float64(*tickets[i].Satisfaction)
			n++
		}
	}
	if n == 0 {
		return domain.UndefinedAverage()
	}
	return domain.DefinedAverage(sum / float64(n))
}

// KeyFunc extracts the grouping key from a ticket.
type KeyFunc func(domain.Ticket) string

// Predefined grouping keys for the standard report dimensions.
var (
	ByCategory KeyFunc = func(t domain.Ticket) string { return t.Category }
	ByPriority KeyFunc = func(t domain.Ticket) string { return string(t.Priority) }
	ByChannel  KeyFunc = func(t domain.Ticket) string { return t.Channel }
	ByAgent    KeyFunc = func(t domain.Ticket) string { return t.Agent }
	ByStatus   KeyFunc = func(t domain.Ticket) string { return string(t.Status) }
)

// RowOrder reports whether row a sorts before row b.
type RowOrder func(a, b domain.GroupRow) bool

// OrderBySizeDesc sorts groups largest first, breaking ties by key ascending
// so repeated runs over an unchanged dataset yield identical row order.
func OrderBySizeDesc(a, b domain.GroupRow) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Key < b.Key
}

// OrderByPriorityRank sorts by the priority enum rank (Critical first,
// Low last) regardless of counts, breaking rank ties by group size
// descending.
func OrderByPriorityRank(a, b domain.GroupRow) bool {
	ra := domain.TicketPriority(a.Key).Rank()
	rb := domain.TicketPriority(b.Key).Rank()
	if ra != rb {
		return ra < rb
	}
	return a.Count > b.Count
}

// GroupBy aggregates the tickets into one row per distinct key, each row
// carrying the full measure set, ordered by the given RowOrder. The result
// is a fresh snapshot; all values are computed at full precision.
func GroupBy(name string, tickets []domain.Ticket, key KeyFunc, order RowOrder) *domain.MetricSnapshot {
	groups := make(map[string][]domain.Ticket)
	for i := range tickets {
		k := key(tickets[i])
		groups[k] = append(groups[k], tickets[i])
	}

	total := len(tickets)
	rows := make([]domain.GroupRow, 0, len(groups))
	for k, members := range groups {
		counts := TotalCounts(members)
		rows = append(rows, domain.GroupRow{
			Key:                k,
			Count:              counts.Total,
			ResolvedCount:      counts.Resolved,
			PercentOfTotal:     percentage(counts.Total, total),
			ResolutionRate:     percentage(counts.Resolved, counts.Total),
			AvgResolutionHours: AverageResolutionTime(members),
			AvgSatisfaction:    AverageSatisfaction(members),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return order(rows[i], rows[j]) })

	return &domain.MetricSnapshot{
		Name:       name,
		ComputedAt: time.Now().UTC(),
		Rows:       rows,
	}
}

// PendingOver returns the unresolved tickets older than the given number of
// days, each annotated with its elapsed age, oldest first.
func PendingOver(tickets []domain.Ticket, now time.Time, days float64) []domain.PendingTicket {
	pending := make([]domain.PendingTicket, 0)
	for i := range tickets {
		t := tickets[i]
		if t.IsResolved() {
			continue
		}
		elapsed := t.AgeDays(now)
		if elapsed > days {
			pending = append(pending, domain.PendingTicket{Ticket: t, ElapsedDays: elapsed})
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].ElapsedDays != pending[j].ElapsedDays {
			return pending[i].ElapsedDays > pending[j].ElapsedDays
		}
		return pending[i].Ticket.ID < pending[j].Ticket.ID
	})
	return pending
}

// ExceedingSLA returns the resolved tickets whose resolution time exceeded
// thresholdHours, slowest first.
func ExceedingSLA(tickets []domain.Ticket, thresholdHours float64) []domain.SLABreach {
	breaches := make([]domain.SLABreach, 0)
	for i := range tickets {
		hours, ok := tickets[i].ResolutionHours()
		if !ok || hours <= thresholdHours {
			continue
		}
		breaches = append(breaches, domain.SLABreach{
			Ticket:          tickets[i],
			ResolutionHours: hours,
			ThresholdHours:  thresholdHours,
		})
	}

	sort.SliceStable(breaches, func(i, j int) bool {
		if breaches[i].ResolutionHours != breaches[j].ResolutionHours {
			return breaches[i].ResolutionHours > breaches[j].ResolutionHours
		}
		return breaches[i].Ticket.ID < breaches[j].Ticket.ID
	})
	return breaches
}

// WeeklyTrend aggregates tickets by the ISO year-week they were created in,
// most recent first, limited to the last weeks buckets that contain tickets.
// Each row carries created count, resolved-so-far count, and the resolution
// rate of that week's cohort.
func WeeklyTrend(tickets []domain.Ticket, weeks int) *domain.MetricSnapshot {
	if weeks <= 0 {
		weeks = 8
	}

	groups := make(map[string][]domain.Ticket)
	for i := range tickets {
		k := isoWeekKey(tickets[i].CreatedAt)
		groups[k] = append(groups[k], tickets[i])
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	// The zero-padded YYYY-Www format sorts lexicographically in time order.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if len(keys) > weeks {
		keys = keys[:weeks]
	}

	rows := make([]domain.GroupRow, 0, len(keys))
	for _, k := range keys {
		members := groups[k]
		counts := TotalCounts(members)
		rows = append(rows, domain.GroupRow{
			Key:                k,
			Count:              counts.Total,
			ResolvedCount:      counts.Resolved,
			ResolutionRate:     percentage(counts.Resolved, counts.Total),
			AvgResolutionHours: AverageResolutionTime(members),
			AvgSatisfaction:    AverageSatisfaction(members),
		})
	}

	return &domain.MetricSnapshot{
		Name:       domain.ReportWeeklyTrend,
		ComputedAt: time.Now().UTC(),
		Rows:       rows,
	}
}

// Round2 rounds a value to 2 decimal places for presentation. Internal
// computation always runs at full precision; only the edges round.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentage implements the engine-wide convention 0/0 = 0. The numerator
// never exceeds the denominator by construction, so no other zero division
// can occur.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
