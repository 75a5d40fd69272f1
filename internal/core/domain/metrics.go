package domain

import "time"

// Average is the result of a mean over an optional measure. Defined is false
// when no record qualified; callers must check it instead of reading a zero.
type Average struct {
	Value   float64
	Defined bool
}

// DefinedAverage builds a defined average value.
func DefinedAverage(value float64) Average {
	return Average{Value: value, Defined: true}
}

// UndefinedAverage is the distinguished "no qualifying records" result.
func UndefinedAverage() Average {
	return Average{}
}

// TotalCounts summarizes the dataset headline numbers. Resolved + Open always
// equals Total.
type TotalCounts struct {
	Total    int
	Resolved int
	Open     int
}

// GroupRow is one row of a metric snapshot: a group key plus its measures.
type GroupRow struct {
	Key                string
	Count              int
	ResolvedCount      int
	PercentOfTotal     float64
	ResolutionRate     float64
	AvgResolutionHours Average
	AvgSatisfaction    Average
}

// MetricSnapshot is one named, ordered aggregation result. Snapshots are
// created fresh on every engine call and never persisted by the core.
type MetricSnapshot struct {
	Name       string
	ComputedAt time.Time
	Rows       []GroupRow
}

// PendingTicket is an unresolved ticket annotated with its age in days.
type PendingTicket struct {
	Ticket      Ticket
	ElapsedDays float64
}

// SLABreach is a resolved ticket whose resolution time exceeded the
// agreed threshold.
type SLABreach struct {
	Ticket          Ticket
	ResolutionHours float64
	ThresholdHours  float64
}

// SLAOverview pairs the compliance rate with the breaching tickets. Both are
// computed from the same dataset view so they can never disagree.
type SLAOverview struct {
	ThresholdHours float64
	Compliance     float64
	Breaches       []SLABreach
}
