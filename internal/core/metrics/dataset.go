package metrics

import (
	"github.com/soportehq/support-metrics/internal/core/domain"
	apperrors "github.com/soportehq/support-metrics/internal/core/errors"
)

// Dataset is a validated ticket collection ready for aggregation. Malformed
// records are partitioned out at construction, each with the shape error
// that rejected it, so nothing is dropped without trace.
type Dataset struct {
	Records []domain.Ticket
	Skipped []*apperrors.RecordError
}

// NewDataset validates every record and partitions the collection into
// accepted records and skipped ones. The engine only ever computes over
// Records.
func NewDataset(tickets []domain.Ticket) *Dataset {
	ds := &Dataset{
		Records: make([]domain.Ticket, 0, len(tickets)),
	}
	for i := range tickets {
		if err := tickets[i].Validate(); err != nil {
			ds.Skipped = append(ds.Skipped, &apperrors.RecordError{
				TicketID: tickets[i].ID,
				Err:      err,
			})
			continue
		}
		ds.Records = append(ds.Records, tickets[i])
	}
	return ds
}

// SkippedCount returns the number of records rejected at ingestion.
func (d *Dataset) SkippedCount() int {
	return len(d.Skipped)
}
