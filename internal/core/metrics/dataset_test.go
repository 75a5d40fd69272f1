package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soportehq/support-metrics/internal/core/domain"
	apperrors "github.com/soportehq/support-metrics/internal/core/errors"
	"github.com/soportehq/support-metrics/internal/core/metrics"
)

func TestNewDataset(t *testing.T) {
	t.Run("partitions malformed records with their shape error", func(t *testing.T) {
		missingResolvedAt := domain.Ticket{
			ID:        "T-2",
			Priority:  domain.PriorityHigh,
			Status:    domain.StatusResolved,
			CreatedAt: baseTime,
		}
		noCreatedAt := domain.Ticket{
			ID:       "T-3",
			Priority: domain.PriorityLow,
			Status:   domain.StatusOpen,
		}

		ds := metrics.NewDataset([]domain.Ticket{
			openTicket("T-1"),
			missingResolvedAt,
			noCreatedAt,
			resolvedTicket("T-4", 2),
		})

		require.Len(t, ds.Records, 2)
		assert.Equal(t, "T-1", ds.Records[0].ID)
		assert.Equal(t, "T-4", ds.Records[1].ID)

		require.Equal(t, 2, ds.SkippedCount())
		assert.Equal(t, "T-2", ds.Skipped[0].TicketID)
		assert.ErrorIs(t, ds.Skipped[0].Err, apperrors.ErrResolvedAtMissing)
		assert.Equal(t, "T-3", ds.Skipped[1].TicketID)
		assert.ErrorIs(t, ds.Skipped[1].Err, apperrors.ErrMissingCreatedAt)
	})

	t.Run("negative resolution time is rejected", func(t *testing.T) {
		resolvedAt := baseTime.Add(-time.Hour)
		bad := domain.Ticket{
			ID:         "T-1",
			Priority:   domain.PriorityMedium,
			Status:     domain.StatusResolved,
			CreatedAt:  baseTime,
			ResolvedAt: &resolvedAt,
		}

		ds := metrics.NewDataset([]domain.Ticket{bad})

		assert.Empty(t, ds.Records)
		require.Equal(t, 1, ds.SkippedCount())
		assert.ErrorIs(t, ds.Skipped[0].Err, apperrors.ErrNegativeResolutionTime)
	})

	t.Run("empty input", func(t *testing.T) {
		ds := metrics.NewDataset(nil)
		assert.Empty(t, ds.Records)
		assert.Zero(t, ds.SkippedCount())
	})
}
