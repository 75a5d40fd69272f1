package sampledata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soportehq/support-metrics/internal/core/metrics"
)

func TestGenerator_Tickets(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	t.Run("deterministic for a given seed", func(t *testing.T) {
		first := NewGenerator(42, now).Tickets(50)
		second := NewGenerator(42, now).Tickets(50)
		assert.Equal(t, first, second)
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		first := NewGenerator(1, now).Tickets(50)
		second := NewGenerator(2, now).Tickets(50)
		assert.NotEqual(t, first, second)
	})

	t.Run("every ticket passes validation", func(t *testing.T) {
		tickets := NewGenerator(42, now).Tickets(200)
		ds := metrics.NewDataset(tickets)
		assert.Zero(t, ds.SkippedCount())
		assert.Len(t, ds.Records, 200)
	})

	t.Run("roughly eighty percent resolved", func(t *testing.T) {
		tickets := NewGenerator(42, now).Tickets(500)
		counts := metrics.TotalCounts(tickets)
		rate := float64(counts.Resolved) / float64(counts.Total)
		assert.InDelta(t, 0.8, rate, 0.08)
	})

	t.Run("ids are unique and sequential", func(t *testing.T) {
		tickets := NewGenerator(42, now).Tickets(10)
		require.Len(t, tickets, 10)
		assert.Equal(t, "TICK-0001", tickets[0].ID)
		assert.Equal(t, "TICK-0010", tickets[9].ID)

		seen := make(map[string]bool)
		for _, ticket := range tickets {
			assert.False(t, seen[ticket.ID])
			seen[ticket.ID] = true
		}
	})
}
