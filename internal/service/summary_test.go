package service

import (
	"context"
	"testing"
	"time"

	"pathfinder/guide-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountRecentEvents(t *testing.T) {
	conn := newTestDB(t)
	s := NewSummaryScheduler(conn)
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{
		now.Add(-25 * time.Hour),
		now.Add(-24 * time.Hour),
		now.Add(-time.Hour),
		now,
	} {
		require.NoError(t, conn.Create(&model.Event{Name: "e", CreatedAt: at}).Error)
	}

	count, err := s.CountRecentEvents(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = s.CountRecentEvents(context.Background(), now.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	s := NewSummaryScheduler(newTestDB(t))

	s.Start()
	s.Start()
	assert.Equal(t, 1, s.Entries())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	// Restarting after a stop keeps a single job
	s.Start()
	assert.Equal(t, 1, s.Entries())
	s.Stop(ctx)
}
