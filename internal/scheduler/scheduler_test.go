package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/scheduler"
)

func TestNextRunPicksEarliestToday(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 6, 30, 0, 0, loc)
	next, ok := scheduler.NextRun(now, loc, []string{"08:00", "20:00"})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, loc), next)
}

func TestNextRunRollsToTomorrow(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 21, 0, 0, 0, loc)
	next, ok := scheduler.NextRun(now, loc, []string{"08:00", "20:00"})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 3, 2, 8, 0, 0, 0, loc), next)
}

func TestNextRunBetweenTimes(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, loc)
	next, ok := scheduler.NextRun(now, loc, []string{"08:00", "20:00"})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 3, 1, 20, 0, 0, 0, loc), next)
}

func TestNextRunKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	// the night Sweden springs forward
	now := time.Date(2024, 3, 30, 21, 0, 0, 0, loc)
	next, ok := scheduler.NextRun(now, loc, []string{"08:00"})
	require.True(t, ok)
	require.Equal(t, 8, next.Hour())
	require.Equal(t, 31, next.Day())
}

func TestNextRunNoValidTimes(t *testing.T) {
	_, ok := scheduler.NextRun(time.Now(), time.UTC, []string{"nope", ""})
	require.False(t, ok)
}

func TestEveryRunsImmediatelyAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		scheduler.Every(ctx, time.Hour, "test", func(context.Context) error {
			runs.Add(1)
			return nil
		})
		close(done)
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Every did not stop on ctx cancel")
	}
}
