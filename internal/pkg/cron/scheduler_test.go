package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())

	var calls int
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})
	s.AddJob("broken", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: boom")
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"ok", "broken"}, s.Jobs())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.AddJob("panics", time.Hour, func(ctx context.Context) error {
		panic("job bug")
	})

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}
