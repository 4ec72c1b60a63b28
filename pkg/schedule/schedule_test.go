package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalTaskRunsWhenDue(t *testing.T) {
	s := schedule.New()
	var runs atomic.Int32
	s.Every(5).Minutes().Name("warm").Run(func(context.Context) error {
		runs.Add(1)
		return nil
	})

	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s.RunDue(context.Background(), start)
	s.Wait()
	s.RunDue(context.Background(), start.Add(time.Minute))
	s.Wait()
	s.RunDue(context.Background(), start.Add(5*time.Minute))
	s.Wait()

	assert.EqualValues(t, 2, runs.Load())
}

func TestCronRunsOncePerMinute(t *testing.T) {
	s := schedule.New()
	var runs atomic.Int32
	s.Cron("5 0 * * *").Name("summary").Run(func(context.Context) error {
		runs.Add(1)
		return nil
	})

	at := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.RunDue(context.Background(), at.Add(time.Duration(i)*time.Second))
		s.Wait()
	}
	s.RunDue(context.Background(), at.Add(time.Hour))
	s.Wait()

	assert.EqualValues(t, 1, runs.Load())
}

func TestCronFieldForms(t *testing.T) {
	s := schedule.New()
	var runs atomic.Int32
	s.Cron("*/15 9-17 * * 1,2,3,4,5").Run(func(context.Context) error {
		runs.Add(1)
		return nil
	})

	monday := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	s.RunDue(context.Background(), monday)
	s.Wait()
	s.RunDue(context.Background(), monday.Add(5*24*time.Hour)) // Saturday
	s.Wait()
	s.RunDue(context.Background(), monday.Add(time.Minute)) // 9:31
	s.Wait()

	assert.EqualValues(t, 1, runs.Load())
}

func TestFailingAndPanickingTasksAreContained(t *testing.T) {
	s := schedule.New()
	s.EveryMinute().Name("fails").Run(func(context.Context) error { return errors.New("boom") })
	s.EveryMinute().Name("panics").Run(func(context.Context) error { panic("boom") })

	assert.NotPanics(t, func() {
		s.RunDue(context.Background(), time.Now())
		s.Wait()
	})
	assert.Len(t, s.List(), 2)
}

func TestRunNamed(t *testing.T) {
	s := schedule.New()
	called := false
	s.Daily().Name("prune").Run(func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, s.RunNamed(context.Background(), "prune"))
	assert.True(t, called)
	assert.Error(t, s.RunNamed(context.Background(), "missing"))
}
