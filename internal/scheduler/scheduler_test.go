package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/predictsports-engine/internal/logger"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) DeleteExpired() int {
	p.calls.Add(1)
	return 0
}

type countingPinger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPinger) Ping(ctx context.Context) error {
	p.calls.Add(1)
	return p.err
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(logger.Discard())

	assert.ErrorIs(t, s.Start(), ErrNoJobs)
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}

func TestInvalidCronExpression(t *testing.T) {
	s := NewScheduler(logger.Discard())

	err := s.ScheduleCachePurge("not a schedule", &countingPurger{})
	assert.Error(t, err)
	assert.Empty(t, s.Entries())
}

func TestJobsRun(t *testing.T) {
	s := NewScheduler(logger.Discard())
	purger := &countingPurger{}
	healthy := &countingPinger{}
	broken := &countingPinger{err: errors.New("redis down")}

	require.NoError(t, s.ScheduleCachePurge("@every 1s", purger))
	require.NoError(t, s.ScheduleDependencyCheck("@every 1s", "redis", healthy))
	require.NoError(t, s.ScheduleDependencyCheck("@every 1s", "database", broken))
	assert.Len(t, s.Entries(), 3)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.ErrorIs(t, s.Start(), ErrRunning)
	assert.ErrorIs(t, s.ScheduleCachePurge("@every 1s", purger), ErrRunning)

	assert.Eventually(t, func() bool {
		return purger.calls.Load() > 0 && healthy.calls.Load() > 0 && broken.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}
