package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestCron_AddJob(t *testing.T) {
	c := New()

	job := JobFunc{JobName: "otp-sweep", Fn: func(context.Context) error { return nil }}
	require.NoError(t, c.AddJob(job, "*/5 * * * *"))
	assert.ErrorIs(t, c.AddJob(job, "@hourly"), ErrDuplicateJob)
	assert.Error(t, c.AddJob(JobFunc{JobName: "bad"}, "every tuesday"))
	assert.Equal(t, []string{"otp-sweep"}, c.Jobs())
}

func TestCron_RunOnceSkipsOverlap(t *testing.T) {
	c := New()
	running := atomic.NewBool(false)

	entered := make(chan struct{})
	release := make(chan struct{})
	calls := atomic.NewInt32(0)
	job := JobFunc{JobName: "slow", Fn: func(context.Context) error {
		calls.Inc()
		close(entered)
		<-release
		return errors.New("logged, not returned")
	}}

	done := make(chan struct{})
	go func() {
		c.runOnce(job, "@every 1s", running)
		close(done)
	}()
	<-entered

	c.runOnce(job, "@every 1s", running)
	close(release)
	<-done

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, running.Load())
}

func TestCron_StopCancelsJobContext(t *testing.T) {
	c := New()
	c.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.Stop(ctx))
	assert.Error(t, c.ctx.Err())
}
