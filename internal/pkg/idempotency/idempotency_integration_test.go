//go:build integration

package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStateTracker_Exec(t *testing.T) {
	ctx := context.Background()
	st := New(startRedis(t))

	calls := 0
	fn := func(context.Context) error { calls++; return nil }

	require.NoError(t, st.Exec(ctx, "req-1", fn))
	err := st.Exec(ctx, "req-1", fn)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.True(t, IsDuplicate(err))
	assert.Equal(t, 1, calls)
	calls = 0

	boom := errors.New("boom")
	err = st.Exec(ctx, "req-2", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, st.Exec(ctx, "req-2", fn), ErrAlreadyFailed)

	denied := errors.New("denied")
	err = st.Exec(ctx, "req-5", func(context.Context) error { return Retryable(denied) })
	assert.ErrorIs(t, err, denied)
	assert.False(t, IsDuplicate(err))
	require.NoError(t, st.Exec(ctx, "req-5", fn))
	assert.ErrorIs(t, st.Exec(ctx, "req-5", fn), ErrAlreadyCompleted)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = st.Exec(ctx, "req-3", func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	assert.ErrorIs(t, st.Exec(ctx, "req-3", fn), ErrAlreadyInProgress)
	close(release)

	require.NoError(t, st.Exec(ctx, "req-4", fn, WithStateTTL(time.Second)))
	assert.Eventually(t, func() bool {
		return st.Exec(ctx, "req-4", fn) == nil
	}, 5*time.Second, 100*time.Millisecond)
}
