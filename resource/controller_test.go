package resource

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Builds(t *testing.T) {
	c := NewController(Config{MaxConcurrentBuilds: 2})

	require.NoError(t, c.Acquire(context.Background()))
	require.NoError(t, c.Acquire(context.Background()))
	assert.False(t, c.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Acquire(ctx), context.DeadlineExceeded)

	c.Release()
	assert.True(t, c.TryAcquire())
}

func TestController_Defaults(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.Config().MaxConcurrentBuilds)
	require.NoError(t, c.Limit(context.Background(), 1<<20))
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.Acquire(context.Background()))
	assert.True(t, c.TryAcquire())
	c.Release()
	require.NoError(t, c.Limit(context.Background(), 10))
}

func TestController_LimitLargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// A request above the burst must not fail outright.
	require.NoError(t, c.Limit(context.Background(), 3<<19))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.Limit(ctx, 1<<21))
}

func TestRateLimitedIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	_, err := w.Write([]byte("snapshot"))
	require.NoError(t, err)

	data, err := io.ReadAll(NewRateLimitedReader(ctx, &buf, c))
	require.NoError(t, err)
	assert.Equal(t, "snapshot", string(data))
}
