package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentBuilds bounds how many datasets are built at once.
	// If 0, defaults to 1.
	MaxConcurrentBuilds int64 `yaml:"max_concurrent_builds" validate:"gte=0"`

	// IOLimitBytesPerSec caps snapshot read and write throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec" validate:"gte=0"`
}

// Controller bounds build concurrency and snapshot IO. A nil *Controller
// imposes no limits.
type Controller struct {
	cfg       Config
	builds    *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController creates a controller for cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentBuilds <= 0 {
		cfg.MaxConcurrentBuilds = 1
	}

	c := &Controller{
		cfg:    cfg,
		builds: semaphore.NewWeighted(cfg.MaxConcurrentBuilds),
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config { return c.cfg }

// Acquire reserves a build slot, blocking until one is free or ctx ends.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.builds.Acquire(ctx, 1)
}

// TryAcquire reserves a build slot without blocking.
func (c *Controller) TryAcquire() bool {
	if c == nil {
		return true
	}
	return c.builds.TryAcquire(1)
}

// Release frees a slot reserved by Acquire or TryAcquire.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.builds.Release(1)
}

// Limit waits until the IO budget admits n bytes. Requests larger than the
// burst are admitted in burst-sized steps.
func (c *Controller) Limit(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return ctx.Err()
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}
