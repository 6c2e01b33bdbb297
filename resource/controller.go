package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds limits for archive IO.
type Config struct {
	// MemoryLimitBytes caps the bytes of archive payloads held for decoding at once.
	// If 0, usage is only tracked.
	MemoryLimitBytes int64

	// MaxConcurrentIO is the number of blob transfers allowed in flight.
	// If 0, defaults to 1.
	MaxConcurrentIO int64

	// IOLimitBytesPerSec caps blob throughput. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller throttles archive transfers and bounds decode memory.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	ioSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentIO <= 0 {
		cfg.MaxConcurrentIO = 1
	}

	c := &Controller{
		cfg:   cfg,
		ioSem: semaphore.NewWeighted(cfg.MaxConcurrentIO),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves bytes, blocking while a hard limit would be exceeded.
// Requests larger than the limit are clamped to it so they can still proceed
// alone.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, c.clampMemory(bytes)); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves bytes without blocking.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(c.clampMemory(bytes)) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory returns bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(c.clampMemory(bytes))
	}
	c.memUsed.Add(-bytes)
}

func (c *Controller) clampMemory(bytes int64) int64 {
	return min(bytes, c.cfg.MemoryLimitBytes)
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireIO reserves a transfer slot, blocking while all slots are busy.
func (c *Controller) AcquireIO(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.ioSem.Acquire(ctx, 1)
}

// TryAcquireIO reserves a transfer slot without blocking.
func (c *Controller) TryAcquireIO() bool {
	if c == nil {
		return true
	}
	return c.ioSem.TryAcquire(1)
}

// ReleaseIO returns a slot reserved by AcquireIO.
func (c *Controller) ReleaseIO() {
	if c == nil {
		return
	}
	c.ioSem.Release(1)
}

// WaitBytes blocks until the throughput limit admits n bytes. Large requests are
// admitted in burst-sized chunks.
func (c *Controller) WaitBytes(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
