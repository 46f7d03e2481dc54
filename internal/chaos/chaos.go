// Package chaos injects publish failures and delays so checkpoint resume
// can be exercised against a real broker.
package chaos

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/msg"
)

// ErrInjected is reported for records chaos dropped
var ErrInjected = errors.New("chaos: injected publish failure")

// Chaos provides deterministic failure injection
type Chaos struct {
	cfg    *Config
	logger *zap.Logger
	rng    *rand.Rand
	mu     sync.Mutex
	start  time.Time
	seen   atomic.Int64
}

// New creates a new Chaos instance
func New(cfg *Config, logger *zap.Logger) (*Chaos, error) {
	if cfg.Profile != "" {
		dropPct, delayMin, delayMax, err := ParseProfile(cfg.Profile)
		if err != nil {
			return nil, err
		}
		if dropPct > 0 {
			cfg.DropPct = dropPct
		}
		if delayMin > 0 || delayMax > 0 {
			cfg.DelayMsMin = delayMin
			cfg.DelayMsMax = delayMax
		}
	}

	return &Chaos{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		start:  time.Now(),
	}, nil
}

// active reports whether the n-th operation may be disturbed
func (c *Chaos) active(n int64) bool {
	if !c.cfg.Enabled {
		return false
	}
	if n <= c.cfg.AfterRecords {
		return false
	}

	// Check if window expired
	if c.cfg.WindowMs > 0 {
		elapsed := time.Since(c.start).Milliseconds()
		if elapsed > int64(c.cfg.WindowMs) {
			return false
		}
	}
	return true
}

// MaybeDelay injects a random delay if chaos is enabled
func (c *Chaos) MaybeDelay(ctx context.Context, n int64, op string) error {
	if !c.active(n) {
		return nil
	}

	if c.cfg.DelayMsMin == 0 && c.cfg.DelayMsMax == 0 {
		return nil
	}

	c.mu.Lock()
	var delayMs int
	if c.cfg.DelayMsMin == c.cfg.DelayMsMax {
		delayMs = c.cfg.DelayMsMin
	} else {
		delayMs = c.cfg.DelayMsMin + c.rng.Intn(c.cfg.DelayMsMax-c.cfg.DelayMsMin+1)
	}
	c.mu.Unlock()

	if delayMs > 0 {
		c.logger.Debug("chaos delay injected",
			zap.String("op", op),
			zap.Int64("n", n),
			zap.Int("delay_ms", delayMs),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(delayMs) * time.Millisecond):
			return nil
		}
	}

	return nil
}

// MaybeDrop returns true if the operation should fail
func (c *Chaos) MaybeDrop(n int64, op string) bool {
	if !c.active(n) || c.cfg.DropPct == 0 {
		return false
	}

	c.mu.Lock()
	drop := c.rng.Intn(100) < c.cfg.DropPct
	c.mu.Unlock()

	if drop {
		c.logger.Info("chaos drop injected",
			zap.String("op", op),
			zap.Int64("n", n),
		)
	}

	return drop
}

// Producer is the publishing surface chaos wraps
type Producer interface {
	PublishRecord(ctx context.Context, topic string, key, value []byte, headers []msg.Header, done func(error))
	Flush(ctx context.Context) error
}

// FaultyProducer fails or delays a share of publishes before they reach
// the wrapped producer. Flush reports the first injected failure.
type FaultyProducer struct {
	next  Producer
	chaos *Chaos

	mu       sync.Mutex
	injected error
}

// WrapProducer returns next wrapped with c
func WrapProducer(next Producer, c *Chaos) *FaultyProducer {
	return &FaultyProducer{next: next, chaos: c}
}

func (p *FaultyProducer) PublishRecord(ctx context.Context, topic string, key, value []byte, headers []msg.Header, done func(error)) {
	n := p.chaos.seen.Add(1)
	if err := p.chaos.MaybeDelay(ctx, n, "publish"); err != nil {
		p.fail(err, done)
		return
	}
	if p.chaos.MaybeDrop(n, "publish") {
		p.fail(ErrInjected, done)
		return
	}
	p.next.PublishRecord(ctx, topic, key, value, headers, done)
}

func (p *FaultyProducer) fail(err error, done func(error)) {
	p.mu.Lock()
	if p.injected == nil {
		p.injected = err
	}
	p.mu.Unlock()
	if done != nil {
		done(err)
	}
}

func (p *FaultyProducer) Flush(ctx context.Context) error {
	if err := p.next.Flush(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.injected
}
