package chaos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/msg"
)

type countingProducer struct {
	published int
	flushes   int
}

func (c *countingProducer) PublishRecord(_ context.Context, _ string, _, _ []byte, _ []msg.Header, done func(error)) {
	c.published++
	if done != nil {
		done(nil)
	}
}

func (c *countingProducer) Flush(context.Context) error {
	c.flushes++
	return nil
}

func TestParseProfile(t *testing.T) {
	drop, lo, hi, err := ParseProfile("drop-pct=30, delay=50-250")
	require.NoError(t, err)
	assert.Equal(t, 30, drop)
	assert.Equal(t, 50, lo)
	assert.Equal(t, 250, hi)

	_, lo, hi, err = ParseProfile("delay=10")
	require.NoError(t, err)
	assert.Equal(t, 10, lo)
	assert.Equal(t, 10, hi)

	for _, bad := range []string{"drop-pct=x", "drop-pct=101", "delay=9-3", "jitter=5"} {
		_, _, _, err := ParseProfile(bad)
		assert.Error(t, err, bad)
	}
}

func TestFaultyProducer_DropsAfterThreshold(t *testing.T) {
	c, err := New(&Config{Enabled: true, Profile: "drop-pct=100", AfterRecords: 3, Seed: 7}, zap.NewNop())
	require.NoError(t, err)

	next := &countingProducer{}
	p := WrapProducer(next, c)

	var failures int
	for i := 0; i < 5; i++ {
		p.PublishRecord(context.Background(), "t", nil, nil, nil, func(err error) {
			if err != nil {
				assert.ErrorIs(t, err, ErrInjected)
				failures++
			}
		})
	}

	assert.Equal(t, 3, next.published)
	assert.Equal(t, 2, failures)
	assert.ErrorIs(t, p.Flush(context.Background()), ErrInjected)
}

func TestFaultyProducer_Disabled(t *testing.T) {
	c, err := New(&Config{DropPct: 100}, zap.NewNop())
	require.NoError(t, err)

	next := &countingProducer{}
	p := WrapProducer(next, c)
	for i := 0; i < 10; i++ {
		p.PublishRecord(context.Background(), "t", nil, nil, nil, nil)
	}
	assert.Equal(t, 10, next.published)
	assert.NoError(t, p.Flush(context.Background()))
}

func TestMaybeDelay_HonorsContext(t *testing.T) {
	c, err := New(&Config{Enabled: true, DelayMsMin: 10000, DelayMsMax: 10000}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.MaybeDelay(ctx, 1, "publish"), context.Canceled)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CHAOS_ENABLED", "true")
	t.Setenv("CHAOS_DROP_PCT", "25")
	t.Setenv("CHAOS_AFTER_RECORDS", "1000")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 25, cfg.DropPct)
	assert.Equal(t, int64(1000), cfg.AfterRecords)
	assert.Equal(t, int64(1), cfg.Seed)
}
