//go:build integration
// +build integration

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/chaos"
	"github.com/ismaiel54/itch50-decoder/internal/config"
	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/msg"
	"github.com/ismaiel54/itch50-decoder/internal/store"
	"github.com/ismaiel54/itch50-decoder/internal/testutil/capture"
)

// TestIntegration_ResumeAfterInjectedFailure publishes a capture, fails the
// run part way with chaos, resumes it, and checks the topic with the verifier.
func TestIntegration_ResumeAfterInjectedFailure(t *testing.T) {
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("Skipping integration test. Set INTEGRATION=1 to run.")
	}

	cfg := config.LoadConfig("itch-integration")
	topic := "itch.it." + uuid.NewString()[:8]
	logger := zap.NewNop()

	b := capture.New()
	for i := 0; i < 50; i++ {
		for _, tag := range []itch.MessageType{itch.MsgAddOrder, itch.MsgOrderExecuted, itch.MsgOrderDelete} {
			rec := capture.Sample(tag)
			rec.AddOrder.Timestamp += uint64(i)
			rec.ExecuteOrder.Timestamp += uint64(i)
			rec.CancelOrder.Timestamp += uint64(i)
			b.AddRecord(rec)
		}
	}
	data := b.Bytes()
	path := b.WriteFile(t)

	st, err := store.Open(filepath.Join(t.TempDir(), "itch.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	kafkaCfg := msg.Config{Brokers: cfg.Brokers(), ClientID: "itch-integration", MaxBufferedRecords: 1000}

	// First run: every publish after the 40th fails.
	producer, err := msg.NewProducer(kafkaCfg, logger)
	require.NoError(t, err)
	c, err := chaos.New(&chaos.Config{Enabled: true, DropPct: 100, AfterRecords: 40, Seed: 1}, logger)
	require.NoError(t, err)
	_, err = NewPublisher(chaos.WrapProducer(producer, c), st, Options{Topic: topic, CheckpointEvery: 20}, logger).
		Publish(ctx, path, data)
	require.Error(t, err)
	producer.Close()

	cp, ok, err := st.Checkpoint(ctx, path, int64(len(data)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(40), cp.PublishedRecords)

	// Second run resumes from the checkpoint.
	producer, err = msg.NewProducer(kafkaCfg, logger)
	require.NoError(t, err)
	defer producer.Close()
	res, err := NewPublisher(producer, st, Options{Topic: topic, CheckpointEvery: 20}, logger).
		Publish(ctx, path, data)
	require.NoError(t, err)
	assert.Equal(t, int64(40), res.Resumed)
	assert.Equal(t, int64(110), res.Published)

	consumer, err := msg.NewConsumer(kafkaCfg, "itch-it-"+uuid.NewString()[:8], []string{topic}, logger)
	require.NoError(t, err)
	defer consumer.Close()

	verifier := NewVerifier()
	consumeCtx, stop := context.WithTimeout(ctx, 15*time.Second)
	defer stop()
	_ = consumer.Run(consumeCtx, func(ctx context.Context, rec msg.Record) error {
		verifier.Observe(rec)
		if verifier.Report().Total >= 150 {
			stop()
		}
		return nil
	})

	report := verifier.Report()
	assert.Equal(t, int64(150), report.Total)
	assert.Equal(t, int64(0), report.Malformed)
	assert.Equal(t, int64(50), report.ByType[itch.MsgAddOrder])
}
