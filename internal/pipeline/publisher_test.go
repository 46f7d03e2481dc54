package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/filter"
	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/msg"
	"github.com/ismaiel54/itch50-decoder/internal/store"
	"github.com/ismaiel54/itch50-decoder/internal/testutil/capture"
)

type published struct {
	topic   string
	key     string
	value   []byte
	headers []msg.Header
}

// fakeProducer acknowledges every record immediately.
type fakeProducer struct {
	mu       sync.Mutex
	records  []published
	flushes  int
	flushErr error
}

func (f *fakeProducer) PublishRecord(_ context.Context, topic string, key, value []byte, headers []msg.Header, done func(error)) {
	f.mu.Lock()
	f.records = append(f.records, published{topic: topic, key: string(key), value: value, headers: headers})
	f.mu.Unlock()
	done(nil)
}

func (f *fakeProducer) Flush(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return f.flushErr
}

func header(t *testing.T, p published, key string) string {
	t.Helper()
	rec := msg.Record{Headers: p.headers}
	v, ok := rec.Header(key)
	require.True(t, ok, key)
	return string(v)
}

func sampleCapture() *capture.Builder {
	return capture.New().
		AddRecord(capture.Sample(itch.MsgSystemEvent)).
		AddRecord(capture.Sample(itch.MsgStockDirectory)).
		AddRecord(capture.Sample(itch.MsgAddOrder)).
		AddRecord(capture.Sample(itch.MsgAddOrderMPID)).
		AddRecord(capture.Sample(itch.MsgOrderExecuted)).
		AddRecord(capture.Sample(itch.MsgOrderDelete))
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "itch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestPublish_AllRecords(t *testing.T) {
	producer := &fakeProducer{}
	st := openStore(t)
	data := sampleCapture().Bytes()

	pub := NewPublisher(producer, st, Options{Topic: "itch.test", CheckpointEvery: 4}, zap.NewNop())
	res, err := pub.Publish(context.Background(), "cap", data)
	require.NoError(t, err)

	assert.Equal(t, int64(6), res.Decoded)
	assert.Equal(t, int64(6), res.Published)
	assert.Equal(t, uint64(6), res.Summary.Total)
	require.Len(t, producer.records, 6)
	assert.GreaterOrEqual(t, producer.flushes, 2)

	wantTypes := "SRAFED"
	for i, p := range producer.records {
		assert.Equal(t, "itch.test", p.topic)
		assert.Equal(t, res.SessionID, header(t, p, msg.HeaderSessionID))
		assert.Equal(t, strconv.Itoa(i+1), header(t, p, msg.HeaderSeq))
		assert.Equal(t, wantTypes[i:i+1], header(t, p, msg.HeaderType))

		env, err := msg.ParseEnvelope(p.value)
		require.NoError(t, err)
		assert.Equal(t, wantTypes[i:i+1], env.Type)
		assert.Equal(t, strconv.Itoa(int(env.StockLocate)), p.key)
	}

	snap := pub.Progress().Snapshot()
	assert.Equal(t, int64(6), snap.Published)
	assert.Equal(t, int64(len(data)), snap.Offset)

	cp, ok, err := st.Checkpoint(context.Background(), "cap", int64(len(data)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(6), cp.PublishedRecords)

	symbol, ok, err := st.LookupSymbol(context.Background(), res.CaptureID, 13)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AAPL", symbol)

	counts, err := st.MessageCounts(context.Background(), res.CaptureID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counts[itch.MsgOrderDelete])
}

func TestPublish_ResumesFromCheckpoint(t *testing.T) {
	st := openStore(t)
	data := sampleCapture().Bytes()
	require.NoError(t, st.SaveCheckpoint(context.Background(), "cap", int64(len(data)), 4))

	producer := &fakeProducer{}
	res, err := NewPublisher(producer, st, Options{}, zap.NewNop()).Publish(context.Background(), "cap", data)
	require.NoError(t, err)

	assert.Equal(t, int64(4), res.Resumed)
	assert.Equal(t, int64(6), res.Decoded)
	require.Len(t, producer.records, 2)
	assert.Equal(t, "5", header(t, producer.records[0], msg.HeaderSeq))
	assert.Equal(t, "E", header(t, producer.records[0], msg.HeaderType))

	// A second run publishes nothing.
	producer = &fakeProducer{}
	res, err = NewPublisher(producer, st, Options{}, zap.NewNop()).Publish(context.Background(), "cap", data)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Published)
	assert.Empty(t, producer.records)
}

func TestPublish_Filter(t *testing.T) {
	f, err := filter.Compile("type == 'A' || type == 'F'")
	require.NoError(t, err)

	producer := &fakeProducer{}
	res, err := NewPublisher(producer, nil, Options{Filter: f}, zap.NewNop()).
		Publish(context.Background(), "cap", sampleCapture().Bytes())
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Published)
	assert.Equal(t, int64(4), res.Filtered)
	require.Len(t, producer.records, 2)
	assert.Equal(t, "A", header(t, producer.records[0], msg.HeaderType))
	assert.Equal(t, "F", header(t, producer.records[1], msg.HeaderType))
}

func TestPublish_FramingErrorStopsRun(t *testing.T) {
	b := sampleCapture()
	full := capture.Encode(itch.MsgAddOrder, capture.Sample(itch.MsgAddOrder))
	data := append(b.Bytes(), full[:len(full)-3]...)

	st := openStore(t)
	producer := &fakeProducer{}
	res, err := NewPublisher(producer, st, Options{}, zap.NewNop()).Publish(context.Background(), "cap", data)
	require.Error(t, err)
	assert.ErrorIs(t, err, itch.ErrTruncated)
	assert.Equal(t, int64(6), res.Published)

	cp, ok, err := st.Checkpoint(context.Background(), "cap", int64(len(data)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(6), cp.PublishedRecords)
}

func TestPublish_FailedRecordIsRepublishedOnResume(t *testing.T) {
	st := openStore(t)
	data := capture.New().
		AddRecord(capture.Sample(itch.MsgSystemEvent)).
		AddRecord(capture.Sample(itch.MsgStockDirectory)).
		AddRecord(capture.Sample(itch.MsgAddOrder)).
		Bytes()

	// The stock symbol cannot be compared with a number, so evaluation fails on R.
	f, err := filter.Compile("stock > 5")
	require.NoError(t, err)
	producer := &fakeProducer{}
	res, err := NewPublisher(producer, st, Options{Filter: f}, zap.NewNop()).
		Publish(context.Background(), "cap", data)
	require.Error(t, err)
	assert.Equal(t, int64(0), res.Published)

	cp, ok, err := st.Checkpoint(context.Background(), "cap", int64(len(data)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), cp.PublishedRecords)

	producer = &fakeProducer{}
	res, err = NewPublisher(producer, st, Options{}, zap.NewNop()).
		Publish(context.Background(), "cap", data)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Resumed)
	assert.Equal(t, int64(2), res.Published)
	require.Len(t, producer.records, 2)
	assert.Equal(t, "R", header(t, producer.records[0], msg.HeaderType))
	assert.Equal(t, "2", header(t, producer.records[0], msg.HeaderSeq))
}

func TestPublish_FlushErrorKeepsCheckpoint(t *testing.T) {
	st := openStore(t)
	data := sampleCapture().Bytes()
	producer := &fakeProducer{flushErr: errors.New("broker unavailable")}

	_, err := NewPublisher(producer, st, Options{CheckpointEvery: 2}, zap.NewNop()).
		Publish(context.Background(), "cap", data)
	require.Error(t, err)

	_, ok, err := st.Checkpoint(context.Background(), "cap", int64(len(data)))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublish_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	producer := &fakeProducer{}
	res, err := NewPublisher(producer, nil, Options{}, zap.NewNop()).Publish(ctx, "cap", sampleCapture().Bytes())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), res.Decoded)
}

func TestPublish_EmptyCapture(t *testing.T) {
	producer := &fakeProducer{}
	res, err := NewPublisher(producer, nil, Options{}, zap.NewNop()).Publish(context.Background(), "cap", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Decoded)
	assert.Equal(t, 1, producer.flushes)
}
