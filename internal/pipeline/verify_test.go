package pipeline

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/msg"
)

func consumed(p published) msg.Record {
	return msg.Record{Key: p.key, Value: p.value, Headers: p.headers}
}

func TestVerifier_PublishedCapturePasses(t *testing.T) {
	producer := &fakeProducer{}
	_, err := NewPublisher(producer, nil, Options{}, zap.NewNop()).
		Publish(context.Background(), "cap", sampleCapture().Bytes())
	require.NoError(t, err)

	v := NewVerifier()
	for _, p := range producer.records {
		v.Observe(consumed(p))
	}

	r := v.Report()
	assert.True(t, r.Passed())
	assert.Equal(t, int64(6), r.Total)
	assert.Equal(t, 1, r.Sessions)
	assert.Equal(t, int64(1), r.ByType[itch.MsgAddOrderMPID])

	var out bytes.Buffer
	r.Print(&out)
	assert.Contains(t, out.String(), "VERIFICATION PASSED")
	assert.Contains(t, out.String(), "Add Order With MPID Attribution")
}

func TestVerifier_DetectsReplayAndRegression(t *testing.T) {
	message := func(seq int, ts uint64) msg.Record {
		return msg.Record{
			Value: []byte(`{"type":"A","kind":"add_order","stock_locate":1,"tracking_number":0,"timestamp":` +
				strconv.FormatUint(ts, 10) + `}`),
			Headers: []msg.Header{
				{Key: msg.HeaderSessionID, Value: []byte("s1")},
				{Key: msg.HeaderSeq, Value: []byte(strconv.Itoa(seq))},
			},
		}
	}

	v := NewVerifier()
	v.Observe(message(1, 100))
	v.Observe(message(2, 200))
	v.Observe(message(2, 200)) // replay
	v.Observe(message(3, 150)) // regression
	v.Observe(msg.Record{Value: []byte("not json")})

	r := v.Report()
	assert.False(t, r.Passed())
	assert.Equal(t, int64(5), r.Total)
	assert.Equal(t, int64(1), r.OutOfOrder)
	assert.Equal(t, int64(1), r.Regressions)
	assert.Equal(t, int64(1), r.Malformed)

	var out bytes.Buffer
	r.Print(&out)
	assert.Contains(t, out.String(), "VERIFICATION FAILED")
}

func TestVerifier_MissingSeqIsMalformed(t *testing.T) {
	v := NewVerifier()
	v.Observe(msg.Record{Value: []byte(`{"type":"S","stock_locate":0,"timestamp":1}`)})
	assert.Equal(t, int64(1), v.Report().Malformed)
}
