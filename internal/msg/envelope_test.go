package msg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	value := []byte(`{"type":"F","kind":"add_order","stock_locate":13,"tracking_number":7,` +
		`"timestamp":20015998343868,"order_ref":1,"side":"B","shares":100,` +
		`"stock":"AAPL","price":1500000,"mpid":"GSCO","extra":{"nested":[1,2]}}`)

	env, err := ParseEnvelope(value)
	require.NoError(t, err)
	assert.Equal(t, "F", env.Type)
	assert.Equal(t, byte('F'), env.MessageType())
	assert.Equal(t, "add_order", env.Kind)
	assert.Equal(t, uint16(13), env.StockLocate)
	assert.Equal(t, uint16(7), env.TrackingNumber)
	assert.Equal(t, uint64(20015998343868), env.Timestamp)
	assert.Equal(t, "AAPL", env.Stock)
}

func TestParseEnvelope_NoStock(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"type":"S","kind":"system_event","stock_locate":0,"tracking_number":0,"timestamp":1,"event_code":"O"}`))
	require.NoError(t, err)
	assert.Equal(t, "", env.Stock)
	assert.Equal(t, uint64(1), env.Timestamp)
}

func TestParseEnvelope_Invalid(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"type":`))
	assert.Error(t, err)

	_, err = ParseEnvelope([]byte(`{"kind":"add_order"}`))
	assert.Error(t, err)

	_, err = ParseEnvelope([]byte(`{"type":"AB"}`))
	assert.Error(t, err)
}

func TestRecordHeader(t *testing.T) {
	rec := Record{Headers: []Header{
		{Key: HeaderSessionID, Value: []byte("abc")},
		{Key: HeaderSeq, Value: []byte("12")},
		{Key: HeaderSeq, Value: []byte("13")},
	}}

	v, ok := rec.Header(HeaderSeq)
	require.True(t, ok)
	assert.Equal(t, "12", string(v))

	_, ok = rec.Header(HeaderType)
	assert.False(t, ok)
}

func TestSessionEventJSON(t *testing.T) {
	data, err := marshal(SessionEvent{
		Event:        SessionFailed,
		SessionID:    "abc",
		Path:         "/data/cap",
		Topic:        TopicMessages,
		Resumed:      1,
		Decoded:      5,
		Published:    4,
		Error:        "itch: truncated record",
		TsUnixMillis: 1700000000000,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"session.failed","session_id":"abc","path":"/data/cap","topic":"itch.messages",`+
		`"resumed":1,"decoded":5,"published":4,"error":"itch: truncated record","ts_unix_millis":1700000000000}`, string(data))

	data, err = marshal(SessionEvent{Event: SessionCompleted})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "error")
}

func TestMarshalFallsBackToEncodingJSON(t *testing.T) {
	data, err := marshal(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(data))
}
