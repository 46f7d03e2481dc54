package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/testutil/capture"
)

func decode(t *testing.T, tag itch.MessageType, rec itch.Record) itch.Record {
	t.Helper()
	d := itch.NewDecoder(capture.Encode(tag, rec), itch.ModeStrict)
	ok, err := d.Advance()
	require.NoError(t, err)
	require.True(t, ok)
	return d.Current()
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:00:00.000000001", FormatTimestamp(1))
	assert.Equal(t, "09:30:00.000000000", FormatTimestamp(34_200*1_000_000_000))
	assert.Equal(t, "23:59:59.999999999", FormatTimestamp(86_400*1_000_000_000-1))
}

func TestAppendSeconds(t *testing.T) {
	assert.Equal(t, "11:30:00", string(AppendSeconds(nil, 41_400)))
	assert.Equal(t, "00:00:05", string(AppendSeconds(nil, 5)))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "150.2500", FormatPrice4(1_502_500))
	assert.Equal(t, "0.0001", FormatPrice4(1))
	assert.Equal(t, "0.0000", FormatPrice4(0))
	assert.Equal(t, "429496.7295", FormatPrice4(^uint32(0)))
	assert.Equal(t, "38125.00000000", FormatPrice8(3_812_500_000_000))
	assert.Equal(t, "0.00000042", FormatPrice8(42))
}

func TestText_SystemEvent(t *testing.T) {
	data := []byte{0x00, 0x0C, 'S', 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 'O'}
	d := itch.NewDecoder(data, itch.ModeStrict)
	ok, err := d.Advance()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "S,1,0,00:00:00.000000001,O", Text(d.Current()))
}

func TestText_ReExpandsCollapsedVariants(t *testing.T) {
	tests := []struct {
		tag  itch.MessageType
		want string
	}{
		{itch.MsgAddOrder, "A,13,7,05:33:35.998343868,72623859790382856,B,300,AAPL    ,150.2500"},
		{itch.MsgAddOrderMPID, "F,13,7,05:33:35.998343868,72623859790382856,B,300,AAPL    ,150.2500,GSCO"},
		{itch.MsgOrderExecuted, "E,13,7,05:33:35.998343868,72623859790382856,100,9000001"},
		{itch.MsgOrderExecutedWithPrice, "C,13,7,05:33:35.998343868,72623859790382856,100,9000001,N,150.1000"},
		{itch.MsgOrderCancel, "X,13,7,05:33:35.998343868,72623859790382856,50"},
		{itch.MsgOrderDelete, "D,13,7,05:33:35.998343868,72623859790382856"},
	}

	for _, tt := range tests {
		t.Run(string(rune(tt.tag)), func(t *testing.T) {
			rec := decode(t, tt.tag, capture.Sample(tt.tag))
			assert.Equal(t, tt.want, Text(rec))
		})
	}
}

func TestText_EveryTypeStartsWithItsTag(t *testing.T) {
	for _, tag := range itch.MessageTypes {
		rec := decode(t, tag, capture.Sample(tag))
		line := Text(rec)
		require.NotEmpty(t, line)
		assert.Equal(t, byte(tag), line[0], "line %q", line)
		assert.Equal(t, byte(','), line[1])
	}
}

func TestText_PriceScales(t *testing.T) {
	rec := decode(t, itch.MsgMWCBDeclineLevel, capture.Sample(itch.MsgMWCBDeclineLevel))
	assert.Equal(t, "V,0,7,05:33:35.998343868,38125.00000000,35625.00000000,31875.00000000", Text(rec))

	rec = decode(t, itch.MsgIPOQuotingPeriodUpdate, capture.Sample(itch.MsgIPOQuotingPeriodUpdate))
	assert.Equal(t, "K,42,7,05:33:35.998343868,NEWCO   ,11:30:00,A,17.0000", Text(rec))

	rec = decode(t, itch.MsgLULDAuctionCollar, capture.Sample(itch.MsgLULDAuctionCollar))
	assert.Equal(t, "J,13,7,05:33:35.998343868,AAPL    ,150.0000,165.0000,135.0000,1", Text(rec))
}

func TestJSON_AddOrder(t *testing.T) {
	rec := decode(t, itch.MsgAddOrderMPID, capture.Sample(itch.MsgAddOrderMPID))

	out, err := JSON(rec)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "F", got["type"])
	assert.Equal(t, "add_order", got["kind"])
	assert.Equal(t, float64(13), got["stock_locate"])
	assert.Equal(t, "AAPL", got["stock"])
	assert.Equal(t, "B", got["side"])
	assert.Equal(t, float64(1_502_500), got["price"])
	assert.Equal(t, "GSCO", got["mpid"])
}

func TestJSON_EveryTypeIsValid(t *testing.T) {
	for _, tag := range itch.MessageTypes {
		rec := decode(t, tag, capture.Sample(tag))

		out, err := AppendJSON([]byte("prefix:"), &rec)
		require.NoError(t, err)
		require.Equal(t, "prefix:", string(out[:7]))
		assert.True(t, json.Valid(out[7:]), "type %q: %s", byte(tag), out[7:])

		var got map[string]any
		require.NoError(t, json.Unmarshal(out[7:], &got))
		assert.Equal(t, string(rune(tag)), got["type"])
		assert.Len(t, got, len(Fields(rec)))
	}
}

func TestJSON_EscapesRawBytes(t *testing.T) {
	in := capture.Sample(itch.MsgStockTradingAction)
	in.StockTradingAction.Reserved = '"'
	rec := decode(t, itch.MsgStockTradingAction, in)

	out, err := JSON(rec)
	require.NoError(t, err)
	assert.True(t, json.Valid(out))
}

func TestFields(t *testing.T) {
	rec := decode(t, itch.MsgOrderCancel, capture.Sample(itch.MsgOrderCancel))
	f := Fields(rec)

	assert.Equal(t, "X", f["type"])
	assert.Equal(t, "cancel_order", f["kind"])
	assert.Equal(t, float64(50), f["shares"])
	assert.Equal(t, float64(0x0102030405060708), f["order_ref"])
	_, hasStock := f["stock"]
	assert.False(t, hasStock)
}
