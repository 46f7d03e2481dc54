package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismaiel54/itch50-decoder/internal/filter"
	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/msg"
	"github.com/ismaiel54/itch50-decoder/internal/store"
	"github.com/ismaiel54/itch50-decoder/internal/testutil/capture"
)

func testCapture() *capture.Builder {
	return capture.New().
		AddRecord(capture.Sample(itch.MsgSystemEvent)).
		AddRecord(capture.Sample(itch.MsgStockDirectory)).
		AddRecord(capture.Sample(itch.MsgAddOrder)).
		AddRecord(capture.Sample(itch.MsgOrderDelete))
}

func TestDump_Text(t *testing.T) {
	var out bytes.Buffer
	n, err := dump(&out, testCapture().Bytes(), itch.ModeStrict, nil, "text", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "S,0,7,05:33:35.998343868,Q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "R,13,7,"))
	assert.Equal(t, "D,13,7,05:33:35.998343868,72623859790382856", lines[3])
}

func TestDump_JSONWithFilterAndLimit(t *testing.T) {
	f, err := filter.Compile("stock_locate == 13")
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := dump(&out, testCapture().Bytes(), itch.ModeFast, f, "json", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for i, want := range []string{"R", "A"} {
		env, err := msg.ParseEnvelope([]byte(lines[i]))
		require.NoError(t, err)
		assert.Equal(t, want, env.Type)
		assert.Equal(t, uint16(13), env.StockLocate)
	}
}

func TestDump_UnknownFormat(t *testing.T) {
	_, err := dump(&bytes.Buffer{}, testCapture().Bytes(), itch.ModeStrict, nil, "csv", 0)
	assert.Error(t, err)
}

func TestDump_FramingErrorKeepsEarlierOutput(t *testing.T) {
	data := testCapture().Raw(0x0C, 'z', make([]byte, 11)).Bytes()

	var out bytes.Buffer
	n, err := dump(&out, data, itch.ModeStrict, nil, "text", 0)
	assert.ErrorIs(t, err, itch.ErrUnknownType)
	assert.Equal(t, 4, n)
}

func TestCollect_PersistsSession(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "itch.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	summary, err := collect(ctx, st, "cap", testCapture().Bytes(), itch.ModeStrict)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), summary.Total)
	assert.Equal(t, uint64(1), summary.Count(itch.MsgOrderDelete))

	captures, err := st.ListCaptures(ctx, 1)
	require.NoError(t, err)
	require.Len(t, captures, 1)
	assert.Equal(t, int64(4), captures[0].RecordCount)

	symbol, ok, err := st.LookupSymbol(ctx, captures[0].ID, 13)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AAPL", symbol)
}

func TestRootCmd_Dump(t *testing.T) {
	path := testCapture().WriteFile(t)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dump", path, "--limit", "1", "--log-level", "error"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "S,0,7,05:33:35.998343868,Q\n", out.String())
}

func TestRootCmd_StatsEmptyCapture(t *testing.T) {
	path := capture.New().WriteFile(t)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"stats", path, "--log-level", "error"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.NotEmpty(t, out.String())
}

func TestRootCmd_BadMode(t *testing.T) {
	path := testCapture().WriteFile(t)

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"dump", path, "--mode", "lenient", "--log-level", "error"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestRootCmd_PublishBadBrokersReturnsError(t *testing.T) {
	path := testCapture().WriteFile(t)
	dbPath := filepath.Join(t.TempDir(), "itch.db")

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"publish", path, "--brokers", "kafka:notaport", "--store", dbPath, "--log-level", "error"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create kafka producer")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	captures, err := st.ListCaptures(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, captures)
}
