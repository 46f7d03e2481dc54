package itch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_BigEndianReads(t *testing.T) {
	buf := []byte{
		0x01, 0x02, // u16
		0x01, 0x02, 0x03, 0x04, // u32
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, // u64
	}
	c := NewCursor(buf)

	assert.Equal(t, uint16(0x0102), c.ReadU16())
	assert.Equal(t, uint32(0x01020304), c.ReadU32())
	assert.Equal(t, uint64(0x0102030405060708), c.ReadU64())
	assert.Equal(t, len(buf), c.Offset())
	assert.Equal(t, 0, c.Remaining())
}

func TestCursor_Timestamp48ZeroExtends(t *testing.T) {
	c := NewCursor([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xAA})

	assert.Equal(t, uint64(0x0000FFFFFFFFFFFF), c.ReadTimestamp48())
	assert.Equal(t, 6, c.Offset())

	c = NewCursor([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01})
	assert.Equal(t, uint64(1), c.ReadTimestamp48())
}

func TestCursor_TagReadsKeepRawBytes(t *testing.T) {
	c := NewCursor([]byte("YC LUDPAAPL    "))

	assert.Equal(t, byte('Y'), c.ReadTag1())
	assert.Equal(t, [2]byte{'C', ' '}, c.ReadTag2())
	assert.Equal(t, [4]byte{'L', 'U', 'D', 'P'}, c.ReadTag4())
	sym := c.ReadSymbol()
	assert.Equal(t, "AAPL", sym.String())
	assert.Equal(t, Symbol{'A', 'A', 'P', 'L', ' ', ' ', ' ', ' '}, sym)
	require.Equal(t, 0, c.Remaining())
}

func TestCursor_Skip(t *testing.T) {
	c := NewCursor([]byte{0, 0, 0, 0x2A})
	c.Skip(3)
	assert.Equal(t, 1, c.Remaining())
	assert.Equal(t, byte(0x2A), c.ReadTag1())
}
