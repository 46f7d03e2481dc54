package itch

import "encoding/binary"

// Cursor is a forward-only reader over a byte slice. Reads are not bounds
// checked individually; the decoder checks the whole record once before
// any field is read, and a short read panics like any slice overrun.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) Cursor {
	return Cursor{buf: buf}
}

// Offset is the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Remaining is the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Skip advances past n bytes.
func (c *Cursor) Skip(n int) { c.off += n }

// ReadU16 reads a big-endian uint16.
func (c *Cursor) ReadU16() uint16 {
	v := binary.BigEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v
}

// ReadU32 reads a big-endian uint32.
func (c *Cursor) ReadU32() uint32 {
	v := binary.BigEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}

// ReadU64 reads a big-endian uint64.
func (c *Cursor) ReadU64() uint64 {
	v := binary.BigEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v
}

// ReadTimestamp48 reads a 6-byte big-endian value into the low bits of a uint64.
func (c *Cursor) ReadTimestamp48() uint64 {
	b := c.buf[c.off : c.off+6]
	c.off += 6
	return uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
}

// ReadTag1 reads a single-byte code.
func (c *Cursor) ReadTag1() byte {
	v := c.buf[c.off]
	c.off++
	return v
}

// ReadTag2 reads a two-byte code.
func (c *Cursor) ReadTag2() [2]byte {
	var v [2]byte
	c.off += copy(v[:], c.buf[c.off:c.off+2])
	return v
}

// ReadTag4 reads a four-byte code such as an MPID.
func (c *Cursor) ReadTag4() [4]byte {
	var v [4]byte
	c.off += copy(v[:], c.buf[c.off:c.off+4])
	return v
}

// ReadSymbol reads an 8-byte space-padded symbol.
func (c *Cursor) ReadSymbol() Symbol {
	var v Symbol
	c.off += copy(v[:], c.buf[c.off:c.off+8])
	return v
}
