// Package itch decodes Nasdaq TotalView-ITCH 5.0 captures.
//
// A capture is a sequence of records, each framed as a 2-byte big-endian
// length, a 1-byte message type and a fixed-layout payload. Decoder walks
// a capture held in memory and yields one Record per message, in order.
//
// Ownership boundary:
//   - byte primitives (Cursor)
//   - canonical message lengths
//   - per-type field layouts and the Record union
//
// Rendering, persistence and transport live in other packages; this package
// performs no I/O, no logging and no allocation while decoding.
package itch
