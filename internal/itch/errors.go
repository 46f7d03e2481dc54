package itch

import (
	"errors"
	"fmt"
)

var (
	// ErrFraming matches every *FramingError.
	ErrFraming        = errors.New("itch: framing violation")
	ErrUnknownType    = errors.New("itch: unknown message type")
	ErrLengthMismatch = errors.New("itch: length mismatch")
	ErrTruncated      = errors.New("itch: truncated record")
)

// FramingKind classifies a framing violation.
type FramingKind uint8

const (
	FramingUnknownType FramingKind = iota + 1
	FramingLengthMismatch
	FramingTruncated
)

func (k FramingKind) String() string {
	switch k {
	case FramingUnknownType:
		return "unknown message type"
	case FramingLengthMismatch:
		return "length mismatch"
	case FramingTruncated:
		return "truncated record"
	default:
		return "framing violation"
	}
}

// FramingError reports a capture that cannot be decoded past Offset. The
// protocol has no resynchronization marker, so the error is terminal for
// the decoder that returned it.
type FramingError struct {
	Kind FramingKind
	// Offset is the position of the record's length prefix.
	Offset int
	Type   MessageType
	// Length is the length prefix as read from the wire.
	Length uint16
	// Expected is the canonical length for Type, zero if Type is unknown.
	Expected uint16
	// Remaining counts the bytes left in the capture from Offset.
	Remaining int
}

func (e *FramingError) Error() string {
	switch e.Kind {
	case FramingUnknownType:
		return fmt.Sprintf("itch: unknown message type %q (0x%02x) at offset %d",
			byte(e.Type), byte(e.Type), e.Offset)
	case FramingLengthMismatch:
		return fmt.Sprintf("itch: message type %q at offset %d has length %d, expected %d",
			byte(e.Type), e.Offset, e.Length, e.Expected)
	case FramingTruncated:
		if e.Expected == 0 {
			return fmt.Sprintf("itch: truncated record header at offset %d: %d bytes remaining",
				e.Offset, e.Remaining)
		}
		return fmt.Sprintf("itch: truncated message type %q at offset %d: need %d bytes, %d remaining",
			byte(e.Type), e.Offset, int(e.Expected)+LengthPrefixSize, e.Remaining)
	default:
		return fmt.Sprintf("itch: framing violation at offset %d", e.Offset)
	}
}

// Is lets callers match on ErrFraming or on the kind-specific sentinel.
func (e *FramingError) Is(target error) bool {
	switch target {
	case ErrFraming:
		return true
	case ErrUnknownType:
		return e.Kind == FramingUnknownType
	case ErrLengthMismatch:
		return e.Kind == FramingLengthMismatch
	case ErrTruncated:
		return e.Kind == FramingTruncated
	}
	return false
}
