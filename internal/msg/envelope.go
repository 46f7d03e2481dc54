package msg

import (
	"fmt"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
)

// Envelope is the part of a published ITCH message every kind shares.
// Other keys are skipped.
type Envelope struct {
	Type           string
	Kind           string
	StockLocate    uint16
	TrackingNumber uint16
	Timestamp      uint64
	Stock          string
}

var _ easyjson.Unmarshaler = (*Envelope)(nil)

// UnmarshalEasyJSON reads the shared keys of a published message.
func (e *Envelope) UnmarshalEasyJSON(in *jlexer.Lexer) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "type":
			e.Type = in.String()
		case "kind":
			e.Kind = in.String()
		case "stock_locate":
			e.StockLocate = in.Uint16()
		case "tracking_number":
			e.TrackingNumber = in.Uint16()
		case "timestamp":
			e.Timestamp = in.Uint64()
		case "stock":
			e.Stock = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

// ParseEnvelope decodes the shared keys of a published message value.
func ParseEnvelope(value []byte) (Envelope, error) {
	var e Envelope
	if err := easyjson.Unmarshal(value, &e); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse message envelope: %w", err)
	}
	if len(e.Type) != 1 {
		return Envelope{}, fmt.Errorf("message envelope has invalid type %q", e.Type)
	}
	return e, nil
}

// MessageType returns the wire type byte carried by the envelope.
func (e Envelope) MessageType() byte {
	if len(e.Type) == 0 {
		return 0
	}
	return e.Type[0]
}
