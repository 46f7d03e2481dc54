package render

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
)

// JSONRecord adapts a record to easyjson.Marshaler. Object keys match
// Fields; prices stay raw fixed-point integers.
type JSONRecord struct {
	Record *itch.Record
}

var _ easyjson.Marshaler = JSONRecord{}

// MarshalEasyJSON writes the record as a single JSON object.
func (j JSONRecord) MarshalEasyJSON(w *jwriter.Writer) {
	s := jsonSink{w: w, first: true}
	w.RawByte('{')
	walk(j.Record, &s)
	w.RawByte('}')
}

// MarshalJSON supports encoding/json.
func (j JSONRecord) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(j)
}

// JSON encodes rec as one JSON object.
func JSON(rec itch.Record) ([]byte, error) {
	return easyjson.Marshal(JSONRecord{Record: &rec})
}

// AppendJSON appends the JSON encoding of rec to dst.
func AppendJSON(dst []byte, rec *itch.Record) ([]byte, error) {
	w := jwriter.Writer{}
	JSONRecord{Record: rec}.MarshalEasyJSON(&w)
	if w.Error != nil {
		return dst, w.Error
	}
	return append(dst, w.Buffer.BuildBytes()...), nil
}

type jsonSink struct {
	w     *jwriter.Writer
	first bool
}

func (s *jsonSink) key(name string) {
	if !s.first {
		s.w.RawByte(',')
	}
	s.first = false
	s.w.String(name)
	s.w.RawByte(':')
}

func (s *jsonSink) str(name, v string) {
	s.key(name)
	s.w.String(v)
}

func (s *jsonSink) code(name string, v byte) {
	s.key(name)
	s.w.String(string(rune(v)))
}

func (s *jsonSink) num(name string, v uint64) {
	s.key(name)
	s.w.Uint64(v)
}
