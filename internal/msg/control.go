package msg

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// Session event names
const (
	SessionCompleted = "session.completed"
	SessionFailed    = "session.failed"
)

// SessionEvent reports the outcome of a publish session on TopicControl
type SessionEvent struct {
	Event        string
	SessionID    string
	Path         string
	Topic        string
	Resumed      int64
	Decoded      int64
	Published    int64
	Error        string
	TsUnixMillis int64
}

var _ easyjson.Marshaler = SessionEvent{}

// MarshalEasyJSON writes the event as a JSON object. Error is omitted
// when empty.
func (e SessionEvent) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"event":`)
	w.String(e.Event)
	w.RawString(`,"session_id":`)
	w.String(e.SessionID)
	w.RawString(`,"path":`)
	w.String(e.Path)
	w.RawString(`,"topic":`)
	w.String(e.Topic)
	w.RawString(`,"resumed":`)
	w.Int64(e.Resumed)
	w.RawString(`,"decoded":`)
	w.Int64(e.Decoded)
	w.RawString(`,"published":`)
	w.Int64(e.Published)
	if e.Error != "" {
		w.RawString(`,"error":`)
		w.String(e.Error)
	}
	w.RawString(`,"ts_unix_millis":`)
	w.Int64(e.TsUnixMillis)
	w.RawByte('}')
}
