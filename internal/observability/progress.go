package observability

import (
	"net/http"
	"sync/atomic"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// Progress tracks a running publish. All methods are safe for concurrent use.
type Progress struct {
	totalBytes atomic.Int64
	offset     atomic.Int64
	decoded    atomic.Int64
	skipped    atomic.Int64
	published  atomic.Int64
	failed     atomic.Int64
}

// ProgressSnapshot is a point-in-time copy of Progress
type ProgressSnapshot struct {
	TotalBytes int64
	Offset     int64
	Decoded    int64
	Skipped    int64
	Published  int64
	Failed     int64
}

var _ easyjson.Marshaler = ProgressSnapshot{}

func (p *Progress) SetTotalBytes(n int64) { p.totalBytes.Store(n) }
func (p *Progress) SetOffset(n int64) { p.offset.Store(n) }
func (p *Progress) AddDecoded() { p.decoded.Add(1) }
func (p *Progress) AddSkipped() { p.skipped.Add(1) }
func (p *Progress) AddPublished() { p.published.Add(1) }
func (p *Progress) AddFailed() { p.failed.Add(1) }

// Snapshot returns the current counters
func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		TotalBytes: p.totalBytes.Load(),
		Offset:     p.offset.Load(),
		Decoded:    p.decoded.Load(),
		Skipped:    p.skipped.Load(),
		Published:  p.published.Load(),
		Failed:     p.failed.Load(),
	}
}

// Percent is the share of the capture consumed, 0 to 100
func (s ProgressSnapshot) Percent() float64 {
	if s.TotalBytes <= 0 {
		return 0
	}
	return float64(s.Offset) * 100 / float64(s.TotalBytes)
}

// MarshalEasyJSON writes the snapshot as a JSON object.
func (s ProgressSnapshot) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"total_bytes":`)
	w.Int64(s.TotalBytes)
	w.RawString(`,"offset":`)
	w.Int64(s.Offset)
	w.RawString(`,"percent":`)
	w.Float64(s.Percent())
	w.RawString(`,"decoded":`)
	w.Int64(s.Decoded)
	w.RawString(`,"skipped":`)
	w.Int64(s.Skipped)
	w.RawString(`,"published":`)
	w.Int64(s.Published)
	w.RawString(`,"failed":`)
	w.Int64(s.Failed)
	w.RawByte('}')
}

// ServeHTTP serves the snapshot as JSON
func (p *Progress) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := easyjson.Marshal(p.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
