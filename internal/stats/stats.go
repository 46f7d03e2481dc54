// Package stats summarizes a decoded capture: record counts per message
// type and the distribution of gaps between consecutive timestamps.
package stats

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/render"
)

// DefaultSampleSize bounds the number of gaps kept for quantiles.
const DefaultSampleSize = 1 << 20

// Collector accumulates statistics one record at a time. It is not safe
// for concurrent use.
type Collector struct {
	byType [256]uint64
	total  uint64

	first, last uint64
	seen        bool
	regressions uint64

	// gaps is a uniform reservoir sample of inter-record gaps in nanoseconds.
	gaps    []float64
	gapSeen uint64
	limit   int
	rng     *rand.Rand

	symbols map[uint16]itch.Symbol
}

// NewCollector returns a collector that samples at most sampleSize gaps.
// A non-positive size selects DefaultSampleSize.
func NewCollector(sampleSize int) *Collector {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Collector{
		limit:   sampleSize,
		rng:     rand.New(rand.NewPCG(1, 2)),
		symbols: make(map[uint16]itch.Symbol),
	}
}

// Observe adds rec to the statistics.
func (c *Collector) Observe(rec *itch.Record) {
	c.byType[rec.MessageType()]++
	c.total++

	if rec.Kind == itch.KindStockDirectory {
		c.symbols[rec.StockDirectory.StockLocate] = rec.StockDirectory.Stock
	}

	ts := rec.Header().Timestamp
	if !c.seen {
		c.first, c.last, c.seen = ts, ts, true
		return
	}
	if ts < c.last {
		c.regressions++
	} else {
		c.addGap(float64(ts - c.last))
	}
	c.last = ts
}

func (c *Collector) addGap(g float64) {
	c.gapSeen++
	if len(c.gaps) < c.limit {
		c.gaps = append(c.gaps, g)
		return
	}
	if j := c.rng.Uint64N(c.gapSeen); j < uint64(c.limit) {
		c.gaps[j] = g
	}
}

// Symbol returns the symbol announced for locate by a Stock Directory
// message, if one was observed.
func (c *Collector) Symbol(locate uint16) (itch.Symbol, bool) {
	s, ok := c.symbols[locate]
	return s, ok
}

// TypeCount is the number of records of one wire type.
type TypeCount struct {
	Type  itch.MessageType
	Count uint64
}

// GapStats describes inter-record timestamp gaps in nanoseconds.
type GapStats struct {
	Samples int
	Mean    float64
	StdDev  float64
	P50     float64
	P90     float64
	P99     float64
	Max     float64
}

// Summary is a point-in-time view of a Collector.
type Summary struct {
	Total          uint64
	ByType         []TypeCount
	FirstTimestamp uint64
	LastTimestamp  uint64
	Regressions    uint64
	Symbols        int
	Gaps           GapStats
}

// Duration is the span between the first and last timestamps.
func (s Summary) Duration() time.Duration {
	if s.LastTimestamp < s.FirstTimestamp {
		return 0
	}
	return time.Duration(s.LastTimestamp - s.FirstTimestamp)
}

// Count returns the number of records of wire type t.
func (s Summary) Count(t itch.MessageType) uint64 {
	for _, tc := range s.ByType {
		if tc.Type == t {
			return tc.Count
		}
	}
	return 0
}

// Counts returns the per-type counts as a map.
func (s Summary) Counts() map[itch.MessageType]uint64 {
	m := make(map[itch.MessageType]uint64, len(s.ByType))
	for _, tc := range s.ByType {
		m[tc.Type] = tc.Count
	}
	return m
}

// Summary computes the current statistics.
func (c *Collector) Summary() Summary {
	s := Summary{
		Total:          c.total,
		FirstTimestamp: c.first,
		LastTimestamp:  c.last,
		Regressions:    c.regressions,
		Symbols:        len(c.symbols),
	}
	for _, t := range itch.MessageTypes {
		if n := c.byType[t]; n > 0 {
			s.ByType = append(s.ByType, TypeCount{Type: t, Count: n})
		}
	}

	if len(c.gaps) > 0 {
		sorted := make([]float64, len(c.gaps))
		copy(sorted, c.gaps)
		sort.Float64s(sorted)

		g := GapStats{Samples: len(sorted), Max: sorted[len(sorted)-1]}
		if len(sorted) > 1 {
			g.Mean, g.StdDev = stat.MeanStdDev(sorted, nil)
		} else {
			g.Mean = sorted[0]
		}
		g.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		g.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
		g.P99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)
		s.Gaps = g
	}
	return s
}

// WriteTo prints the summary as an aligned table.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "TYPE\tNAME\tCOUNT\n")
	for _, tc := range s.ByType {
		fmt.Fprintf(tw, "%c\t%s\t%d\n", byte(tc.Type), tc.Type, tc.Count)
	}
	fmt.Fprintf(tw, "\tTotal\t%d\n", s.Total)
	if err := tw.Flush(); err != nil {
		return cw.n, err
	}

	fmt.Fprintf(cw, "\nfirst %s  last %s  span %s  symbols %d  regressions %d\n",
		render.FormatTimestamp(s.FirstTimestamp), render.FormatTimestamp(s.LastTimestamp),
		s.Duration(), s.Symbols, s.Regressions)
	if s.Gaps.Samples > 0 {
		fmt.Fprintf(cw, "gap ns  mean %.1f  stddev %.1f  p50 %.0f  p90 %.0f  p99 %.0f  max %.0f  (%d samples)\n",
			s.Gaps.Mean, s.Gaps.StdDev, s.Gaps.P50, s.Gaps.P90, s.Gaps.P99, s.Gaps.Max, s.Gaps.Samples)
	}
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
