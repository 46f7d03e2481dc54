// Package capture builds synthetic ITCH 5.0 captures for tests.
package capture

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
)

// Builder accumulates framed records.
type Builder struct {
	buf []byte
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Add appends rec framed as wire type tag with the canonical length prefix.
func (b *Builder) Add(tag itch.MessageType, rec itch.Record) *Builder {
	b.buf = Append(b.buf, tag, rec)
	return b
}

// AddRecord appends rec under the wire type its sentinels select.
func (b *Builder) AddRecord(rec itch.Record) *Builder {
	return b.Add(rec.MessageType(), rec)
}

// Raw appends an arbitrary length prefix, type byte and payload.
func (b *Builder) Raw(prefix uint16, tag byte, payload []byte) *Builder {
	b.buf = binary.BigEndian.AppendUint16(b.buf, prefix)
	b.buf = append(b.buf, tag)
	b.buf = append(b.buf, payload...)
	return b
}

// Bytes returns the capture built so far.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len is the capture size in bytes.
func (b *Builder) Len() int {
	return len(b.buf)
}

// WriteFile stores the capture in a temp file owned by t.
func (b *Builder) WriteFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.itch")
	if err := os.WriteFile(path, b.buf, 0o644); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}
	return path
}

// Encode returns a single framed record.
func Encode(tag itch.MessageType, rec itch.Record) []byte {
	return Append(nil, tag, rec)
}

// Append frames rec as wire type tag onto dst. The variant is chosen from
// tag, so an 'A' drops the attribution of rec.AddOrder and a 'D' drops its
// cancelled shares.
func Append(dst []byte, tag itch.MessageType, rec itch.Record) []byte {
	length, ok := itch.MessageLength(tag)
	if !ok {
		panic("capture: unknown message type " + tag.String())
	}
	w := writer{buf: dst}
	w.u16(length)
	w.tag(byte(tag))

	switch tag {
	case itch.MsgSystemEvent:
		m := rec.SystemEvent
		w.header(m.Header)
		w.tag(byte(m.EventCode))
	case itch.MsgStockDirectory:
		m := rec.StockDirectory
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.tag(byte(m.MarketCategory))
		w.tag(byte(m.FinancialStatus))
		w.u32(m.RoundLotSize)
		w.tag(byte(m.RoundLotsOnly))
		w.tag(byte(m.IssueClassification))
		w.bytes(m.IssueSubType[:])
		w.tag(byte(m.Authenticity))
		w.tag(byte(m.ShortSaleThreshold))
		w.tag(byte(m.IPOFlag))
		w.tag(byte(m.LULDRefPriceTier))
		w.tag(byte(m.ETPFlag))
		w.u32(m.ETPLeverageFactor)
		w.tag(byte(m.InverseIndicator))
	case itch.MsgStockTradingAction:
		m := rec.StockTradingAction
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.tag(byte(m.TradingState))
		w.tag(m.Reserved)
		w.bytes(m.Reason[:])
	case itch.MsgRegSHORestriction:
		m := rec.RegSHORestriction
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.tag(byte(m.Action))
	case itch.MsgMarketParticipantPosition:
		m := rec.MarketParticipantPosition
		w.header(m.Header)
		w.u32(uint32(m.MPID))
		w.bytes(m.Stock[:])
		w.tag(byte(m.PrimaryMarketMaker))
		w.tag(byte(m.MarketMakerMode))
		w.tag(byte(m.State))
	case itch.MsgMWCBDeclineLevel:
		m := rec.MWCBDeclineLevel
		w.header(m.Header)
		w.u64(m.Level1)
		w.u64(m.Level2)
		w.u64(m.Level3)
	case itch.MsgMWCBStatus:
		m := rec.MWCBStatus
		w.header(m.Header)
		w.tag(byte(m.Level))
	case itch.MsgIPOQuotingPeriodUpdate:
		m := rec.IPOQuotingPeriodUpdate
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.u32(m.ReleaseTime)
		w.tag(byte(m.Qualifier))
		w.u32(m.IPOPrice)
	case itch.MsgLULDAuctionCollar:
		m := rec.LULDAuctionCollar
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.u32(m.ReferencePrice)
		w.u32(m.UpperPrice)
		w.u32(m.LowerPrice)
		w.u32(m.Extension)
	case itch.MsgOperationalHalt:
		m := rec.OperationalHalt
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.tag(byte(m.MarketCode))
		w.tag(byte(m.Action))
	case itch.MsgAddOrder, itch.MsgAddOrderMPID:
		m := rec.AddOrder
		w.header(m.Header)
		w.u64(m.OrderRef)
		w.tag(byte(m.Side))
		w.u32(m.Shares)
		w.bytes(m.Stock[:])
		w.u32(m.Price)
		if tag == itch.MsgAddOrderMPID {
			w.u32(uint32(m.Attribution))
		}
	case itch.MsgOrderExecuted, itch.MsgOrderExecutedWithPrice:
		m := rec.ExecuteOrder
		w.header(m.Header)
		w.u64(m.OrderRef)
		w.u32(m.ExecutedShares)
		w.u64(m.MatchNumber)
		if tag == itch.MsgOrderExecutedWithPrice {
			w.tag(byte(m.Printable))
			w.u32(m.ExecutionPrice)
		}
	case itch.MsgOrderCancel, itch.MsgOrderDelete:
		m := rec.CancelOrder
		w.header(m.Header)
		w.u64(m.OrderRef)
		if tag == itch.MsgOrderCancel {
			w.u32(m.CancelledShares)
		}
	case itch.MsgOrderReplace:
		m := rec.ReplaceOrder
		w.header(m.Header)
		w.u64(m.OriginalOrderRef)
		w.u64(m.NewOrderRef)
		w.u32(m.Shares)
		w.u32(m.Price)
	case itch.MsgNonCrossTrade:
		m := rec.NonCrossTrade
		w.header(m.Header)
		w.u64(m.OrderRef)
		w.tag(byte(m.Side))
		w.u32(m.Shares)
		w.bytes(m.Stock[:])
		w.u32(m.Price)
		w.u64(m.MatchNumber)
	case itch.MsgCrossTrade:
		m := rec.CrossTrade
		w.header(m.Header)
		w.u64(m.Shares)
		w.bytes(m.Stock[:])
		w.u32(m.CrossPrice)
		w.u64(m.MatchNumber)
		w.tag(byte(m.CrossType))
	case itch.MsgBrokenTrade:
		m := rec.BrokenTrade
		w.header(m.Header)
		w.u64(m.MatchNumber)
	case itch.MsgNOII:
		m := rec.NOII
		w.header(m.Header)
		w.u64(m.PairedShares)
		w.u64(m.ImbalanceShares)
		w.tag(byte(m.Direction))
		w.bytes(m.Stock[:])
		w.u32(m.FarPrice)
		w.u32(m.NearPrice)
		w.u32(m.ReferencePrice)
		w.tag(byte(m.CrossType))
		w.tag(byte(m.PriceVariation))
	case itch.MsgRPII:
		m := rec.RPII
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.tag(byte(m.InterestFlag))
	case itch.MsgDLCRPriceDiscovery:
		m := rec.DLCRPriceDiscovery
		w.header(m.Header)
		w.bytes(m.Stock[:])
		w.tag(byte(m.OpenEligibility))
		w.u32(m.MinAllowedPrice)
		w.u32(m.MaxAllowedPrice)
		w.u32(m.NearExecutionPrice)
		w.u64(m.NearExecutionTime)
		w.u32(m.LowerPriceRangeCollar)
		w.u32(m.UpperPriceRangeCollar)
	}
	return w.buf
}

type writer struct {
	buf []byte
}

func (w *writer) tag(b byte) { w.buf = append(w.buf, b) }
func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *writer) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }

func (w *writer) header(h itch.Header) {
	w.u16(h.StockLocate)
	w.u16(h.TrackingNumber)
	ts := h.Timestamp
	w.buf = append(w.buf, byte(ts>>40), byte(ts>>32), byte(ts>>24), byte(ts>>16), byte(ts>>8), byte(ts))
}
