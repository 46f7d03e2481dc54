package render

import (
	"strconv"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
)

// Text renders rec as one comma-separated line without a trailing newline.
// The first column is the wire type re-derived from the record, so an Add
// Order carrying the unattributed MPID prints as 'A'. Symbols keep their
// space padding.
func Text(rec itch.Record) string {
	return string(AppendText(make([]byte, 0, 96), &rec))
}

// AppendText appends the Text form of rec to dst.
func AppendText(dst []byte, rec *itch.Record) []byte {
	l := line{buf: dst}
	l.code(byte(rec.MessageType()))
	h := rec.Header()
	l.num(uint64(h.StockLocate))
	l.num(uint64(h.TrackingNumber))
	l.timestamp(h.Timestamp)

	switch rec.Kind {
	case itch.KindSystemEvent:
		l.code(byte(rec.SystemEvent.EventCode))
	case itch.KindStockDirectory:
		m := &rec.StockDirectory
		l.raw(m.Stock[:])
		l.code(byte(m.MarketCategory))
		l.code(byte(m.FinancialStatus))
		l.num(uint64(m.RoundLotSize))
		l.code(byte(m.RoundLotsOnly))
		l.code(byte(m.IssueClassification))
		l.raw(m.IssueSubType[:])
		l.code(byte(m.Authenticity))
		l.code(byte(m.ShortSaleThreshold))
		l.code(byte(m.IPOFlag))
		l.code(byte(m.LULDRefPriceTier))
		l.code(byte(m.ETPFlag))
		l.num(uint64(m.ETPLeverageFactor))
		l.code(byte(m.InverseIndicator))
	case itch.KindStockTradingAction:
		m := &rec.StockTradingAction
		l.raw(m.Stock[:])
		l.code(byte(m.TradingState))
		l.raw(m.Reason[:])
	case itch.KindRegSHORestriction:
		m := &rec.RegSHORestriction
		l.raw(m.Stock[:])
		l.code(byte(m.Action))
	case itch.KindMarketParticipantPosition:
		m := &rec.MarketParticipantPosition
		l.mpid(m.MPID)
		l.raw(m.Stock[:])
		l.code(byte(m.PrimaryMarketMaker))
		l.code(byte(m.MarketMakerMode))
		l.code(byte(m.State))
	case itch.KindMWCBDeclineLevel:
		m := &rec.MWCBDeclineLevel
		l.price8(m.Level1)
		l.price8(m.Level2)
		l.price8(m.Level3)
	case itch.KindMWCBStatus:
		l.code(byte(rec.MWCBStatus.Level))
	case itch.KindIPOQuotingPeriodUpdate:
		m := &rec.IPOQuotingPeriodUpdate
		l.raw(m.Stock[:])
		l.sep()
		l.buf = AppendSeconds(l.buf, m.ReleaseTime)
		l.code(byte(m.Qualifier))
		l.price4(m.IPOPrice)
	case itch.KindLULDAuctionCollar:
		m := &rec.LULDAuctionCollar
		l.raw(m.Stock[:])
		l.price4(m.ReferencePrice)
		l.price4(m.UpperPrice)
		l.price4(m.LowerPrice)
		l.num(uint64(m.Extension))
	case itch.KindOperationalHalt:
		m := &rec.OperationalHalt
		l.raw(m.Stock[:])
		l.code(byte(m.MarketCode))
		l.code(byte(m.Action))
	case itch.KindAddOrder:
		m := &rec.AddOrder
		l.num(m.OrderRef)
		l.code(byte(m.Side))
		l.num(uint64(m.Shares))
		l.raw(m.Stock[:])
		l.price4(m.Price)
		if m.Attributed() {
			l.mpid(m.Attribution)
		}
	case itch.KindExecuteOrder:
		m := &rec.ExecuteOrder
		l.num(m.OrderRef)
		l.num(uint64(m.ExecutedShares))
		l.num(m.MatchNumber)
		if m.WithPrice() {
			l.code(byte(m.Printable))
			l.price4(m.ExecutionPrice)
		}
	case itch.KindCancelOrder:
		m := &rec.CancelOrder
		l.num(m.OrderRef)
		if !m.Delete() {
			l.num(uint64(m.CancelledShares))
		}
	case itch.KindReplaceOrder:
		m := &rec.ReplaceOrder
		l.num(m.OriginalOrderRef)
		l.num(m.NewOrderRef)
		l.num(uint64(m.Shares))
		l.price4(m.Price)
	case itch.KindNonCrossTrade:
		m := &rec.NonCrossTrade
		l.num(m.OrderRef)
		l.code(byte(m.Side))
		l.num(uint64(m.Shares))
		l.raw(m.Stock[:])
		l.price4(m.Price)
		l.num(m.MatchNumber)
	case itch.KindCrossTrade:
		m := &rec.CrossTrade
		l.num(m.Shares)
		l.raw(m.Stock[:])
		l.price4(m.CrossPrice)
		l.num(m.MatchNumber)
		l.code(byte(m.CrossType))
	case itch.KindBrokenTrade:
		l.num(rec.BrokenTrade.MatchNumber)
	case itch.KindNOII:
		m := &rec.NOII
		l.num(m.PairedShares)
		l.num(m.ImbalanceShares)
		l.code(byte(m.Direction))
		l.raw(m.Stock[:])
		l.price4(m.FarPrice)
		l.price4(m.NearPrice)
		l.price4(m.ReferencePrice)
		l.code(byte(m.CrossType))
		l.code(byte(m.PriceVariation))
	case itch.KindRPII:
		m := &rec.RPII
		l.raw(m.Stock[:])
		l.code(byte(m.InterestFlag))
	case itch.KindDLCRPriceDiscovery:
		m := &rec.DLCRPriceDiscovery
		l.raw(m.Stock[:])
		l.code(byte(m.OpenEligibility))
		l.price4(m.MinAllowedPrice)
		l.price4(m.MaxAllowedPrice)
		l.price4(m.NearExecutionPrice)
		l.timestamp(m.NearExecutionTime)
		l.price4(m.LowerPriceRangeCollar)
		l.price4(m.UpperPriceRangeCollar)
	}
	return l.buf
}

// line writes comma-separated columns; the first column has no separator.
type line struct {
	buf     []byte
	started bool
}

func (l *line) sep() {
	if l.started {
		l.buf = append(l.buf, ',')
	}
	l.started = true
}

func (l *line) code(b byte) {
	l.sep()
	l.buf = append(l.buf, b)
}

func (l *line) raw(b []byte) {
	l.sep()
	l.buf = append(l.buf, b...)
}

func (l *line) num(v uint64) {
	l.sep()
	l.buf = strconv.AppendUint(l.buf, v, 10)
}

func (l *line) timestamp(ns uint64) {
	l.sep()
	l.buf = AppendTimestamp(l.buf, ns)
}

func (l *line) price4(v uint32) {
	l.sep()
	l.buf = AppendPrice4(l.buf, v)
}

func (l *line) price8(v uint64) {
	l.sep()
	l.buf = AppendPrice8(l.buf, v)
}

func (l *line) mpid(m itch.MPID) {
	l.sep()
	l.buf = append(l.buf, byte(m>>24), byte(m>>16), byte(m>>8), byte(m))
}
