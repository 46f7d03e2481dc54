package itch

import (
	"fmt"
	"strings"
)

// Mode selects how strictly the decoder treats the length prefix.
type Mode uint8

const (
	// ModeStrict rejects a record whose length prefix differs from the
	// canonical length of its type.
	ModeStrict Mode = iota
	// ModeFast reads the length prefix and ignores it.
	ModeFast
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeFast:
		return "fast"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode accepts "strict" or "fast", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return ModeStrict, nil
	case "fast":
		return ModeFast, nil
	}
	return ModeStrict, fmt.Errorf("itch: unknown decode mode %q", s)
}

// Decoder walks a capture one record at a time. It borrows data and never
// writes to it; several decoders may share the same slice.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	cur       Cursor
	mode      Mode
	rec       Record
	exhausted bool
	err       error
	count     uint64
}

// NewDecoder returns a decoder positioned at the first record of data. An
// empty capture yields a decoder that is already exhausted.
func NewDecoder(data []byte, mode Mode) *Decoder {
	return &Decoder{
		cur:       NewCursor(data),
		mode:      mode,
		exhausted: len(data) == 0,
	}
}

// Mode reports the mode the decoder was built with.
func (d *Decoder) Mode() Mode { return d.mode }

// Exhausted reports whether every byte of the capture has been consumed.
func (d *Decoder) Exhausted() bool { return d.exhausted }

// Current returns the record produced by the last successful Advance.
func (d *Decoder) Current() Record { return d.rec }

// Offset is the position of the next record's length prefix.
func (d *Decoder) Offset() int { return d.cur.Offset() }

// Count is the number of records decoded so far.
func (d *Decoder) Count() uint64 { return d.count }

// Err returns the framing error that stopped the decoder, if any.
func (d *Decoder) Err() error { return d.err }

// Advance decodes the next record. It returns false with a nil error once
// the capture is exhausted. A framing violation is returned as a
// *FramingError and is returned again by every later call.
func (d *Decoder) Advance() (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.exhausted {
		return false, nil
	}

	start := d.cur.Offset()
	remaining := d.cur.Remaining()
	if remaining < HeaderSize {
		return d.fail(&FramingError{Kind: FramingTruncated, Offset: start, Remaining: remaining})
	}

	length := d.cur.ReadU16()
	tag := MessageType(d.cur.ReadTag1())

	canonical, ok := MessageLength(tag)
	if !ok {
		return d.fail(&FramingError{
			Kind:      FramingUnknownType,
			Offset:    start,
			Type:      tag,
			Length:    length,
			Remaining: remaining,
		})
	}
	if d.mode == ModeStrict && length != canonical {
		return d.fail(&FramingError{
			Kind:      FramingLengthMismatch,
			Offset:    start,
			Type:      tag,
			Length:    length,
			Expected:  canonical,
			Remaining: remaining,
		})
	}
	if remaining < int(canonical)+LengthPrefixSize {
		return d.fail(&FramingError{
			Kind:      FramingTruncated,
			Offset:    start,
			Type:      tag,
			Length:    length,
			Expected:  canonical,
			Remaining: remaining,
		})
	}

	d.decode(tag)
	d.count++
	if d.cur.Remaining() == 0 {
		d.exhausted = true
	}
	return true, nil
}

func (d *Decoder) fail(err *FramingError) (bool, error) {
	d.err = err
	return false, err
}

func (d *Decoder) decode(tag MessageType) {
	c := &d.cur
	d.rec = Record{Kind: KindOf(tag)}
	r := &d.rec

	switch tag {
	case MsgSystemEvent:
		decodeSystemEvent(c, &r.SystemEvent)
	case MsgStockDirectory:
		decodeStockDirectory(c, &r.StockDirectory)
	case MsgStockTradingAction:
		decodeStockTradingAction(c, &r.StockTradingAction)
	case MsgRegSHORestriction:
		decodeRegSHORestriction(c, &r.RegSHORestriction)
	case MsgMarketParticipantPosition:
		decodeMarketParticipantPosition(c, &r.MarketParticipantPosition)
	case MsgMWCBDeclineLevel:
		decodeMWCBDeclineLevel(c, &r.MWCBDeclineLevel)
	case MsgMWCBStatus:
		decodeMWCBStatus(c, &r.MWCBStatus)
	case MsgIPOQuotingPeriodUpdate:
		decodeIPOQuotingPeriodUpdate(c, &r.IPOQuotingPeriodUpdate)
	case MsgLULDAuctionCollar:
		decodeLULDAuctionCollar(c, &r.LULDAuctionCollar)
	case MsgOperationalHalt:
		decodeOperationalHalt(c, &r.OperationalHalt)
	case MsgAddOrder:
		decodeAddOrder(c, &r.AddOrder, false)
	case MsgAddOrderMPID:
		decodeAddOrder(c, &r.AddOrder, true)
	case MsgOrderExecuted:
		decodeExecuteOrder(c, &r.ExecuteOrder, false)
	case MsgOrderExecutedWithPrice:
		decodeExecuteOrder(c, &r.ExecuteOrder, true)
	case MsgOrderCancel:
		decodeCancelOrder(c, &r.CancelOrder, true)
	case MsgOrderDelete:
		decodeCancelOrder(c, &r.CancelOrder, false)
	case MsgOrderReplace:
		decodeReplaceOrder(c, &r.ReplaceOrder)
	case MsgNonCrossTrade:
		decodeNonCrossTrade(c, &r.NonCrossTrade)
	case MsgCrossTrade:
		decodeCrossTrade(c, &r.CrossTrade)
	case MsgBrokenTrade:
		decodeBrokenTrade(c, &r.BrokenTrade)
	case MsgNOII:
		decodeNOII(c, &r.NOII)
	case MsgRPII:
		decodeRPII(c, &r.RPII)
	case MsgDLCRPriceDiscovery:
		decodeDLCRPriceDiscovery(c, &r.DLCRPriceDiscovery)
	}
}

func decodeHeader(c *Cursor, h *Header) {
	h.StockLocate = c.ReadU16()
	h.TrackingNumber = c.ReadU16()
	h.Timestamp = c.ReadTimestamp48()
}

func decodeSystemEvent(c *Cursor, m *SystemEvent) {
	decodeHeader(c, &m.Header)
	m.EventCode = SystemEventCode(c.ReadTag1())
}

func decodeStockDirectory(c *Cursor, m *StockDirectory) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.MarketCategory = MarketCategory(c.ReadTag1())
	m.FinancialStatus = FinancialStatus(c.ReadTag1())
	m.RoundLotSize = c.ReadU32()
	m.RoundLotsOnly = Indicator(c.ReadTag1())
	m.IssueClassification = IssueClassification(c.ReadTag1())
	m.IssueSubType = IssueSubType(c.ReadTag2())
	m.Authenticity = Authenticity(c.ReadTag1())
	m.ShortSaleThreshold = Indicator(c.ReadTag1())
	m.IPOFlag = Indicator(c.ReadTag1())
	m.LULDRefPriceTier = LULDRefPriceTier(c.ReadTag1())
	m.ETPFlag = Indicator(c.ReadTag1())
	m.ETPLeverageFactor = c.ReadU32()
	m.InverseIndicator = Indicator(c.ReadTag1())
}

func decodeStockTradingAction(c *Cursor, m *StockTradingAction) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.TradingState = TradingState(c.ReadTag1())
	m.Reserved = c.ReadTag1()
	m.Reason = TradingActionReason(c.ReadTag4())
}

func decodeRegSHORestriction(c *Cursor, m *RegSHORestriction) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.Action = RegSHOAction(c.ReadTag1())
}

func decodeMarketParticipantPosition(c *Cursor, m *MarketParticipantPosition) {
	decodeHeader(c, &m.Header)
	m.MPID = MPID(c.ReadU32())
	m.Stock = c.ReadSymbol()
	m.PrimaryMarketMaker = Indicator(c.ReadTag1())
	m.MarketMakerMode = MarketMakerMode(c.ReadTag1())
	m.State = MarketParticipantState(c.ReadTag1())
}

func decodeMWCBDeclineLevel(c *Cursor, m *MWCBDeclineLevel) {
	decodeHeader(c, &m.Header)
	m.Level1 = c.ReadU64()
	m.Level2 = c.ReadU64()
	m.Level3 = c.ReadU64()
}

func decodeMWCBStatus(c *Cursor, m *MWCBStatus) {
	decodeHeader(c, &m.Header)
	m.Level = MWCBLevel(c.ReadTag1())
}

func decodeIPOQuotingPeriodUpdate(c *Cursor, m *IPOQuotingPeriodUpdate) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.ReleaseTime = c.ReadU32()
	m.Qualifier = IPOReleaseQualifier(c.ReadTag1())
	m.IPOPrice = c.ReadU32()
}

func decodeLULDAuctionCollar(c *Cursor, m *LULDAuctionCollar) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.ReferencePrice = c.ReadU32()
	m.UpperPrice = c.ReadU32()
	m.LowerPrice = c.ReadU32()
	m.Extension = c.ReadU32()
}

func decodeOperationalHalt(c *Cursor, m *OperationalHalt) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.MarketCode = MarketCode(c.ReadTag1())
	m.Action = HaltAction(c.ReadTag1())
}

func decodeAddOrder(c *Cursor, m *AddOrder, withMPID bool) {
	decodeHeader(c, &m.Header)
	m.OrderRef = c.ReadU64()
	m.Side = Side(c.ReadTag1())
	m.Shares = c.ReadU32()
	m.Stock = c.ReadSymbol()
	m.Price = c.ReadU32()
	m.Attribution = UnattributedMPID
	if withMPID {
		m.Attribution = MPID(c.ReadU32())
	}
}

func decodeExecuteOrder(c *Cursor, m *ExecuteOrder, withPrice bool) {
	decodeHeader(c, &m.Header)
	m.OrderRef = c.ReadU64()
	m.ExecutedShares = c.ReadU32()
	m.MatchNumber = c.ReadU64()
	m.Printable = Printable
	if withPrice {
		m.Printable = PrintableFlag(c.ReadTag1())
		m.ExecutionPrice = c.ReadU32()
	}
}

func decodeCancelOrder(c *Cursor, m *CancelOrder, withShares bool) {
	decodeHeader(c, &m.Header)
	m.OrderRef = c.ReadU64()
	if withShares {
		m.CancelledShares = c.ReadU32()
	}
}

func decodeReplaceOrder(c *Cursor, m *ReplaceOrder) {
	decodeHeader(c, &m.Header)
	m.OriginalOrderRef = c.ReadU64()
	m.NewOrderRef = c.ReadU64()
	m.Shares = c.ReadU32()
	m.Price = c.ReadU32()
}

func decodeNonCrossTrade(c *Cursor, m *NonCrossTrade) {
	decodeHeader(c, &m.Header)
	m.OrderRef = c.ReadU64()
	m.Side = Side(c.ReadTag1())
	m.Shares = c.ReadU32()
	m.Stock = c.ReadSymbol()
	m.Price = c.ReadU32()
	m.MatchNumber = c.ReadU64()
}

func decodeCrossTrade(c *Cursor, m *CrossTrade) {
	decodeHeader(c, &m.Header)
	m.Shares = c.ReadU64()
	m.Stock = c.ReadSymbol()
	m.CrossPrice = c.ReadU32()
	m.MatchNumber = c.ReadU64()
	m.CrossType = CrossType(c.ReadTag1())
}

func decodeBrokenTrade(c *Cursor, m *BrokenTrade) {
	decodeHeader(c, &m.Header)
	m.MatchNumber = c.ReadU64()
}

func decodeNOII(c *Cursor, m *NOII) {
	decodeHeader(c, &m.Header)
	m.PairedShares = c.ReadU64()
	m.ImbalanceShares = c.ReadU64()
	m.Direction = ImbalanceDirection(c.ReadTag1())
	m.Stock = c.ReadSymbol()
	m.FarPrice = c.ReadU32()
	m.NearPrice = c.ReadU32()
	m.ReferencePrice = c.ReadU32()
	m.CrossType = CrossType(c.ReadTag1())
	m.PriceVariation = PriceVariation(c.ReadTag1())
}

func decodeRPII(c *Cursor, m *RPII) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.InterestFlag = InterestFlag(c.ReadTag1())
}

func decodeDLCRPriceDiscovery(c *Cursor, m *DLCRPriceDiscovery) {
	decodeHeader(c, &m.Header)
	m.Stock = c.ReadSymbol()
	m.OpenEligibility = Indicator(c.ReadTag1())
	m.MinAllowedPrice = c.ReadU32()
	m.MaxAllowedPrice = c.ReadU32()
	m.NearExecutionPrice = c.ReadU32()
	m.NearExecutionTime = c.ReadU64()
	m.LowerPriceRangeCollar = c.ReadU32()
	m.UpperPriceRangeCollar = c.ReadU32()
}
