package itch

import "fmt"

// Header is common to every message.
type Header struct {
	StockLocate    uint16
	TrackingNumber uint16
	// Timestamp is nanoseconds since midnight, widened from 48 bits.
	Timestamp uint64
}

// SystemEvent is an 'S' message.
type SystemEvent struct {
	Header
	EventCode SystemEventCode
}

// StockDirectory is an 'R' message describing one instrument for the day.
type StockDirectory struct {
	Header
	Stock               Symbol
	MarketCategory      MarketCategory
	FinancialStatus     FinancialStatus
	RoundLotSize        uint32
	RoundLotsOnly       Indicator
	IssueClassification IssueClassification
	IssueSubType        IssueSubType
	Authenticity        Authenticity
	ShortSaleThreshold  Indicator
	IPOFlag             Indicator
	LULDRefPriceTier    LULDRefPriceTier
	ETPFlag             Indicator
	ETPLeverageFactor   uint32
	InverseIndicator    Indicator
}

// StockTradingAction is an 'H' message.
type StockTradingAction struct {
	Header
	Stock        Symbol
	TradingState TradingState
	// Reserved is kept as read.
	Reserved byte
	Reason   TradingActionReason
}

// RegSHORestriction is a 'Y' message.
type RegSHORestriction struct {
	Header
	Stock  Symbol
	Action RegSHOAction
}

// MarketParticipantPosition is an 'L' message.
type MarketParticipantPosition struct {
	Header
	MPID               MPID
	Stock              Symbol
	PrimaryMarketMaker Indicator
	MarketMakerMode    MarketMakerMode
	State              MarketParticipantState
}

// MWCBDeclineLevel is a 'V' message. Prices carry eight implied decimals.
type MWCBDeclineLevel struct {
	Header
	Level1 uint64
	Level2 uint64
	Level3 uint64
}

// MWCBStatus is a 'W' message naming the breached level.
type MWCBStatus struct {
	Header
	Level MWCBLevel
}

// IPOQuotingPeriodUpdate is a 'K' message.
type IPOQuotingPeriodUpdate struct {
	Header
	Stock Symbol
	// ReleaseTime is seconds since midnight.
	ReleaseTime uint32
	Qualifier   IPOReleaseQualifier
	IPOPrice    uint32
}

// LULDAuctionCollar is a 'J' message.
type LULDAuctionCollar struct {
	Header
	Stock          Symbol
	ReferencePrice uint32
	UpperPrice     uint32
	LowerPrice     uint32
	Extension      uint32
}

// OperationalHalt is an 'h' message.
type OperationalHalt struct {
	Header
	Stock      Symbol
	MarketCode MarketCode
	Action     HaltAction
}

// AddOrder is decoded from both 'A' and 'F'. An 'A' message carries
// UnattributedMPID.
type AddOrder struct {
	Header
	OrderRef    uint64
	Side        Side
	Shares      uint32
	Stock       Symbol
	Price       uint32
	Attribution MPID
}

// Attributed reports whether the order names a market participant.
func (m AddOrder) Attributed() bool { return m.Attribution != UnattributedMPID }

// ExecuteOrder is decoded from both 'E' and 'C'. An 'E' message has a zero
// ExecutionPrice and Printable set to 'Y'.
type ExecuteOrder struct {
	Header
	OrderRef       uint64
	ExecutedShares uint32
	MatchNumber    uint64
	Printable      PrintableFlag
	ExecutionPrice uint32
}

// WithPrice reports whether the execution happened at a price other than
// the order's limit.
func (m ExecuteOrder) WithPrice() bool { return m.ExecutionPrice != 0 }

// CancelOrder is decoded from both 'X' and 'D'. A 'D' message has zero
// CancelledShares.
type CancelOrder struct {
	Header
	OrderRef        uint64
	CancelledShares uint32
}

// Delete reports whether the whole order was removed.
func (m CancelOrder) Delete() bool { return m.CancelledShares == 0 }

// ReplaceOrder is a 'U' message.
type ReplaceOrder struct {
	Header
	OriginalOrderRef uint64
	NewOrderRef      uint64
	Shares           uint32
	Price            uint32
}

// NonCrossTrade is a 'P' message.
type NonCrossTrade struct {
	Header
	OrderRef    uint64
	Side        Side
	Shares      uint32
	Stock       Symbol
	Price       uint32
	MatchNumber uint64
}

// CrossTrade is a 'Q' message.
type CrossTrade struct {
	Header
	Shares      uint64
	Stock       Symbol
	CrossPrice  uint32
	MatchNumber uint64
	CrossType   CrossType
}

// BrokenTrade is a 'B' message.
type BrokenTrade struct {
	Header
	MatchNumber uint64
}

// NOII is an 'I' net order imbalance indicator.
type NOII struct {
	Header
	PairedShares    uint64
	ImbalanceShares uint64
	Direction       ImbalanceDirection
	Stock           Symbol
	FarPrice        uint32
	NearPrice       uint32
	ReferencePrice  uint32
	CrossType       CrossType
	PriceVariation  PriceVariation
}

// RPII is an 'N' retail price improvement indicator.
type RPII struct {
	Header
	Stock        Symbol
	InterestFlag InterestFlag
}

// DLCRPriceDiscovery is an 'O' message.
type DLCRPriceDiscovery struct {
	Header
	Stock                 Symbol
	OpenEligibility       Indicator
	MinAllowedPrice       uint32
	MaxAllowedPrice       uint32
	NearExecutionPrice    uint32
	NearExecutionTime     uint64
	LowerPriceRangeCollar uint32
	UpperPriceRangeCollar uint32
}

// Kind identifies which variant of a Record is populated.
type Kind uint8

const (
	KindNone Kind = iota
	KindSystemEvent
	KindStockDirectory
	KindStockTradingAction
	KindRegSHORestriction
	KindMarketParticipantPosition
	KindMWCBDeclineLevel
	KindMWCBStatus
	KindIPOQuotingPeriodUpdate
	KindLULDAuctionCollar
	KindOperationalHalt
	KindAddOrder
	KindExecuteOrder
	KindCancelOrder
	KindReplaceOrder
	KindNonCrossTrade
	KindCrossTrade
	KindBrokenTrade
	KindNOII
	KindRPII
	KindDLCRPriceDiscovery
)

// Kinds lists every decoded variant.
var Kinds = []Kind{
	KindSystemEvent,
	KindStockDirectory,
	KindStockTradingAction,
	KindRegSHORestriction,
	KindMarketParticipantPosition,
	KindMWCBDeclineLevel,
	KindMWCBStatus,
	KindIPOQuotingPeriodUpdate,
	KindLULDAuctionCollar,
	KindOperationalHalt,
	KindAddOrder,
	KindExecuteOrder,
	KindCancelOrder,
	KindReplaceOrder,
	KindNonCrossTrade,
	KindCrossTrade,
	KindBrokenTrade,
	KindNOII,
	KindRPII,
	KindDLCRPriceDiscovery,
}

var kindNames = [...]string{
	KindNone:                      "none",
	KindSystemEvent:               "system_event",
	KindStockDirectory:            "stock_directory",
	KindStockTradingAction:        "stock_trading_action",
	KindRegSHORestriction:         "reg_sho_restriction",
	KindMarketParticipantPosition: "market_participant_position",
	KindMWCBDeclineLevel:          "mwcb_decline_level",
	KindMWCBStatus:                "mwcb_status",
	KindIPOQuotingPeriodUpdate:    "ipo_quoting_period_update",
	KindLULDAuctionCollar:         "luld_auction_collar",
	KindOperationalHalt:           "operational_halt",
	KindAddOrder:                  "add_order",
	KindExecuteOrder:              "execute_order",
	KindCancelOrder:               "cancel_order",
	KindReplaceOrder:              "replace_order",
	KindNonCrossTrade:             "non_cross_trade",
	KindCrossTrade:                "cross_trade",
	KindBrokenTrade:               "broken_trade",
	KindNOII:                      "noii",
	KindRPII:                      "rpii",
	KindDLCRPriceDiscovery:        "dlcr_price_discovery",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindOf returns the variant a message type decodes into.
func KindOf(t MessageType) Kind {
	switch t {
	case MsgSystemEvent:
		return KindSystemEvent
	case MsgStockDirectory:
		return KindStockDirectory
	case MsgStockTradingAction:
		return KindStockTradingAction
	case MsgRegSHORestriction:
		return KindRegSHORestriction
	case MsgMarketParticipantPosition:
		return KindMarketParticipantPosition
	case MsgMWCBDeclineLevel:
		return KindMWCBDeclineLevel
	case MsgMWCBStatus:
		return KindMWCBStatus
	case MsgIPOQuotingPeriodUpdate:
		return KindIPOQuotingPeriodUpdate
	case MsgLULDAuctionCollar:
		return KindLULDAuctionCollar
	case MsgOperationalHalt:
		return KindOperationalHalt
	case MsgAddOrder, MsgAddOrderMPID:
		return KindAddOrder
	case MsgOrderExecuted, MsgOrderExecutedWithPrice:
		return KindExecuteOrder
	case MsgOrderCancel, MsgOrderDelete:
		return KindCancelOrder
	case MsgOrderReplace:
		return KindReplaceOrder
	case MsgNonCrossTrade:
		return KindNonCrossTrade
	case MsgCrossTrade:
		return KindCrossTrade
	case MsgBrokenTrade:
		return KindBrokenTrade
	case MsgNOII:
		return KindNOII
	case MsgRPII:
		return KindRPII
	case MsgDLCRPriceDiscovery:
		return KindDLCRPriceDiscovery
	}
	return KindNone
}

// Record is a decoded message. Kind selects the populated field; the
// others hold zero values. Records are plain values and safe to copy.
type Record struct {
	Kind Kind

	SystemEvent               SystemEvent
	StockDirectory            StockDirectory
	StockTradingAction        StockTradingAction
	RegSHORestriction         RegSHORestriction
	MarketParticipantPosition MarketParticipantPosition
	MWCBDeclineLevel          MWCBDeclineLevel
	MWCBStatus                MWCBStatus
	IPOQuotingPeriodUpdate    IPOQuotingPeriodUpdate
	LULDAuctionCollar         LULDAuctionCollar
	OperationalHalt           OperationalHalt
	AddOrder                  AddOrder
	ExecuteOrder              ExecuteOrder
	CancelOrder               CancelOrder
	ReplaceOrder              ReplaceOrder
	NonCrossTrade             NonCrossTrade
	CrossTrade                CrossTrade
	BrokenTrade               BrokenTrade
	NOII                      NOII
	RPII                      RPII
	DLCRPriceDiscovery        DLCRPriceDiscovery
}

// Header returns the common fields of the populated variant.
func (r *Record) Header() Header {
	switch r.Kind {
	case KindSystemEvent:
		return r.SystemEvent.Header
	case KindStockDirectory:
		return r.StockDirectory.Header
	case KindStockTradingAction:
		return r.StockTradingAction.Header
	case KindRegSHORestriction:
		return r.RegSHORestriction.Header
	case KindMarketParticipantPosition:
		return r.MarketParticipantPosition.Header
	case KindMWCBDeclineLevel:
		return r.MWCBDeclineLevel.Header
	case KindMWCBStatus:
		return r.MWCBStatus.Header
	case KindIPOQuotingPeriodUpdate:
		return r.IPOQuotingPeriodUpdate.Header
	case KindLULDAuctionCollar:
		return r.LULDAuctionCollar.Header
	case KindOperationalHalt:
		return r.OperationalHalt.Header
	case KindAddOrder:
		return r.AddOrder.Header
	case KindExecuteOrder:
		return r.ExecuteOrder.Header
	case KindCancelOrder:
		return r.CancelOrder.Header
	case KindReplaceOrder:
		return r.ReplaceOrder.Header
	case KindNonCrossTrade:
		return r.NonCrossTrade.Header
	case KindCrossTrade:
		return r.CrossTrade.Header
	case KindBrokenTrade:
		return r.BrokenTrade.Header
	case KindNOII:
		return r.NOII.Header
	case KindRPII:
		return r.RPII.Header
	case KindDLCRPriceDiscovery:
		return r.DLCRPriceDiscovery.Header
	}
	return Header{}
}

// MessageType returns the wire type the record would be encoded as. For
// collapsed variants the answer follows the sentinel, so an 'F' carrying
// "NSDQ" reports 'A'.
func (r *Record) MessageType() MessageType {
	switch r.Kind {
	case KindSystemEvent:
		return MsgSystemEvent
	case KindStockDirectory:
		return MsgStockDirectory
	case KindStockTradingAction:
		return MsgStockTradingAction
	case KindRegSHORestriction:
		return MsgRegSHORestriction
	case KindMarketParticipantPosition:
		return MsgMarketParticipantPosition
	case KindMWCBDeclineLevel:
		return MsgMWCBDeclineLevel
	case KindMWCBStatus:
		return MsgMWCBStatus
	case KindIPOQuotingPeriodUpdate:
		return MsgIPOQuotingPeriodUpdate
	case KindLULDAuctionCollar:
		return MsgLULDAuctionCollar
	case KindOperationalHalt:
		return MsgOperationalHalt
	case KindAddOrder:
		if r.AddOrder.Attributed() {
			return MsgAddOrderMPID
		}
		return MsgAddOrder
	case KindExecuteOrder:
		if r.ExecuteOrder.WithPrice() {
			return MsgOrderExecutedWithPrice
		}
		return MsgOrderExecuted
	case KindCancelOrder:
		if r.CancelOrder.Delete() {
			return MsgOrderDelete
		}
		return MsgOrderCancel
	case KindReplaceOrder:
		return MsgOrderReplace
	case KindNonCrossTrade:
		return MsgNonCrossTrade
	case KindCrossTrade:
		return MsgCrossTrade
	case KindBrokenTrade:
		return MsgBrokenTrade
	case KindNOII:
		return MsgNOII
	case KindRPII:
		return MsgRPII
	case KindDLCRPriceDiscovery:
		return MsgDLCRPriceDiscovery
	}
	return 0
}

// Stock returns the symbol carried by the record, if any.
func (r *Record) Stock() (Symbol, bool) {
	switch r.Kind {
	case KindStockDirectory:
		return r.StockDirectory.Stock, true
	case KindStockTradingAction:
		return r.StockTradingAction.Stock, true
	case KindRegSHORestriction:
		return r.RegSHORestriction.Stock, true
	case KindMarketParticipantPosition:
		return r.MarketParticipantPosition.Stock, true
	case KindIPOQuotingPeriodUpdate:
		return r.IPOQuotingPeriodUpdate.Stock, true
	case KindLULDAuctionCollar:
		return r.LULDAuctionCollar.Stock, true
	case KindOperationalHalt:
		return r.OperationalHalt.Stock, true
	case KindAddOrder:
		return r.AddOrder.Stock, true
	case KindNonCrossTrade:
		return r.NonCrossTrade.Stock, true
	case KindCrossTrade:
		return r.CrossTrade.Stock, true
	case KindNOII:
		return r.NOII.Stock, true
	case KindRPII:
		return r.RPII.Stock, true
	case KindDLCRPriceDiscovery:
		return r.DLCRPriceDiscovery.Stock, true
	}
	return Symbol{}, false
}
