package capture

import "github.com/ismaiel54/itch50-decoder/internal/itch"

// Timestamps used by samples sit above 2^32 so the high bytes of the
// 48-bit field are exercised.
const sampleTimestamp uint64 = 0x0000_1234_5678_9ABC

func hdr(locate uint16) itch.Header {
	return itch.Header{StockLocate: locate, TrackingNumber: 7, Timestamp: sampleTimestamp}
}

// Sample returns a fully populated record that decodes from wire type tag.
// Neighbouring fields carry distinct values so a misplaced read shows up.
func Sample(tag itch.MessageType) itch.Record {
	rec := itch.Record{Kind: itch.KindOf(tag)}
	aapl := itch.MakeSymbol("AAPL")

	switch tag {
	case itch.MsgSystemEvent:
		rec.SystemEvent = itch.SystemEvent{Header: hdr(0), EventCode: itch.StartOfMarketHours}
	case itch.MsgStockDirectory:
		rec.StockDirectory = itch.StockDirectory{
			Header:              hdr(13),
			Stock:               aapl,
			MarketCategory:      itch.MarketNasdaqGlobalSelect,
			FinancialStatus:     itch.FinancialNormal,
			RoundLotSize:        100,
			RoundLotsOnly:       itch.IndicatorNo,
			IssueClassification: 'C',
			IssueSubType:        itch.IssueSubType{'C', ' '},
			Authenticity:        itch.AuthenticityProduction,
			ShortSaleThreshold:  itch.IndicatorNo,
			IPOFlag:             itch.IndicatorNo,
			LULDRefPriceTier:    itch.LULDTier1,
			ETPFlag:             itch.IndicatorNo,
			ETPLeverageFactor:   2,
			InverseIndicator:    itch.IndicatorNo,
		}
	case itch.MsgStockTradingAction:
		rec.StockTradingAction = itch.StockTradingAction{
			Header:       hdr(13),
			Stock:        aapl,
			TradingState: itch.TradingHalted,
			Reserved:     ' ',
			Reason:       itch.TradingActionReason{'T', '1', ' ', ' '},
		}
	case itch.MsgRegSHORestriction:
		rec.RegSHORestriction = itch.RegSHORestriction{Header: hdr(13), Stock: aapl, Action: itch.RegSHORestrictionInForce}
	case itch.MsgMarketParticipantPosition:
		rec.MarketParticipantPosition = itch.MarketParticipantPosition{
			Header:             hdr(13),
			MPID:               itch.MakeMPID("GSCO"),
			Stock:              aapl,
			PrimaryMarketMaker: itch.IndicatorYes,
			MarketMakerMode:    itch.MarketMakerNormal,
			State:              itch.ParticipantActive,
		}
	case itch.MsgMWCBDeclineLevel:
		rec.MWCBDeclineLevel = itch.MWCBDeclineLevel{
			Header: hdr(0),
			Level1: 3_812_500_000_000,
			Level2: 3_562_500_000_000,
			Level3: 3_187_500_000_000,
		}
	case itch.MsgMWCBStatus:
		rec.MWCBStatus = itch.MWCBStatus{Header: hdr(0), Level: '2'}
	case itch.MsgIPOQuotingPeriodUpdate:
		rec.IPOQuotingPeriodUpdate = itch.IPOQuotingPeriodUpdate{
			Header:      hdr(42),
			Stock:       itch.MakeSymbol("NEWCO"),
			ReleaseTime: 41_400,
			Qualifier:   itch.IPOAnticipatedRelease,
			IPOPrice:    170_000,
		}
	case itch.MsgLULDAuctionCollar:
		rec.LULDAuctionCollar = itch.LULDAuctionCollar{
			Header:         hdr(13),
			Stock:          aapl,
			ReferencePrice: 1_500_000,
			UpperPrice:     1_650_000,
			LowerPrice:     1_350_000,
			Extension:      1,
		}
	case itch.MsgOperationalHalt:
		rec.OperationalHalt = itch.OperationalHalt{
			Header:     hdr(13),
			Stock:      aapl,
			MarketCode: itch.MarketCodeNasdaq,
			Action:     itch.HaltActionHalted,
		}
	case itch.MsgAddOrder, itch.MsgAddOrderMPID:
		rec.AddOrder = itch.AddOrder{
			Header:      hdr(13),
			OrderRef:    0x0102_0304_0506_0708,
			Side:        itch.SideBuy,
			Shares:      300,
			Stock:       aapl,
			Price:       1_502_500,
			Attribution: itch.UnattributedMPID,
		}
		if tag == itch.MsgAddOrderMPID {
			rec.AddOrder.Attribution = itch.MakeMPID("GSCO")
		}
	case itch.MsgOrderExecuted, itch.MsgOrderExecutedWithPrice:
		rec.ExecuteOrder = itch.ExecuteOrder{
			Header:         hdr(13),
			OrderRef:       0x0102_0304_0506_0708,
			ExecutedShares: 100,
			MatchNumber:    9_000_001,
			Printable:      itch.Printable,
		}
		if tag == itch.MsgOrderExecutedWithPrice {
			rec.ExecuteOrder.Printable = itch.NonPrintable
			rec.ExecuteOrder.ExecutionPrice = 1_501_000
		}
	case itch.MsgOrderCancel, itch.MsgOrderDelete:
		rec.CancelOrder = itch.CancelOrder{Header: hdr(13), OrderRef: 0x0102_0304_0506_0708}
		if tag == itch.MsgOrderCancel {
			rec.CancelOrder.CancelledShares = 50
		}
	case itch.MsgOrderReplace:
		rec.ReplaceOrder = itch.ReplaceOrder{
			Header:           hdr(13),
			OriginalOrderRef: 0x0102_0304_0506_0708,
			NewOrderRef:      0x0102_0304_0506_0709,
			Shares:           250,
			Price:            1_503_000,
		}
	case itch.MsgNonCrossTrade:
		rec.NonCrossTrade = itch.NonCrossTrade{
			Header:      hdr(13),
			OrderRef:    0x0A0B_0C0D_0E0F_1011,
			Side:        itch.SideSell,
			Shares:      75,
			Stock:       aapl,
			Price:       1_499_900,
			MatchNumber: 9_000_002,
		}
	case itch.MsgCrossTrade:
		rec.CrossTrade = itch.CrossTrade{
			Header:      hdr(13),
			Shares:      5_000_000_000,
			Stock:       aapl,
			CrossPrice:  1_500_000,
			MatchNumber: 9_000_003,
			CrossType:   itch.CrossOpening,
		}
	case itch.MsgBrokenTrade:
		rec.BrokenTrade = itch.BrokenTrade{Header: hdr(13), MatchNumber: 9_000_002}
	case itch.MsgNOII:
		rec.NOII = itch.NOII{
			Header:          hdr(13),
			PairedShares:    1_000_000,
			ImbalanceShares: 25_000,
			Direction:       itch.ImbalanceBuy,
			Stock:           aapl,
			FarPrice:        1_510_000,
			NearPrice:       1_505_000,
			ReferencePrice:  1_500_000,
			CrossType:       itch.CrossClosing,
			PriceVariation:  '1',
		}
	case itch.MsgRPII:
		rec.RPII = itch.RPII{Header: hdr(13), Stock: aapl, InterestFlag: itch.RPIBothSides}
	case itch.MsgDLCRPriceDiscovery:
		rec.DLCRPriceDiscovery = itch.DLCRPriceDiscovery{
			Header:                hdr(42),
			Stock:                 itch.MakeSymbol("NEWCO"),
			OpenEligibility:       itch.IndicatorYes,
			MinAllowedPrice:       150_000,
			MaxAllowedPrice:       190_000,
			NearExecutionPrice:    171_000,
			NearExecutionTime:     sampleTimestamp + 1,
			LowerPriceRangeCollar: 153_900,
			UpperPriceRangeCollar: 188_100,
		}
	}
	return rec
}
