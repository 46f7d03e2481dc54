package render

import (
	"github.com/ismaiel54/itch50-decoder/internal/itch"
)

// fieldSink receives a record's fields in wire order.
type fieldSink interface {
	str(name, v string)
	code(name string, v byte)
	num(name string, v uint64)
}

func walk(rec *itch.Record, s fieldSink) {
	s.code("type", byte(rec.MessageType()))
	s.str("kind", rec.Kind.String())
	h := rec.Header()
	s.num("stock_locate", uint64(h.StockLocate))
	s.num("tracking_number", uint64(h.TrackingNumber))
	s.num("timestamp", h.Timestamp)

	switch rec.Kind {
	case itch.KindSystemEvent:
		s.code("event_code", byte(rec.SystemEvent.EventCode))
	case itch.KindStockDirectory:
		m := &rec.StockDirectory
		s.str("stock", m.Stock.String())
		s.code("market_category", byte(m.MarketCategory))
		s.code("financial_status", byte(m.FinancialStatus))
		s.num("round_lot_size", uint64(m.RoundLotSize))
		s.code("round_lots_only", byte(m.RoundLotsOnly))
		s.code("issue_classification", byte(m.IssueClassification))
		s.str("issue_sub_type", m.IssueSubType.Code())
		s.code("authenticity", byte(m.Authenticity))
		s.code("short_sale_threshold", byte(m.ShortSaleThreshold))
		s.code("ipo_flag", byte(m.IPOFlag))
		s.code("luld_ref_price_tier", byte(m.LULDRefPriceTier))
		s.code("etp_flag", byte(m.ETPFlag))
		s.num("etp_leverage_factor", uint64(m.ETPLeverageFactor))
		s.code("inverse_indicator", byte(m.InverseIndicator))
	case itch.KindStockTradingAction:
		m := &rec.StockTradingAction
		s.str("stock", m.Stock.String())
		s.code("trading_state", byte(m.TradingState))
		s.code("reserved", m.Reserved)
		s.str("reason", m.Reason.Code())
	case itch.KindRegSHORestriction:
		m := &rec.RegSHORestriction
		s.str("stock", m.Stock.String())
		s.code("reg_sho_action", byte(m.Action))
	case itch.KindMarketParticipantPosition:
		m := &rec.MarketParticipantPosition
		s.str("mpid", m.MPID.String())
		s.str("stock", m.Stock.String())
		s.code("primary_market_maker", byte(m.PrimaryMarketMaker))
		s.code("market_maker_mode", byte(m.MarketMakerMode))
		s.code("market_participant_state", byte(m.State))
	case itch.KindMWCBDeclineLevel:
		m := &rec.MWCBDeclineLevel
		s.num("level1", m.Level1)
		s.num("level2", m.Level2)
		s.num("level3", m.Level3)
	case itch.KindMWCBStatus:
		s.code("breached_level", byte(rec.MWCBStatus.Level))
	case itch.KindIPOQuotingPeriodUpdate:
		m := &rec.IPOQuotingPeriodUpdate
		s.str("stock", m.Stock.String())
		s.num("release_time", uint64(m.ReleaseTime))
		s.code("release_qualifier", byte(m.Qualifier))
		s.num("ipo_price", uint64(m.IPOPrice))
	case itch.KindLULDAuctionCollar:
		m := &rec.LULDAuctionCollar
		s.str("stock", m.Stock.String())
		s.num("reference_price", uint64(m.ReferencePrice))
		s.num("upper_price", uint64(m.UpperPrice))
		s.num("lower_price", uint64(m.LowerPrice))
		s.num("extensions", uint64(m.Extension))
	case itch.KindOperationalHalt:
		m := &rec.OperationalHalt
		s.str("stock", m.Stock.String())
		s.code("market_code", byte(m.MarketCode))
		s.code("halt_action", byte(m.Action))
	case itch.KindAddOrder:
		m := &rec.AddOrder
		s.num("order_ref", m.OrderRef)
		s.code("side", byte(m.Side))
		s.num("shares", uint64(m.Shares))
		s.str("stock", m.Stock.String())
		s.num("price", uint64(m.Price))
		s.str("mpid", m.Attribution.String())
	case itch.KindExecuteOrder:
		m := &rec.ExecuteOrder
		s.num("order_ref", m.OrderRef)
		s.num("shares", uint64(m.ExecutedShares))
		s.num("match_number", m.MatchNumber)
		s.code("printable", byte(m.Printable))
		s.num("price", uint64(m.ExecutionPrice))
	case itch.KindCancelOrder:
		m := &rec.CancelOrder
		s.num("order_ref", m.OrderRef)
		s.num("shares", uint64(m.CancelledShares))
	case itch.KindReplaceOrder:
		m := &rec.ReplaceOrder
		s.num("original_order_ref", m.OriginalOrderRef)
		s.num("order_ref", m.NewOrderRef)
		s.num("shares", uint64(m.Shares))
		s.num("price", uint64(m.Price))
	case itch.KindNonCrossTrade:
		m := &rec.NonCrossTrade
		s.num("order_ref", m.OrderRef)
		s.code("side", byte(m.Side))
		s.num("shares", uint64(m.Shares))
		s.str("stock", m.Stock.String())
		s.num("price", uint64(m.Price))
		s.num("match_number", m.MatchNumber)
	case itch.KindCrossTrade:
		m := &rec.CrossTrade
		s.num("shares", m.Shares)
		s.str("stock", m.Stock.String())
		s.num("price", uint64(m.CrossPrice))
		s.num("match_number", m.MatchNumber)
		s.code("cross_type", byte(m.CrossType))
	case itch.KindBrokenTrade:
		s.num("match_number", rec.BrokenTrade.MatchNumber)
	case itch.KindNOII:
		m := &rec.NOII
		s.num("paired_shares", m.PairedShares)
		s.num("imbalance_shares", m.ImbalanceShares)
		s.code("imbalance_direction", byte(m.Direction))
		s.str("stock", m.Stock.String())
		s.num("far_price", uint64(m.FarPrice))
		s.num("near_price", uint64(m.NearPrice))
		s.num("reference_price", uint64(m.ReferencePrice))
		s.code("cross_type", byte(m.CrossType))
		s.code("price_variation", byte(m.PriceVariation))
	case itch.KindRPII:
		m := &rec.RPII
		s.str("stock", m.Stock.String())
		s.code("interest_flag", byte(m.InterestFlag))
	case itch.KindDLCRPriceDiscovery:
		m := &rec.DLCRPriceDiscovery
		s.str("stock", m.Stock.String())
		s.code("open_eligibility", byte(m.OpenEligibility))
		s.num("min_allowed_price", uint64(m.MinAllowedPrice))
		s.num("max_allowed_price", uint64(m.MaxAllowedPrice))
		s.num("near_execution_price", uint64(m.NearExecutionPrice))
		s.num("near_execution_time", m.NearExecutionTime)
		s.num("lower_price_range_collar", uint64(m.LowerPriceRangeCollar))
		s.num("upper_price_range_collar", uint64(m.UpperPriceRangeCollar))
	}
}

type mapSink map[string]any

func (m mapSink) str(name, v string) { m[name] = v }
func (m mapSink) code(name string, v byte) { m[name] = string(rune(v)) }
func (m mapSink) num(name string, v uint64) { m[name] = float64(v) }

// Fields returns the record's fields keyed by their JSON names. Numbers
// are float64 and codes are one-character strings, which is what
// expression evaluation expects.
func Fields(rec itch.Record) map[string]any {
	m := make(mapSink, 16)
	walk(&rec, m)
	return m
}
