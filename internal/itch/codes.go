package itch

import (
	"fmt"
	"strings"
)

// Alpha fields are stored exactly as they appear on the wire. Bytes outside
// the documented domain are kept and render as Unknown; the decoder never
// validates field values.

func unknownCode(b byte) string {
	return fmt.Sprintf("Unknown(%q)", b)
}

func lookup[K comparable](names map[K]string, k K, fallback func() string) string {
	if name, ok := names[k]; ok {
		return name
	}
	return fallback()
}

// Symbol is an 8-byte, space-padded stock symbol.
type Symbol [8]byte

// String returns the symbol without its right padding.
func (s Symbol) String() string {
	return strings.TrimRight(string(s[:]), " ")
}

// MakeSymbol pads or truncates s to eight bytes.
func MakeSymbol(s string) Symbol {
	var sym Symbol
	for i := range sym {
		sym[i] = ' '
	}
	copy(sym[:], s)
	return sym
}

// MPID is a four-character market participant identifier held as a
// big-endian integer.
type MPID uint32

// UnattributedMPID is the attribution carried by Add Order messages that
// were sent without one ("NSDQ").
const UnattributedMPID MPID = 0x4E534451

func (m MPID) String() string {
	return string([]byte{byte(m >> 24), byte(m >> 16), byte(m >> 8), byte(m)})
}

// MakeMPID packs the first four bytes of s.
func MakeMPID(s string) MPID {
	var b [4]byte
	for i := range b {
		b[i] = ' '
	}
	copy(b[:], s)
	return MPID(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// Indicator is a Yes/No flag, with space for "not available" where allowed.
type Indicator byte

const (
	IndicatorYes          Indicator = 'Y'
	IndicatorNo           Indicator = 'N'
	IndicatorNotAvailable Indicator = ' '
)

func (i Indicator) String() string {
	switch i {
	case IndicatorYes:
		return "Yes"
	case IndicatorNo:
		return "No"
	case IndicatorNotAvailable:
		return "Not Available"
	}
	return unknownCode(byte(i))
}

// Side is the buy/sell indicator of an order.
type Side byte

const (
	SideBuy  Side = 'B'
	SideSell Side = 'S'
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	}
	return unknownCode(byte(s))
}

// SystemEventCode marks a point in the trading day.
type SystemEventCode byte

const (
	StartOfMessages    SystemEventCode = 'O'
	StartOfSystemHours SystemEventCode = 'S'
	StartOfMarketHours SystemEventCode = 'Q'
	EndOfMarketHours   SystemEventCode = 'M'
	EndOfSystemHours   SystemEventCode = 'E'
	EndOfMessages      SystemEventCode = 'C'
)

var systemEventCodeNames = map[SystemEventCode]string{
	StartOfMessages:    "Start Of Messages",
	StartOfSystemHours: "Start Of System Hours",
	StartOfMarketHours: "Start Of Market Hours",
	EndOfMarketHours:   "End Of Market Hours",
	EndOfSystemHours:   "End Of System Hours",
	EndOfMessages:      "End Of Messages",
}

func (c SystemEventCode) String() string {
	return lookup(systemEventCodeNames, c, func() string { return unknownCode(byte(c)) })
}

// MarketCategory is the listing market of an instrument.
type MarketCategory byte

const (
	MarketNasdaqGlobalSelect   MarketCategory = 'Q'
	MarketNasdaqGlobal         MarketCategory = 'G'
	MarketNasdaqCapital        MarketCategory = 'S'
	MarketNYSE                 MarketCategory = 'N'
	MarketNYSEAmerican         MarketCategory = 'A'
	MarketNYSEArca             MarketCategory = 'P'
	MarketBATSZ                MarketCategory = 'Z'
	MarketInvestorsExchange    MarketCategory = 'V'
	MarketCategoryNotAvailable MarketCategory = ' '
)

var marketCategoryNames = map[MarketCategory]string{
	MarketNasdaqGlobalSelect:   "Nasdaq Global Select Market",
	MarketNasdaqGlobal:         "Nasdaq Global Market",
	MarketNasdaqCapital:        "Nasdaq Capital Market",
	MarketNYSE:                 "NYSE",
	MarketNYSEAmerican:         "NYSE American",
	MarketNYSEArca:             "NYSE Arca",
	MarketBATSZ:                "BATS Z Exchange",
	MarketInvestorsExchange:    "Investors' Exchange, LLC",
	MarketCategoryNotAvailable: "Not Available",
}

func (c MarketCategory) String() string {
	return lookup(marketCategoryNames, c, func() string { return unknownCode(byte(c)) })
}

// FinancialStatus flags issuers with deficiencies or delinquencies.
type FinancialStatus byte

const (
	FinancialDeficient                   FinancialStatus = 'D'
	FinancialDelinquent                  FinancialStatus = 'E'
	FinancialBankrupt                    FinancialStatus = 'Q'
	FinancialSuspended                   FinancialStatus = 'S'
	FinancialDeficientBankrupt           FinancialStatus = 'G'
	FinancialDeficientDelinquent         FinancialStatus = 'H'
	FinancialDelinquentBankrupt          FinancialStatus = 'J'
	FinancialDeficientDelinquentBankrupt FinancialStatus = 'K'
	FinancialETPSuspended                FinancialStatus = 'C'
	FinancialNormal                      FinancialStatus = 'N'
	FinancialStatusNotAvailable          FinancialStatus = ' '
)

var financialStatusNames = map[FinancialStatus]string{
	FinancialDeficient:                   "Deficient",
	FinancialDelinquent:                  "Delinquent",
	FinancialBankrupt:                    "Bankrupt",
	FinancialSuspended:                   "Suspended",
	FinancialDeficientBankrupt:           "Deficient and Bankrupt",
	FinancialDeficientDelinquent:         "Deficient and Delinquent",
	FinancialDelinquentBankrupt:          "Delinquent and Bankrupt",
	FinancialDeficientDelinquentBankrupt: "Deficient, Delinquent and Bankrupt",
	FinancialETPSuspended:                "Creations and/or Redemptions Suspended for Exchange Traded Product",
	FinancialNormal:                      "Normal",
	FinancialStatusNotAvailable:          "Not Available",
}

func (s FinancialStatus) String() string {
	return lookup(financialStatusNames, s, func() string { return unknownCode(byte(s)) })
}

// IssueClassification is the security class of an instrument.
type IssueClassification byte

var issueClassificationNames = map[IssueClassification]string{
	'A': "American Depositary Share",
	'B': "Bond",
	'C': "Common Stock",
	'F': "Depository Receipt",
	'I': "144A",
	'L': "Limited Partnership",
	'N': "Notes",
	'O': "Ordinary Share",
	'P': "Preferred Stock",
	'Q': "Other Securities",
	'R': "Right",
	'S': "Shares of Beneficial Interest",
	'T': "Convertible Debenture",
	'U': "Unit",
	'V': "Units/Beneficial Interest",
	'W': "Warrant",
}

func (c IssueClassification) String() string {
	return lookup(issueClassificationNames, c, func() string { return unknownCode(byte(c)) })
}

// IssueSubType is a two-character code, space padded.
type IssueSubType [2]byte

var issueSubTypeNames = map[IssueSubType]string{
	{'A', ' '}: "Preferred Trust Securities",
	{'A', 'I'}: "Alpha Index ETNs",
	{'B', ' '}: "Index Based Derivative",
	{'C', ' '}: "Common Shares",
	{'C', 'B'}: "Commodity Based Trust Shares",
	{'C', 'F'}: "Commodity Futures Trust Shares",
	{'C', 'L'}: "Commodity-Linked Securities",
	{'C', 'M'}: "Commodity Index Trust Shares",
	{'C', 'O'}: "Collateralized Mortgage Obligation",
	{'C', 'T'}: "Currency Trust Shares",
	{'C', 'U'}: "Commodity-Currency-Linked Securities",
	{'C', 'W'}: "Currency Warrants",
	{'D', ' '}: "Global Depositary Shares",
	{'E', ' '}: "ETF-Portfolio Depositary Receipt",
	{'E', 'G'}: "Equity Gold Shares",
	{'E', 'I'}: "ETN-Equity Index-Linked Securities",
	{'E', 'M'}: "NextShares Exchange Traded Managed Fund",
	{'E', 'N'}: "Exchange Traded Notes",
	{'E', 'U'}: "Equity Units",
	{'F', ' '}: "HOLDRS",
	{'F', 'I'}: "ETN-Fixed Income-Linked Securities",
	{'F', 'L'}: "ETN-Futures-Linked Securities",
	{'G', ' '}: "Global Shares",
	{'I', ' '}: "ETF-Index Fund Shares",
	{'I', 'R'}: "Interest Rate",
	{'I', 'W'}: "Index Warrant",
	{'I', 'X'}: "Index-Linked Exchangeable Notes",
	{'J', ' '}: "Corporate Backed Trust Security",
	{'L', ' '}: "Contingent Litigation Right",
	{'L', 'L'}: "Identifies securities of companies that are set up as a Limited Liability Company (LLC)",
	{'M', ' '}: "Equity-Based Derivative",
	{'M', 'F'}: "Managed Fund Shares",
	{'M', 'L'}: "ETN-Multi-Factor Index-Linked Securities",
	{'M', 'T'}: "Managed Trust Securities",
	{'N', ' '}: "NY Registry Shares",
	{'O', ' '}: "Open Ended Mutual Fund",
	{'P', ' '}: "Privately Held Security",
	{'P', 'P'}: "Poison Pill",
	{'P', 'U'}: "Partnership Units",
	{'Q', ' '}: "Closed-End Funds",
	{'R', ' '}: "Reg-S",
	{'R', 'C'}: "Commodity-Redeemable Commodity-Linked Securities",
	{'R', 'F'}: "ETN-Redeemable Futures-Linked Securities",
	{'R', 'T'}: "REIT",
	{'R', 'U'}: "Commodity-Redeemable Currency-Linked Securities",
	{'S', ' '}: "SEED",
	{'S', 'C'}: "Spot Rate Closing",
	{'S', 'I'}: "Spot Rate Intraday",
	{'T', ' '}: "Tracking Stock",
	{'T', 'C'}: "Trust Certificates",
	{'T', 'U'}: "Trust Units",
	{'U', ' '}: "Portal",
	{'V', ' '}: "Contingent Value Right",
	{'W', ' '}: "Trust Issued Receipts",
	{'W', 'C'}: "World Currency Option",
	{'X', ' '}: "Trust",
	{'Y', ' '}: "Other",
	{'Z', ' '}: "Not Applicable",
}

// Code returns the raw two characters.
func (t IssueSubType) Code() string { return string(t[:]) }

func (t IssueSubType) String() string {
	return lookup(issueSubTypeNames, t, func() string { return fmt.Sprintf("Unknown(%q)", t.Code()) })
}

// Authenticity tells live production symbols from test symbols.
type Authenticity byte

const (
	AuthenticityProduction Authenticity = 'P'
	AuthenticityTest       Authenticity = 'T'
)

func (a Authenticity) String() string {
	switch a {
	case AuthenticityProduction:
		return "Live/Production"
	case AuthenticityTest:
		return "Test"
	}
	return unknownCode(byte(a))
}

// LULDRefPriceTier is the limit up/limit down band tier.
type LULDRefPriceTier byte

const (
	LULDTier1            LULDRefPriceTier = '1'
	LULDTier2            LULDRefPriceTier = '2'
	LULDTierNotAvailable LULDRefPriceTier = ' '
)

func (t LULDRefPriceTier) String() string {
	switch t {
	case LULDTier1:
		return "Tier 1 NMS Stocks and select ETPs"
	case LULDTier2:
		return "Tier 2 NMS Stocks"
	case LULDTierNotAvailable:
		return "Not Available"
	}
	return unknownCode(byte(t))
}

// TradingState is the current trading status of an instrument.
type TradingState byte

const (
	TradingHalted        TradingState = 'H'
	TradingPaused        TradingState = 'P'
	TradingQuotationOnly TradingState = 'Q'
	TradingOnNasdaq      TradingState = 'T'
)

var tradingStateNames = map[TradingState]string{
	TradingHalted:        "Halted across all U.S. equity markets / SROs",
	TradingPaused:        "Paused across all U.S. equity markets / SROs",
	TradingQuotationOnly: "Quotation only period for cross-SRO halt or pause",
	TradingOnNasdaq:      "Trading on Nasdaq",
}

func (s TradingState) String() string {
	return lookup(tradingStateNames, s, func() string { return unknownCode(byte(s)) })
}

// TradingActionReason is a four-character code, space padded.
type TradingActionReason [4]byte

var tradingActionReasonNames = map[TradingActionReason]string{
	{'T', '1', ' ', ' '}: "Halt News Pending",
	{'T', '2', ' ', ' '}: "Halt News Disseminated",
	{'T', '5', ' ', ' '}: "Single Security Trading Pause In Effect",
	{'T', '6', ' ', ' '}: "Regulatory Halt - Extraordinary Market Activity",
	{'T', '8', ' ', ' '}: "Halt ETF",
	{'T', '1', '2', ' '}: "Trading Halted; For information requested by listing market",
	{'H', '4', ' ', ' '}: "Halt Non-Compliance",
	{'H', '9', ' ', ' '}: "Halt Filings Not Current",
	{'H', '1', '0', ' '}: "Halt SEC Trading Suspension",
	{'H', '1', '1', ' '}: "Halt Regulatory Concern",
	{'O', '1', ' ', ' '}: "Operations Halt; Contact Market Operations",
	{'L', 'U', 'D', 'P'}: "Volatility Trading Pause",
	{'L', 'U', 'D', 'S'}: "Volatility Trading Pause - Straddle Condition",
	{'M', 'W', 'C', '1'}: "Market Wide Circuit Breaker Halt - Level 1",
	{'M', 'W', 'C', '2'}: "Market Wide Circuit Breaker Halt - Level 2",
	{'M', 'W', 'C', '3'}: "Market Wide Circuit Breaker Halt - Level 3",
	{'M', 'W', 'C', '0'}: "Market Wide Circuit Breaker Halt - Carry over from previous day",
	{'I', 'P', 'O', '1'}: "IPO Issue Not Yet Trading",
	{'M', '1', ' ', ' '}: "Corporate Action",
	{'M', '2', ' ', ' '}: "Quotation Not Available",
	{'T', '3', ' ', ' '}: "News and Resumption Times",
	{'T', '7', ' ', ' '}: "Single Security Trading Pause / Quotation Only Period",
	{'R', '4', ' ', ' '}: "Qualifications Issues Reviewed / Resolved; Quotations/Trading to resume",
	{'R', '9', ' ', ' '}: "Filing Requirements Satisfied / Resolved; Quotations/Trading to resume",
	{'C', '3', ' ', ' '}: "Issuer News Not Forthcoming; Quotations/Trading to resume",
	{'C', '4', ' ', ' '}: "Qualifications Halt Ended; maintenance requirements met; resume",
	{'C', '9', ' ', ' '}: "Qualifications Halt Concluded; filings met; Quotes/Trades to resume",
	{'C', '1', '1', ' '}: "Trade Halt Concluded By Other Regulatory Authority; Quotes/Trades resume",
	{'M', 'W', 'C', 'Q'}: "Market Wide Circuit Breaker Resumption",
	{'R', '1', ' ', ' '}: "New Issue Available",
	{'R', '2', ' ', ' '}: "Issue Available",
	{'I', 'P', 'O', 'Q'}: "IPO security released for quotation",
	{'I', 'P', 'O', 'E'}: "IPO security - positioning window extension",
	{' ', ' ', ' ', ' '}: "Reason Not Available",
}

// Code returns the raw four characters.
func (r TradingActionReason) Code() string { return string(r[:]) }

func (r TradingActionReason) String() string {
	return lookup(tradingActionReasonNames, r, func() string { return fmt.Sprintf("Unknown(%q)", r.Code()) })
}

// RegSHOAction is the short sale price test state.
type RegSHOAction byte

const (
	RegSHONoPriceTest        RegSHOAction = '0'
	RegSHORestrictionInForce RegSHOAction = '1'
	RegSHORestrictionRemains RegSHOAction = '2'
)

func (a RegSHOAction) String() string {
	switch a {
	case RegSHONoPriceTest:
		return "No price test in place"
	case RegSHORestrictionInForce:
		return "Reg SHO Short Sale Price Test Restriction in effect due to an intra-day price drop in security"
	case RegSHORestrictionRemains:
		return "Reg SHO Short Sale Price Test Restriction remains in effect"
	}
	return unknownCode(byte(a))
}

// MarketMakerMode is the quoting obligation of a market maker.
type MarketMakerMode byte

const (
	MarketMakerNormal       MarketMakerMode = 'N'
	MarketMakerPassive      MarketMakerMode = 'P'
	MarketMakerSyndicate    MarketMakerMode = 'S'
	MarketMakerPreSyndicate MarketMakerMode = 'R'
	MarketMakerPenalty      MarketMakerMode = 'L'
)

var marketMakerModeNames = map[MarketMakerMode]string{
	MarketMakerNormal:       "Normal",
	MarketMakerPassive:      "Passive",
	MarketMakerSyndicate:    "Syndicate",
	MarketMakerPreSyndicate: "Pre-syndicate",
	MarketMakerPenalty:      "Penalty",
}

func (m MarketMakerMode) String() string {
	return lookup(marketMakerModeNames, m, func() string { return unknownCode(byte(m)) })
}

// MarketParticipantState is the registration state of a participant.
type MarketParticipantState byte

const (
	ParticipantActive    MarketParticipantState = 'A'
	ParticipantExcused   MarketParticipantState = 'E'
	ParticipantWithdrawn MarketParticipantState = 'W'
	ParticipantSuspended MarketParticipantState = 'S'
	ParticipantDeleted   MarketParticipantState = 'D'
)

var marketParticipantStateNames = map[MarketParticipantState]string{
	ParticipantActive:    "Active",
	ParticipantExcused:   "Excused/Withdrawn",
	ParticipantWithdrawn: "Withdrawn",
	ParticipantSuspended: "Suspended",
	ParticipantDeleted:   "Deleted",
}

func (s MarketParticipantState) String() string {
	return lookup(marketParticipantStateNames, s, func() string { return unknownCode(byte(s)) })
}

// MWCBLevel is a market-wide circuit breaker level.
type MWCBLevel byte

func (l MWCBLevel) String() string {
	switch l {
	case '1', '2', '3':
		return "Level " + string(rune(l))
	}
	return unknownCode(byte(l))
}

// IPOReleaseQualifier qualifies an IPO quotation release time.
type IPOReleaseQualifier byte

const (
	IPOAnticipatedRelease IPOReleaseQualifier = 'A'
	IPOCanceled           IPOReleaseQualifier = 'C'
)

func (q IPOReleaseQualifier) String() string {
	switch q {
	case IPOAnticipatedRelease:
		return "Anticipated Quotation Release Time"
	case IPOCanceled:
		return "IPO Release Canceled/Postponed"
	}
	return unknownCode(byte(q))
}

// MarketCode names the market an operational halt applies to.
type MarketCode byte

const (
	MarketCodeNasdaq MarketCode = 'Q'
	MarketCodeBX     MarketCode = 'B'
	MarketCodePSX    MarketCode = 'X'
)

func (m MarketCode) String() string {
	switch m {
	case MarketCodeNasdaq:
		return "Nasdaq"
	case MarketCodeBX:
		return "BX"
	case MarketCodePSX:
		return "PSX"
	}
	return unknownCode(byte(m))
}

// HaltAction tells a halt from its resumption.
type HaltAction byte

const (
	HaltActionHalted HaltAction = 'H'
	HaltActionLifted HaltAction = 'T'
)

func (a HaltAction) String() string {
	switch a {
	case HaltActionHalted:
		return "Operationally Halted on the identified Market"
	case HaltActionLifted:
		return "Operational Halt has been lifted and Trading resumed"
	}
	return unknownCode(byte(a))
}

// PrintableFlag tells whether an execution appears on time and sales.
type PrintableFlag byte

const (
	NonPrintable PrintableFlag = 'N'
	Printable    PrintableFlag = 'Y'
)

func (p PrintableFlag) String() string {
	switch p {
	case NonPrintable:
		return "Non-Printable"
	case Printable:
		return "Printable"
	}
	return unknownCode(byte(p))
}

// CrossType covers both the Cross Trade and NOII domains; 'A' only
// appears in NOII.
type CrossType byte

const (
	CrossOpening              CrossType = 'O'
	CrossClosing              CrossType = 'C'
	CrossHalted               CrossType = 'H'
	CrossExtendedTradingClose CrossType = 'A'
)

var crossTypeNames = map[CrossType]string{
	CrossOpening:              "Nasdaq Opening Cross",
	CrossClosing:              "Nasdaq Closing Cross",
	CrossHalted:               "Cross for IPO and halted / paused securities",
	CrossExtendedTradingClose: "Extended Trading Close",
}

func (c CrossType) String() string {
	return lookup(crossTypeNames, c, func() string { return unknownCode(byte(c)) })
}

// ImbalanceDirection is the side of a cross imbalance.
type ImbalanceDirection byte

const (
	ImbalanceBuy          ImbalanceDirection = 'B'
	ImbalanceSell         ImbalanceDirection = 'S'
	ImbalanceNone         ImbalanceDirection = 'N'
	ImbalanceInsufficient ImbalanceDirection = 'O'
	ImbalancePaused       ImbalanceDirection = 'P'
)

var imbalanceDirectionNames = map[ImbalanceDirection]string{
	ImbalanceBuy:          "Buy imbalance",
	ImbalanceSell:         "Sell imbalance",
	ImbalanceNone:         "No imbalance",
	ImbalanceInsufficient: "Insufficient orders to calculate",
	ImbalancePaused:       "Paused",
}

func (d ImbalanceDirection) String() string {
	return lookup(imbalanceDirectionNames, d, func() string { return unknownCode(byte(d)) })
}

// PriceVariation buckets the distance from the near indicative price.
type PriceVariation byte

var priceVariationNames = map[PriceVariation]string{
	'L': "Less than 1%",
	'1': "1 to 1.99%",
	'2': "2 to 2.99%",
	'3': "3 to 3.99%",
	'4': "4 to 4.99%",
	'5': "5 to 5.99%",
	'6': "6 to 6.99%",
	'7': "7 to 7.99%",
	'8': "8 to 8.99%",
	'9': "9 to 9.99%",
	'A': "10 to 19.99%",
	'B': "20 to 29.99%",
	'C': "30% or greater",
	' ': "Cannot be calculated",
}

func (v PriceVariation) String() string {
	return lookup(priceVariationNames, v, func() string { return unknownCode(byte(v)) })
}

// InterestFlag is the side of retail price improvement interest.
type InterestFlag byte

const (
	RPIBuySide   InterestFlag = 'B'
	RPISellSide  InterestFlag = 'S'
	RPIBothSides InterestFlag = 'A'
	RPINone      InterestFlag = 'N'
)

var interestFlagNames = map[InterestFlag]string{
	RPIBuySide:   "RPI orders available on the buy side",
	RPISellSide:  "RPI orders available on the sell side",
	RPIBothSides: "RPI orders available on both sides (buy and sell)",
	RPINone:      "No RPI orders available",
}

func (f InterestFlag) String() string {
	return lookup(interestFlagNames, f, func() string { return unknownCode(byte(f)) })
}
