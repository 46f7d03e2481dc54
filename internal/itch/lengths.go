package itch

const (
	// LengthPrefixSize is the size of the big-endian length that precedes every message.
	LengthPrefixSize = 2

	// HeaderSize covers the length prefix and the message type byte.
	HeaderSize = LengthPrefixSize + 1
)

// lengthTable maps a message type byte to the value its length prefix must
// carry: the type byte plus the payload, excluding the prefix itself.
// Zero marks an unknown type.
var lengthTable = [256]uint16{
	MsgSystemEvent:               12,
	MsgStockDirectory:            39,
	MsgStockTradingAction:        25,
	MsgRegSHORestriction:         20,
	MsgMarketParticipantPosition: 26,
	MsgMWCBDeclineLevel:          35,
	MsgMWCBStatus:                12,
	MsgIPOQuotingPeriodUpdate:    28,
	MsgLULDAuctionCollar:         35,
	MsgOperationalHalt:           21,
	MsgAddOrder:                  36,
	MsgAddOrderMPID:              40,
	MsgOrderExecuted:             31,
	MsgOrderExecutedWithPrice:    36,
	MsgOrderCancel:               23,
	MsgOrderDelete:               19,
	MsgOrderReplace:              35,
	MsgNonCrossTrade:             44,
	MsgCrossTrade:                40,
	MsgBrokenTrade:               19,
	MsgNOII:                      50,
	MsgRPII:                      20,
	MsgDLCRPriceDiscovery:        48,
}

// MessageLength returns the canonical length prefix for t. ok is false for
// bytes that are not ITCH 5.0 message types.
func MessageLength(t MessageType) (length uint16, ok bool) {
	length = lengthTable[t]
	return length, length != 0
}

// PayloadLength returns the number of bytes that follow the type byte.
func PayloadLength(t MessageType) (int, bool) {
	length, ok := MessageLength(t)
	if !ok {
		return 0, false
	}
	return int(length) - 1, true
}
