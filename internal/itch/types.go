package itch

import "fmt"

// MessageType is the single ASCII byte that identifies a message's wire layout.
type MessageType byte

const (
	MsgSystemEvent               MessageType = 'S'
	MsgStockDirectory            MessageType = 'R'
	MsgStockTradingAction        MessageType = 'H'
	MsgRegSHORestriction         MessageType = 'Y'
	MsgMarketParticipantPosition MessageType = 'L'
	MsgMWCBDeclineLevel          MessageType = 'V'
	MsgMWCBStatus                MessageType = 'W'
	MsgIPOQuotingPeriodUpdate    MessageType = 'K'
	MsgLULDAuctionCollar         MessageType = 'J'
	MsgOperationalHalt           MessageType = 'h' // lowercase on the wire
	MsgAddOrder                  MessageType = 'A'
	MsgAddOrderMPID              MessageType = 'F'
	MsgOrderExecuted             MessageType = 'E'
	MsgOrderExecutedWithPrice    MessageType = 'C'
	MsgOrderCancel               MessageType = 'X'
	MsgOrderDelete               MessageType = 'D'
	MsgOrderReplace              MessageType = 'U'
	MsgNonCrossTrade             MessageType = 'P'
	MsgCrossTrade                MessageType = 'Q'
	MsgBrokenTrade               MessageType = 'B'
	MsgNOII                      MessageType = 'I'
	MsgRPII                      MessageType = 'N'
	MsgDLCRPriceDiscovery        MessageType = 'O'
)

// MessageTypes lists every known message type in protocol document order.
var MessageTypes = []MessageType{
	MsgSystemEvent,
	MsgStockDirectory,
	MsgStockTradingAction,
	MsgRegSHORestriction,
	MsgMarketParticipantPosition,
	MsgMWCBDeclineLevel,
	MsgMWCBStatus,
	MsgIPOQuotingPeriodUpdate,
	MsgLULDAuctionCollar,
	MsgOperationalHalt,
	MsgAddOrder,
	MsgAddOrderMPID,
	MsgOrderExecuted,
	MsgOrderExecutedWithPrice,
	MsgOrderCancel,
	MsgOrderDelete,
	MsgOrderReplace,
	MsgNonCrossTrade,
	MsgCrossTrade,
	MsgBrokenTrade,
	MsgNOII,
	MsgRPII,
	MsgDLCRPriceDiscovery,
}

var messageTypeNames = map[MessageType]string{
	MsgSystemEvent:               "System Event",
	MsgStockDirectory:            "Stock Directory",
	MsgStockTradingAction:        "Stock Trading Action",
	MsgRegSHORestriction:         "Reg SHO Restriction",
	MsgMarketParticipantPosition: "Market Participant Position",
	MsgMWCBDeclineLevel:          "MWCB Decline Level",
	MsgMWCBStatus:                "MWCB Status",
	MsgIPOQuotingPeriodUpdate:    "IPO Quoting Period Update",
	MsgLULDAuctionCollar:         "LULD Auction Collar",
	MsgOperationalHalt:           "Operational Halt",
	MsgAddOrder:                  "Add Order Without MPID Attribution",
	MsgAddOrderMPID:              "Add Order With MPID Attribution",
	MsgOrderExecuted:             "Execute Order",
	MsgOrderExecutedWithPrice:    "Execute Order With Price",
	MsgOrderCancel:               "Cancel Order",
	MsgOrderDelete:               "Delete Order",
	MsgOrderReplace:              "Replace Order",
	MsgNonCrossTrade:             "Non-Cross Trade",
	MsgCrossTrade:                "Cross Trade",
	MsgBrokenTrade:               "Broken Trade",
	MsgNOII:                      "Net Order Imbalance Indicator (NOII)",
	MsgRPII:                      "Retail Price Improvement Indicator (RPII)",
	MsgDLCRPriceDiscovery:        "DLCR Price Discovery",
}

// String returns the protocol name of the message type.
func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%q)", byte(t))
}

// Known reports whether t is one of the 23 ITCH 5.0 message types.
func (t MessageType) Known() bool {
	return lengthTable[t] != 0
}
