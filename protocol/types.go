// Package protocol implements the NetSDR wire frame: a packed 16-bit
// length/type header plus an optional item-code or sequence-number
// sub-header, followed by a body of parameter or sample bytes.
//
// Frame format:
//
//	0                15 16            31
//	┌──────────────────┬─────────────────┬──────────────┐
//	│ len(13) │ type(3) │ sub-header (0/2)│ body ...     │
//	└──────────────────┴─────────────────┴──────────────┘
//
// The header word is little-endian: the low 13 bits carry the total
// frame length (including the header itself); the top 3 bits carry
// the message type. Control frames (types 0-3) and DataItem0 frames
// carry a 16-bit item code after the header; DataItem1 frames carry a
// 16-bit sequence number instead; DataItem2/3 frames have no
// sub-header at all.
package protocol

import "fmt"

// MessageType is the 3-bit frame type carried in the header's top bits.
// Numeric values match their position in the NetSDR specification.
type MessageType byte

const (
	SetControlItem     MessageType = 0
	CurrentControlItem MessageType = 1
	ControlItemRange   MessageType = 2
	Ack                MessageType = 3
	DataItem0          MessageType = 4
	DataItem1          MessageType = 5
	DataItem2          MessageType = 6
	DataItem3          MessageType = 7
)

func (t MessageType) String() string {
	switch t {
	case SetControlItem:
		return "SetControlItem"
	case CurrentControlItem:
		return "CurrentControlItem"
	case ControlItemRange:
		return "ControlItemRange"
	case Ack:
		return "Ack"
	case DataItem0:
		return "DataItem0"
	case DataItem1:
		return "DataItem1"
	case DataItem2:
		return "DataItem2"
	case DataItem3:
		return "DataItem3"
	default:
		return fmt.Sprintf("MessageType(%d)", byte(t))
	}
}

// IsControl reports whether t is one of the four control message types
// (SetControlItem, CurrentControlItem, ControlItemRange, Ack).
func (t MessageType) IsControl() bool {
	return t <= Ack
}

// IsData reports whether t is one of the four data message types.
func (t MessageType) IsData() bool {
	return t >= DataItem0
}

// ItemCode identifies a receiver control parameter. This is a closed
// set: any other 16-bit value encountered on the wire is a decode
// failure (UnknownItemCode).
type ItemCode uint16

const (
	None                    ItemCode = 0x0000
	IQOutputDataSampleRate  ItemCode = 0x00B8
	RFFilter                ItemCode = 0x0044
	ADModes                 ItemCode = 0x008A
	ReceiverState           ItemCode = 0x0018
	ReceiverFrequency       ItemCode = 0x0020
)

func (c ItemCode) String() string {
	switch c {
	case None:
		return "None"
	case IQOutputDataSampleRate:
		return "IQOutputDataSampleRate"
	case RFFilter:
		return "RFFilter"
	case ADModes:
		return "ADModes"
	case ReceiverState:
		return "ReceiverState"
	case ReceiverFrequency:
		return "ReceiverFrequency"
	default:
		return fmt.Sprintf("ItemCode(0x%04X)", uint16(c))
	}
}

// Known reports whether c is a member of the closed item-code set.
func (c ItemCode) Known() bool {
	switch c {
	case None, IQOutputDataSampleRate, RFFilter, ADModes, ReceiverState, ReceiverFrequency:
		return true
	default:
		return false
	}
}

const (
	// headerSize is the length, in bytes, of the 16-bit length/type word.
	headerSize = 2
	// subHeaderSize is the length, in bytes, of an item-code or
	// sequence-number sub-header.
	subHeaderSize = 2

	// MaxControlLength is the largest length a control or DataItem0/1
	// frame can declare in its 13-bit length field.
	MaxControlLength = 0x1FFF // 8191

	// MaxDataFrameLength is the fixed size a data frame takes when its
	// header length field is the zero escape.
	MaxDataFrameLength = 8194
)

// Frame is the decoded form of a NetSDR wire message, modeled as a
// tagged variant: Kind discriminates which fields are meaningful, so
// callers never deal with unused sentinel fields for a frame shape
// that doesn't carry them.
type Frame struct {
	Kind FrameKind
	Type MessageType

	// Item is meaningful only when Kind is FrameControl or FrameDataItem.
	Item ItemCode
	// Seq is meaningful only when Kind is FrameDataSeq.
	Seq uint16

	// Body is the frame payload: control parameters for control frames,
	// sample bytes for data frames.
	Body []byte
}

// FrameKind discriminates the shape of a decoded Frame.
type FrameKind int

const (
	// FrameControl frames carry an item code and control parameters.
	// Type is one of SetControlItem, CurrentControlItem,
	// ControlItemRange, Ack.
	FrameControl FrameKind = iota
	// FrameDataItem frames (DataItem0) carry an item code and a sample body.
	FrameDataItem
	// FrameDataSeq frames (DataItem1) carry a sequence number and a sample body.
	FrameDataSeq
	// FrameDataBare frames (DataItem2/3) carry only a sample body.
	FrameDataBare
)
