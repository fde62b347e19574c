package protocol

import (
	"encoding/binary"
	"fmt"
)

// EncodeControl builds a control frame: header ‖ item-code ‖ params.
// typ must be one of SetControlItem, CurrentControlItem,
// ControlItemRange, Ack. Fails if the resulting frame would exceed
// MaxControlLength (8191) bytes.
func EncodeControl(typ MessageType, item ItemCode, params []byte) ([]byte, error) {
	if !typ.IsControl() {
		return nil, &InvalidMessageTypeError{Type: typ, Want: "control"}
	}
	total := headerSize + subHeaderSize + len(params)
	if total > MaxControlLength {
		return nil, &EncodeTooLongError{Type: typ, Length: total, Max: MaxControlLength}
	}

	buf := make([]byte, total)
	putHeader(buf, typ, total)
	binary.LittleEndian.PutUint16(buf[headerSize:headerSize+subHeaderSize], uint16(item))
	copy(buf[headerSize+subHeaderSize:], params)
	return buf, nil
}

// EncodeData builds a data frame: header ‖ params, for DataItem0..3.
// Unlike control frames, DataItem0/1 carry their item code or sequence
// number as part of params (the caller is responsible for laying out
// the sub-header bytes, since the sub-header's meaning differs by
// type and this function is type-agnostic about body contents).
// Total length must be <= 8191, or exactly 8194, which is encoded
// with the header's length field set to the zero escape; totals of
// 8192 and 8193 do not fit the 13-bit length field and are rejected.
func EncodeData(typ MessageType, params []byte) ([]byte, error) {
	if !typ.IsData() {
		return nil, &InvalidMessageTypeError{Type: typ, Want: "data"}
	}
	total := headerSize + len(params)
	if total > MaxDataFrameLength {
		return nil, &EncodeTooLongError{Type: typ, Length: total, Max: MaxDataFrameLength}
	}
	if total > MaxControlLength && total != MaxDataFrameLength {
		return nil, &EncodeTooLongError{Type: typ, Length: total, Max: MaxControlLength}
	}

	buf := make([]byte, total)
	putHeader(buf, typ, total)
	copy(buf[headerSize:], params)
	return buf, nil
}

// putHeader packs the little-endian 16-bit header word: low 13 bits
// are length, top 3 bits are type. For data types, a total length of
// exactly MaxDataFrameLength is encoded as the zero-length escape.
func putHeader(buf []byte, typ MessageType, total int) {
	l := total
	if typ.IsData() && l == MaxDataFrameLength {
		l = 0
	}
	word := uint16(l) | uint16(typ)<<13
	binary.LittleEndian.PutUint16(buf[0:headerSize], word)
}

// Decode parses one complete framed buffer — one datagram, or one
// length-delimited slice of a control stream — into a Frame.
func Decode(buf []byte) (*Frame, error) {
	if len(buf) < headerSize {
		return nil, &DecodeError{Kind: Empty}
	}

	word := binary.LittleEndian.Uint16(buf[0:headerSize])
	typ := MessageType(word >> 13)
	declared := int(word & MaxControlLength)
	if typ.IsData() && declared == 0 {
		declared = MaxDataFrameLength
	}
	if declared != len(buf) {
		return nil, &DecodeError{
			Kind:   LengthMismatch,
			Detail: fmt.Sprintf("declared %d bytes, buffer has %d", declared, len(buf)),
		}
	}

	switch {
	case typ.IsControl():
		return decodeWithItemCode(typ, FrameControl, buf)
	case typ == DataItem0:
		return decodeWithItemCode(typ, FrameDataItem, buf)
	case typ == DataItem1:
		return decodeWithSeq(typ, buf)
	default: // DataItem2, DataItem3
		if len(buf) < headerSize {
			return nil, &DecodeError{Kind: Truncated}
		}
		return &Frame{Kind: FrameDataBare, Type: typ, Body: buf[headerSize:]}, nil
	}
}

func decodeWithItemCode(typ MessageType, kind FrameKind, buf []byte) (*Frame, error) {
	if len(buf) < headerSize+subHeaderSize {
		return nil, &DecodeError{Kind: Truncated}
	}
	item := ItemCode(binary.LittleEndian.Uint16(buf[headerSize : headerSize+subHeaderSize]))
	if !item.Known() {
		return nil, &DecodeError{Kind: UnknownItemCode, Detail: item.String()}
	}
	return &Frame{Kind: kind, Type: typ, Item: item, Body: buf[headerSize+subHeaderSize:]}, nil
}

// PeekLength reads only the header word and reports the total frame
// length it declares (applying the data-frame zero-length escape),
// without validating or decoding the rest of the frame. It reports
// ok=false if buf is too short to contain a header yet. Used by a
// stream reassembler to find frame boundaries inside the unstructured
// byte chunks a Control transport delivers.
func PeekLength(buf []byte) (length int, ok bool) {
	if len(buf) < headerSize {
		return 0, false
	}
	word := binary.LittleEndian.Uint16(buf[0:headerSize])
	typ := MessageType(word >> 13)
	declared := int(word & MaxControlLength)
	if typ.IsData() && declared == 0 {
		declared = MaxDataFrameLength
	}
	return declared, true
}

func decodeWithSeq(typ MessageType, buf []byte) (*Frame, error) {
	if len(buf) < headerSize+subHeaderSize {
		return nil, &DecodeError{Kind: Truncated}
	}
	seq := binary.LittleEndian.Uint16(buf[headerSize : headerSize+subHeaderSize])
	return &Frame{Kind: FrameDataSeq, Type: typ, Seq: seq, Body: buf[headerSize+subHeaderSize:]}, nil
}

