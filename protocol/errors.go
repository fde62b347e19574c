package protocol

import "fmt"

// DecodeErrorKind classifies why Decode rejected a buffer.
type DecodeErrorKind int

const (
	// Empty: buffer is nil or shorter than the 2-byte header.
	Empty DecodeErrorKind = iota
	// LengthMismatch: the header's declared length does not equal the
	// actual buffer length.
	LengthMismatch
	// UnknownItemCode: the frame carries an item code outside the closed
	// ItemCode set.
	UnknownItemCode
	// Truncated: the body is shorter than the sub-header its type requires.
	Truncated
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case LengthMismatch:
		return "LengthMismatch"
	case UnknownItemCode:
		return "UnknownItemCode"
	case Truncated:
		return "Truncated"
	default:
		return fmt.Sprintf("DecodeErrorKind(%d)", int(k))
	}
}

// DecodeError is returned by Decode for any malformed input. Decode
// failures are never fatal to a session: the frame is dropped and a
// log event emitted, and the caller continues.
type DecodeError struct {
	Kind DecodeErrorKind
	// Detail carries kind-specific context (e.g. the offending item
	// code, or the expected vs. actual length) for logging.
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return "protocol: decode: " + e.Kind.String()
	}
	return fmt.Sprintf("protocol: decode: %s: %s", e.Kind, e.Detail)
}

// EncodeTooLongError is returned by EncodeControl/EncodeData when the
// requested frame exceeds the length the header can express.
type EncodeTooLongError struct {
	Type   MessageType
	Length int
	Max    int
}

func (e *EncodeTooLongError) Error() string {
	return fmt.Sprintf("protocol: encode: %s frame of %d bytes exceeds maximum %d", e.Type, e.Length, e.Max)
}

// InvalidMessageTypeError is returned when EncodeControl is asked for a
// data type, or EncodeData for a control type: a programmer error, not
// a runtime condition.
type InvalidMessageTypeError struct {
	Type MessageType
	Want string
}

func (e *InvalidMessageTypeError) Error() string {
	return fmt.Sprintf("protocol: encode: %s is not a %s message type", e.Type, e.Want)
}
