// Package message defines the envelope exchanged between the client
// session and the control-request middleware chain: a layer-neutral
// value the middleware can log, time out, or rate-limit without
// knowing about wire framing. protocol.EncodeControl/Decode translate
// to and from the wire form at the edges (session send / transport
// receive).
package message

import "netsdr-client/protocol"

// ControlRequest is one outstanding control exchange: a type/item-code
// pair plus parameters, not yet serialized to wire bytes.
type ControlRequest struct {
	Type   protocol.MessageType
	Item   protocol.ItemCode
	Params []byte
}

// ControlResponse is the result of a control exchange: either the
// decoded reply frame, or an error (transport failure, timeout, or a
// cancellation from Disconnect).
type ControlResponse struct {
	Frame *protocol.Frame
	Err   error
}
