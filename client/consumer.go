package client

import (
	"iter"

	"netsdr-client/protocol"
)

// DataFrame identifies which data frame a sample sequence came from.
// Only the field meaningful for the frame's Type is populated: Item
// for DataItem0, Seq for DataItem1; both are zero for DataItem2/3.
type DataFrame struct {
	Type protocol.MessageType
	Item protocol.ItemCode
	Seq  uint16
}

// DataConsumer receives unpacked I/Q samples as they arrive. A Session
// has exactly one registered consumer — there is no ambient observer
// list to manage.
type DataConsumer interface {
	// OnSamples is called once per successfully decoded data frame,
	// with a lazy, restartable sequence over that frame's body (see
	// package sample). It is called from whatever goroutine the Data
	// transport delivers datagrams on; implementations that need to
	// hand off to another goroutine must do their own buffering.
	OnSamples(frame DataFrame, samples iter.Seq[int32])
}

// DataConsumerFunc adapts a plain function to DataConsumer.
type DataConsumerFunc func(frame DataFrame, samples iter.Seq[int32])

func (f DataConsumerFunc) OnSamples(frame DataFrame, samples iter.Seq[int32]) {
	f(frame, samples)
}
