// Package transport declares the two external collaborators a Session
// depends on: a reliable ordered control channel and an unreliable
// datagram data channel. The actual socket I/O is deliberately out of
// scope here — these are the seams a concrete TCP and UDP
// implementation (or a test fake) plugs into.
package transport

// Control is a reliable, ordered, bidirectional byte channel used for
// the request/response control exchange.
type Control interface {
	// Connect opens the channel. Connect on an already-open channel is
	// implementation-defined; Session calls it whenever Session.Connect
	// runs from the Disconnected state, without calling Disconnect
	// first, so after a failed handshake the channel may still be open.
	Connect() error
	// Disconnect closes the channel. Must be idempotent and safe to
	// call on a never-connected or already-disconnected channel.
	Disconnect() error
	// Connected reports whether the channel is currently open.
	Connected() bool
	// Send writes bytes to the channel. Fails if not connected.
	Send(b []byte) error
	// OnMessage registers the callback invoked once per received byte
	// chunk. Chunks are not guaranteed to align with frame boundaries:
	// a chunk may contain zero, one, or several framed messages, or a
	// partial one. Called at most once; Session registers its callback
	// at construction.
	OnMessage(func([]byte))
	// OnClose registers the callback invoked when the channel's receive
	// side shuts down. The cancelled flag distinguishes a clean shutdown,
	// such as one caused by Disconnect (no error to surface), from a
	// transport-level failure (logged). Either way the session
	// transitions to Disconnected.
	OnClose(func(cancelled bool, err error))
}

// Data is an unreliable datagram receiver used for the I/Q sample
// stream.
type Data interface {
	// StartListening begins delivering datagrams to the OnDatagram
	// callback. No-op if already listening.
	StartListening() error
	// StopListening and Exit are interchangeable and both idempotent:
	// either stops delivery and releases any listening resources.
	StopListening() error
	Exit() error
	// OnDatagram registers the callback invoked once per received
	// datagram. Called at most once; Session registers its callback at
	// construction.
	OnDatagram(func([]byte))
}
