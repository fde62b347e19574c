package client

import (
	"sync"

	"netsdr-client/protocol"
)

// fakeControl is an in-memory transport.Control for exercising Session
// without real sockets. With autoAck enabled (the default) it echoes
// every sent control frame straight back through onMessage, simulating
// a receiver that answers every request immediately.
type fakeControl struct {
	mu sync.Mutex

	connected  bool
	sent       [][]byte
	connectErr error
	sendErr    error
	disconnect int

	autoAck bool

	onMsg   func([]byte)
	onClose func(cancelled bool, err error)
}

func newFakeControl() *fakeControl {
	return &fakeControl{autoAck: true}
}

func (f *fakeControl) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeControl) Disconnect() error {
	f.mu.Lock()
	f.disconnect++
	f.connected = false
	f.mu.Unlock()
	return nil
}

func (f *fakeControl) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeControl) Send(b []byte) error {
	f.mu.Lock()
	f.sent = append(f.sent, append([]byte(nil), b...))
	err := f.sendErr
	autoAck := f.autoAck
	onMsg := f.onMsg
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !autoAck || onMsg == nil {
		return nil
	}
	frame, decErr := protocol.Decode(b)
	if decErr != nil {
		return nil
	}
	reply, encErr := protocol.EncodeControl(frame.Type, frame.Item, nil)
	if encErr != nil {
		return nil
	}
	onMsg(reply)
	return nil
}

func (f *fakeControl) OnMessage(cb func([]byte)) {
	f.onMsg = cb
}

func (f *fakeControl) OnClose(cb func(cancelled bool, err error)) {
	f.onClose = cb
}

func (f *fakeControl) setAutoAck(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoAck = v
}

func (f *fakeControl) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeControl) disconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnect
}

func (f *fakeControl) simulateClose(cancelled bool, err error) {
	f.mu.Lock()
	cb := f.onClose
	f.mu.Unlock()
	if cb != nil {
		cb(cancelled, err)
	}
}

// fakeData is an in-memory transport.Data.
type fakeData struct {
	mu         sync.Mutex
	listening  bool
	startCalls int
	stopCalls  int
	startErr   error
	onDatagram func([]byte)
}

func (f *fakeData) StartListening() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return f.startErr
	}
	f.listening = true
	return nil
}

func (f *fakeData) StopListening() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.listening = false
	return nil
}

func (f *fakeData) Exit() error {
	return f.StopListening()
}

func (f *fakeData) OnDatagram(cb func([]byte)) {
	f.onDatagram = cb
}

func (f *fakeData) deliver(b []byte) {
	f.mu.Lock()
	cb := f.onDatagram
	f.mu.Unlock()
	if cb != nil {
		cb(b)
	}
}
