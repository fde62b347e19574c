package client

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"
	"time"

	"netsdr-client/config"
	"netsdr-client/protocol"
)

func newTestSession(t *testing.T, ctrl *fakeControl, data *fakeData, consumer DataConsumer, cfg config.Config) *Session {
	t.Helper()
	if cfg.ResponseTimeout == 0 {
		cfg.ResponseTimeout = 2 * time.Second
	}
	return New(ctrl, data, consumer, cfg, nil)
}

func TestConnectRunsThreeProbeHandshake(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if sess.State() != ConnectedIQStopped {
		t.Fatalf("State() = %v, want ConnectedIQStopped", sess.State())
	}
	if got := ctrl.sentCount(); got != 3 {
		t.Fatalf("sentCount() = %d, want 3", got)
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("first Connect failed: %v", err)
	}
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect failed: %v", err)
	}
	if got := ctrl.sentCount(); got != 3 {
		t.Fatalf("sentCount() = %d after two Connects, want 3", got)
	}
}

func TestConnectTransportFailure(t *testing.T) {
	ctrl := newFakeControl()
	ctrl.connectErr = errors.New("dial refused")
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	err := sess.Connect(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if sess.State() != Disconnected {
		t.Fatalf("State() = %v, want Disconnected", sess.State())
	}
}

func TestStartIQThenStopIQ(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := sess.StartIQ(context.Background()); err != nil {
		t.Fatalf("StartIQ failed: %v", err)
	}
	if sess.State() != ConnectedIQStarted {
		t.Fatalf("State() = %v, want ConnectedIQStarted", sess.State())
	}
	if data.startCalls != 1 {
		t.Fatalf("data.startCalls = %d, want 1", data.startCalls)
	}
	if got := ctrl.sentCount(); got != 4 {
		t.Fatalf("sentCount() = %d, want 4 (3 handshake + 1 start)", got)
	}

	if err := sess.StopIQ(context.Background()); err != nil {
		t.Fatalf("StopIQ failed: %v", err)
	}
	if sess.State() != ConnectedIQStopped {
		t.Fatalf("State() = %v, want ConnectedIQStopped", sess.State())
	}
	if data.stopCalls != 1 {
		t.Fatalf("data.stopCalls = %d, want 1", data.stopCalls)
	}
	if got := ctrl.sentCount(); got != 5 {
		t.Fatalf("sentCount() = %d, want 5 (4 + 1 idle)", got)
	}
}

// TestStopIQWithoutStart checks that stopping IQ that was never
// started still stops the data transport, but sends no idle control
// request.
func TestStopIQWithoutStart(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := sess.StopIQ(context.Background()); err != nil {
		t.Fatalf("StopIQ failed: %v", err)
	}
	if data.stopCalls != 1 {
		t.Fatalf("data.stopCalls = %d, want 1", data.stopCalls)
	}
	if got := ctrl.sentCount(); got != 3 {
		t.Fatalf("sentCount() = %d, want 3 (handshake only, no idle request)", got)
	}
}

func TestStartStopNoOpWhenNotConnected(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.StartIQ(context.Background()); err != nil {
		t.Fatalf("StartIQ failed: %v", err)
	}
	if err := sess.StopIQ(context.Background()); err != nil {
		t.Fatalf("StopIQ failed: %v", err)
	}
	if data.startCalls != 0 || data.stopCalls != 0 {
		t.Fatalf("expected no-op, got startCalls=%d stopCalls=%d", data.startCalls, data.stopCalls)
	}
	if ctrl.sentCount() != 0 {
		t.Fatalf("sentCount() = %d, want 0", ctrl.sentCount())
	}
}

func TestChangeFrequencySendsExpectedParams(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := sess.ChangeFrequency(context.Background(), 14_070_000, 0); err != nil {
		t.Fatalf("ChangeFrequency failed: %v", err)
	}

	ctrl.mu.Lock()
	last := ctrl.sent[len(ctrl.sent)-1]
	ctrl.mu.Unlock()

	frame, err := protocol.Decode(last)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if frame.Item != protocol.ReceiverFrequency {
		t.Fatalf("Item = %v, want ReceiverFrequency", frame.Item)
	}
	want := frequencyParams(0, 14_070_000)
	if !slices.Equal(frame.Body, want) {
		t.Fatalf("Body = %v, want %v", frame.Body, want)
	}
}

// TestDisconnectIsAlwaysForwarded checks that calling Disconnect k
// times issues exactly k transport disconnects and leaves the session
// Disconnected.
func TestDisconnectIsAlwaysForwarded(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := sess.Disconnect(); err != nil {
			t.Fatalf("Disconnect() call %d failed: %v", i, err)
		}
	}
	if got := ctrl.disconnectCount(); got != 3 {
		t.Fatalf("disconnectCount() = %d, want 3", got)
	}
	if sess.State() != Disconnected {
		t.Fatalf("State() = %v, want Disconnected", sess.State())
	}
}

// TestDataFrameDeliversSamples checks that a bare data frame with a
// 24-bit body decodes to the expected single sample.
func TestDataFrameDeliversSamples(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}

	var got []int32
	consumer := DataConsumerFunc(func(frame DataFrame, samples iter.Seq[int32]) {
		for v := range samples {
			got = append(got, v)
		}
	})

	sess := newTestSession(t, ctrl, data, consumer, config.Config{SampleWidth: 24})
	_ = sess

	buf, err := protocol.EncodeData(protocol.DataItem2, []byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("EncodeData failed: %v", err)
	}
	data.deliver(buf)

	want := []int32{0x030201}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestDataFrameMalformedIsDropped ensures a garbage datagram is simply
// dropped: no panic, no consumer call.
func TestDataFrameMalformedIsDropped(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}

	called := false
	consumer := DataConsumerFunc(func(frame DataFrame, samples iter.Seq[int32]) {
		called = true
	})

	sess := newTestSession(t, ctrl, data, consumer, config.Config{})
	_ = sess

	data.deliver([]byte{0xFF})

	if called {
		t.Fatal("consumer should not be called for a malformed datagram")
	}
}

// TestTransportFailureResetsPendingAndState covers an unsolicited
// transport close: a caller mid-request gets a transport error instead
// of hanging, and the session forces itself back to Disconnected.
func TestTransportFailureResetsPendingAndState(t *testing.T) {
	ctrl := newFakeControl()
	data := &fakeData{}
	sess := newTestSession(t, ctrl, data, nil, config.Config{})

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	ctrl.setAutoAck(false)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sess.ChangeFrequency(context.Background(), 14_070_000, 0)
	}()

	time.Sleep(50 * time.Millisecond)
	ctrl.simulateClose(false, errors.New("connection reset"))

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected error after transport close, got nil")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ChangeFrequency to return")
	}

	if sess.State() != Disconnected {
		t.Fatalf("State() = %v, want Disconnected", sess.State())
	}
}
