// Package client implements the NetSDR session: a single-object state
// machine that owns a control transport and a data transport, drives
// the request/response control discipline, and forwards decoded data
// frames to a consumer.
//
// The control exchange follows the familiar register-before-send
// pattern of a multiplexed RPC client transport, narrowed to a single
// pending-response slot instead of a map keyed by sequence number: the
// NetSDR control channel allows at most one in-flight request at a
// time, so there is never more than one slot to track.
package client

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"netsdr-client/config"
	"netsdr-client/message"
	"netsdr-client/middleware"
	"netsdr-client/protocol"
	"netsdr-client/sample"
	"netsdr-client/transport"
)

// Session is a client for a single NetSDR-style receiver. It is bound
// to one control transport and one data transport at construction and
// is not reusable across transports; start a new Session for a new
// pair.
type Session struct {
	ctrl     transport.Control
	data     transport.Data
	consumer DataConsumer
	handler  middleware.HandlerFunc
	logger   *zap.SugaredLogger

	sampleWidth int
	dropLimiter *rate.Limiter

	mu      sync.Mutex
	state   State
	started bool // whether IQ streaming is on, tracked separately so Disconnect can leave it as-is
	pending chan *message.ControlResponse

	reasm reassembler
}

// New constructs a Session bound to ctrl and data. consumer may be nil
// if the caller only intends to drive control requests. cfg supplies
// the response timeout, default sample width, and control-request rate
// limit; logger may be nil, in which case a no-op logger is used.
func New(ctrl transport.Control, data transport.Data, consumer DataConsumer, cfg config.Config, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	width := cfg.SampleWidth
	if width == 0 {
		width = config.Default().SampleWidth
	}
	timeout := cfg.ResponseTimeout
	if timeout == 0 {
		timeout = config.Default().ResponseTimeout
	}

	s := &Session{
		ctrl:        ctrl,
		data:        data,
		consumer:    consumer,
		logger:      logger,
		sampleWidth: width,
		dropLimiter: rate.NewLimiter(rate.Limit(5), 10),
		state:       Disconnected,
	}

	chainMiddlewares := []middleware.Middleware{middleware.Logging(logger)}
	if cfg.RateLimitPerSecond > 0 {
		chainMiddlewares = append(chainMiddlewares, middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}
	chainMiddlewares = append(chainMiddlewares, middleware.Timeout(timeout))
	s.handler = middleware.Chain(chainMiddlewares...)(s.rawSend)

	ctrl.OnMessage(s.onControlMessage)
	ctrl.OnClose(s.onControlClose)
	data.OnDatagram(s.onDataFrame)

	return s
}

// State returns the session's current position in the connection state
// machine.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect opens the control transport and runs the standard handshake:
// three CurrentControlItem probes (ReceiverState, RFFilter, ADModes),
// each awaited before the next is sent. Idempotent: a no-op if the
// session is already Connecting or Connected.
//
// The exact handshake item codes and parameter payloads a real
// receiver expects beyond these three queries are deliberately not
// guessed; the choice made here — three parameterless
// CurrentControlItem queries — is recorded in DESIGN.md.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Disconnected {
		s.mu.Unlock()
		return nil
	}
	s.state = Connecting
	s.mu.Unlock()

	if err := s.ctrl.Connect(); err != nil {
		s.mu.Lock()
		s.state = Disconnected
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	for _, item := range [...]protocol.ItemCode{protocol.ReceiverState, protocol.RFFilter, protocol.ADModes} {
		resp := s.handler(ctx, &message.ControlRequest{Type: protocol.CurrentControlItem, Item: item})
		if resp.Err != nil {
			s.mu.Lock()
			s.state = Disconnected
			s.mu.Unlock()
			return resp.Err
		}
	}

	s.mu.Lock()
	s.state = ConnectedIQStopped
	s.mu.Unlock()
	return nil
}

// Disconnect closes the control transport. Always safe, always
// idempotent: calling it k times issues exactly k transport
// disconnects. Whether IQ streaming was on is left as-is — only an
// unsolicited transport close (onControlClose with cancelled=false)
// resets it.
func (s *Session) Disconnect() error {
	err := s.ctrl.Disconnect()

	s.mu.Lock()
	s.state = Disconnected
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	deliverCancelled(pending)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// StartIQ sends a ReceiverState=run request and, once acked, tells the
// data transport to begin listening. No-op if not connected or already
// started — no second send, no duplicate start-listening call.
func (s *Session) StartIQ(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case !s.state.connected():
		s.mu.Unlock()
		return nil
	case s.state == ConnectedIQStarted:
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	resp := s.handler(ctx, &message.ControlRequest{
		Type:   protocol.SetControlItem,
		Item:   protocol.ReceiverState,
		Params: receiverStateParams(receiverRun),
	})
	if resp.Err != nil {
		return resp.Err
	}

	if err := s.data.StartListening(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	s.mu.Lock()
	s.state = ConnectedIQStarted
	s.started = true
	s.mu.Unlock()
	return nil
}

// StopIQ always instructs the data transport to stop listening — even
// if IQ was never started, since a stop should always be safe to call
// — and, only if IQ had been started, sends a ReceiverState=idle
// request. No-op if not connected.
func (s *Session) StopIQ(ctx context.Context) error {
	s.mu.Lock()
	if !s.state.connected() {
		s.mu.Unlock()
		return nil
	}
	wasStarted := s.state == ConnectedIQStarted
	s.mu.Unlock()

	if err := s.data.StopListening(); err != nil {
		s.logger.Warnw("data transport stop-listening failed", "error", err)
	}

	var sendErr error
	if wasStarted {
		resp := s.handler(ctx, &message.ControlRequest{
			Type:   protocol.SetControlItem,
			Item:   protocol.ReceiverState,
			Params: receiverStateParams(receiverIdle),
		})
		sendErr = resp.Err
	}

	s.mu.Lock()
	s.started = false
	if s.state.connected() {
		s.state = ConnectedIQStopped
	}
	s.mu.Unlock()

	return sendErr
}

// ChangeFrequency sends a ReceiverFrequency SetControlItem request for
// the given channel. No-op if not connected.
func (s *Session) ChangeFrequency(ctx context.Context, hz int64, channel byte) error {
	s.mu.Lock()
	connected := s.state.connected()
	s.mu.Unlock()
	if !connected {
		return nil
	}

	resp := s.handler(ctx, &message.ControlRequest{
		Type:   protocol.SetControlItem,
		Item:   protocol.ReceiverFrequency,
		Params: frequencyParams(channel, hz),
	})
	return resp.Err
}

// rawSend is the innermost HandlerFunc the middleware chain wraps: it
// encodes the request, registers the single pending-response slot,
// writes to the control transport, and waits for either a reply or ctx
// to end. This is also where the pending slot is cleared on timeout or
// cancellation, so the session remains usable afterward.
func (s *Session) rawSend(ctx context.Context, req *message.ControlRequest) *message.ControlResponse {
	buf, err := protocol.EncodeControl(req.Type, req.Item, req.Params)
	if err != nil {
		return &message.ControlResponse{Err: err}
	}

	ch := make(chan *message.ControlResponse, 1)
	s.mu.Lock()
	s.pending = ch
	s.mu.Unlock()

	if err := s.ctrl.Send(buf); err != nil {
		s.clearPending(ch)
		return &message.ControlResponse{Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}

	select {
	case resp := <-ch:
		return resp
	case <-ctx.Done():
		s.clearPending(ch)
		return &message.ControlResponse{Err: ctx.Err()}
	}
}

// clearPending clears s.pending, but only if it's still the slot we
// registered — a concurrent Disconnect or incoming reply may already
// have claimed it.
func (s *Session) clearPending(ch chan *message.ControlResponse) {
	s.mu.Lock()
	if s.pending == ch {
		s.pending = nil
	}
	s.mu.Unlock()
}

func deliverCancelled(ch chan *message.ControlResponse) {
	if ch == nil {
		return
	}
	select {
	case ch <- &message.ControlResponse{Err: ErrCancelled}:
	default:
	}
}

// onControlMessage is registered with the control transport at
// construction. It reassembles the byte chunks the transport delivers
// into complete frames and dispatches each to the pending waiter, if
// any.
func (s *Session) onControlMessage(chunk []byte) {
	for _, raw := range s.reasm.feed(chunk) {
		frame, err := protocol.Decode(raw)
		if err != nil {
			s.logDecodeDrop(err)
			continue
		}
		s.deliverControlFrame(frame)
	}
}

func (s *Session) deliverControlFrame(frame *protocol.Frame) {
	s.mu.Lock()
	ch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if ch == nil {
		s.logger.Warnw("control frame arrived with no pending request", "type", frame.Type, "item", frame.Item)
		return
	}
	select {
	case ch <- &message.ControlResponse{Frame: frame}:
	default:
	}
}

// onControlClose is registered with the control transport at
// construction. A cancelled close (our own Disconnect) leaves whether
// IQ streaming was on untouched; an uncancelled close (a transport
// failure) resets it and logs the error.
func (s *Session) onControlClose(cancelled bool, err error) {
	s.mu.Lock()
	s.state = Disconnected
	if !cancelled {
		s.started = false
		s.logger.Errorw("control transport closed", "error", err)
	}
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending == nil {
		return
	}
	respErr := ErrCancelled
	if !cancelled {
		respErr = fmt.Errorf("%w: %v", ErrTransport, err)
	}
	select {
	case pending <- &message.ControlResponse{Err: respErr}:
	default:
	}
}

// onDataFrame is registered with the data transport at construction.
// It decodes the datagram and, for a data frame with a non-nil
// consumer, hands the consumer a lazy sample sequence over the body.
func (s *Session) onDataFrame(raw []byte) {
	frame, err := protocol.Decode(raw)
	if err != nil {
		s.logDecodeDrop(err)
		return
	}
	if frame.Kind == protocol.FrameControl {
		s.logger.Warnw("control-typed frame on data transport", "type", frame.Type)
		return
	}
	if s.consumer == nil {
		return
	}

	seq, err := sample.Samples(s.sampleWidth, frame.Body)
	if err != nil {
		s.logger.Warnw("cannot unpack samples", "width", s.sampleWidth, "error", err)
		return
	}
	s.consumer.OnSamples(DataFrame{Type: frame.Type, Item: frame.Item, Seq: frame.Seq}, seq)
}

// logDecodeDrop logs a malformed-frame drop at a rate capped by
// dropLimiter, so a noisy or adversarial stream of garbage datagrams
// can't flood the log.
func (s *Session) logDecodeDrop(err error) {
	if s.dropLimiter.Allow() {
		s.logger.Warnw("dropped malformed frame", "error", err)
	}
}
