package client

import "errors"

// ErrTransport wraps any error reported by the control or data
// transport during a send or a transport open/close.
var ErrTransport = errors.New("netsdr: transport error")

// ErrCancelled is delivered to a pending control request's waiter when
// Disconnect cancels it.
var ErrCancelled = errors.New("netsdr: request cancelled by disconnect")
