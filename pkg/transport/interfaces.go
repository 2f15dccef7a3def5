package transport

import "context"

// Sender issues control transfers. Implemented by Handle and by the
// connection manager's tracing wrapper.
type Sender interface {
	// Transfer performs one synchronous control transfer.
	// For DirectionIn requests the returned slice holds the received bytes.
	// For DirectionOut requests the returned slice is nil.
	Transfer(ctx context.Context, req Request) ([]byte, error)
}

// Handle is an open binding to one physical controller.
// A handle becomes invalid the moment the device disappears; every transfer
// after that fails with an error wrapping ErrDisconnected.
type Handle interface {
	Sender

	// Info returns the descriptor data captured when the handle was opened.
	Info() Info

	// Close releases the binding. Close is safe to call more than once.
	Close() error
}

// Transport discovers controllers and opens handles to them.
type Transport interface {
	// Discover opens the first attached device matching filter.
	// It returns ErrNotFound when nothing matches.
	Discover(ctx context.Context, filter Filter) (Handle, error)
}
