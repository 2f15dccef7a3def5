package sim

import (
	"context"

	"github.com/tic-motion/tic-go/pkg/transport"
)

// Handle is a binding to a simulated device from one plug-in period.
type Handle struct {
	dev        *Device
	generation int
	closed     bool
}

// Info returns the device identity.
func (h *Handle) Info() transport.Info {
	return h.dev.Info()
}

// Transfer performs one simulated control transfer.
func (h *Handle) Transfer(ctx context.Context, req transport.Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.dev.mu.Lock()
	defer h.dev.mu.Unlock()
	return h.dev.transfer(h, req)
}

// Close releases the handle.
func (h *Handle) Close() error {
	h.dev.mu.Lock()
	defer h.dev.mu.Unlock()
	h.closed = true
	return nil
}

// Closed reports whether Close was called.
func (h *Handle) Closed() bool {
	h.dev.mu.Lock()
	defer h.dev.mu.Unlock()
	return h.closed
}

var _ transport.Handle = (*Handle)(nil)
