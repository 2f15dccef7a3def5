// Package usb implements transport.Transport over libusb using gousb.
//
// libusb flattens the device tree, so devices behind nested hubs are found
// without walking hubs explicitly.
package usb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"

	"github.com/tic-motion/tic-go/pkg/transport"
)

// DefaultControlTimeout bounds a single control transfer.
const DefaultControlTimeout = time.Second

// Config configures the USB transport.
type Config struct {
	// ControlTimeout bounds each control transfer (default: 1s).
	ControlTimeout time.Duration

	// Debug sets the libusb debug level (0 disables).
	Debug int
}

// Transport discovers controllers on the local USB buses.
type Transport struct {
	mu      sync.Mutex
	ctx     *gousb.Context
	timeout time.Duration
	closed  bool
}

// New creates a USB transport. Call Close to release the libusb context.
func New(cfg Config) *Transport {
	if cfg.ControlTimeout <= 0 {
		cfg.ControlTimeout = DefaultControlTimeout
	}

	ctx := gousb.NewContext()
	if cfg.Debug > 0 {
		ctx.Debug(cfg.Debug)
	}

	return &Transport{
		ctx:     ctx,
		timeout: cfg.ControlTimeout,
	}
}

// Close releases the libusb context. Handles opened from this transport
// must be closed first.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.ctx.Close()
}

// Discover opens the first device matching filter.
func (t *Transport) Discover(ctx context.Context, filter transport.Filter) (transport.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, transport.ErrClosed
	}

	devs, err := t.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return filter.MatchesDescriptor(uint16(desc.Vendor), uint16(desc.Product))
	})
	// OpenDevices may return opened devices alongside an error for the ones
	// it could not open; those are still usable.
	if err != nil && len(devs) == 0 {
		return nil, fmt.Errorf("usb: enumerate: %w", err)
	}

	var found *Handle
	for _, dev := range devs {
		if found != nil {
			dev.Close()
			continue
		}

		info := transport.Info{
			VendorID:  uint16(dev.Desc.Vendor),
			ProductID: uint16(dev.Desc.Product),
			Path:      formatPath(dev.Desc),
		}
		serial, serr := dev.SerialNumber()
		if serr == nil {
			info.Serial = serial
		} else if filter.Serial != "" {
			dev.Close()
			continue
		}

		if !filter.Matches(info) {
			dev.Close()
			continue
		}

		dev.ControlTimeout = t.timeout
		found = &Handle{dev: dev, info: info}
	}

	if found == nil {
		return nil, transport.ErrNotFound
	}
	return found, nil
}

// Handle is an open gousb device.
type Handle struct {
	mu     sync.Mutex
	dev    *gousb.Device
	info   transport.Info
	closed bool
}

// Info returns the descriptor data captured at discovery.
func (h *Handle) Info() transport.Info {
	return h.info
}

// Transfer issues one vendor control request.
func (h *Handle) Transfer(ctx context.Context, req transport.Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, transport.ErrClosed
	}

	var data []byte
	if req.Direction == transport.DirectionIn {
		data = make([]byte, req.Length)
	}

	n, err := h.dev.Control(req.RequestType(), req.Code, req.Value, req.Index, data)
	if err != nil {
		return nil, mapError(req, err)
	}

	if req.Direction == transport.DirectionIn {
		if n < int(req.Length) {
			return nil, fmt.Errorf("usb: request 0x%02X: got %d of %d bytes: %w",
				req.Code, n, req.Length, transport.ErrShortTransfer)
		}
		return data[:n], nil
	}
	return nil, nil
}

// Close closes the device.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return h.dev.Close()
}

// mapError converts libusb failures into transport errors.
func mapError(req transport.Request, err error) error {
	var usbErr gousb.Error
	if errors.As(err, &usbErr) && usbErr == gousb.ErrorNoDevice {
		return fmt.Errorf("usb: request 0x%02X: %w: %v", req.Code, transport.ErrDisconnected, err)
	}
	return fmt.Errorf("usb: request 0x%02X: %w", req.Code, err)
}

// formatPath renders the bus location in sysfs notation, e.g. "1-4.2".
func formatPath(desc *gousb.DeviceDesc) string {
	if desc == nil {
		return ""
	}
	parts := make([]string, len(desc.Path))
	for i, p := range desc.Path {
		parts[i] = strconv.Itoa(p)
	}
	if len(parts) == 0 {
		return strconv.Itoa(desc.Bus)
	}
	return strconv.Itoa(desc.Bus) + "-" + strings.Join(parts, ".")
}

// Compile-time interface satisfaction checks.
var (
	_ transport.Transport = (*Transport)(nil)
	_ transport.Handle    = (*Handle)(nil)
)
