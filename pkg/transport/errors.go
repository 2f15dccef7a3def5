package transport

import "errors"

// Transport errors.
var (
	// ErrDisconnected indicates the handle no longer refers to an attached device.
	ErrDisconnected = errors.New("device disconnected")

	// ErrNotFound indicates discovery found no matching device.
	ErrNotFound = errors.New("no matching device")

	// ErrShortTransfer indicates a device to host transfer returned fewer bytes than requested.
	ErrShortTransfer = errors.New("short transfer")

	// ErrClosed indicates the handle or transport was closed by the host.
	ErrClosed = errors.New("transport closed")
)
