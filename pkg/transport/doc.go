// Package transport defines the control-transfer contract between the
// protocol engine and a physical controller.
//
// The transport layer handles:
//   - Device discovery by vendor id, product id and serial number
//   - Synchronous control transfers (setup packet plus optional payload)
//   - Reporting a stale handle as [ErrDisconnected]
//
// # Transfer Shape
//
// Every exchange is a single vendor control request:
//
//	┌───────────────┬─────────┬────────┬────────┬────────┐
//	│ bmRequestType │ bRequest│ wValue │ wIndex │ wLength│
//	│   0x40 / 0xC0 │  code   │ 16 bit │ 16 bit │ 16 bit │
//	└───────────────┴─────────┴────────┴────────┴────────┘
//
// Host to device requests carry no payload. Device to host requests return
// exactly wLength bytes.
//
// # Adapters
//
// The usb subpackage implements [Transport] on top of libusb. Tests use the
// simulated controller in internal/testharness/sim or the mocks in the mocks
// subpackage.
package transport
