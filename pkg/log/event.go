package log

import "time"

// Event is one trace record. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one bind of the device (UUID). Empty while unbound.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Direction is relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	Layer    Layer    `cbor:"4,keyasint"`
	Category Category `cbor:"5,keyasint"`

	// Serial and ProductID of the bound device, if any.
	Serial    string `cbor:"6,keyasint,omitempty"`
	ProductID uint16 `cbor:"7,keyasint,omitempty"`

	// One of these is set.
	Transfer    *TransferEvent    `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Direction of a transfer relative to the host.
type Direction uint8

const (
	// DirectionOut is host to device.
	DirectionOut Direction = 0
	// DirectionIn is device to host.
	DirectionIn Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "OUT"
	case DirectionIn:
		return "IN"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	// LayerTransport is the control transfer layer.
	LayerTransport Layer = 0
	// LayerConnection is the connection manager.
	LayerConnection Layer = 1
	// LayerProfile is settings profile replay.
	LayerProfile Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerConnection:
		return "CONNECTION"
	case LayerProfile:
		return "PROFILE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	CategoryTransfer Category = 0
	CategoryState    Category = 1
	CategoryError    Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransfer:
		return "TRANSFER"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// TransferEvent captures one control transfer.
type TransferEvent struct {
	// Code is the request code. Command is its catalog name when known.
	Code    uint8  `cbor:"1,keyasint"`
	Command string `cbor:"2,keyasint,omitempty"`

	Value  uint16 `cbor:"3,keyasint"`
	Index  uint16 `cbor:"4,keyasint"`
	Length uint16 `cbor:"5,keyasint,omitempty"`

	// Data holds the bytes returned by an IN transfer.
	Data []byte `cbor:"6,keyasint,omitempty"`

	// Duration of the transfer, stored as nanoseconds.
	Duration time.Duration `cbor:"7,keyasint,omitempty"`

	// Err is set when the transfer failed.
	Err string `cbor:"8,keyasint,omitempty"`
}

// StateChangeEvent captures a connection state transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint,omitempty"`
	NewState string `cbor:"2,keyasint"`

	// Reason for the change, if available.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures an error that did not belong to a single transfer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Context describes the operation being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
