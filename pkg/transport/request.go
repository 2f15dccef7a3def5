package transport

import (
	"fmt"
	"slices"
)

// Direction is the data phase direction of a control transfer.
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

// Vendor request type bytes (bmRequestType).
const (
	RequestTypeVendorOut uint8 = 0x40
	RequestTypeVendorIn  uint8 = 0xC0
)

// Request holds the setup packet fields of one control transfer.
type Request struct {
	Direction Direction
	Code      uint8
	Value     uint16
	Index     uint16
	Length    uint16
}

// RequestType returns the bmRequestType byte for the request.
func (r Request) RequestType() uint8 {
	if r.Direction == DirectionIn {
		return RequestTypeVendorIn
	}
	return RequestTypeVendorOut
}

// String returns a compact representation of the request.
func (r Request) String() string {
	return fmt.Sprintf("%s code=0x%02X value=0x%04X index=0x%04X len=%d",
		r.Direction, r.Code, r.Value, r.Index, r.Length)
}

// Info describes an attached device.
type Info struct {
	VendorID  uint16
	ProductID uint16
	Serial    string

	// Path identifies the bus location (e.g. "1-4.2"). May be empty.
	Path string
}

// Filter selects which device discovery binds to.
// Empty/zero fields match all devices for that criterion.
type Filter struct {
	// VendorID must match exactly.
	VendorID uint16

	// ProductIDs lists acceptable product ids; empty accepts any.
	ProductIDs []uint16

	// Serial filters by exact serial number.
	Serial string
}

// MatchesDescriptor reports whether vendor and product satisfy the filter.
// Serial numbers are checked separately since reading them requires an open device.
func (f Filter) MatchesDescriptor(vendor, product uint16) bool {
	if vendor != f.VendorID {
		return false
	}
	if len(f.ProductIDs) > 0 && !slices.Contains(f.ProductIDs, product) {
		return false
	}
	return true
}

// Matches reports whether info satisfies every filter criterion.
func (f Filter) Matches(info Info) bool {
	if !f.MatchesDescriptor(info.VendorID, info.ProductID) {
		return false
	}
	return f.Serial == "" || f.Serial == info.Serial
}
