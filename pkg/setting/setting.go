// Package setting describes the controller's persistent settings and
// converts between logical values and the bytes stored in settings memory.
//
// Settings memory lives in EEPROM on the controller. Set reads every target
// byte first and writes only bytes whose value changes.
package setting

import (
	"errors"
	"fmt"
)

// Scheme is the packing rule for a setting's bytes.
type Scheme uint8

const (
	// Signed is a little-endian two's complement integer of Length bytes.
	Signed Scheme = iota
	// Unsigned is a little-endian unsigned integer of Length bytes.
	Unsigned
	// Bit14Split is a 14-bit value whose low 7 bits live at Offset and
	// high 7 bits at Aux. Bit 7 of both bytes belongs to something else.
	Bit14Split
	// BooleanFlag is bit Aux of the byte at Offset.
	BooleanFlag
)

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case Signed:
		return "SIGNED"
	case Unsigned:
		return "UNSIGNED"
	case Bit14Split:
		return "BIT14_SPLIT"
	case BooleanFlag:
		return "BOOLEAN_FLAG"
	default:
		return "UNKNOWN"
	}
}

// Max14Bit is the largest Bit14Split value.
const Max14Bit = 1<<14 - 1

// ErrInvalidSetting indicates a malformed setting descriptor.
var ErrInvalidSetting = errors.New("invalid setting descriptor")

// Setting describes one persistent setting.
type Setting struct {
	Name   string
	Offset uint8
	// Length is 1, 2 or 4 for Signed and Unsigned. BooleanFlag uses 1.
	// Ignored for Bit14Split.
	Length uint8
	// Aux is the bit index for BooleanFlag and the high byte address for
	// Bit14Split.
	Aux    uint8
	Scheme Scheme
}

// String returns the setting name.
func (s Setting) String() string {
	return s.Name
}

// Validate checks that the descriptor is well formed.
func (s Setting) Validate() error {
	switch s.Scheme {
	case Signed, Unsigned:
		switch s.Length {
		case 1, 2, 4:
		default:
			return fmt.Errorf("%w: %s: length %d", ErrInvalidSetting, s.Name, s.Length)
		}
	case BooleanFlag:
		if s.Length != 1 {
			return fmt.Errorf("%w: %s: flag length %d", ErrInvalidSetting, s.Name, s.Length)
		}
		if s.Aux > 7 {
			return fmt.Errorf("%w: %s: bit index %d", ErrInvalidSetting, s.Name, s.Aux)
		}
	case Bit14Split:
		if s.Aux == s.Offset {
			return fmt.Errorf("%w: %s: high byte overlaps low byte at 0x%02X", ErrInvalidSetting, s.Name, s.Offset)
		}
	default:
		return fmt.Errorf("%w: %s: scheme %d", ErrInvalidSetting, s.Name, s.Scheme)
	}
	return nil
}

// Range returns the inclusive domain of the setting.
func (s Setting) Range() (lo, hi int64) {
	switch s.Scheme {
	case Signed:
		bits := uint(s.Length) * 8
		return -(int64(1) << (bits - 1)), int64(1)<<(bits-1) - 1
	case Unsigned:
		bits := uint(s.Length) * 8
		return 0, int64(1)<<bits - 1
	case BooleanFlag:
		return 0, 1
	case Bit14Split:
		return 0, Max14Bit
	}
	return 0, 0
}

// CheckValue reports whether v is inside the setting's domain.
func (s Setting) CheckValue(v int64) error {
	lo, hi := s.Range()
	if v < lo || v > hi {
		return fmt.Errorf("%s: value %d outside [%d, %d]", s.Name, v, lo, hi)
	}
	return nil
}
