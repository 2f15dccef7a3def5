package variable

import "strings"

// OpState is the value of the OperationState variable.
type OpState uint8

// Operation states.
const (
	OperationReset             OpState = 0
	OperationDeenergized       OpState = 2
	OperationSoftError         OpState = 4
	OperationWaitingForErrLine OpState = 6
	OperationStartingUp        OpState = 8
	OperationNormal            OpState = 10
)

// String returns the state name.
func (s OpState) String() string {
	switch s {
	case OperationReset:
		return "RESET"
	case OperationDeenergized:
		return "DEENERGIZED"
	case OperationSoftError:
		return "SOFT_ERROR"
	case OperationWaitingForErrLine:
		return "WAITING_FOR_ERR_LINE"
	case OperationStartingUp:
		return "STARTING_UP"
	case OperationNormal:
		return "NORMAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorBits is the value of ErrorStatus or ErrorsOccurred.
type ErrorBits uint32

// Error bits. The bits from 16 up only appear in ErrorsOccurred.
const (
	ErrIntentionallyDeenergized ErrorBits = 1 << 0
	ErrMotorDriverError         ErrorBits = 1 << 1
	ErrLowVin                   ErrorBits = 1 << 2
	ErrKillSwitch               ErrorBits = 1 << 3
	ErrRequiredInputInvalid     ErrorBits = 1 << 4
	ErrSerialError              ErrorBits = 1 << 5
	ErrCommandTimeout           ErrorBits = 1 << 6
	ErrSafeStartViolation       ErrorBits = 1 << 7
	ErrErrLineHigh              ErrorBits = 1 << 8
	ErrSerialFraming            ErrorBits = 1 << 16
	ErrSerialRxOverrun          ErrorBits = 1 << 17
	ErrSerialFormat             ErrorBits = 1 << 18
	ErrSerialCRC                ErrorBits = 1 << 19
	ErrEncoderSkip              ErrorBits = 1 << 20
)

var errorBitNames = []struct {
	bit  ErrorBits
	name string
}{
	{ErrIntentionallyDeenergized, "INTENTIONALLY_DEENERGIZED"},
	{ErrMotorDriverError, "MOTOR_DRIVER_ERROR"},
	{ErrLowVin, "LOW_VIN"},
	{ErrKillSwitch, "KILL_SWITCH"},
	{ErrRequiredInputInvalid, "REQUIRED_INPUT_INVALID"},
	{ErrSerialError, "SERIAL_ERROR"},
	{ErrCommandTimeout, "COMMAND_TIMEOUT"},
	{ErrSafeStartViolation, "SAFE_START_VIOLATION"},
	{ErrErrLineHigh, "ERR_LINE_HIGH"},
	{ErrSerialFraming, "SERIAL_FRAMING"},
	{ErrSerialRxOverrun, "SERIAL_RX_OVERRUN"},
	{ErrSerialFormat, "SERIAL_FORMAT"},
	{ErrSerialCRC, "SERIAL_CRC"},
	{ErrEncoderSkip, "ENCODER_SKIP"},
}

// Has reports whether every bit in mask is set.
func (e ErrorBits) Has(mask ErrorBits) bool {
	return e&mask == mask
}

// String lists the set bits joined by '|'.
func (e ErrorBits) String() string {
	if e == 0 {
		return "NONE"
	}
	var names []string
	for _, b := range errorBitNames {
		if e.Has(b.bit) {
			names = append(names, b.name)
		}
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}
