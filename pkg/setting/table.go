package setting

// General.
var (
	ControlMode          = Setting{Name: "ControlMode", Offset: 0x01, Length: 1, Scheme: Unsigned}
	NeverSleep           = Setting{Name: "NeverSleep", Offset: 0x02, Length: 1, Aux: 0, Scheme: BooleanFlag}
	DisableSafeStart     = Setting{Name: "DisableSafeStart", Offset: 0x03, Length: 1, Aux: 0, Scheme: BooleanFlag}
	IgnoreErrLineHigh    = Setting{Name: "IgnoreErrLineHigh", Offset: 0x04, Length: 1, Aux: 0, Scheme: BooleanFlag}
	AutoClearDriverError = Setting{Name: "AutoClearDriverError", Offset: 0x08, Length: 1, Aux: 0, Scheme: BooleanFlag}
	SoftErrorResponse    = Setting{Name: "SoftErrorResponse", Offset: 0x53, Length: 1, Scheme: Unsigned}
	SoftErrorPosition    = Setting{Name: "SoftErrorPosition", Offset: 0x54, Length: 4, Scheme: Signed}
)

// Serial interface.
var (
	SerialBaudRate              = Setting{Name: "SerialBaudRate", Offset: 0x05, Length: 2, Scheme: Unsigned}
	SerialDeviceNumber          = Setting{Name: "SerialDeviceNumber", Offset: 0x07, Aux: 0x69, Scheme: Bit14Split}
	SerialAltDeviceNumber       = Setting{Name: "SerialAltDeviceNumber", Offset: 0x6A, Aux: 0x6B, Scheme: Bit14Split}
	SerialEnableAltDeviceNumber = Setting{Name: "SerialEnableAltDeviceNumber", Offset: 0x6A, Length: 1, Aux: 7, Scheme: BooleanFlag}
	Serial14BitDeviceNumber     = Setting{Name: "Serial14BitDeviceNumber", Offset: 0x0B, Length: 1, Aux: 3, Scheme: BooleanFlag}
	CommandTimeout              = Setting{Name: "CommandTimeout", Offset: 0x09, Length: 2, Scheme: Unsigned}
	SerialCRCForCommands        = Setting{Name: "SerialCRCForCommands", Offset: 0x0B, Length: 1, Aux: 0, Scheme: BooleanFlag}
	SerialCRCForResponses       = Setting{Name: "SerialCRCForResponses", Offset: 0x0B, Length: 1, Aux: 1, Scheme: BooleanFlag}
	Serial7BitResponses         = Setting{Name: "Serial7BitResponses", Offset: 0x0B, Length: 1, Aux: 2, Scheme: BooleanFlag}
	SerialResponseDelay         = Setting{Name: "SerialResponseDelay", Offset: 0x5E, Length: 1, Scheme: Unsigned}
	VinCalibration              = Setting{Name: "VinCalibration", Offset: 0x14, Length: 2, Scheme: Signed}
)

// Input conditioning and scaling.
var (
	InputAveragingEnabled = Setting{Name: "InputAveragingEnabled", Offset: 0x2E, Length: 1, Aux: 0, Scheme: BooleanFlag}
	InputHysteresis       = Setting{Name: "InputHysteresis", Offset: 0x2F, Length: 2, Scheme: Unsigned}
	InputScalingDegree    = Setting{Name: "InputScalingDegree", Offset: 0x20, Length: 1, Scheme: Unsigned}
	InputInvert           = Setting{Name: "InputInvert", Offset: 0x21, Length: 1, Scheme: Unsigned}
	InputMin              = Setting{Name: "InputMin", Offset: 0x22, Length: 2, Scheme: Unsigned}
	InputNeutralMin       = Setting{Name: "InputNeutralMin", Offset: 0x24, Length: 2, Scheme: Unsigned}
	InputNeutralMax       = Setting{Name: "InputNeutralMax", Offset: 0x26, Length: 2, Scheme: Unsigned}
	InputMax              = Setting{Name: "InputMax", Offset: 0x28, Length: 2, Scheme: Unsigned}
	OutputMin             = Setting{Name: "OutputMin", Offset: 0x2A, Length: 4, Scheme: Signed}
	OutputMax             = Setting{Name: "OutputMax", Offset: 0x32, Length: 4, Scheme: Signed}
	EncoderPrescaler      = Setting{Name: "EncoderPrescaler", Offset: 0x58, Length: 4, Scheme: Unsigned}
	EncoderPostscaler     = Setting{Name: "EncoderPostscaler", Offset: 0x37, Length: 4, Scheme: Unsigned}
	EncoderUnlimited      = Setting{Name: "EncoderUnlimited", Offset: 0x5C, Length: 1, Scheme: Unsigned}
)

// Pin configuration.
var (
	SCLConfig = Setting{Name: "SCLConfig", Offset: 0x3B, Length: 1, Scheme: Unsigned}
	SDAConfig = Setting{Name: "SDAConfig", Offset: 0x3C, Length: 1, Scheme: Unsigned}
	TXConfig  = Setting{Name: "TXConfig", Offset: 0x3D, Length: 1, Scheme: Unsigned}
	RXConfig  = Setting{Name: "RXConfig", Offset: 0x3E, Length: 1, Scheme: Unsigned}
	RCConfig  = Setting{Name: "RCConfig", Offset: 0x3F, Length: 1, Scheme: Unsigned}
)

// Motor.
var (
	InvertMotorDirection    = Setting{Name: "InvertMotorDirection", Offset: 0x1B, Length: 1, Aux: 0, Scheme: BooleanFlag}
	MaxSpeed                = Setting{Name: "MaxSpeed", Offset: 0x47, Length: 4, Scheme: Unsigned}
	StartingSpeed           = Setting{Name: "StartingSpeed", Offset: 0x43, Length: 4, Scheme: Unsigned}
	MaxAccel                = Setting{Name: "MaxAccel", Offset: 0x4F, Length: 4, Scheme: Unsigned}
	MaxDecel                = Setting{Name: "MaxDecel", Offset: 0x4B, Length: 4, Scheme: Unsigned}
	StepMode                = Setting{Name: "StepMode", Offset: 0x41, Length: 1, Scheme: Unsigned}
	CurrentLimit            = Setting{Name: "CurrentLimit", Offset: 0x40, Length: 1, Scheme: Unsigned}
	CurrentLimitDuringError = Setting{Name: "CurrentLimitDuringError", Offset: 0x31, Length: 1, Scheme: Unsigned}
	DecayMode               = Setting{Name: "DecayMode", Offset: 0x42, Length: 1, Scheme: Unsigned}
)

// Homing.
var (
	// AutoHoming shares bit 0 of 0x02 with NeverSleep in the published
	// settings map.
	AutoHoming         = Setting{Name: "AutoHoming", Offset: 0x02, Length: 1, Aux: 0, Scheme: BooleanFlag}
	AutoHomingForward  = Setting{Name: "AutoHomingForward", Offset: 0x03, Length: 1, Aux: 2, Scheme: BooleanFlag}
	HomingSpeedTowards = Setting{Name: "HomingSpeedTowards", Offset: 0x61, Length: 4, Scheme: Unsigned}
	HomingSpeedAway    = Setting{Name: "HomingSpeedAway", Offset: 0x65, Length: 4, Scheme: Unsigned}
)

var table = []Setting{
	ControlMode,
	NeverSleep,
	DisableSafeStart,
	IgnoreErrLineHigh,
	AutoClearDriverError,
	SoftErrorResponse,
	SoftErrorPosition,
	SerialBaudRate,
	SerialDeviceNumber,
	SerialAltDeviceNumber,
	SerialEnableAltDeviceNumber,
	Serial14BitDeviceNumber,
	CommandTimeout,
	SerialCRCForCommands,
	SerialCRCForResponses,
	Serial7BitResponses,
	SerialResponseDelay,
	VinCalibration,
	InputAveragingEnabled,
	InputHysteresis,
	InputScalingDegree,
	InputInvert,
	InputMin,
	InputNeutralMin,
	InputNeutralMax,
	InputMax,
	OutputMin,
	OutputMax,
	EncoderPrescaler,
	EncoderPostscaler,
	EncoderUnlimited,
	SCLConfig,
	SDAConfig,
	TXConfig,
	RXConfig,
	RCConfig,
	InvertMotorDirection,
	MaxSpeed,
	StartingSpeed,
	MaxAccel,
	MaxDecel,
	StepMode,
	CurrentLimit,
	CurrentLimitDuringError,
	DecayMode,
	AutoHoming,
	AutoHomingForward,
	HomingSpeedTowards,
	HomingSpeedAway,
}

var byName = func() map[string]Setting {
	m := make(map[string]Setting, len(table))
	for _, s := range table {
		m[s.Name] = s
	}
	return m
}()

// All returns every known setting in table order.
func All() []Setting {
	out := make([]Setting, len(table))
	copy(out, table)
	return out
}

// ByName looks up a setting by name.
func ByName(name string) (Setting, bool) {
	s, ok := byName[name]
	return s, ok
}
