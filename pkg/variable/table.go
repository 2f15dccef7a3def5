package variable

var (
	OperationState        = Variable{Name: "OperationState", Offset: 0x00, Length: 1}
	MiscFlags1            = Variable{Name: "MiscFlags1", Offset: 0x01, Length: 1}
	ErrorStatus           = Variable{Name: "ErrorStatus", Offset: 0x02, Length: 2}
	ErrorsOccurred        = Variable{Name: "ErrorsOccurred", Offset: 0x04, Length: 4}
	PlanningMode          = Variable{Name: "PlanningMode", Offset: 0x09, Length: 1}
	TargetPosition        = Variable{Name: "TargetPosition", Offset: 0x0A, Length: 4, Signed: true}
	TargetVelocity        = Variable{Name: "TargetVelocity", Offset: 0x0E, Length: 4, Signed: true}
	StartingSpeed         = Variable{Name: "StartingSpeed", Offset: 0x12, Length: 4}
	MaxSpeed              = Variable{Name: "MaxSpeed", Offset: 0x16, Length: 4}
	MaxDeceleration       = Variable{Name: "MaxDeceleration", Offset: 0x1A, Length: 4}
	MaxAcceleration       = Variable{Name: "MaxAcceleration", Offset: 0x1E, Length: 4}
	CurrentPosition       = Variable{Name: "CurrentPosition", Offset: 0x22, Length: 4, Signed: true}
	CurrentVelocity       = Variable{Name: "CurrentVelocity", Offset: 0x26, Length: 4, Signed: true}
	ActingTargetPosition  = Variable{Name: "ActingTargetPosition", Offset: 0x2A, Length: 4, Signed: true}
	TimeSinceLastStep     = Variable{Name: "TimeSinceLastStep", Offset: 0x2E, Length: 4}
	DeviceReset           = Variable{Name: "DeviceReset", Offset: 0x32, Length: 1}
	VinVoltage            = Variable{Name: "VinVoltage", Offset: 0x33, Length: 2}
	UpTime                = Variable{Name: "UpTime", Offset: 0x35, Length: 4}
	EncoderPosition       = Variable{Name: "EncoderPosition", Offset: 0x39, Length: 4, Signed: true}
	RCPulseWidth          = Variable{Name: "RCPulseWidth", Offset: 0x3D, Length: 2}
	AnalogReadingSCL      = Variable{Name: "AnalogReadingSCL", Offset: 0x3F, Length: 2}
	AnalogReadingSDA      = Variable{Name: "AnalogReadingSDA", Offset: 0x41, Length: 2}
	AnalogReadingTX       = Variable{Name: "AnalogReadingTX", Offset: 0x43, Length: 2}
	AnalogReadingRX       = Variable{Name: "AnalogReadingRX", Offset: 0x45, Length: 2}
	DigitalReadings       = Variable{Name: "DigitalReadings", Offset: 0x47, Length: 1}
	PinStates             = Variable{Name: "PinStates", Offset: 0x48, Length: 1}
	StepMode              = Variable{Name: "StepMode", Offset: 0x49, Length: 1}
	CurrentLimit          = Variable{Name: "CurrentLimit", Offset: 0x4A, Length: 1}
	DecayMode             = Variable{Name: "DecayMode", Offset: 0x4B, Length: 1}
	InputState            = Variable{Name: "InputState", Offset: 0x4C, Length: 1}
	InputAfterAveraging   = Variable{Name: "InputAfterAveraging", Offset: 0x4D, Length: 2}
	InputAfterHysteresis  = Variable{Name: "InputAfterHysteresis", Offset: 0x4F, Length: 2}
	InputAfterScaling     = Variable{Name: "InputAfterScaling", Offset: 0x51, Length: 4, Signed: true}
	LastMotorDriverError  = Variable{Name: "LastMotorDriverError", Offset: 0x55, Length: 1}
	AGCMode               = Variable{Name: "AGCMode", Offset: 0x56, Length: 1}
	AGCBottomCurrentLimit = Variable{Name: "AGCBottomCurrentLimit", Offset: 0x57, Length: 1}
	AGCCurrentBoostSteps  = Variable{Name: "AGCCurrentBoostSteps", Offset: 0x58, Length: 1}
	AGCFrequencyLimit     = Variable{Name: "AGCFrequencyLimit", Offset: 0x59, Length: 1}
	LastHPDriverErrors    = Variable{Name: "LastHPDriverErrors", Offset: 0xFF, Length: 1}
)

var table = []Variable{
	OperationState,
	MiscFlags1,
	ErrorStatus,
	ErrorsOccurred,
	PlanningMode,
	TargetPosition,
	TargetVelocity,
	StartingSpeed,
	MaxSpeed,
	MaxDeceleration,
	MaxAcceleration,
	CurrentPosition,
	CurrentVelocity,
	ActingTargetPosition,
	TimeSinceLastStep,
	DeviceReset,
	VinVoltage,
	UpTime,
	EncoderPosition,
	RCPulseWidth,
	AnalogReadingSCL,
	AnalogReadingSDA,
	AnalogReadingTX,
	AnalogReadingRX,
	DigitalReadings,
	PinStates,
	StepMode,
	CurrentLimit,
	DecayMode,
	InputState,
	InputAfterAveraging,
	InputAfterHysteresis,
	InputAfterScaling,
	LastMotorDriverError,
	AGCMode,
	AGCBottomCurrentLimit,
	AGCCurrentBoostSteps,
	AGCFrequencyLimit,
	LastHPDriverErrors,
}

var byName = func() map[string]Variable {
	m := make(map[string]Variable, len(table))
	for _, v := range table {
		m[v.Name] = v
	}
	return m
}()

// All returns every known variable in memory order.
func All() []Variable {
	out := make([]Variable, len(table))
	copy(out, table)
	return out
}

// ByName looks up a variable by name.
func ByName(name string) (Variable, bool) {
	v, ok := byName[name]
	return v, ok
}
