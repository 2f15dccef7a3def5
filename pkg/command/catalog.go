package command

// Shape is the argument layout of a command.
type Shape uint8

const (
	// ShapeNoArgs commands carry no argument.
	ShapeNoArgs Shape = iota
	// ShapeSmallArg commands carry a 7-bit argument in the value field.
	ShapeSmallArg
	// ShapeWideArg commands carry a 32-bit argument split over value and index.
	ShapeWideArg
	// ShapeBlockRead commands read a byte range addressed by the index field.
	ShapeBlockRead
	// ShapeBlockWrite commands write one byte addressed by the index field.
	ShapeBlockWrite
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeNoArgs:
		return "NO_ARGS"
	case ShapeSmallArg:
		return "SMALL_ARG"
	case ShapeWideArg:
		return "WIDE_ARG"
	case ShapeBlockRead:
		return "BLOCK_READ"
	case ShapeBlockWrite:
		return "BLOCK_WRITE"
	default:
		return "UNKNOWN"
	}
}

// Command describes one request the controller understands.
type Command struct {
	Name  string
	Code  uint8
	Shape Shape
}

// String returns the command name.
func (c Command) String() string {
	return c.Name
}

// Motion commands.
var (
	SetTargetPosition  = Command{Name: "SetTargetPosition", Code: 0xE0, Shape: ShapeWideArg}
	SetTargetVelocity  = Command{Name: "SetTargetVelocity", Code: 0xE3, Shape: ShapeWideArg}
	HaltAndSetPosition = Command{Name: "HaltAndSetPosition", Code: 0xEC, Shape: ShapeWideArg}
	HaltAndHold        = Command{Name: "HaltAndHold", Code: 0x89, Shape: ShapeNoArgs}
	GoHome             = Command{Name: "GoHome", Code: 0x97, Shape: ShapeSmallArg}
)

// Driver state commands.
var (
	ResetCommandTimeout = Command{Name: "ResetCommandTimeout", Code: 0x8C, Shape: ShapeNoArgs}
	Deenergize          = Command{Name: "Deenergize", Code: 0x86, Shape: ShapeNoArgs}
	Energize            = Command{Name: "Energize", Code: 0x85, Shape: ShapeNoArgs}
	ExitSafeStart       = Command{Name: "ExitSafeStart", Code: 0x83, Shape: ShapeNoArgs}
	EnterSafeStart      = Command{Name: "EnterSafeStart", Code: 0x8F, Shape: ShapeNoArgs}
	Reset               = Command{Name: "Reset", Code: 0xB0, Shape: ShapeNoArgs}
	ClearDriverError    = Command{Name: "ClearDriverError", Code: 0x8A, Shape: ShapeNoArgs}
	Reinitialize        = Command{Name: "Reinitialize", Code: 0x10, Shape: ShapeNoArgs}
	StartBootloader     = Command{Name: "StartBootloader", Code: 0xFF, Shape: ShapeNoArgs}
)

// Temporary limit overrides (not persisted).
var (
	SetMaxSpeed        = Command{Name: "SetMaxSpeed", Code: 0xE6, Shape: ShapeWideArg}
	SetStartingSpeed   = Command{Name: "SetStartingSpeed", Code: 0xE5, Shape: ShapeWideArg}
	SetMaxAcceleration = Command{Name: "SetMaxAcceleration", Code: 0xEA, Shape: ShapeWideArg}
	SetMaxDeceleration = Command{Name: "SetMaxDeceleration", Code: 0xE9, Shape: ShapeWideArg}
	SetStepMode        = Command{Name: "SetStepMode", Code: 0x94, Shape: ShapeSmallArg}
	SetCurrentLimit    = Command{Name: "SetCurrentLimit", Code: 0x91, Shape: ShapeSmallArg}
	SetDecayMode       = Command{Name: "SetDecayMode", Code: 0x92, Shape: ShapeSmallArg}
	SetAGCOption       = Command{Name: "SetAGCOption", Code: 0x98, Shape: ShapeSmallArg}
)

// Memory access commands.
var (
	GetVariable               = Command{Name: "GetVariable", Code: 0xA1, Shape: ShapeBlockRead}
	GetVariableAndClearErrors = Command{Name: "GetVariableAndClearErrors", Code: 0xA2, Shape: ShapeBlockRead}
	GetSetting                = Command{Name: "GetSetting", Code: 0xA8, Shape: ShapeBlockRead}
	SetSetting                = Command{Name: "SetSetting", Code: 0x13, Shape: ShapeBlockWrite}
)

var catalog = []Command{
	SetTargetPosition,
	SetTargetVelocity,
	HaltAndSetPosition,
	HaltAndHold,
	GoHome,
	ResetCommandTimeout,
	Deenergize,
	Energize,
	ExitSafeStart,
	EnterSafeStart,
	Reset,
	ClearDriverError,
	SetMaxSpeed,
	SetStartingSpeed,
	SetMaxAcceleration,
	SetMaxDeceleration,
	SetStepMode,
	SetCurrentLimit,
	SetDecayMode,
	SetAGCOption,
	GetVariable,
	GetVariableAndClearErrors,
	GetSetting,
	SetSetting,
	Reinitialize,
	StartBootloader,
}

var (
	byName = make(map[string]Command, len(catalog))
	byCode = make(map[uint8]Command, len(catalog))
)

func init() {
	for _, c := range catalog {
		byName[c.Name] = c
		byCode[c.Code] = c
	}
}

// All returns every catalogued command.
func All() []Command {
	out := make([]Command, len(catalog))
	copy(out, catalog)
	return out
}

// ByName looks up a command by name.
func ByName(name string) (Command, bool) {
	c, ok := byName[name]
	return c, ok
}

// ByCode looks up a command by request code.
func ByCode(code uint8) (Command, bool) {
	c, ok := byCode[code]
	return c, ok
}
