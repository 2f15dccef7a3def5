package discovery

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tic-motion/tic-go/pkg/transport"
)

// VendorID is the USB vendor id shared by every controller model.
const VendorID uint16 = 0x1FFB

// ErrUnknownModel is returned when a model name cannot be resolved.
var ErrUnknownModel = errors.New("unknown controller model")

// Model identifies a controller hardware variant by its USB product id.
type Model uint16

// Recognized models.
const (
	// ModelAny matches any recognized model.
	ModelAny Model = 0

	ModelT825 Model = 0x00B3
	ModelT834 Model = 0x00B5
	ModelT500 Model = 0x00BD
	ModelT249 Model = 0x00C9
	Model36v4 Model = 0x00C3
)

var models = []Model{ModelT825, ModelT834, ModelT500, ModelT249, Model36v4}

// Models returns all recognized models.
func Models() []Model {
	return slices.Clone(models)
}

// String returns the model name.
func (m Model) String() string {
	switch m {
	case ModelAny:
		return "any"
	case ModelT825:
		return "T825"
	case ModelT834:
		return "T834"
	case ModelT500:
		return "T500"
	case ModelT249:
		return "T249"
	case Model36v4:
		return "36v4"
	default:
		return fmt.Sprintf("0x%04X", uint16(m))
	}
}

// Known reports whether m is a recognized model.
func (m Model) Known() bool {
	return slices.Contains(models, m)
}

// ParseModel resolves a model name ("T834", "36v4", "any"). Matching is
// case-insensitive and an optional "tic" prefix is ignored.
func ParseModel(s string) (Model, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "tic")
	name = strings.TrimLeft(name, " _-")

	if name == "" || name == "any" {
		return ModelAny, nil
	}
	for _, m := range models {
		if strings.ToLower(m.String()) == name {
			return m, nil
		}
	}
	return ModelAny, fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// NewFilter builds a transport filter for model and serial.
// ModelAny accepts every recognized model; an empty serial accepts any unit.
func NewFilter(model Model, serial string) transport.Filter {
	f := transport.Filter{
		VendorID: VendorID,
		Serial:   serial,
	}
	if model == ModelAny {
		for _, m := range models {
			f.ProductIDs = append(f.ProductIDs, uint16(m))
		}
	} else {
		f.ProductIDs = []uint16{uint16(model)}
	}
	return f
}
