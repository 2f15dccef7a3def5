package profile

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tic-motion/tic-go/pkg/setting"
)

// ErrUnknownSetting indicates a profile key that names no setting.
var ErrUnknownSetting = errors.New("unknown setting")

// File is the on-disk layout of a profile.
//
//	device:
//	  model: T834
//	  serial: "00123456"
//	settings:
//	  StepMode: 3
//	  MaxSpeed: 2000000
//	  InvertMotorDirection: true
type File struct {
	Device   Device
	Settings *Profile
}

// Device optionally pins a profile to a controller.
type Device struct {
	Model  string `yaml:"model,omitempty"`
	Serial string `yaml:"serial,omitempty"`
}

type yamlFile struct {
	Device   Device    `yaml:"device,omitempty"`
	Settings yaml.Node `yaml:"settings"`
}

// Parse decodes a profile document. Settings keep their file order.
func Parse(data []byte) (*File, error) {
	var y yamlFile
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	p := New()
	node := &y.Settings
	switch node.Kind {
	case 0:
		// settings key absent
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if err := parseEntry(p, key, val); err != nil {
				return nil, fmt.Errorf("profile: line %d: %w", key.Line, err)
			}
		}
	default:
		return nil, fmt.Errorf("profile: line %d: settings must be a mapping", node.Line)
	}

	return &File{Device: y.Device, Settings: p}, nil
}

func parseEntry(p *Profile, key, val *yaml.Node) error {
	st, ok := setting.ByName(key.Value)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key.Value)
	}
	if _, dup := p.Get(st); dup {
		return fmt.Errorf("%s: duplicate key", st.Name)
	}
	if val.Kind != yaml.ScalarNode {
		return fmt.Errorf("%s: value must be a scalar", st.Name)
	}

	var v int64
	switch {
	case val.Tag == "!!bool" && st.Scheme == setting.BooleanFlag:
		var b bool
		if err := val.Decode(&b); err != nil {
			return fmt.Errorf("%s: %w", st.Name, err)
		}
		if b {
			v = 1
		}
	default:
		n, err := strconv.ParseInt(val.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", st.Name, val.Value)
		}
		v = n
	}
	return p.Set(st, v)
}

// LoadFile reads and parses a profile file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal encodes f as YAML. Flags are written as booleans.
func Marshal(f *File) ([]byte, error) {
	settings := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range f.Settings.Entries() {
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(e.Value, 10)}
		if e.Setting.Scheme == setting.BooleanFlag {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(e.Value == 1)}
		}
		settings.Content = append(settings.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Setting.Name}, val)
	}
	return yaml.Marshal(yamlFile{Device: f.Device, Settings: *settings})
}
