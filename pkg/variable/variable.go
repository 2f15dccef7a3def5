// Package variable describes the controller's volatile status variables and
// decodes them from variable memory.
package variable

import (
	"context"
	"errors"
	"fmt"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/setting"
	"github.com/tic-motion/tic-go/pkg/transport"
)

// ErrInvalidVariable indicates a malformed variable descriptor.
var ErrInvalidVariable = errors.New("invalid variable descriptor")

// Variable describes one read-only status variable.
type Variable struct {
	Name   string
	Offset uint8
	Length uint8
	Signed bool
}

// String returns the variable name.
func (v Variable) String() string {
	return v.Name
}

// Validate checks the descriptor.
func (v Variable) Validate() error {
	switch v.Length {
	case 1, 2, 4:
		return nil
	}
	return fmt.Errorf("%w: %s: length %d", ErrInvalidVariable, v.Name, v.Length)
}

func read(ctx context.Context, s transport.Sender, cmd command.Command, v Variable) (int64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	raw, err := command.BlockRead(ctx, s, cmd, v.Offset, v.Length)
	if err != nil {
		return 0, err
	}
	return setting.Decode(raw, v.Signed), nil
}

// Get reads v.
func Get(ctx context.Context, s transport.Sender, v Variable) (int64, error) {
	return read(ctx, s, command.GetVariable, v)
}

// GetAndClear reads v and clears the latched ErrorsOccurred bits.
func GetAndClear(ctx context.Context, s transport.Sender, v Variable) (int64, error) {
	return read(ctx, s, command.GetVariableAndClearErrors, v)
}

// Snapshot reads each of vars in turn. It stops at the first failure.
func Snapshot(ctx context.Context, s transport.Sender, vars ...Variable) (map[string]int64, error) {
	out := make(map[string]int64, len(vars))
	for _, v := range vars {
		val, err := Get(ctx, s, v)
		if err != nil {
			return nil, err
		}
		out[v.Name] = val
	}
	return out, nil
}
