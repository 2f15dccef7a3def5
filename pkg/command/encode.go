package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tic-motion/tic-go/pkg/transport"
)

// ErrProtocolViolation indicates a caller-supplied value outside the
// declared domain. No transfer is issued when it is returned.
var ErrProtocolViolation = errors.New("protocol violation")

// MaxSmallArg is the largest argument a SmallArg command accepts.
const MaxSmallArg = 127

func checkShape(cmd Command, want Shape) error {
	if cmd.Shape != want {
		return fmt.Errorf("%w: %s is %s, not %s", ErrProtocolViolation, cmd.Name, cmd.Shape, want)
	}
	return nil
}

// EncodeNoArgs encodes a NoArgs command.
func EncodeNoArgs(cmd Command) (transport.Request, error) {
	if err := checkShape(cmd, ShapeNoArgs); err != nil {
		return transport.Request{}, err
	}
	return transport.Request{Direction: transport.DirectionOut, Code: cmd.Code}, nil
}

// EncodeSmallArg encodes a SmallArg command. v must be in [0, 127].
func EncodeSmallArg(cmd Command, v int) (transport.Request, error) {
	if err := checkShape(cmd, ShapeSmallArg); err != nil {
		return transport.Request{}, err
	}
	if v < 0 || v > MaxSmallArg {
		return transport.Request{}, fmt.Errorf("%w: %s argument %d outside [0, %d]",
			ErrProtocolViolation, cmd.Name, v, MaxSmallArg)
	}
	return transport.Request{
		Direction: transport.DirectionOut,
		Code:      cmd.Code,
		Value:     uint16(v),
	}, nil
}

// EncodeWideArg encodes a WideArg command. The low 16 bits of v travel in
// the value field and the high 16 bits in the index field.
func EncodeWideArg(cmd Command, v int32) (transport.Request, error) {
	if err := checkShape(cmd, ShapeWideArg); err != nil {
		return transport.Request{}, err
	}
	u := uint32(v)
	return transport.Request{
		Direction: transport.DirectionOut,
		Code:      cmd.Code,
		Value:     uint16(u & 0xFFFF),
		Index:     uint16((u >> 16) & 0xFFFF),
	}, nil
}

// EncodeBlockRead encodes a read of length bytes starting at offset.
func EncodeBlockRead(cmd Command, offset, length uint8) (transport.Request, error) {
	if err := checkShape(cmd, ShapeBlockRead); err != nil {
		return transport.Request{}, err
	}
	if length == 0 {
		return transport.Request{}, fmt.Errorf("%w: %s length must be positive", ErrProtocolViolation, cmd.Name)
	}
	return transport.Request{
		Direction: transport.DirectionIn,
		Code:      cmd.Code,
		Index:     uint16(offset),
		Length:    uint16(length),
	}, nil
}

// EncodeBlockWrite encodes a one-byte write at offset.
func EncodeBlockWrite(cmd Command, offset, b uint8) (transport.Request, error) {
	if err := checkShape(cmd, ShapeBlockWrite); err != nil {
		return transport.Request{}, err
	}
	return transport.Request{
		Direction: transport.DirectionOut,
		Code:      cmd.Code,
		Value:     uint16(b),
		Index:     uint16(offset),
	}, nil
}

func issue(ctx context.Context, s transport.Sender, cmd Command, req transport.Request) ([]byte, error) {
	data, err := s.Transfer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return data, nil
}

// Send issues a NoArgs command.
func Send(ctx context.Context, s transport.Sender, cmd Command) error {
	req, err := EncodeNoArgs(cmd)
	if err != nil {
		return err
	}
	_, err = issue(ctx, s, cmd, req)
	return err
}

// SendSmall issues a SmallArg command.
func SendSmall(ctx context.Context, s transport.Sender, cmd Command, v int) error {
	req, err := EncodeSmallArg(cmd, v)
	if err != nil {
		return err
	}
	_, err = issue(ctx, s, cmd, req)
	return err
}

// SendWide issues a WideArg command.
func SendWide(ctx context.Context, s transport.Sender, cmd Command, v int32) error {
	req, err := EncodeWideArg(cmd, v)
	if err != nil {
		return err
	}
	_, err = issue(ctx, s, cmd, req)
	return err
}

// BlockRead reads exactly length bytes at offset.
func BlockRead(ctx context.Context, s transport.Sender, cmd Command, offset, length uint8) ([]byte, error) {
	req, err := EncodeBlockRead(cmd, offset, length)
	if err != nil {
		return nil, err
	}
	data, err := issue(ctx, s, cmd, req)
	if err != nil {
		return nil, err
	}
	if len(data) < int(length) {
		return nil, fmt.Errorf("%s: offset 0x%02X: got %d of %d bytes: %w",
			cmd.Name, offset, len(data), length, transport.ErrShortTransfer)
	}
	return data[:length], nil
}

// BlockWrite writes one byte at offset.
func BlockWrite(ctx context.Context, s transport.Sender, cmd Command, offset, b uint8) error {
	req, err := EncodeBlockWrite(cmd, offset, b)
	if err != nil {
		return err
	}
	_, err = issue(ctx, s, cmd, req)
	return err
}
