package setting

import (
	"context"
	"fmt"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/transport"
)

func readByte(ctx context.Context, s transport.Sender, offset uint8) (byte, error) {
	b, err := command.BlockRead(ctx, s, command.GetSetting, offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// writeIfChanged writes b at offset unless settings memory already holds it.
func writeIfChanged(ctx context.Context, s transport.Sender, offset, b uint8) error {
	cur, err := readByte(ctx, s, offset)
	if err != nil {
		return err
	}
	if cur == b {
		return nil
	}
	return command.BlockWrite(ctx, s, command.SetSetting, offset, b)
}

// Decode converts raw bytes of a Signed or Unsigned setting to its value.
func Decode(raw []byte, signed bool) int64 {
	var u uint64
	for i := len(raw) - 1; i >= 0; i-- {
		u = u<<8 | uint64(raw[i])
	}
	if signed && len(raw) > 0 && len(raw) < 8 {
		shift := uint(64 - 8*len(raw))
		return int64(u<<shift) >> shift
	}
	return int64(u)
}

// Encode returns the little-endian image of v truncated to length bytes.
func Encode(v int64, length uint8) []byte {
	out := make([]byte, length)
	u := uint64(v)
	for i := range out {
		out[i] = byte(u >> (8 * i))
	}
	return out
}

// Get reads the current value of st.
func Get(ctx context.Context, s transport.Sender, st Setting) (int64, error) {
	if err := st.Validate(); err != nil {
		return 0, err
	}

	switch st.Scheme {
	case Signed, Unsigned:
		raw, err := command.BlockRead(ctx, s, command.GetSetting, st.Offset, st.Length)
		if err != nil {
			return 0, err
		}
		return Decode(raw, st.Scheme == Signed), nil

	case BooleanFlag:
		b, err := readByte(ctx, s, st.Offset)
		if err != nil {
			return 0, err
		}
		return int64(b>>st.Aux) & 1, nil

	default: // Bit14Split
		lo, err := readByte(ctx, s, st.Offset)
		if err != nil {
			return 0, err
		}
		hi, err := readByte(ctx, s, st.Aux)
		if err != nil {
			return 0, err
		}
		return int64(hi&0x7F)<<7 | int64(lo&0x7F), nil
	}
}

// Set stores v in st, writing only the bytes that change.
func Set(ctx context.Context, s transport.Sender, st Setting, v int64) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if err := st.CheckValue(v); err != nil {
		return fmt.Errorf("%w: %w", command.ErrProtocolViolation, err)
	}

	switch st.Scheme {
	case Signed, Unsigned:
		for i, b := range Encode(v, st.Length) {
			if err := writeIfChanged(ctx, s, st.Offset+uint8(i), b); err != nil {
				return err
			}
		}
		return nil

	case BooleanFlag:
		cur, err := readByte(ctx, s, st.Offset)
		if err != nil {
			return err
		}
		next := cur &^ (1 << st.Aux)
		if v == 1 {
			next |= 1 << st.Aux
		}
		if next == cur {
			return nil
		}
		return command.BlockWrite(ctx, s, command.SetSetting, st.Offset, next)

	default: // Bit14Split
		lo, err := readByte(ctx, s, st.Offset)
		if err != nil {
			return err
		}
		hi, err := readByte(ctx, s, st.Aux)
		if err != nil {
			return err
		}
		nextLo := lo&0x80 | byte(v&0x7F)
		nextHi := hi&0x80 | byte((v>>7)&0x7F)
		if nextLo != lo {
			if err := command.BlockWrite(ctx, s, command.SetSetting, st.Offset, nextLo); err != nil {
				return err
			}
		}
		if nextHi != hi {
			if err := command.BlockWrite(ctx, s, command.SetSetting, st.Aux, nextHi); err != nil {
				return err
			}
		}
		return nil
	}
}
