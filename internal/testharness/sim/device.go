// Package sim provides a simulated motor controller for testing.
//
// A Device holds settings and variable memory, interprets the command set
// and records every transfer it receives. It implements transport.Transport
// so it can stand in for the USB adapter, and can be unplugged and plugged
// back in to exercise rebind paths.
package sim

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/transport"
)

// MemorySize is the size of the settings and variable address spaces.
const MemorySize = 256

// Variable offsets the simulator maintains itself.
const (
	VarOperationState  uint8 = 0x00
	VarErrorStatus     uint8 = 0x02
	VarErrorsOccurred  uint8 = 0x04
	VarTargetPosition  uint8 = 0x0A
	VarTargetVelocity  uint8 = 0x0E
	VarCurrentPosition uint8 = 0x22
	VarCurrentVelocity uint8 = 0x26
)

// Operation state values.
const (
	StateDeenergized uint8 = 2
	StateNormal      uint8 = 10
)

// Handlers are optional hooks into transfer processing.
type Handlers struct {
	// OnTransfer runs before the simulator interprets a request. A non-nil
	// error fails the transfer. It is called with the device lock held.
	OnTransfer func(req transport.Request) error
}

// Device is a simulated controller.
type Device struct {
	Handlers Handlers

	mu         sync.Mutex
	info       transport.Info
	attached   bool
	generation int
	settings   [MemorySize]byte
	variables  [MemorySize]byte
	requests   []transport.Request
	discovers  int
	failNext   []error
	stopPolls  int
	pending    int
	stopping   bool
	stuck      bool
	reinits    int
	resets     int
}

// NewDevice creates an attached simulated controller with the given identity.
func NewDevice(info transport.Info) *Device {
	d := &Device{info: info, attached: true}
	d.variables[VarOperationState] = StateDeenergized
	return d
}

// Info returns the identity the device reports during discovery.
func (d *Device) Info() transport.Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.info
}

// Unplug detaches the device. Existing handles fail with ErrDisconnected.
func (d *Device) Unplug() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attached = false
	d.generation++
}

// Plug reattaches the device. Volatile state returns to power-on values;
// settings memory persists.
func (d *Device) Plug() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attached = true
	d.stopping = false
	d.pending = 0
	d.variables = [MemorySize]byte{}
	d.variables[VarOperationState] = StateDeenergized
}

// Attached reports whether the device is plugged in.
func (d *Device) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached
}

// FailNext makes the next transfer fail with err. Calls queue.
func (d *Device) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failNext = append(d.failNext, err)
}

// SetStopPolls sets how many CurrentVelocity reads it takes the motor to
// come to rest after a zero target velocity.
func (d *Device) SetStopPolls(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopPolls = n
}

// SetStuck keeps CurrentVelocity from ever reaching zero.
func (d *Device) SetStuck(stuck bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stuck = stuck
}

// SetSettingBytes stores raw bytes in settings memory.
func (d *Device) SetSettingBytes(offset uint8, data ...byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.settings[offset:], data)
}

// SettingBytes returns n raw bytes of settings memory.
func (d *Device) SettingBytes(offset uint8, n int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, n)
	copy(out, d.settings[offset:])
	return out
}

// SetVariable stores a little-endian value of length bytes in variable memory.
func (d *Device) SetVariable(offset uint8, length int, v int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.putVar(offset, length, v)
}

// Variable reads a little-endian signed value of length bytes.
func (d *Device) Variable(offset uint8, length int) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.getVar(offset, length)
}

// Requests returns every transfer received so far.
func (d *Device) Requests() []transport.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]transport.Request, len(d.requests))
	copy(out, d.requests)
	return out
}

// Writes returns the SetSetting requests received so far.
func (d *Device) Writes() []transport.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []transport.Request
	for _, r := range d.requests {
		if r.Code == command.SetSetting.Code {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many requests with the given code were received.
func (d *Device) Count(code uint8) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, r := range d.requests {
		if r.Code == code {
			n++
		}
	}
	return n
}

// ClearRequests forgets recorded transfers.
func (d *Device) ClearRequests() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = d.requests[:0]
}

// Discovers returns how many discovery attempts were made.
func (d *Device) Discovers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.discovers
}

// Reinits returns how many Reinitialize commands were processed.
func (d *Device) Reinits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reinits
}

// Energized reports whether the driver is energized.
func (d *Device) Energized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.variables[VarOperationState] == StateNormal
}

// Discover returns a handle when the device is attached and matches filter.
func (d *Device) Discover(ctx context.Context, filter transport.Filter) (transport.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.discovers++

	if !d.attached || !filter.Matches(d.info) {
		return nil, transport.ErrNotFound
	}
	return &Handle{dev: d, generation: d.generation}, nil
}

func (d *Device) putVar(offset uint8, length int, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	copy(d.variables[offset:int(offset)+length], buf[:length])
}

func (d *Device) getVar(offset uint8, length int) int64 {
	var buf [8]byte
	copy(buf[:length], d.variables[offset:])
	u := binary.LittleEndian.Uint64(buf[:])
	shift := uint(64 - 8*length)
	return int64(u<<shift) >> shift
}

// transfer must be called with d.mu held.
func (d *Device) transfer(h *Handle, req transport.Request) ([]byte, error) {
	if h.closed {
		return nil, transport.ErrClosed
	}
	if !d.attached || h.generation != d.generation {
		return nil, transport.ErrDisconnected
	}

	d.requests = append(d.requests, req)

	if len(d.failNext) > 0 {
		err := d.failNext[0]
		d.failNext = d.failNext[1:]
		return nil, err
	}
	if d.Handlers.OnTransfer != nil {
		if err := d.Handlers.OnTransfer(req); err != nil {
			return nil, err
		}
	}

	return d.interpret(req), nil
}

func wide(req transport.Request) int64 {
	return int64(int32(uint32(req.Index)<<16 | uint32(req.Value)))
}

func (d *Device) interpret(req transport.Request) []byte {
	switch req.Code {
	case command.GetSetting.Code:
		return d.read(d.settings[:], req)

	case command.SetSetting.Code:
		d.settings[uint8(req.Index)] = byte(req.Value)

	case command.GetVariable.Code:
		if uint8(req.Index) == VarCurrentVelocity {
			d.settle()
		}
		return d.read(d.variables[:], req)

	case command.GetVariableAndClearErrors.Code:
		out := d.read(d.variables[:], req)
		d.putVar(VarErrorsOccurred, 4, 0)
		return out

	case command.SetTargetPosition.Code:
		pos := wide(req)
		d.putVar(VarTargetPosition, 4, pos)
		d.putVar(VarCurrentPosition, 4, pos)

	case command.SetTargetVelocity.Code:
		v := wide(req)
		d.putVar(VarTargetVelocity, 4, v)
		d.stopping = false
		if v == 0 && d.getVar(VarCurrentVelocity, 4) != 0 {
			d.stopping = true
			d.pending = d.stopPolls
			if d.pending == 0 && !d.stuck {
				d.putVar(VarCurrentVelocity, 4, 0)
				d.stopping = false
			}
		} else {
			d.putVar(VarCurrentVelocity, 4, v)
		}

	case command.HaltAndSetPosition.Code:
		d.stopping = false
		pos := wide(req)
		d.putVar(VarCurrentPosition, 4, pos)
		d.putVar(VarTargetPosition, 4, pos)
		d.putVar(VarCurrentVelocity, 4, 0)
		d.putVar(VarTargetVelocity, 4, 0)

	case command.HaltAndHold.Code:
		d.stopping = false
		d.putVar(VarCurrentVelocity, 4, 0)
		d.putVar(VarTargetVelocity, 4, 0)

	case command.Energize.Code:
		d.variables[VarOperationState] = StateNormal

	case command.Deenergize.Code:
		d.variables[VarOperationState] = StateDeenergized

	case command.Reinitialize.Code:
		d.reinits++

	case command.Reset.Code:
		d.resets++
		d.variables = [MemorySize]byte{}
		d.variables[VarOperationState] = StateDeenergized
	}
	return nil
}

// settle advances a decelerating motor by one poll.
func (d *Device) settle() {
	if !d.stopping || d.stuck {
		return
	}
	if d.pending > 0 {
		d.pending--
		return
	}
	d.putVar(VarCurrentVelocity, 4, 0)
	d.stopping = false
}

func (d *Device) read(mem []byte, req transport.Request) []byte {
	start := int(req.Index)
	end := start + int(req.Length)
	if end > len(mem) {
		end = len(mem)
	}
	out := make([]byte, end-start)
	copy(out, mem[start:end])
	return out
}

var _ transport.Transport = (*Device)(nil)
