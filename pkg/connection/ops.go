package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/profile"
	"github.com/tic-motion/tic-go/pkg/setting"
	"github.com/tic-motion/tic-go/pkg/transport"
	"github.com/tic-motion/tic-go/pkg/variable"
)

// Send issues a NoArgs command.
func (m *Manager) Send(ctx context.Context, cmd command.Command) error {
	return m.exec(ctx, cmd.Name, func(ctx context.Context, s transport.Sender) error {
		return command.Send(ctx, s, cmd)
	})
}

// SendSmall issues a SmallArg command.
func (m *Manager) SendSmall(ctx context.Context, cmd command.Command, v int) error {
	return m.exec(ctx, cmd.Name, func(ctx context.Context, s transport.Sender) error {
		return command.SendSmall(ctx, s, cmd, v)
	})
}

// SendWide issues a WideArg command.
func (m *Manager) SendWide(ctx context.Context, cmd command.Command, v int32) error {
	return m.exec(ctx, cmd.Name, func(ctx context.Context, s transport.Sender) error {
		return command.SendWide(ctx, s, cmd, v)
	})
}

// GetSetting reads a setting from the bound device.
func (m *Manager) GetSetting(ctx context.Context, st setting.Setting) (int64, error) {
	var out int64
	err := m.exec(ctx, "get "+st.Name, func(ctx context.Context, s transport.Sender) error {
		v, err := setting.Get(ctx, s, st)
		out = v
		return err
	})
	return out, err
}

// SetSetting writes a setting on the bound device. The value is not added
// to the cached profile.
func (m *Manager) SetSetting(ctx context.Context, st setting.Setting, v int64) error {
	return m.exec(ctx, "set "+st.Name, func(ctx context.Context, s transport.Sender) error {
		return setting.Set(ctx, s, st, v)
	})
}

// GetVariable reads a status variable.
func (m *Manager) GetVariable(ctx context.Context, v variable.Variable) (int64, error) {
	var out int64
	err := m.exec(ctx, "get "+v.Name, func(ctx context.Context, s transport.Sender) error {
		val, err := variable.Get(ctx, s, v)
		out = val
		return err
	})
	return out, err
}

// GetVariableAndClear reads a status variable and clears latched errors.
func (m *Manager) GetVariableAndClear(ctx context.Context, v variable.Variable) (int64, error) {
	var out int64
	err := m.exec(ctx, "get-clear "+v.Name, func(ctx context.Context, s transport.Sender) error {
		val, err := variable.GetAndClear(ctx, s, v)
		out = val
		return err
	})
	return out, err
}

// Snapshot reads several variables under one hold of the I/O lock.
func (m *Manager) Snapshot(ctx context.Context, vars ...variable.Variable) (map[string]int64, error) {
	var out map[string]int64
	err := m.exec(ctx, "snapshot", func(ctx context.Context, s transport.Sender) error {
		snap, err := variable.Snapshot(ctx, s, vars...)
		out = snap
		return err
	})
	return out, err
}

// ApplyProfile caches p for future binds. When a device is bound, p is
// replayed immediately, followed by Reinitialize and Energize.
func (m *Manager) ApplyProfile(ctx context.Context, p *profile.Profile) error {
	c := p.Clone()

	m.ioMu.Lock()
	m.mu.Lock()
	m.profile = c
	m.profileGen++
	m.mu.Unlock()

	s := m.active
	if s == nil {
		m.ioMu.Unlock()
		return nil
	}
	return m.finish(ctx, "apply profile", prepare(ctx, s, c))
}

// CaptureProfile reads settings from the bound device into a new profile.
// With no settings given, the whole table is read.
func (m *Manager) CaptureProfile(ctx context.Context, settings ...setting.Setting) (*profile.Profile, error) {
	var out *profile.Profile
	err := m.exec(ctx, "capture profile", func(ctx context.Context, s transport.Sender) error {
		p, err := profile.Capture(ctx, s, settings...)
		out = p
		return err
	})
	return out, err
}

// SetTargetPosition starts a move to pos.
func (m *Manager) SetTargetPosition(ctx context.Context, pos int32) error {
	return m.SendWide(ctx, command.SetTargetPosition, pos)
}

// TrySetPosition starts a move to pos if a device is bound. Failures are
// dropped; use SetTargetPosition to observe them.
func (m *Manager) TrySetPosition(ctx context.Context, pos int32) {
	if err := m.SetTargetPosition(ctx, pos); err != nil {
		m.debugLog("set position dropped", "position", pos, "error", err)
	}
}

// SetTargetVelocity runs the motor at v microsteps per 10000 s.
func (m *Manager) SetTargetVelocity(ctx context.Context, v int32) error {
	return m.SendWide(ctx, command.SetTargetVelocity, v)
}

// HaltAndSetPosition stops abruptly and redefines the current position.
func (m *Manager) HaltAndSetPosition(ctx context.Context, pos int32) error {
	return m.SendWide(ctx, command.HaltAndSetPosition, pos)
}

// HaltAndHold stops abruptly and holds the current position.
func (m *Manager) HaltAndHold(ctx context.Context) error {
	return m.Send(ctx, command.HaltAndHold)
}

// Energize enables the motor driver.
func (m *Manager) Energize(ctx context.Context) error {
	return m.Send(ctx, command.Energize)
}

// Deenergize disables the motor driver.
func (m *Manager) Deenergize(ctx context.Context) error {
	return m.Send(ctx, command.Deenergize)
}

// ExitSafeStart allows motion after a safe start stop.
func (m *Manager) ExitSafeStart(ctx context.Context) error {
	return m.Send(ctx, command.ExitSafeStart)
}

// EnterSafeStart stops the motor until ExitSafeStart.
func (m *Manager) EnterSafeStart(ctx context.Context) error {
	return m.Send(ctx, command.EnterSafeStart)
}

// ResetCommandTimeout keeps the controller's command timeout from expiring.
func (m *Manager) ResetCommandTimeout(ctx context.Context) error {
	return m.Send(ctx, command.ResetCommandTimeout)
}

// ClearDriverError clears a latched motor driver error.
func (m *Manager) ClearDriverError(ctx context.Context) error {
	return m.Send(ctx, command.ClearDriverError)
}

// GoHome starts the controller's homing procedure.
func (m *Manager) GoHome(ctx context.Context, dir HomeDirection) error {
	return m.SendSmall(ctx, command.GoHome, int(dir))
}

// Position returns the current position. ok is false if it could not be read.
func (m *Manager) Position(ctx context.Context) (int32, bool) {
	v, err := m.GetVariable(ctx, variable.CurrentPosition)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

// Velocity returns the current velocity. ok is false if it could not be read.
func (m *Manager) Velocity(ctx context.Context) (int32, bool) {
	v, err := m.GetVariable(ctx, variable.CurrentVelocity)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

// SetHome brings the motor to rest and defines the resting point as
// position zero. The I/O lock is released between velocity polls.
func (m *Manager) SetHome(ctx context.Context) error {
	if err := m.SetTargetVelocity(ctx, 0); err != nil {
		return err
	}

	deadline := time.Now().Add(m.cfg.HomeTimeout)
	for {
		v, err := m.GetVariable(ctx, variable.CurrentVelocity)
		if err != nil {
			return err
		}
		if v == 0 {
			break
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: velocity %d after %v", ErrHomeTimeout, v, m.cfg.HomeTimeout)
		}

		timer := time.NewTimer(m.cfg.HomePollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return m.HaltAndSetPosition(ctx, 0)
}
