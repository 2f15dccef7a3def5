package connection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tic-motion/tic-go/internal/testharness/sim"
	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/log"
	"github.com/tic-motion/tic-go/pkg/profile"
	"github.com/tic-motion/tic-go/pkg/setting"
	"github.com/tic-motion/tic-go/pkg/transport"
	"github.com/tic-motion/tic-go/pkg/transport/mocks"
	"github.com/tic-motion/tic-go/pkg/variable"
)

var testInfo = transport.Info{VendorID: 0x1FFB, ProductID: 0x00B5, Serial: "00123456", Path: "1-2"}

var fastDiscovery = BackoffConfig{Initial: 5 * time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 1}

func newTestManager(t *testing.T, tr transport.Transport, mutate func(*Config)) *Manager {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Transport = tr
	cfg.Filter = transport.Filter{VendorID: 0x1FFB}
	cfg.Discovery = fastDiscovery
	cfg.HomePollInterval = time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func waitState(t *testing.T, m *Manager, want State) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.WaitState(ctx, want), "waiting for %s", want)
}

func startBound(t *testing.T, m *Manager) {
	t.Helper()
	require.NoError(t, m.Start(context.Background()))
	waitState(t, m, StateBound)
}

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p := profile.New()
	require.NoError(t, p.Set(setting.StepMode, 3))
	require.NoError(t, p.Set(setting.MaxSpeed, 2000000))
	return p
}

func TestNewManagerRequiresTransport(t *testing.T) {
	_, err := NewManager(DefaultConfig())
	assert.ErrorIs(t, err, ErrNoTransport)
}

func TestUnavailableWhileUnbound(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	ctx := context.Background()

	assert.Equal(t, StateUnbound, m.State())
	assert.ErrorIs(t, m.SetTargetPosition(ctx, 100), ErrDeviceUnavailable)
	assert.ErrorIs(t, m.Energize(ctx), ErrDeviceUnavailable)

	_, ok := m.Position(ctx)
	assert.False(t, ok)
	_, ok = m.Velocity(ctx)
	assert.False(t, ok)
	_, ok = m.Info()
	assert.False(t, ok)

	m.TrySetPosition(ctx, 5)
	assert.Empty(t, dev.Requests())
	assert.Zero(t, dev.Discovers())
}

func TestBindReplaysProfile(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, func(c *Config) { c.Profile = testProfile(t) })
	startBound(t, m)

	assert.Equal(t, []byte{3}, dev.SettingBytes(setting.StepMode.Offset, 1))
	assert.Equal(t, []byte{0x80, 0x84, 0x1E, 0x00}, dev.SettingBytes(setting.MaxSpeed.Offset, 4))
	assert.Equal(t, 1, dev.Reinits())
	assert.True(t, dev.Energized())

	reqs := dev.Requests()
	require.GreaterOrEqual(t, len(reqs), 2)
	assert.Equal(t, command.Reinitialize.Code, reqs[len(reqs)-2].Code)
	assert.Equal(t, command.Energize.Code, reqs[len(reqs)-1].Code)

	info, ok := m.Info()
	assert.True(t, ok)
	assert.Equal(t, testInfo, info)
	assert.NotEmpty(t, m.SessionID())
}

func TestMotionWhileBound(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	startBound(t, m)
	ctx := context.Background()

	require.NoError(t, m.SetTargetPosition(ctx, -1234))
	pos, ok := m.Position(ctx)
	assert.True(t, ok)
	assert.Equal(t, int32(-1234), pos)

	require.NoError(t, m.SetTargetVelocity(ctx, 5000))
	vel, ok := m.Velocity(ctx)
	assert.True(t, ok)
	assert.Equal(t, int32(5000), vel)

	require.NoError(t, m.HaltAndHold(ctx))
	vel, _ = m.Velocity(ctx)
	assert.Zero(t, vel)

	m.TrySetPosition(ctx, 77)
	pos, _ = m.Position(ctx)
	assert.Equal(t, int32(77), pos)

	require.NoError(t, m.Deenergize(ctx))
	assert.False(t, dev.Energized())
	require.NoError(t, m.Energize(ctx))
	require.NoError(t, m.ExitSafeStart(ctx))
	require.NoError(t, m.EnterSafeStart(ctx))
	require.NoError(t, m.ResetCommandTimeout(ctx))
	require.NoError(t, m.ClearDriverError(ctx))
	require.NoError(t, m.GoHome(ctx, HomeForward))

	last := dev.Requests()[len(dev.Requests())-1]
	assert.Equal(t, transport.Request{Direction: transport.DirectionOut, Code: command.GoHome.Code, Value: 1}, last)
}

func TestSettingsAndVariablesThroughManager(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	startBound(t, m)
	ctx := context.Background()

	require.NoError(t, m.SetSetting(ctx, setting.CurrentLimit, 40))
	v, err := m.GetSetting(ctx, setting.CurrentLimit)
	require.NoError(t, err)
	assert.Equal(t, int64(40), v)

	dev.SetVariable(sim.VarErrorsOccurred, 4, int64(variable.ErrCommandTimeout))
	bits, err := m.GetVariableAndClear(ctx, variable.ErrorsOccurred)
	require.NoError(t, err)
	assert.True(t, variable.ErrorBits(bits).Has(variable.ErrCommandTimeout))

	snap, err := m.Snapshot(ctx, variable.OperationState, variable.ErrorsOccurred)
	require.NoError(t, err)
	assert.Equal(t, int64(variable.OperationNormal), snap["OperationState"])
	assert.Zero(t, snap["ErrorsOccurred"])

	_, err = m.GetSetting(ctx, setting.Setting{Name: "Bad", Length: 3})
	assert.ErrorIs(t, err, setting.ErrInvalidSetting)
	assert.True(t, m.IsBound())
}

func TestProtocolViolationKeepsBinding(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	startBound(t, m)
	ctx := context.Background()
	dev.ClearRequests()

	err := m.SendSmall(ctx, command.SetStepMode, 200)
	assert.ErrorIs(t, err, command.ErrProtocolViolation)
	assert.NotErrorIs(t, err, ErrTransportFailure)

	err = m.SetSetting(ctx, setting.StepMode, 1000)
	assert.ErrorIs(t, err, command.ErrProtocolViolation)

	assert.True(t, m.IsBound())
	assert.Empty(t, dev.Requests())
}

func TestDisconnectAndRebind(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, func(c *Config) { c.Profile = testProfile(t) })
	startBound(t, m)
	ctx := context.Background()
	firstSession := m.SessionID()

	dev.Unplug()

	err := m.SetTargetPosition(ctx, 10)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.ErrorIs(t, err, transport.ErrDisconnected)
	assert.False(t, m.IsBound())

	err = m.SetTargetPosition(ctx, 10)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	_, ok := m.Position(ctx)
	assert.False(t, ok)

	dev.ClearRequests()
	dev.Plug()
	waitState(t, m, StateBound)

	assert.NotEqual(t, firstSession, m.SessionID())
	assert.Empty(t, dev.Writes(), "settings persisted across replug")
	assert.Equal(t, 2, dev.Reinits())
	assert.True(t, dev.Energized())

	require.NoError(t, m.SetTargetPosition(ctx, 10))
}

func TestTransferFailureUnbinds(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)

	var (
		mu      sync.Mutex
		unbound []error
	)
	m.OnUnbound(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		unbound = append(unbound, err)
	})
	startBound(t, m)

	boom := errors.New("pipe stall")
	dev.FailNext(boom)

	_, err := m.GetVariable(context.Background(), variable.CurrentPosition)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.ErrorIs(t, err, boom)

	// The device is still attached, so discovery finds it again.
	waitState(t, m, StateBound)
	require.NoError(t, m.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, unbound, 2)
	assert.ErrorIs(t, unbound[0], boom)
	assert.ErrorIs(t, unbound[1], ErrClosed)
}

func TestApplyProfileWhileBound(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	startBound(t, m)
	dev.ClearRequests()

	p := profile.New()
	require.NoError(t, p.Set(setting.DecayMode, 2))
	require.NoError(t, m.ApplyProfile(context.Background(), p))

	assert.Equal(t, []byte{2}, dev.SettingBytes(setting.DecayMode.Offset, 1))
	assert.Len(t, dev.Writes(), 1)
	assert.Equal(t, 2, dev.Reinits())

	// The cached copy is independent of the caller's profile.
	require.NoError(t, p.Set(setting.DecayMode, 0))
	cached, _ := m.Profile().Get(setting.DecayMode)
	assert.Equal(t, int64(2), cached)
}

func TestApplyProfileWhileUnbound(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)

	require.NoError(t, m.ApplyProfile(context.Background(), testProfile(t)))
	assert.Empty(t, dev.Requests())

	startBound(t, m)
	assert.Equal(t, []byte{3}, dev.SettingBytes(setting.StepMode.Offset, 1))
}

func TestCallsFailFastWhileBinding(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)

	var (
		seen    bool
		state   State
		callErr error
	)
	dev.Handlers.OnTransfer = func(req transport.Request) error {
		if req.Code == command.Reinitialize.Code && !seen {
			seen = true
			state = m.State()
			callErr = m.SetTargetPosition(context.Background(), 50)
		}
		return nil
	}
	startBound(t, m)

	require.True(t, seen)
	assert.Equal(t, StateBinding, state)
	assert.ErrorIs(t, callErr, ErrDeviceUnavailable)
	assert.Zero(t, dev.Count(command.SetTargetPosition.Code))
}

func TestApplyProfileDuringBind(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, func(c *Config) { c.Profile = testProfile(t) })

	updated := testProfile(t)
	require.NoError(t, updated.Set(setting.DecayMode, 2))

	var (
		applied  bool
		applyErr error
		replayed bool
		callErr  error
	)
	dev.Handlers.OnTransfer = func(req transport.Request) error {
		if req.Code != command.Reinitialize.Code {
			return nil
		}
		if !applied {
			applied = true
			applyErr = m.ApplyProfile(context.Background(), updated)
			return nil
		}
		if !replayed {
			// The bind holds the I/O lock during the second replay.
			replayed = true
			callErr = m.Energize(context.Background())
		}
		return nil
	}

	reinitsAtBind := make(chan int, 1)
	m.OnBound(func(transport.Info) { reinitsAtBind <- dev.Reinits() })
	startBound(t, m)

	require.True(t, applied)
	require.NoError(t, applyErr)
	require.True(t, replayed)
	assert.ErrorIs(t, callErr, ErrDeviceUnavailable)
	assert.Equal(t, 2, <-reinitsAtBind, "updated profile replayed before bound")
	assert.Equal(t, []byte{2}, dev.SettingBytes(setting.DecayMode.Offset, 1))
	assert.True(t, dev.Energized())

	v, ok := m.Profile().Get(setting.DecayMode)
	require.True(t, ok)
	assert.Equal(t, int64(2), v)
}

func TestSetHome(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	startBound(t, m)
	ctx := context.Background()

	require.NoError(t, m.SetTargetPosition(ctx, 500))
	require.NoError(t, m.SetTargetVelocity(ctx, 2000))
	dev.SetStopPolls(3)

	require.NoError(t, m.SetHome(ctx))

	pos, ok := m.Position(ctx)
	assert.True(t, ok)
	assert.Zero(t, pos)
	assert.GreaterOrEqual(t, dev.Count(command.GetVariable.Code), 4)
}

func TestSetHomeTimeout(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, func(c *Config) { c.HomeTimeout = 30 * time.Millisecond })
	startBound(t, m)
	ctx := context.Background()

	require.NoError(t, m.SetTargetVelocity(ctx, 2000))
	dev.SetStuck(true)

	err := m.SetHome(ctx)
	assert.ErrorIs(t, err, ErrHomeTimeout)
	assert.True(t, m.IsBound())
	assert.Zero(t, dev.Count(command.HaltAndSetPosition.Code))
}

func TestSetHomeCancelled(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, func(c *Config) { c.HomePollInterval = 10 * time.Millisecond })
	startBound(t, m)

	require.NoError(t, m.SetTargetVelocity(context.Background(), 2000))
	dev.SetStuck(true)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	err := m.SetHome(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, m.IsBound(), "cancellation is not a device failure")
}

func TestDiscoveryRetries(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, func(c *Config) {
		c.Filter = transport.Filter{VendorID: 0x1FFB, Serial: "other"}
	})
	require.NoError(t, m.Start(context.Background()))

	assert.Eventually(t, func() bool { return dev.Discovers() >= 3 }, time.Second, time.Millisecond)
	assert.False(t, m.IsBound())
}

func TestStartTwice(t *testing.T) {
	m := newTestManager(t, sim.NewDevice(testInfo), nil)
	require.NoError(t, m.Start(context.Background()))
	assert.ErrorIs(t, m.Start(context.Background()), ErrAlreadyStarted)
}

func TestClose(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	startBound(t, m)

	var unboundErr atomic.Value
	m.OnUnbound(func(err error) { unboundErr.Store(err) })

	require.NoError(t, m.Close())
	assert.Equal(t, StateClosed, m.State())
	require.NoError(t, m.Close())

	err := m.Energize(context.Background())
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Start(context.Background()), ErrClosed)
	assert.ErrorIs(t, m.WaitState(context.Background(), StateBound), ErrClosed)

	got, _ := unboundErr.Load().(error)
	assert.ErrorIs(t, got, ErrClosed)
}

func TestStateCallbacks(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)

	var mu sync.Mutex
	var transitions []string
	m.OnStateChange(func(old, next State) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, old.String()+">"+next.String())
	})
	bound := make(chan transport.Info, 1)
	m.OnBound(func(info transport.Info) { bound <- info })

	startBound(t, m)
	select {
	case info := <-bound:
		assert.Equal(t, testInfo.Serial, info.Serial)
	case <-time.After(time.Second):
		t.Fatal("OnBound not called")
	}

	dev.Unplug()
	_ = m.Energize(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(transitions), 3)
	assert.Equal(t, []string{"UNBOUND>BINDING", "BINDING>BOUND", "BOUND>UNBOUND"}, transitions[:3])
}

func TestPrepareFailureClosesCandidate(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	h := mocks.NewMockHandle(t)

	tr.EXPECT().Discover(mock.Anything, mock.Anything).Return(h, nil).Once()
	tr.EXPECT().Discover(mock.Anything, mock.Anything).Return(nil, transport.ErrNotFound).Maybe()
	h.EXPECT().Info().Return(testInfo)
	h.EXPECT().Transfer(mock.Anything, transport.Request{Direction: transport.DirectionOut, Code: command.Reinitialize.Code}).
		Return(nil, transport.ErrDisconnected)
	closed := make(chan struct{})
	h.EXPECT().Close().RunAndReturn(func() error {
		close(closed)
		return nil
	}).Once()

	m := newTestManager(t, tr, nil)
	require.NoError(t, m.Start(context.Background()))

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("candidate handle not closed")
	}
	assert.Eventually(t, func() bool { return m.State() != StateBound }, time.Second, time.Millisecond)
	assert.ErrorIs(t, m.Energize(context.Background()), ErrDeviceUnavailable)
}

type recordingTrace struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingTrace) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingTrace) snapshot() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event(nil), r.events...)
}

func TestDisabledTraceSkipsWrapper(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, func(c *Config) { c.Trace = log.NewMultiLogger(log.NoopLogger{}) })
	startBound(t, m)

	m.ioMu.Lock()
	_, traced := m.active.(*tracingSender)
	m.ioMu.Unlock()
	assert.False(t, traced)
	assert.Equal(t, log.NoopLogger{}, m.cfg.Trace)
}

func TestTraceRecordsSession(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	trace := &recordingTrace{}
	m := newTestManager(t, dev, func(c *Config) { c.Trace = trace })
	startBound(t, m)

	_, ok := m.Position(context.Background())
	require.True(t, ok)
	session := m.SessionID()

	boundEvent := func() *log.Event {
		for _, e := range trace.snapshot() {
			if e.Category == log.CategoryState && e.StateChange.NewState == "BOUND" {
				return &e
			}
		}
		return nil
	}
	// The state event is recorded after the handle is published.
	require.Eventually(t, func() bool { return boundEvent() != nil }, time.Second, time.Millisecond)
	assert.Equal(t, session, boundEvent().SessionID)

	var transfers []log.Event
	for _, e := range trace.snapshot() {
		if e.Category == log.CategoryTransfer {
			transfers = append(transfers, e)
			assert.Equal(t, session, e.SessionID)
			assert.Equal(t, testInfo.Serial, e.Serial)
		}
	}
	// Reinitialize, Energize and the position read.
	require.Len(t, transfers, 3)
	assert.Equal(t, "Reinitialize", transfers[0].Transfer.Command)
	assert.Equal(t, "Energize", transfers[1].Transfer.Command)

	last := transfers[2]
	assert.Equal(t, "GetVariable", last.Transfer.Command)
	assert.Equal(t, log.DirectionIn, last.Direction)
	assert.Len(t, last.Transfer.Data, 4)
}

func TestConcurrentCallersDuringReplug(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	m := newTestManager(t, dev, nil)
	startBound(t, m)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for ctx.Err() == nil {
				err := m.SetTargetPosition(ctx, int32(i))
				if err != nil && !errors.Is(err, ErrDeviceUnavailable) &&
					!errors.Is(err, ErrTransportFailure) && !errors.Is(err, context.DeadlineExceeded) {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}(i)
	}

	for i := 0; i < 5; i++ {
		time.Sleep(10 * time.Millisecond)
		dev.Unplug()
		time.Sleep(10 * time.Millisecond)
		dev.Plug()
	}
	wg.Wait()

	waitState(t, m, StateBound)
}

func TestCaptureProfile(t *testing.T) {
	dev := sim.NewDevice(testInfo)
	dev.SetSettingBytes(setting.StepMode.Offset, 2)
	m := newTestManager(t, dev, nil)
	startBound(t, m)

	p, err := m.CaptureProfile(context.Background(), setting.StepMode, setting.CurrentLimit)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
	v, ok := p.Get(setting.StepMode)
	assert.True(t, ok)
	assert.Equal(t, int64(2), v)
}
