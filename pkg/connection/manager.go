package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tic-motion/tic-go/pkg/command"
	"github.com/tic-motion/tic-go/pkg/log"
	"github.com/tic-motion/tic-go/pkg/profile"
	"github.com/tic-motion/tic-go/pkg/setting"
	"github.com/tic-motion/tic-go/pkg/transport"
	"github.com/tic-motion/tic-go/pkg/variable"
)

// Connection errors.
var (
	// ErrDeviceUnavailable is returned when no device is bound.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrTransportFailure wraps a transfer error that cost the binding.
	ErrTransportFailure = errors.New("transport failure")

	// ErrHomeTimeout is returned when the motor did not stop in time.
	ErrHomeTimeout = errors.New("home timeout")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("connection manager closed")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("connection manager already started")

	// ErrNoTransport is returned by NewManager without a transport.
	ErrNoTransport = errors.New("no transport configured")
)

// Defaults.
const (
	DefaultBindTimeout      = 5 * time.Second
	DefaultHomeTimeout      = 10 * time.Second
	DefaultHomePollInterval = 20 * time.Millisecond
)

// State is the binding state.
type State uint8

const (
	// StateUnbound indicates no device is bound.
	StateUnbound State = iota

	// StateBinding indicates discovery or preparation is in progress.
	StateBinding

	// StateBound indicates a prepared device is available.
	StateBound

	// StateClosed indicates the manager has been closed.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnbound:
		return "UNBOUND"
	case StateBinding:
		return "BINDING"
	case StateBound:
		return "BOUND"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// HomeDirection selects the GoHome search direction.
type HomeDirection int

const (
	HomeReverse HomeDirection = 0
	HomeForward HomeDirection = 1
)

// Config configures a Manager.
type Config struct {
	// Transport finds devices. Required.
	Transport transport.Transport

	// Filter selects the device to bind.
	Filter transport.Filter

	// Discovery sets the delay between discovery attempts.
	Discovery BackoffConfig

	// Profile is replayed after every bind. May be nil.
	Profile *profile.Profile

	// BindTimeout bounds one discovery and preparation attempt.
	BindTimeout time.Duration

	// HomeTimeout bounds the wait for the motor to stop in SetHome.
	HomeTimeout time.Duration

	// HomePollInterval is how often SetHome reads the velocity.
	HomePollInterval time.Duration

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Trace receives transfer, state and error events. Tracing is off when
	// log.Enabled reports false for it.
	Trace log.Logger
}

// DefaultConfig returns a Config with default timing and no transport.
func DefaultConfig() Config {
	return Config{
		Discovery:        DefaultBackoffConfig(),
		BindTimeout:      DefaultBindTimeout,
		HomeTimeout:      DefaultHomeTimeout,
		HomePollInterval: DefaultHomePollInterval,
	}
}

// Manager binds one controller and serializes access to it.
//
// Lock order is ioMu before mu. Callbacks run with neither held and must
// not call Close.
type Manager struct {
	cfg     Config
	backoff *Backoff

	// ioMu serializes foreground I/O and handle installation.
	ioMu   sync.Mutex
	handle transport.Handle
	active transport.Sender

	mu         sync.RWMutex
	state      State
	changed    chan struct{}
	info       transport.Info
	session    string
	profile    *profile.Profile
	profileGen uint64
	started    bool
	cancel     context.CancelFunc

	wg   sync.WaitGroup
	wake chan struct{}

	onStateChange func(oldState, newState State)
	onBound       func(info transport.Info)
	onUnbound     func(err error)
}

// NewManager creates a manager. Call Start to begin discovery.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Transport == nil {
		return nil, ErrNoTransport
	}
	def := DefaultConfig()
	if cfg.Discovery == (BackoffConfig{}) {
		cfg.Discovery = def.Discovery
	}
	if cfg.BindTimeout <= 0 {
		cfg.BindTimeout = def.BindTimeout
	}
	if cfg.HomeTimeout <= 0 {
		cfg.HomeTimeout = def.HomeTimeout
	}
	if cfg.HomePollInterval <= 0 {
		cfg.HomePollInterval = def.HomePollInterval
	}
	if !log.Enabled(cfg.Trace) {
		cfg.Trace = log.NoopLogger{}
	}

	return &Manager{
		cfg:     cfg,
		backoff: NewBackoff(cfg.Discovery),
		state:   StateUnbound,
		changed: make(chan struct{}),
		profile: cfg.Profile.Clone(),
		wake:    make(chan struct{}, 1),
	}, nil
}

// Start launches the discovery goroutine. It stops when ctx is cancelled
// or Close is called.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(ctx)
	return nil
}

// Close stops discovery and releases the bound handle. It is safe to call
// more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return nil
	}
	old := m.state
	m.setStateLocked(StateClosed)
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()

	m.ioMu.Lock()
	h := m.handle
	m.handle, m.active = nil, nil
	m.mu.Lock()
	session, info := m.session, m.info
	m.session, m.info = "", transport.Info{}
	m.mu.Unlock()
	m.ioMu.Unlock()

	var err error
	if h != nil {
		err = h.Close()
	}

	m.traceState(old, StateClosed, "closed", session, info)
	m.notifyState(old, StateClosed)
	if h != nil {
		m.notifyUnbound(ErrClosed)
	}
	return err
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsBound reports whether a device is bound.
func (m *Manager) IsBound() bool {
	return m.State() == StateBound
}

// Info returns the identity of the bound device.
func (m *Manager) Info() (transport.Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info, m.state == StateBound
}

// SessionID returns the id of the current binding, or "" when unbound.
func (m *Manager) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Profile returns a copy of the cached profile.
func (m *Manager) Profile() *profile.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile.Clone()
}

// WaitState blocks until the manager reaches want, ctx ends or the manager
// closes.
func (m *Manager) WaitState(ctx context.Context, want State) error {
	for {
		m.mu.RLock()
		st, ch := m.state, m.changed
		m.mu.RUnlock()

		if st == want {
			return nil
		}
		if st == StateClosed {
			return ErrClosed
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// OnStateChange sets a callback for state changes.
func (m *Manager) OnStateChange(fn func(oldState, newState State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// OnBound sets a callback for a completed bind.
func (m *Manager) OnBound(fn func(info transport.Info)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBound = fn
}

// OnUnbound sets a callback for loss of the binding.
func (m *Manager) OnUnbound(fn func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUnbound = fn
}

func (m *Manager) debugLog(msg string, args ...any) {
	if m.cfg.Logger != nil {
		m.cfg.Logger.Debug(msg, args...)
	}
}

// setStateLocked must be called with mu held.
func (m *Manager) setStateLocked(s State) {
	m.state = s
	close(m.changed)
	m.changed = make(chan struct{})
}

// transition moves from one state to another. It reports false when the
// manager was not in from.
func (m *Manager) transition(from, to State, reason string) bool {
	m.mu.Lock()
	if m.state != from {
		m.mu.Unlock()
		return false
	}
	m.setStateLocked(to)
	m.mu.Unlock()

	m.traceState(from, to, reason, "", transport.Info{})
	m.notifyState(from, to)
	return true
}

func (m *Manager) notifyState(old, next State) {
	m.mu.RLock()
	fn := m.onStateChange
	m.mu.RUnlock()
	if fn != nil {
		fn(old, next)
	}
}

func (m *Manager) notifyBound(info transport.Info) {
	m.mu.RLock()
	fn := m.onBound
	m.mu.RUnlock()
	if fn != nil {
		fn(info)
	}
}

func (m *Manager) notifyUnbound(err error) {
	m.mu.RLock()
	fn := m.onUnbound
	m.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

func (m *Manager) signalWake() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		if m.IsBound() {
			select {
			case <-ctx.Done():
				return
			case <-m.wake:
			}
			m.backoff.Reset()
			continue
		}

		err := m.bind(ctx)
		if err == nil {
			m.backoff.Reset()
			continue
		}
		if ctx.Err() != nil || errors.Is(err, ErrClosed) {
			return
		}

		delay := m.backoff.Next()
		m.debugLog("discovery attempt failed",
			"error", err,
			"attempt", m.backoff.Attempts(),
			"retry_in", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (m *Manager) sender(h transport.Handle, session string, info transport.Info) transport.Sender {
	if !log.Enabled(m.cfg.Trace) {
		return h
	}
	return &tracingSender{next: h, trace: m.cfg.Trace, session: session, info: info}
}

// prepare replays p and restarts the driver with the new settings.
func prepare(ctx context.Context, s transport.Sender, p *profile.Profile) error {
	if err := profile.Apply(ctx, s, p); err != nil {
		return err
	}
	if err := command.Send(ctx, s, command.Reinitialize); err != nil {
		return err
	}
	return command.Send(ctx, s, command.Energize)
}

func (m *Manager) bind(ctx context.Context) error {
	if !m.transition(StateUnbound, StateBinding, "discovering") {
		return ErrClosed
	}

	bctx, cancel := context.WithTimeout(ctx, m.cfg.BindTimeout)
	defer cancel()

	h, err := m.cfg.Transport.Discover(bctx, m.cfg.Filter)
	if err != nil {
		m.transition(StateBinding, StateUnbound, err.Error())
		return err
	}

	info := h.Info()
	session := uuid.NewString()
	s := m.sender(h, session, info)

	fail := func(err error) error {
		if cerr := h.Close(); cerr != nil {
			m.debugLog("close candidate handle", "error", cerr)
		}
		m.traceError(log.LayerProfile, err, "prepare", session, info)
		m.transition(StateBinding, StateUnbound, err.Error())
		return fmt.Errorf("prepare %s: %w", info.Serial, err)
	}

	m.mu.RLock()
	p, gen := m.profile, m.profileGen
	m.mu.RUnlock()

	if err := prepare(bctx, s, p); err != nil {
		return fail(err)
	}

	m.ioMu.Lock()

	// ApplyProfile holds ioMu to replace the profile, so it cannot change
	// again before the handle is published.
	m.mu.RLock()
	latest, latestGen := m.profile, m.profileGen
	m.mu.RUnlock()
	if latestGen != gen {
		if err := prepare(bctx, s, latest); err != nil {
			m.ioMu.Unlock()
			return fail(err)
		}
	}

	m.mu.Lock()
	if m.state != StateBinding {
		m.mu.Unlock()
		m.ioMu.Unlock()
		_ = h.Close()
		return ErrClosed
	}
	m.handle, m.active = h, s
	m.info, m.session = info, session
	m.setStateLocked(StateBound)
	m.mu.Unlock()
	m.ioMu.Unlock()

	m.debugLog("device bound",
		"serial", info.Serial,
		"product", fmt.Sprintf("0x%04X", info.ProductID),
		"path", info.Path,
		"session", session,
		"settings", latest.Len())
	m.traceState(StateBinding, StateBound, "prepared", session, info)
	m.notifyState(StateBinding, StateBound)
	m.notifyBound(info)
	return nil
}

// unbindLocked drops the handle after a transfer failure. It must be called
// with ioMu held and returns the notifications to run after unlocking.
func (m *Manager) unbindLocked(cause error) func() {
	h := m.handle
	m.handle, m.active = nil, nil
	if h != nil {
		if err := h.Close(); err != nil {
			m.debugLog("close failed handle", "error", err)
		}
	}

	m.mu.Lock()
	old := m.state
	session, info := m.session, m.info
	m.session, m.info = "", transport.Info{}
	if old == StateBound {
		m.setStateLocked(StateUnbound)
	}
	next := m.state
	m.mu.Unlock()

	m.debugLog("device lost", "serial", info.Serial, "error", cause)
	m.traceState(old, next, cause.Error(), session, info)
	m.signalWake()

	return func() {
		if old != next {
			m.notifyState(old, next)
		}
		m.notifyUnbound(cause)
	}
}

func isArgumentError(err error) bool {
	return errors.Is(err, command.ErrProtocolViolation) ||
		errors.Is(err, setting.ErrInvalidSetting) ||
		errors.Is(err, variable.ErrInvalidVariable)
}

// finish releases ioMu and maps err. Transfer failures unbind.
func (m *Manager) finish(ctx context.Context, op string, err error) error {
	if err == nil || isArgumentError(err) || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
		m.ioMu.Unlock()
		return err
	}
	notify := m.unbindLocked(err)
	m.ioMu.Unlock()
	notify()
	return fmt.Errorf("%w: %s: %w", ErrTransportFailure, op, err)
}

// exec runs fn against the bound device under the I/O lock. It does not
// wait for ioMu unless the manager is bound.
func (m *Manager) exec(ctx context.Context, op string, fn func(ctx context.Context, s transport.Sender) error) error {
	switch m.State() {
	case StateBound:
	case StateClosed:
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, ErrClosed)
	default:
		return ErrDeviceUnavailable
	}

	m.ioMu.Lock()
	s := m.active
	if s == nil {
		m.ioMu.Unlock()
		if m.State() == StateClosed {
			return fmt.Errorf("%w: %w", ErrDeviceUnavailable, ErrClosed)
		}
		return ErrDeviceUnavailable
	}
	return m.finish(ctx, op, fn(ctx, s))
}
