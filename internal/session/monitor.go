package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shandysiswandi/greenvista/internal/pkg/clock"
)

const (
	DefaultWindow   = 5 * time.Minute
	DefaultInterval = time.Minute
)

var (
	// ErrExpired is returned by Resume when the saved session is already past its window.
	ErrExpired = errors.New("session: expired")

	ErrMisconfigured = errors.New("session: clock and store are required")
)

// Reason explains why a session ended on its own.
type Reason string

const (
	// ReasonTimeout means the window elapsed.
	ReasonTimeout Reason = "timeout"
	// ReasonCleared means another process removed the saved state.
	ReasonCleared Reason = "cleared"
)

type Config struct {
	Clock clock.Scheduler
	Store Store

	// Window is how long a standard session lasts. Zero means DefaultWindow.
	Window time.Duration
	// Interval is the re-validation period. Zero means DefaultInterval, and a
	// negative value disables the ticker.
	Interval time.Duration

	// Exempt reports roles that are never timed out. Nil exempts "admin".
	Exempt func(role string) bool

	// OnExpire runs once per session, outside any lock.
	OnExpire func(Reason)
}

// Status is a snapshot for display.
type Status struct {
	State     *State
	Limited   bool
	Remaining time.Duration
}

// run is one armed session. timer is nil for exempt roles and ticker is nil
// when re-validation is disabled.
type run struct {
	limited  bool
	timer    clockwork.Timer
	ticker   clockwork.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

func (r *run) halt() {
	if r.timer != nil {
		r.timer.Stop()
	}
	if r.ticker != nil {
		r.ticker.Stop()
	}
	r.stopOnce.Do(func() { close(r.stop) })
}

type Monitor struct {
	clock    clock.Scheduler
	store    Store
	window   time.Duration
	interval time.Duration
	exempt   func(string) bool
	onExpire func(Reason)

	mu    sync.Mutex
	state *State
	cur   *run
}

func NewMonitor(cfg Config) (*Monitor, error) {
	if cfg.Clock == nil || cfg.Store == nil {
		return nil, ErrMisconfigured
	}

	m := &Monitor{
		clock:    cfg.Clock,
		store:    cfg.Store,
		window:   cfg.Window,
		interval: cfg.Interval,
		exempt:   cfg.Exempt,
		onExpire: cfg.OnExpire,
	}
	if m.window <= 0 {
		m.window = DefaultWindow
	}
	if m.interval == 0 {
		m.interval = DefaultInterval
	}
	if m.exempt == nil {
		m.exempt = func(role string) bool { return strings.EqualFold(strings.TrimSpace(role), "admin") }
	}

	return m, nil
}

// Begin starts a fresh session at now. Any pending timer is replaced, so
// calling Begin again after a token refresh re-arms the full window.
func (m *Monitor) Begin(ctx context.Context, st State) error {
	st.SessionStart = m.clock.Now()
	if st.Role == "" {
		st.Role = st.User.Role
	}

	if err := m.store.Save(ctx, st); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.haltLocked()
	m.state = &st
	if m.exempt(st.Role) {
		m.armLocked(0, false)
	} else {
		m.armLocked(m.window, true)
	}

	return nil
}

// Resume picks up a saved session. A standard session past its window is
// cleared, OnExpire fires and ErrExpired is returned.
func (m *Monitor) Resume(ctx context.Context) (*State, error) {
	st, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.haltLocked()
	m.state = st

	if m.exempt(st.Role) {
		m.armLocked(0, false)
		m.mu.Unlock()
		return st, nil
	}

	elapsed := m.clock.Now().Sub(st.SessionStart)
	if elapsed >= m.window {
		m.state = nil
		m.mu.Unlock()

		m.finish(ReasonTimeout)
		return nil, ErrExpired
	}

	m.armLocked(m.window-elapsed, true)
	m.mu.Unlock()

	return st, nil
}

// Check reloads the store and expires or re-arms to match it. Expiry is only
// reported for a session this monitor still considers live.
func (m *Monitor) Check(ctx context.Context) error {
	st, err := m.store.Load(ctx)

	m.mu.Lock()
	live := m.state != nil
	if errors.Is(err, ErrNoSession) {
		m.haltLocked()
		m.state = nil
		m.mu.Unlock()

		if live {
			m.fire(ReasonCleared)
		}
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	if m.exempt(st.Role) {
		if m.cur == nil || m.cur.limited {
			m.haltLocked()
			m.armLocked(0, false)
		}
		m.state = st
		m.mu.Unlock()
		return nil
	}

	elapsed := m.clock.Now().Sub(st.SessionStart)
	if elapsed >= m.window {
		m.haltLocked()
		m.state = nil
		m.mu.Unlock()

		if live {
			m.finish(ReasonTimeout)
		} else if err := m.store.Clear(ctx); err != nil {
			return err
		}
		return nil
	}

	if m.cur == nil || !m.cur.limited || !live || !m.state.SessionStart.Equal(st.SessionStart) {
		m.haltLocked()
		m.armLocked(m.window-elapsed, true)
	}
	m.state = st
	m.mu.Unlock()

	return nil
}

// End is an explicit sign out. It clears the store without firing OnExpire.
func (m *Monitor) End(ctx context.Context) error {
	m.mu.Lock()
	m.haltLocked()
	m.state = nil
	m.mu.Unlock()

	return m.store.Clear(ctx)
}

// Close stops background work and keeps the saved state.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.haltLocked()
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return Status{}
	}

	cp := *m.state
	if m.exempt(cp.Role) {
		return Status{State: &cp}
	}

	remaining := m.window - m.clock.Now().Sub(cp.SessionStart)
	if remaining < 0 {
		remaining = 0
	}
	return Status{State: &cp, Limited: true, Remaining: remaining}
}

// armLocked installs a new current run. A limited run expires after remaining.
func (m *Monitor) armLocked(remaining time.Duration, limited bool) {
	r := &run{limited: limited, stop: make(chan struct{})}
	if limited {
		r.timer = m.clock.AfterFunc(remaining, func() { m.expire(r, ReasonTimeout) })
	}
	if m.interval > 0 {
		r.ticker = m.clock.NewTicker(m.interval)
		go m.watch(r)
	}
	m.cur = r
}

func (m *Monitor) haltLocked() {
	if m.cur != nil {
		m.cur.halt()
		m.cur = nil
	}
}

func (m *Monitor) watch(r *run) {
	for {
		select {
		case <-r.ticker.Chan():
			if err := m.Check(context.Background()); err != nil {
				slog.Warn("session check failed", "error", err)
			}
		case <-r.stop:
			return
		}
	}
}

// expire ends the session armed by r. A callback from a run that was already
// halted or replaced does nothing.
func (m *Monitor) expire(r *run, reason Reason) {
	m.mu.Lock()
	if m.cur != r {
		m.mu.Unlock()
		return
	}
	m.haltLocked()
	m.state = nil
	m.mu.Unlock()

	m.finish(reason)
}

func (m *Monitor) finish(reason Reason) {
	if err := m.store.Clear(context.Background()); err != nil {
		slog.Error("failed to clear expired session", "error", err)
	}

	m.fire(reason)
}

func (m *Monitor) fire(reason Reason) {
	if m.onExpire != nil {
		m.onExpire(reason)
	}
}
