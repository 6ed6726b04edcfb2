package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"phototask/internal/logging"
)

// ErrExpired is returned by Init when the stored token has expired.
// The stored session is cleared before returning it.
var ErrExpired = errors.New("session expired")

// Storage is the durable backend of a Manager.
type Storage interface {
	Load() (*Session, error)
	Save(Session) error
	Clear() error
}

// Manager holds the current session.
// Init loads it from storage at startup; SignOut tears it down.
type Manager struct {
	mu        sync.RWMutex
	store     Storage
	current   *Session
	log       *slog.Logger
	now       func() time.Time
	onSignOut []func()
}

// NewManager creates a Manager over store. Call Init before use.
func NewManager(store Storage, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		log:   logging.OrDiscard(log),
		now:   time.Now,
	}
}

// SetClock overrides the time source used for expiry checks (for testing).
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Init loads the stored session.
// An unreadable record is cleared and treated as signed out.
func (m *Manager) Init() error {
	sess, err := m.store.Load()
	if err != nil {
		m.log.Warn("discarding unreadable session", "error", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			return clearErr
		}
		sess = nil
	}

	if sess != nil && sess.Expired(m.now()) {
		m.log.Info("stored session expired", "email", sess.Email, "expiry", sess.Expiry())
		if err := m.store.Clear(); err != nil {
			return err
		}
		m.set(nil)
		return ErrExpired
	}

	m.set(sess)
	return nil
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Token returns the bearer token of the active session, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// SignIn persists sess and makes it current.
func (m *Manager) SignIn(sess Session) error {
	if err := m.store.Save(sess); err != nil {
		return err
	}
	m.set(&sess)
	m.log.Debug("signed in", "email", sess.Email)
	return nil
}

// SignOut clears the stored and current session and runs OnSignOut hooks.
func (m *Manager) SignOut() error {
	m.set(nil)
	err := m.store.Clear()

	m.mu.RLock()
	hooks := append([]func(){}, m.onSignOut...)
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}

	m.log.Debug("signed out")
	return err
}

// OnSignOut registers fn to run after every SignOut.
func (m *Manager) OnSignOut(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSignOut = append(m.onSignOut, fn)
}

func (m *Manager) set(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = sess
}
