package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"baseline_academy/internal/domain/model"
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// Manager owns the client-side session. Every transition bumps an epoch, and
// a response that started under an older epoch is dropped with
// ErrStaleResponse instead of being applied.
type Manager struct {
	client    *Client
	store     Storage
	onExpired func(message string)

	mu      sync.Mutex
	state   State
	session Session
	epoch   uint64
}

type ManagerOption func(*Manager)

// WithExpiryNotice registers fn to be called when a protected request
// forces a sign-out.
func WithExpiryNotice(fn func(message string)) ManagerOption {
	return func(m *Manager) { m.onExpired = fn }
}

func NewManager(c *Client, store Storage, opts ...ManagerOption) *Manager {
	m := &Manager{client: c, store: store, state: LoggedOut}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the signed-in user, or nil when logged out.
func (m *Manager) User() *model.PublicUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.User == nil {
		return nil
	}
	u := *m.session.User
	return &u
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// Restore loads a persisted session and confirms it with the server before
// entering LoggedIn. A rejected token clears storage. Any failure leaves the
// manager logged out, and a response that arrives after a newer login or
// logout is dropped with ErrStaleResponse.
func (m *Manager) Restore(ctx context.Context) error {
	epoch := m.currentEpoch()

	sess, err := m.store.Load()
	if err != nil {
		return err
	}
	if !sess.Complete() {
		return nil
	}

	user, err := m.client.Me(ctx, sess.Token)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return m.discard(epoch)
		}
		return err
	}

	return m.enter(epoch, Session{Token: sess.Token, User: user})
}

// discard clears a persisted session the server rejected, unless a login or
// logout has happened since the check began.
func (m *Manager) discard(epoch uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		return ErrStaleResponse
	}
	if err := m.store.Clear(); err != nil {
		return errors.Join(ErrSessionExpired, err)
	}
	return ErrSessionExpired
}

func (m *Manager) Login(ctx context.Context, username, password string) (*model.PublicUser, error) {
	epoch := m.currentEpoch()
	res, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := m.enter(epoch, Session{Token: res.Token, User: &res.User}); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (m *Manager) Register(ctx context.Context, req RegisterRequest) (*model.PublicUser, error) {
	epoch := m.currentEpoch()
	res, err := m.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := m.enter(epoch, Session{Token: res.Token, User: &res.User}); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Logout clears the session locally. Tokens are stateless, so the server is
// not contacted.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	m.state = LoggedOut
	m.session = Session{}
	return m.store.Clear()
}

// Call performs an authenticated request. A 401 signs the user out and
// returns ErrSessionExpired.
func (m *Manager) Call(ctx context.Context, method, path string, in, out interface{}) error {
	m.mu.Lock()
	if m.state != LoggedIn {
		m.mu.Unlock()
		return ErrNotLoggedIn
	}
	token, epoch := m.session.Token, m.epoch
	m.mu.Unlock()

	err := m.client.Do(ctx, method, path, token, in, out)

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return ErrStaleResponse
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		m.mu.Unlock()
		return err
	}
	m.epoch++
	m.state = LoggedOut
	m.session = Session{}
	clearErr := m.store.Clear()
	m.mu.Unlock()

	if m.onExpired != nil {
		m.onExpired(Message(ErrSessionExpired))
	}
	if clearErr != nil {
		return errors.Join(ErrSessionExpired, clearErr)
	}
	return ErrSessionExpired
}

// enter persists sess and switches to LoggedIn unless the session changed
// while the request that produced sess was in flight.
func (m *Manager) enter(epoch uint64, sess Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return ErrStaleResponse
	}
	if err := m.store.Save(sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.epoch++
	m.state = LoggedIn
	m.session = copySession(sess)
	return nil
}
