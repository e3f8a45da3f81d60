package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Authenticator is the slice of the remote API the manager delegates to.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Signup(ctx context.Context, name, email, password string) error
}

// Invalidator is implemented by caches whose contents are scoped to the
// authenticated session (the cart snapshot). Registered invalidators are
// cleared synchronously inside Logout so no stale authenticated data can
// render after the session is gone.
type Invalidator interface {
	Invalidate()
}

// Manager owns the in-memory session. It loads the durable store at Init,
// mirrors every login and logout back into it, and is the single gate for
// "is the caller authenticated" and "is the caller an admin". The admin
// check is advisory UI gating; the server enforces authorization on every
// mutating call.
type Manager struct {
	api     Authenticator
	store   Store
	logger  zerolog.Logger
	nowTime func() time.Time // nowTime function (injectable for testing)

	lock         sync.RWMutex
	current      Session
	epoch        uint64
	invalidators []Invalidator
}

var _ oauth2.TokenSource = (*Manager)(nil)

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager initializes a Manager with required dependencies. Optional
// configuration can be provided via options (e.g. WithNowTime for testing).
func NewManager(api Authenticator, store Store, logger zerolog.Logger, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[NewManager] api is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}

	manager := &Manager{
		api:     api,
		store:   store,
		logger:  logger,
		nowTime: time.Now,
		current: Guest(),
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Init loads the persisted session, if any, into memory. A stored token that
// is already past its JWT expiry is discarded and the store wiped, leaving a
// guest session rather than one the server is guaranteed to reject.
func (m *Manager) Init() error {
	stored, err := m.store.Read()
	if err != nil {
		return errors.Wrap(err, "[Manager.Init] store.Read")
	}

	if stored.Authenticated() && m.tokenExpired(stored.Token) {
		m.logger.Info().Msg("stored session token expired, starting as guest")
		if err := m.store.Clear(); err != nil {
			return errors.Wrap(err, "[Manager.Init] store.Clear")
		}
		stored = Guest()
	}

	if !stored.Authenticated() {
		stored = Guest()
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.current = stored
	return nil
}

// Login authenticates against the remote API. On success the returned
// session is persisted to the store and becomes current; on failure the
// prior session is left untouched. The returned error distinguishes
// rejected credentials from connectivity failures (see the api package
// sentinels).
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return Session{}, err
	}

	sess, err := m.api.Login(ctx, email, password)
	if err != nil {
		return Session{}, errors.Wrap(err, "[Manager.Login] api.Login")
	}

	if err := m.store.Write(sess); err != nil {
		return Session{}, errors.Wrap(err, "[Manager.Login] store.Write")
	}

	m.lock.Lock()
	m.current = sess
	m.epoch++
	m.lock.Unlock()

	m.logger.Info().Str("role", string(sess.Role)).Msg("logged in")
	return sess, nil
}

// Logout clears the in-memory session, wipes the durable store, and clears
// every registered session-scoped cache in the same operation. The epoch
// bump happens before anything else so an in-flight cart refresh keyed to
// the old session discards its result instead of applying it.
func (m *Manager) Logout() error {
	m.lock.Lock()
	m.current = Guest()
	m.epoch++
	invalidators := make([]Invalidator, len(m.invalidators))
	copy(invalidators, m.invalidators)
	m.lock.Unlock()

	for _, inv := range invalidators {
		inv.Invalidate()
	}

	if err := m.store.Clear(); err != nil {
		return errors.Wrap(err, "[Manager.Logout] store.Clear")
	}

	m.logger.Info().Msg("logged out")
	return nil
}

// Register validates the signup input client-side, then creates the account
// remotely. Registration does not log the new user in; the original flow
// sends them to the login form afterwards.
func (m *Manager) Register(ctx context.Context, input RegisterInput) error {
	if err := ValidateRegistration(input); err != nil {
		return err
	}

	if err := m.api.Signup(ctx, input.Name, input.Email, input.Password); err != nil {
		return errors.Wrap(err, "[Manager.Register] api.Signup")
	}

	return nil
}

// RegisterInput holds the signup form fields.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// OnLogout registers a session-scoped cache to be cleared synchronously
// during Logout.
func (m *Manager) OnLogout(inv Invalidator) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.invalidators = append(m.invalidators, inv)
}

// Current returns the active session.
func (m *Manager) Current() Session {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.current
}

// Authenticated reports whether a session token is held.
func (m *Manager) Authenticated() bool {
	return m.Current().Authenticated()
}

// IsAdmin reports whether admin controls should render. Advisory only.
func (m *Manager) IsAdmin() bool {
	return m.Current().IsAdmin()
}

// Epoch is a monotonic counter bumped by every login and logout. Callers
// that start a fetch on behalf of the current session capture the epoch at
// issuance and discard the result if it moved before completion.
func (m *Manager) Epoch() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.epoch
}

// Token exposes the bearer token as an oauth2.TokenSource so the API
// client's transport can attach it to authenticated requests. Guests get
// ErrNotAuthenticated.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if !m.current.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: m.current.Token, TokenType: "Bearer"}, nil
}

// tokenExpired inspects the token's exp claim without verifying the
// signature. Signature validation is the server's job; this only avoids
// starting up with a token that cannot possibly be accepted. A token that is
// not a JWT, or carries no exp claim, is handed to the server as-is.
func (m *Manager) tokenExpired(raw string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(m.nowTime())
}
