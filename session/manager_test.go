package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-bookstore-client/api"
	"github.com/jrsteele09/go-bookstore-client/session"
	"github.com/jrsteele09/go-bookstore-client/session/storefakes"
)

const (
	testEmail    = "jane.doe@example.com"
	testPassword = "password123"
	testName     = "Jane Doe"
	testToken    = "opaque-token-1"
)

// fakeAuthenticator is a scripted session.Authenticator.
type fakeAuthenticator struct {
	loginSession session.Session
	loginErr     error
	signupErr    error

	loginCalls  int
	signupCalls int
}

func (f *fakeAuthenticator) Login(ctx context.Context, email, password string) (session.Session, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return session.Session{}, f.loginErr
	}
	return f.loginSession, nil
}

func (f *fakeAuthenticator) Signup(ctx context.Context, name, email, password string) error {
	f.signupCalls++
	return f.signupErr
}

type managerFixture struct {
	api   *fakeAuthenticator
	store *storefakes.FakeStore
	mgr   *session.Manager
}

func setupManager(t *testing.T, options ...session.ManagerOption) *managerFixture {
	t.Helper()

	fakeAPI := &fakeAuthenticator{}
	store := storefakes.NewFakeStore()

	mgr, err := session.NewManager(fakeAPI, store, testLogger(), options...)
	require.NoError(t, err)

	return &managerFixture{api: fakeAPI, store: store, mgr: mgr}
}

func TestManagerInit(t *testing.T) {
	t.Run("empty store starts as guest", func(t *testing.T) {
		f := setupManager(t)
		require.NoError(t, f.mgr.Init())

		sess := f.mgr.Current()
		require.False(t, sess.Authenticated())
		require.Equal(t, session.RoleGuest, sess.Role)
	})

	t.Run("stored session becomes current", func(t *testing.T) {
		f := setupManager(t)
		f.store.Seed(session.Session{Token: testToken, Role: session.RoleAdmin, Name: testName})

		require.NoError(t, f.mgr.Init())

		sess := f.mgr.Current()
		require.True(t, sess.Authenticated())
		require.True(t, sess.IsAdmin())
		require.Equal(t, testName, sess.Name)
	})

	t.Run("expired JWT is discarded and store wiped", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		f := setupManager(t, session.WithNowTime(func() time.Time { return now }))

		expired := signedToken(t, now.Add(-time.Hour))
		f.store.Seed(session.Session{Token: expired, Role: session.RoleUser, Name: testName})

		require.NoError(t, f.mgr.Init())

		require.False(t, f.mgr.Authenticated())
		_, present := f.store.Stored()
		require.False(t, present)
	})

	t.Run("unexpired JWT is kept", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		f := setupManager(t, session.WithNowTime(func() time.Time { return now }))

		valid := signedToken(t, now.Add(72*time.Hour))
		f.store.Seed(session.Session{Token: valid, Role: session.RoleUser, Name: testName})

		require.NoError(t, f.mgr.Init())
		require.True(t, f.mgr.Authenticated())
	})

	t.Run("opaque token is handed to the server as-is", func(t *testing.T) {
		f := setupManager(t)
		f.store.Seed(session.Session{Token: "not-a-jwt", Role: session.RoleUser, Name: testName})

		require.NoError(t, f.mgr.Init())
		require.True(t, f.mgr.Authenticated())
	})
}

func TestManagerLogin(t *testing.T) {
	t.Run("success persists and becomes current", func(t *testing.T) {
		f := setupManager(t)
		f.api.loginSession = session.Session{Token: testToken, Role: session.RoleUser, Name: testName}

		sess, err := f.mgr.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)
		require.Equal(t, testName, sess.Name)
		require.True(t, f.mgr.Authenticated())

		stored, present := f.store.Stored()
		require.True(t, present)
		require.Equal(t, testToken, stored.Token)
	})

	t.Run("rejected credentials leave prior session untouched", func(t *testing.T) {
		f := setupManager(t)
		f.store.Seed(session.Session{Token: testToken, Role: session.RoleUser, Name: testName})
		require.NoError(t, f.mgr.Init())

		f.api.loginErr = api.ErrInvalidCredentials
		_, err := f.mgr.Login(context.Background(), testEmail, "wrong-pass1")
		require.ErrorIs(t, err, api.ErrInvalidCredentials)

		require.True(t, f.mgr.Authenticated())
		stored, present := f.store.Stored()
		require.True(t, present)
		require.Equal(t, testToken, stored.Token)
	})

	t.Run("connectivity failure is distinct from rejected credentials", func(t *testing.T) {
		f := setupManager(t)

		f.api.loginErr = api.ErrUnreachable
		_, err := f.mgr.Login(context.Background(), testEmail, testPassword)

		require.ErrorIs(t, err, api.ErrUnreachable)
		require.NotErrorIs(t, err, api.ErrInvalidCredentials)
	})

	t.Run("invalid input never reaches the API", func(t *testing.T) {
		f := setupManager(t)

		_, err := f.mgr.Login(context.Background(), "not-an-email", testPassword)
		require.Error(t, err)
		require.Zero(t, f.api.loginCalls)
	})
}

func TestManagerLogout(t *testing.T) {
	t.Run("clears memory, store and session-scoped caches together", func(t *testing.T) {
		f := setupManager(t)
		f.store.Seed(session.Session{Token: testToken, Role: session.RoleAdmin, Name: testName})
		require.NoError(t, f.mgr.Init())

		invalidated := 0
		f.mgr.OnLogout(invalidatorFunc(func() { invalidated++ }))

		require.NoError(t, f.mgr.Logout())

		require.False(t, f.mgr.Authenticated())
		require.False(t, f.mgr.IsAdmin())
		_, present := f.store.Stored()
		require.False(t, present)
		require.Equal(t, 1, invalidated)
	})

	t.Run("bumps the epoch", func(t *testing.T) {
		f := setupManager(t)
		before := f.mgr.Epoch()

		require.NoError(t, f.mgr.Logout())
		require.Greater(t, f.mgr.Epoch(), before)
	})
}

func TestManagerToken(t *testing.T) {
	t.Run("guest has no token", func(t *testing.T) {
		f := setupManager(t)
		require.NoError(t, f.mgr.Init())

		_, err := f.mgr.Token()
		require.ErrorIs(t, err, session.ErrNotAuthenticated)
	})

	t.Run("authenticated session yields a bearer token", func(t *testing.T) {
		f := setupManager(t)
		f.store.Seed(session.Session{Token: testToken, Role: session.RoleUser, Name: testName})
		require.NoError(t, f.mgr.Init())

		token, err := f.mgr.Token()
		require.NoError(t, err)
		require.Equal(t, testToken, token.AccessToken)
		require.Equal(t, "Bearer", token.TokenType)
	})
}

func TestManagerRegister(t *testing.T) {
	t.Run("valid input reaches the API", func(t *testing.T) {
		f := setupManager(t)

		err := f.mgr.Register(context.Background(), session.RegisterInput{
			Name:            testName,
			Email:           testEmail,
			Password:        "secret123",
			ConfirmPassword: "secret123",
		})
		require.NoError(t, err)
		require.Equal(t, 1, f.api.signupCalls)
	})

	t.Run("invalid input is rejected before any remote call", func(t *testing.T) {
		f := setupManager(t)

		err := f.mgr.Register(context.Background(), session.RegisterInput{
			Name:            testName,
			Email:           testEmail,
			Password:        "secret123",
			ConfirmPassword: "different123",
		})
		require.Error(t, err)
		require.Zero(t, f.api.signupCalls)
	})
}

type invalidatorFunc func()

func (f invalidatorFunc) Invalidate() { f() }

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}
