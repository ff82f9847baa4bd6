package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/auth"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	users     map[string]*scheduler.User
	revoked   []string
	signOutFn func() error
}

func (a *stubAuthenticator) SignUp(ctx context.Context, email, password, displayName string) (string, *scheduler.User, error) {
	user := &scheduler.User{ID: "new", Email: email, DisplayName: displayName, Role: scheduler.RoleUser}
	a.users["token-new"] = user
	return "token-new", user, nil
}

func (a *stubAuthenticator) SignIn(ctx context.Context, email, password string) (string, *scheduler.User, error) {
	for token, user := range a.users {
		if user.Email == email && password == "secret1" {
			return token, user, nil
		}
	}
	return "", nil, scheduler.ErrUnauthorized
}

func (a *stubAuthenticator) SignOut(ctx context.Context, token string) error {
	a.revoked = append(a.revoked, token)
	if a.signOutFn != nil {
		return a.signOutFn()
	}
	return nil
}

func (a *stubAuthenticator) Authenticate(ctx context.Context, token string) (*scheduler.User, error) {
	if user, ok := a.users[token]; ok {
		return user, nil
	}
	return nil, scheduler.ErrUnauthorized
}

func newStub() *stubAuthenticator {
	return &stubAuthenticator{users: map[string]*scheduler.User{
		"token-admin": {ID: "admin", Email: "admin@example.com", Role: scheduler.RoleAdmin},
		"token-user":  {ID: "user", Email: "user@example.com", Role: scheduler.RoleUser},
	}}
}

type recorded struct {
	event auth.AuthEvent
	user  *scheduler.User
}

func TestSessionLifecycle(t *testing.T) {
	stub := newStub()
	s := auth.NewSession(stub)
	ctx := context.Background()

	var got []recorded
	s.Subscribe(func(e auth.AuthEvent, u *scheduler.User) {
		got = append(got, recorded{e, u})
	})

	assert.Nil(t, s.User())
	assert.False(t, s.IsAdmin())

	user, err := s.SignIn(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.ID)
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "token-admin", s.Token())
	assert.Equal(t, "admin", scheduler.UserIDFromContext(s.Context(ctx)))

	require.NoError(t, s.SignOut(ctx))
	assert.Nil(t, s.User())
	assert.Equal(t, []string{"token-admin"}, stub.revoked)

	_, err = s.Restore(ctx, "token-user")
	require.NoError(t, err)
	assert.False(t, s.IsAdmin())

	require.Len(t, got, 3)
	assert.Equal(t, auth.SignedIn, got[0].event)
	assert.Equal(t, auth.SignedOut, got[1].event)
	assert.Nil(t, got[1].user)
	assert.Equal(t, auth.Restored, got[2].event)
	assert.Equal(t, "user", got[2].user.ID)
}

func TestSessionFailedSignInKeepsState(t *testing.T) {
	s := auth.NewSession(newStub())
	ctx := context.Background()

	_, err := s.Restore(ctx, "token-user")
	require.NoError(t, err)

	calls := 0
	s.Subscribe(func(auth.AuthEvent, *scheduler.User) { calls++ })

	_, err = s.SignIn(ctx, "user@example.com", "wrong")
	assert.True(t, errors.Is(err, scheduler.ErrUnauthorized))
	assert.Equal(t, "user", s.User().ID)
	assert.Zero(t, calls)

	_, err = s.Restore(ctx, "bogus")
	assert.Error(t, err)
	assert.Equal(t, "user", s.User().ID)
}

func TestSessionSignOutClearsOnError(t *testing.T) {
	stub := newStub()
	stub.signOutFn = func() error { return errors.New("redis down") }
	s := auth.NewSession(stub)
	ctx := context.Background()

	_, err := s.Restore(ctx, "token-user")
	require.NoError(t, err)

	assert.Error(t, s.SignOut(ctx))
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())

	// Already signed out: nothing to revoke.
	assert.NoError(t, s.SignOut(ctx))
	assert.Len(t, stub.revoked, 1)
}

func TestSessionUnsubscribe(t *testing.T) {
	s := auth.NewSession(newStub())
	ctx := context.Background()

	var first, second int
	unsubscribe := s.Subscribe(func(auth.AuthEvent, *scheduler.User) { first++ })
	s.Subscribe(func(auth.AuthEvent, *scheduler.User) { second++ })

	_, err := s.SignUp(ctx, "new@example.com", "secret1", "New")
	require.NoError(t, err)

	unsubscribe()
	unsubscribe()

	require.NoError(t, s.SignOut(ctx))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestSessionConcurrentReads(t *testing.T) {
	s := auth.NewSession(newStub())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Restore(ctx, "token-user")
			} else {
				s.IsAdmin()
				s.User()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, "user", s.User().ID)
}
