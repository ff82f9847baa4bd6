package auth

import (
	"context"
	"sync"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
)

type AuthEvent string

const (
	SignedIn  AuthEvent = "signed_in"
	SignedUp  AuthEvent = "signed_up"
	SignedOut AuthEvent = "signed_out"
	Restored  AuthEvent = "restored"
)

// Authenticator is the server side a Session talks to. *Service satisfies it.
type Authenticator interface {
	SignUp(ctx context.Context, email, password, displayName string) (string, *scheduler.User, error)
	SignIn(ctx context.Context, email, password string) (string, *scheduler.User, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*scheduler.User, error)
}

var _ Authenticator = (*Service)(nil)

// Session holds the signed in user of one client and notifies subscribers
// of every change. It is safe for concurrent use. Subscribers are called
// outside the lock, in subscription order.
type Session struct {
	auth Authenticator

	mu     sync.RWMutex
	token  string
	user   *scheduler.User
	subs   map[int]func(AuthEvent, *scheduler.User)
	order  []int
	nextID int
}

func NewSession(auth Authenticator) *Session {
	return &Session{
		auth: auth,
		subs: make(map[int]func(AuthEvent, *scheduler.User)),
	}
}

func (s *Session) User() *scheduler.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAdmin() bool {
	return s.User().IsAdmin()
}

// Context returns ctx carrying the session's user, for calling services
// in-process.
func (s *Session) Context(ctx context.Context) context.Context {
	if user := s.User(); user != nil {
		return scheduler.NewContextWithUser(ctx, user)
	}
	return ctx
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*scheduler.User, error) {
	token, user, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.set(SignedIn, token, user)
	return user, nil
}

func (s *Session) SignUp(ctx context.Context, email, password, displayName string) (*scheduler.User, error) {
	token, user, err := s.auth.SignUp(ctx, email, password, displayName)
	if err != nil {
		return nil, err
	}
	s.set(SignedUp, token, user)
	return user, nil
}

// SignOut revokes the current token. The local state is cleared even when
// the revocation fails.
func (s *Session) SignOut(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return nil
	}

	err := s.auth.SignOut(ctx, token)
	s.set(SignedOut, "", nil)
	return err
}

// Restore adopts a token saved from an earlier session.
func (s *Session) Restore(ctx context.Context, token string) (*scheduler.User, error) {
	user, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	s.set(Restored, token, user)
	return user, nil
}

// Subscribe registers fn for every subsequent change and returns a function
// that removes it.
func (s *Session) Subscribe(fn func(AuthEvent, *scheduler.User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Session) set(event AuthEvent, token string, user *scheduler.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	subs := make([]func(AuthEvent, *scheduler.User), 0, len(s.order))
	for _, id := range s.order {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(event, user)
	}
}
