// Package auth signs users up and in against the user store and issues
// session tokens.
package auth

import (
	"context"
	"strings"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var errInvalidCredentials = errors.Wrap(scheduler.ErrUnauthorized, "invalid email or password")

type signUpInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	DisplayName string `validate:"required,max=100"`
}

type Service struct {
	users     scheduler.UserService
	sessions  scheduler.SessionStore
	validator *validator.Validate
	logger    *zap.Logger

	// bcrypt cost, lowered in tests.
	cost int
}

func NewService(users scheduler.UserService, sessions scheduler.SessionStore, logger *zap.Logger) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		validator: validator.New(),
		logger:    logger,
		cost:      bcrypt.DefaultCost,
	}
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (string, *scheduler.User, error) {
	in := signUpInput{
		Email:       strings.TrimSpace(email),
		Password:    password,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := s.validator.Struct(in); err != nil {
		return "", nil, errors.Wrap(scheduler.ErrValidation, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", nil, errors.Wrap(err, "error hashing password")
	}

	user := &scheduler.User{
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Role:        scheduler.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user, string(hash)); err != nil {
		return "", nil, err
	}

	s.logger.Info("user signed up", zap.String("userId", user.ID))

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// SignIn checks the credentials and issues a session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *scheduler.User, error) {
	if email == "" || password == "" {
		return "", nil, errors.Wrap(scheduler.ErrValidation, "email and password are required")
	}

	user, hash, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, scheduler.ErrNotFound) {
		return "", nil, errInvalidCredentials
	} else if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.logger.Info("failed sign in", zap.String("userId", user.ID))
		return "", nil, errInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// SignInAdmin is SignIn restricted to admins. A valid non-admin sign in is
// revoked straight away and reported as ErrForbidden.
func (s *Service) SignInAdmin(ctx context.Context, email, password string) (string, *scheduler.User, error) {
	token, user, err := s.SignIn(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	if !user.IsAdmin() {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("error revoking non-admin session", zap.String("userId", user.ID), zap.Error(err))
		}
		return "", nil, errors.Wrap(scheduler.ErrForbidden, "admin privileges required")
	}

	return token, user, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*scheduler.User, error) {
	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, scheduler.ErrNotFound) {
		return nil, errors.Wrap(scheduler.ErrUnauthorized, "session user no longer exists")
	}
	return user, err
}
