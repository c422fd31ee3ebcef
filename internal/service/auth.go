// Package service contains the business logic layer, sitting between the
// HTTP handlers and the repositories:
//
//	handler (HTTP) → service (rules) → repository (DB)
//
// The "rules" in this app are thin by design — the interesting behavior is
// what is deliberately absent: no password hashing, no input validation, no
// rate limiting, no timing-safe comparisons.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vulncamp/vulnworld/internal/apperror"
	"github.com/vulncamp/vulnworld/internal/model"
	"github.com/vulncamp/vulnworld/internal/repository"
)

// ErrInvalidCredentials is returned by Login for BOTH failure modes — user
// not found and wrong password. Collapsing them is deliberate: the login
// form must not leak which usernames exist.
var ErrInvalidCredentials = errors.New("wrong username or password")

// AuthService handles registration and login.
type AuthService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Register creates a new user with the credentials exactly as submitted.
//
// An existing name yields apperror.ErrDuplicate — the one error in the app
// that is recovered and shown to the user. The lookup-then-insert sequence
// is racy; the UNIQUE constraint backstops the race and the loser still
// gets ErrDuplicate.
//
// The password goes into the store as plaintext. See model.User.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	_, err := s.users.GetByName(ctx, username)
	if err == nil {
		return nil, apperror.Duplicate("user name", username)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username %q: %w", username, err)
	}

	user := &model.User{
		Name:     username,
		Password: password,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("name", user.Name),
	)

	return user, nil
}

// Login checks the submitted credentials against the stored ones.
//
// The comparison is plain string equality on the stored plaintext. A
// missing user and a wrong password both return the same
// ErrInvalidCredentials value, so the caller cannot tell them apart —
// and neither can an attacker.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service/auth: looking up user %q: %w", username, err)
	}

	if user.Password != password {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("name", user.Name),
	)

	return user, nil
}

// GetByName looks up a user for display purposes. Callers rendering pages
// for a session identity treat ErrNotFound as "no such user anymore" and
// carry on — the session is trusted even when the user it names is gone.
func (s *AuthService) GetByName(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByName(ctx, username)
}
