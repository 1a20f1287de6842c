package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// CredentialService registers users and verifies their passwords.
type CredentialService struct {
	users     UserStore
	cost      int
	dummyHash []byte
	logger    *log.Logger
}

// NewCredentialService hashes with the given bcrypt cost; out of range
// values fall back to bcrypt.DefaultCost.
func NewCredentialService(users UserStore, cost int, logger *log.Logger) (*CredentialService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("fintrack-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &CredentialService{
		users:     users,
		cost:      cost,
		dummyHash: dummy,
		logger:    orDiscard(logger).WithComponent(log.ComponentAuth),
	}, nil
}

// Register creates a user. A taken username is reported before any
// password rule.
func (s *CredentialService) Register(ctx context.Context, username, password, confirmPassword string) (core.User, error) {
	username, err := core.NormalizeUsername(username)
	if err != nil {
		return core.User{}, err
	}

	_, err = s.users.UserByUsername(ctx, username)
	switch {
	case err == nil:
		return core.User{}, core.ErrDuplicateUsername
	case !errors.Is(err, core.ErrNotFound):
		return core.User{}, fmt.Errorf("check username: %w", err)
	}

	if password != confirmPassword {
		return core.User{}, core.ErrPasswordMismatch
	}
	if err := core.ValidatePassword(password); err != nil {
		return core.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, string(hash))
	if err != nil {
		return core.User{}, err
	}

	s.logger.InfoContext(ctx, "User registered",
		log.FieldOperation, log.OpRegister,
		log.FieldUserID, int64(user.ID))
	return user, nil
}

// Authenticate returns the user when the password matches. Unknown users
// and wrong passwords both yield core.ErrInvalidCredentials.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (core.User, error) {
	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Keep timing close to the known-user path
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return core.User{}, core.ErrInvalidCredentials
		}
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Login rejected",
			log.FieldOperation, log.OpLogin,
			log.FieldErrorType, log.ErrorTypeAuth,
			log.FieldUserID, int64(user.ID))
		return core.User{}, core.ErrInvalidCredentials
	}
	return user, nil
}
