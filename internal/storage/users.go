package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// CreateUser inserts a user. A taken username yields core.ErrDuplicateUsername.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	row := userRow{Username: username, PasswordHash: passwordHash, CreatedAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrDuplicateUsername
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return row.toCore(), nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (core.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error; err != nil {
		return core.User{}, fmt.Errorf("get user %q: %w", username, notFound(err))
	}
	return row.toCore(), nil
}
