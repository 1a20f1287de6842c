package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"fintrack/internal/core"
)

// AppendAudit records e once per EventID. Redelivered events report false.
func (s *Store) AppendAudit(ctx context.Context, e AuditEntry) (bool, error) {
	e.ID = 0
	if e.RecordedAt.IsZero() {
		e.RecordedAt = s.now()
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&e)
	if res.Error != nil {
		return false, fmt.Errorf("append audit entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListAudit returns the most recent entries for userID.
func (s *Store) ListAudit(ctx context.Context, userID core.UserID, limit int) ([]AuditEntry, error) {
	var entries []AuditEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", int64(userID)).
		Order("occurred_at DESC").Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
