package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/core"
)

// UpsertBudget stores the limit for (user, category, period). It reports
// whether a new row was created rather than an existing one updated.
func (s *Store) UpsertBudget(ctx context.Context, b core.Budget) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&budgetRow{}).
			Where("user_id = ? AND category = ? AND year = ? AND month = ?",
				int64(b.UserID), b.Category, b.Period.Year, b.Period.Month).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("check budget: %w", err)
		}

		now := s.now()
		row := budgetRow{
			UserID:     int64(b.UserID),
			Category:   b.Category,
			LimitCents: b.Limit.Cents,
			Year:       b.Period.Year,
			Month:      b.Period.Month,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"limit_cents", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert budget: %w", err)
		}
		created = existing == 0
		return nil
	})
	return created, err
}

// ListBudgets returns the user's budgets for period ordered by category.
func (s *Store) ListBudgets(ctx context.Context, userID core.UserID, period core.Period) ([]core.Budget, error) {
	var rows []budgetRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", int64(userID), period.Year, period.Month).
		Order("category ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]core.Budget, len(rows))
	for i, r := range rows {
		out[i] = r.toCore()
	}
	return out, nil
}
