package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"fintrack/internal/core"
)

// CreateTransaction inserts t and returns it with its id and timestamps.
func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row := newTransactionRow(t)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return row.toCore()
}

// Transaction returns the transaction id if it belongs to userID.
func (s *Store) Transaction(ctx context.Context, userID core.UserID, id core.TransactionID) (core.Transaction, error) {
	row, err := ownedTransaction(s.db.WithContext(ctx), userID, id)
	if err != nil {
		return core.Transaction{}, err
	}
	return row.toCore()
}

// UpdateTransaction replaces the editable fields of t.ID. The ownership check
// and the write share one database transaction.
func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	var updated transactionRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ownedTransaction(tx, t.UserID, t.ID)
		if err != nil {
			return err
		}
		next := newTransactionRow(t)
		row.AmountCents = next.AmountCents
		row.Kind = next.Kind
		row.Category = next.Category
		row.Date = next.Date
		row.Description = next.Description
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("update transaction %d: %w", t.ID, err)
		}
		updated = row
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return updated.toCore()
}

// DeleteTransaction removes id if it belongs to userID and returns the removed row.
func (s *Store) DeleteTransaction(ctx context.Context, userID core.UserID, id core.TransactionID) (core.Transaction, error) {
	var deleted transactionRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ownedTransaction(tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&transactionRow{}, row.ID).Error; err != nil {
			return fmt.Errorf("delete transaction %d: %w", id, err)
		}
		deleted = row
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return deleted.toCore()
}

// ListTransactions returns the user's transactions, newest date first and
// insertion order within a date.
func (s *Store) ListTransactions(ctx context.Context, userID core.UserID) ([]core.Transaction, error) {
	var rows []transactionRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", int64(userID)).
		Order("date DESC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := r.toCore()
		if err != nil {
			return nil, fmt.Errorf("decode transaction %d: %w", r.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func ownedTransaction(db *gorm.DB, userID core.UserID, id core.TransactionID) (transactionRow, error) {
	var row transactionRow
	if err := db.Take(&row, int64(id)).Error; err != nil {
		return row, fmt.Errorf("get transaction %d: %w", id, notFound(err))
	}
	if row.UserID != int64(userID) {
		return row, fmt.Errorf("transaction %d: %w", id, core.ErrForbidden)
	}
	return row, nil
}
