package storage

import (
	"time"

	"fintrack/internal/core"
)

type userRow struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) toCore() core.User {
	return core.User{
		ID:           core.UserID(r.ID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

type transactionRow struct {
	ID          int64  `gorm:"primaryKey"`
	UserID      int64  `gorm:"index;not null"`
	AmountCents int64  `gorm:"not null"`
	Kind        string `gorm:"not null"`
	Category    string `gorm:"size:50;not null"`
	Date        string `gorm:"column:date;size:10;not null"`
	Description string `gorm:"size:200"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (transactionRow) TableName() string { return "transactions" }

func newTransactionRow(t core.Transaction) transactionRow {
	return transactionRow{
		ID:          int64(t.ID),
		UserID:      int64(t.UserID),
		AmountCents: t.Amount.Cents,
		Kind:        string(t.Kind),
		Category:    t.Category,
		Date:        t.Date.String(),
		Description: t.Description,
	}
}

func (r transactionRow) toCore() (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          core.TransactionID(r.ID),
		UserID:      core.UserID(r.UserID),
		Amount:      core.Money{Cents: r.AmountCents},
		Kind:        core.Kind(r.Kind),
		Category:    r.Category,
		Date:        date,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

type budgetRow struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     int64  `gorm:"not null"`
	Category   string `gorm:"size:50;not null"`
	LimitCents int64  `gorm:"not null"`
	Year       int    `gorm:"not null"`
	Month      int    `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (budgetRow) TableName() string { return "budgets" }

func (r budgetRow) toCore() core.Budget {
	return core.Budget{
		ID:       core.BudgetID(r.ID),
		UserID:   core.UserID(r.UserID),
		Category: r.Category,
		Limit:    core.Money{Cents: r.LimitCents},
		Period:   core.Period{Year: r.Year, Month: r.Month},
	}
}

// Session is a login session. The id is carried inside the session cookie.
type Session struct {
	ID        string      `gorm:"primaryKey"`
	UserID    core.UserID `gorm:"not null"`
	ExpiresAt time.Time   `gorm:"not null"`
	Revoked   bool        `gorm:"not null"`
	CreatedAt time.Time
}

func (Session) TableName() string { return "sessions" }

// Live reports whether the session can still authenticate requests at now.
func (s Session) Live(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

// AuditEntry records one ledger mutation, written by the audit worker.
type AuditEntry struct {
	ID          int64       `gorm:"primaryKey"`
	EventID     string      `gorm:"uniqueIndex;not null"`
	UserID      core.UserID `gorm:"not null"`
	Action      string      `gorm:"not null"`
	EntityID    int64       `gorm:"not null"`
	Category    string
	AmountCents int64
	Kind        string
	OccurredAt  time.Time `gorm:"not null"`
	RecordedAt  time.Time `gorm:"not null"`
}

func (AuditEntry) TableName() string { return "audit_log" }
