// Package services implements the credential store, transaction ledger,
// budget registry and dashboard aggregation on top of storage.
package services

import (
	"context"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (core.User, error)
	UserByUsername(ctx context.Context, username string) (core.User, error)
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	Transaction(ctx context.Context, userID core.UserID, id core.TransactionID) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID core.UserID, id core.TransactionID) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID core.UserID) ([]core.Transaction, error)
}

type BudgetStore interface {
	UpsertBudget(ctx context.Context, b core.Budget) (bool, error)
	ListBudgets(ctx context.Context, userID core.UserID, period core.Period) ([]core.Budget, error)
}

// EventPublisher receives ledger events after a mutation has committed.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error
}

// Clock returns the current time. Budgets use its local calendar month.
type Clock func() time.Time

// publish sends e if a publisher is configured. Failures are logged and
// never reach the caller: the change is already committed.
func publish(ctx context.Context, p EventPublisher, logger *log.Logger, e *amqp.LedgerEvent) {
	if p == nil {
		return
	}
	if err := p.PublishLedgerEvent(ctx, e); err != nil {
		logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeNetwork,
			log.FieldOperation, log.OpPublish,
			log.FieldAction, e.Action,
			log.FieldUserID, e.UserID)
	}
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Discard()
	}
	return l
}
