package services

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// LedgerService manages a user's transactions. Every operation is scoped to
// the acting user; another user's transaction is never read or written.
type LedgerService struct {
	store  TransactionStore
	events EventPublisher
	logger *log.Logger
}

func NewLedgerService(store TransactionStore, events EventPublisher, logger *log.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
		logger: orDiscard(logger).WithComponent(log.ComponentTransaction),
	}
}

func (s *LedgerService) Create(ctx context.Context, userID core.UserID, in core.TransactionInput) (core.Transaction, error) {
	t, err := in.Parse()
	if err != nil {
		return core.Transaction{}, err
	}
	t.UserID = userID

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction created", s.fields(created, log.OpCreate)...)
	publish(ctx, s.events, s.logger, transactionEvent(amqp.ActionTransactionCreated, created))
	return created, nil
}

// Get returns one transaction owned by userID.
func (s *LedgerService) Get(ctx context.Context, userID core.UserID, id core.TransactionID) (core.Transaction, error) {
	return s.store.Transaction(ctx, userID, id)
}

func (s *LedgerService) Update(ctx context.Context, userID core.UserID, id core.TransactionID, in core.TransactionInput) (core.Transaction, error) {
	t, err := in.Parse()
	if err != nil {
		return core.Transaction{}, err
	}
	t.ID = id
	t.UserID = userID

	updated, err := s.store.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction updated", s.fields(updated, log.OpUpdate)...)
	publish(ctx, s.events, s.logger, transactionEvent(amqp.ActionTransactionUpdated, updated))
	return updated, nil
}

func (s *LedgerService) Delete(ctx context.Context, userID core.UserID, id core.TransactionID) error {
	deleted, err := s.store.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Transaction deleted", s.fields(deleted, log.OpDelete)...)
	publish(ctx, s.events, s.logger, transactionEvent(amqp.ActionTransactionDeleted, deleted))
	return nil
}

// List returns the user's transactions, newest first.
func (s *LedgerService) List(ctx context.Context, userID core.UserID) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

func (s *LedgerService) fields(t core.Transaction, op string) []any {
	return log.NewFields().
		WithOperation(op).
		WithUser(int64(t.UserID)).
		WithTransaction(int64(t.ID), string(t.Kind), t.Category, t.Amount.Cents).
		ToSlice()
}

func transactionEvent(action string, t core.Transaction) *amqp.LedgerEvent {
	e := amqp.NewLedgerEvent(action, int64(t.UserID), int64(t.ID))
	e.Category = t.Category
	e.AmountCents = t.Amount.Cents
	e.Kind = string(t.Kind)
	e.Year = t.Date.Year()
	e.Month = t.Date.Month()
	return e
}
