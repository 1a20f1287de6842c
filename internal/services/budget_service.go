package services

import (
	"context"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// BudgetService sets and lists monthly category budgets.
type BudgetService struct {
	store  BudgetStore
	events EventPublisher
	now    Clock
	logger *log.Logger
}

func NewBudgetService(store BudgetStore, events EventPublisher, now Clock, logger *log.Logger) *BudgetService {
	if now == nil {
		now = time.Now
	}
	return &BudgetService{
		store:  store,
		events: events,
		now:    now,
		logger: orDiscard(logger).WithComponent(log.ComponentBudget),
	}
}

// CurrentPeriod is the calendar month new budgets are filed under.
func (s *BudgetService) CurrentPeriod() core.Period {
	return core.PeriodOf(s.now())
}

// Set stores limit for category in the current month, replacing any
// existing limit. It reports whether the budget is new.
func (s *BudgetService) Set(ctx context.Context, userID core.UserID, category, limit string) (bool, error) {
	category, err := core.NormalizeCategory(category)
	if err != nil {
		return false, err
	}
	amount, err := core.ParseLimit(limit)
	if err != nil {
		return false, err
	}

	b := core.Budget{UserID: userID, Category: category, Limit: amount, Period: s.CurrentPeriod()}
	if err := b.Validate(); err != nil {
		return false, err
	}

	created, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "Budget set",
		log.NewFields().
			WithOperation(log.OpUpsert).
			WithUser(int64(userID)).
			WithBudget(category, amount.Cents, b.Period.Year, b.Period.Month).
			ToSlice()...)

	e := amqp.NewLedgerEvent(amqp.ActionBudgetSet, int64(userID), 0)
	e.Category = category
	e.AmountCents = amount.Cents
	e.Year = b.Period.Year
	e.Month = b.Period.Month
	publish(ctx, s.events, s.logger, e)
	return created, nil
}

func (s *BudgetService) List(ctx context.Context, userID core.UserID, period core.Period) ([]core.Budget, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListBudgets(ctx, userID, period)
}
