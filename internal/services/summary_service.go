package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Dashboard is everything the landing page shows for one period.
type Dashboard struct {
	Summary      core.Summary
	Transactions []core.Transaction
}

// SummaryService loads a user's ledger and budgets and aggregates them.
type SummaryService struct {
	transactions TransactionStore
	budgets      BudgetStore
	logger       *log.Logger
}

func NewSummaryService(transactions TransactionStore, budgets BudgetStore, logger *log.Logger) *SummaryService {
	return &SummaryService{
		transactions: transactions,
		budgets:      budgets,
		logger:       orDiscard(logger).WithComponent(log.ComponentSummary),
	}
}

// Dashboard loads transactions and the period's budgets concurrently.
func (s *SummaryService) Dashboard(ctx context.Context, userID core.UserID, period core.Period) (Dashboard, error) {
	if err := period.Validate(); err != nil {
		return Dashboard{}, err
	}

	var (
		txs     []core.Transaction
		budgets []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListTransactions(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListBudgets(gctx, userID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}

	summary := core.Summarize(period, txs, budgets)
	s.logger.DebugContext(ctx, "Dashboard computed",
		log.FieldUserID, int64(userID),
		log.FieldYear, period.Year,
		log.FieldMonth, period.Month,
		"transactions", len(txs),
		"budgets", len(budgets))

	return Dashboard{Summary: summary, Transactions: txs}, nil
}

func (s *SummaryService) Summarize(ctx context.Context, userID core.UserID, period core.Period) (core.Summary, error) {
	d, err := s.Dashboard(ctx, userID, period)
	if err != nil {
		return core.Summary{}, err
	}
	return d.Summary, nil
}
