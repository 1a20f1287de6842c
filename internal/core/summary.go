package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// BudgetStatus pairs a budget limit with what was spent against it.
type BudgetStatus struct {
	Category string
	Limit    Money
	Spent    Money
}

func (b BudgetStatus) Remaining() Money { return b.Limit.Sub(b.Spent) }
func (b BudgetStatus) Over() bool       { return b.Spent.Cents > b.Limit.Cents }

// Summary is the dashboard view of one user's ledger.
//
// TotalIncome, TotalExpense and NetBalance cover every transaction given.
// The period fields and SpendingByCategory cover only transactions dated
// inside Period.
type Summary struct {
	Period             Period
	TotalIncome        Money
	TotalExpense       Money
	NetBalance         Money
	PeriodIncome       Money
	PeriodExpense      Money
	SpendingByCategory []CategoryAmount
	Budgets            []BudgetStatus
}

// Summarize aggregates txs and compares the period's spending with budgets.
// Budgets for other periods are ignored. The result does not depend on the
// order of txs or budgets.
func Summarize(period Period, txs []Transaction, budgets []Budget) Summary {
	s := Summary{Period: period}
	spent := make(map[string]int64)

	for _, t := range txs {
		in := period.Contains(t.Date)
		switch t.Kind {
		case Income:
			s.TotalIncome.Cents += t.Amount.Cents
			if in {
				s.PeriodIncome.Cents += t.Amount.Cents
			}
		case Expense:
			s.TotalExpense.Cents += t.Amount.Cents
			if in {
				s.PeriodExpense.Cents += t.Amount.Cents
				spent[t.Category] += t.Amount.Cents
			}
		}
	}
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpense)

	s.SpendingByCategory = make([]CategoryAmount, 0, len(spent))
	for name, cents := range spent {
		s.SpendingByCategory = append(s.SpendingByCategory, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(s.SpendingByCategory, func(i, j int) bool {
		return s.SpendingByCategory[i].Name < s.SpendingByCategory[j].Name
	})

	s.Budgets = make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if b.Period != period {
			continue
		}
		s.Budgets = append(s.Budgets, BudgetStatus{
			Category: b.Category,
			Limit:    b.Limit,
			Spent:    Money{Cents: spent[b.Category]},
		})
	}
	sort.Slice(s.Budgets, func(i, j int) bool {
		return s.Budgets[i].Category < s.Budgets[j].Category
	})
	return s
}
