package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

type transactionJSON struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type categoryJSON struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type budgetJSON struct {
	Category  string `json:"category"`
	Limit     string `json:"limit"`
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
	Over      bool   `json:"over"`
}

type summaryJSON struct {
	Year               int            `json:"year"`
	Month              int            `json:"month"`
	TotalIncome        string         `json:"total_income"`
	TotalExpense       string         `json:"total_expense"`
	NetBalance         string         `json:"net_balance"`
	PeriodIncome       string         `json:"period_income"`
	PeriodExpense      string         `json:"period_expense"`
	SpendingByCategory []categoryJSON `json:"spending_by_category"`
	Budgets            []budgetJSON   `json:"budgets"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          int64(t.ID),
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		Kind:        string(t.Kind),
		Category:    t.Category,
		Date:        t.Date.String(),
		Description: t.Description,
	}
}

func toSummaryJSON(s core.Summary) summaryJSON {
	out := summaryJSON{
		Year:               s.Period.Year,
		Month:              s.Period.Month,
		TotalIncome:        s.TotalIncome.String(),
		TotalExpense:       s.TotalExpense.String(),
		NetBalance:         s.NetBalance.String(),
		PeriodIncome:       s.PeriodIncome.String(),
		PeriodExpense:      s.PeriodExpense.String(),
		SpendingByCategory: make([]categoryJSON, 0, len(s.SpendingByCategory)),
		Budgets:            make([]budgetJSON, 0, len(s.Budgets)),
	}
	for _, c := range s.SpendingByCategory {
		out.SpendingByCategory = append(out.SpendingByCategory, categoryJSON{Category: c.Name, Amount: c.Amount.String()})
	}
	for _, b := range s.Budgets {
		out.Budgets = append(out.Budgets, budgetJSON{
			Category:  b.Category,
			Limit:     b.Limit.String(),
			Spent:     b.Spent.String(),
			Remaining: b.Remaining().String(),
			Over:      b.Over(),
		})
	}
	return out
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	period, err := periodParam(r, s.deps.Budgets.CurrentPeriod())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.deps.Summaries.Summarize(r.Context(), userID, period)
	if err != nil {
		logFailure(r, log.ComponentSummary, log.OpList, err)
		writeJSONError(w, apiStatus(err), http.StatusText(apiStatus(err)))
		return
	}
	writeJSON(w, http.StatusOK, toSummaryJSON(summary))
}

func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	txs, err := s.deps.Ledger.List(r.Context(), userID)
	if err != nil {
		logFailure(r, log.ComponentTransaction, log.OpList, err)
		writeJSONError(w, apiStatus(err), http.StatusText(apiStatus(err)))
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}
