package http

import (
	"fmt"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

// handleSetBudget serves both /add_budget and /set_budget. The limit field
// is "amount" in the original form and "limit" in newer clients.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	if err := parseForm(w, r); err != nil {
		Redirect("/").Error("Invalid form submission.").Write(w, r)
		return
	}
	category := formValue(r, "category")
	limit := formValue(r, "limit")
	if limit == "" {
		limit = formValue(r, "amount")
	}

	created, err := s.deps.Budgets.Set(r.Context(), userID, category, limit)
	if err != nil {
		logFailure(r, log.ComponentBudget, log.OpUpsert, err)
		msg := msgInternal
		if core.Classify(err) == core.ClassValidation {
			msg = fmt.Sprintf("An error occurred: %v. Please ensure all fields are correct.", err)
		}
		Redirect("/").Error(msg).Write(w, r)
		return
	}

	if created {
		Redirect("/").Success("Budget added successfully!").Write(w, r)
		return
	}
	if name, err := core.NormalizeCategory(category); err == nil {
		category = name
	}
	Redirect("/").Success(fmt.Sprintf("Budget for %s updated successfully!", category)).Write(w, r)
}
