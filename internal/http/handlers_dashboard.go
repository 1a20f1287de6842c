package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

type indexPage struct {
	Title        string
	Notice       *Notice
	LoggedIn     bool
	Summary      core.Summary
	Transactions []core.Transaction
	Period       core.Period
	Prev, Next   core.Period
	// Current is true when Period is the month new budgets are set for.
	Current bool
	Today   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	current := s.deps.Budgets.CurrentPeriod()

	period, err := periodParam(r, current)
	if err != nil {
		logFailure(r, log.ComponentSummary, log.OpList, err)
		Redirect("/").Error("Invalid month selected.").Write(w, r)
		return
	}

	d, err := s.deps.Summaries.Dashboard(r.Context(), userID, period)
	if err != nil {
		logFailure(r, log.ComponentSummary, log.OpList, err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	data := indexPage{
		Title:        "Dashboard",
		Notice:       takeNotice(w, r),
		LoggedIn:     true,
		Summary:      d.Summary,
		Transactions: d.Transactions,
		Period:       period,
		Prev:         period.Prev(),
		Next:         period.Next(),
		Current:      period == current,
		Today:        time.Now().Format("2006-01-02"),
	}
	if err := s.pages.render(w, http.StatusOK, "index.html", data); err != nil {
		logFailure(r, log.ComponentTemplate, log.OpRender, err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
	}
}
