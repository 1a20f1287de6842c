package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

type editPage struct {
	Title       string
	Notice      *Notice
	LoggedIn    bool
	Transaction core.Transaction
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	if err := parseForm(w, r); err != nil {
		Redirect("/").Error("Invalid form submission.").Write(w, r)
		return
	}

	if _, err := s.deps.Ledger.Create(r.Context(), userID, transactionInput(r)); err != nil {
		logFailure(r, log.ComponentTransaction, log.OpCreate, err)
		Redirect("/").Error(transactionMessage(err, "add")).Write(w, r)
		return
	}
	Redirect("/").Success("Transaction added successfully!").Write(w, r)
}

func (s *Server) handleEditTransactionPage(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	id, err := transactionID(r)
	if err != nil {
		Redirect("/").Error(transactionMessage(core.ErrNotFound, "edit")).Write(w, r)
		return
	}

	t, err := s.deps.Ledger.Get(r.Context(), userID, id)
	if err != nil {
		logFailure(r, log.ComponentTransaction, log.OpUpdate, err)
		Redirect("/").Error(transactionMessage(err, "edit")).Write(w, r)
		return
	}

	data := editPage{Title: "Edit transaction", Notice: takeNotice(w, r), LoggedIn: true, Transaction: t}
	if err := s.pages.render(w, http.StatusOK, "edit.html", data); err != nil {
		logFailure(r, log.ComponentTemplate, log.OpRender, err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
	}
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	id, err := transactionID(r)
	if err != nil {
		Redirect("/").Error(transactionMessage(core.ErrNotFound, "edit")).Write(w, r)
		return
	}
	if err := parseForm(w, r); err != nil {
		Redirect("/").Error("Invalid form submission.").Write(w, r)
		return
	}

	if _, err := s.deps.Ledger.Update(r.Context(), userID, id, transactionInput(r)); err != nil {
		logFailure(r, log.ComponentTransaction, log.OpUpdate, err)
		Redirect("/").Error(transactionMessage(err, "edit")).Write(w, r)
		return
	}
	Redirect("/").Success("Transaction updated successfully!").Write(w, r)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.RequireAuth(r.Context())
	id, err := transactionID(r)
	if err != nil {
		Redirect("/").Error(transactionMessage(core.ErrNotFound, "delete")).Write(w, r)
		return
	}

	if err := s.deps.Ledger.Delete(r.Context(), userID, id); err != nil {
		logFailure(r, log.ComponentTransaction, log.OpDelete, err)
		Redirect("/").Error(transactionMessage(err, "delete")).Write(w, r)
		return
	}
	Redirect("/").Success("Transaction deleted successfully!").Write(w, r)
}
