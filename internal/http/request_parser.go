package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

var errBadID = errors.New("invalid transaction id")

// maxFormBytes caps the body of any form post.
const maxFormBytes = 64 << 10

// parseForm reads a url-encoded body, bounded by maxFormBytes.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	return r.ParseForm()
}

// formValue returns the trimmed, sanitized value of a posted field.
func formValue(r *http.Request, key string) string {
	return sanitizeInput(r.PostForm.Get(key))
}

// transactionInput collects the transaction fields of a posted form.
// The legacy field name "type" is accepted for the kind.
func transactionInput(r *http.Request) core.TransactionInput {
	kind := formValue(r, "kind")
	if kind == "" {
		kind = formValue(r, "type")
	}
	return core.TransactionInput{
		Amount:      formValue(r, "amount"),
		Kind:        kind,
		Category:    formValue(r, "category"),
		Date:        formValue(r, "date"),
		Description: formValue(r, "description"),
	}
}

// transactionID reads the {id} route parameter.
func transactionID(r *http.Request) (core.TransactionID, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return core.TransactionID(id), nil
}

// periodParam reads year and month from the query string, falling back to def.
func periodParam(r *http.Request, def core.Period) (core.Period, error) {
	q := r.URL.Query()
	return core.ParsePeriod(q.Get("year"), q.Get("month"), def)
}

// sanitizeInput drops control characters other than tab and newlines and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
