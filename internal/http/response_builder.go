package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const noticeCookie = "fintrack_notice"

// NoticeKind selects how a notice is styled.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "danger"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Kind    NoticeKind `json:"k"`
	Message string     `json:"m"`
}

// RedirectBuilder provides a fluent API for post/redirect/get responses that
// carry a notice to the page they land on.
type RedirectBuilder struct {
	location string
	status   int
	notice   *Notice
}

// Redirect creates a builder that sends the client to location with 303.
func Redirect(location string) *RedirectBuilder {
	return &RedirectBuilder{location: location, status: http.StatusSeeOther}
}

func (b *RedirectBuilder) Notice(kind NoticeKind, message string) *RedirectBuilder {
	b.notice = &Notice{Kind: kind, Message: message}
	return b
}

func (b *RedirectBuilder) Success(message string) *RedirectBuilder {
	return b.Notice(NoticeSuccess, message)
}

func (b *RedirectBuilder) Error(message string) *RedirectBuilder {
	return b.Notice(NoticeError, message)
}

func (b *RedirectBuilder) Info(message string) *RedirectBuilder {
	return b.Notice(NoticeInfo, message)
}

// Write sets the notice cookie, if any, and sends the redirect.
func (b *RedirectBuilder) Write(w http.ResponseWriter, r *http.Request) {
	if b.notice != nil {
		setNotice(w, *b.notice)
	}
	http.Redirect(w, r, b.location, b.status)
}

func setNotice(w http.ResponseWriter, n Notice) {
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeNotice returns the pending notice and clears its cookie.
func takeNotice(w http.ResponseWriter, r *http.Request) *Notice {
	c, err := r.Cookie(noticeCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var n Notice
	if err := json.Unmarshal(raw, &n); err != nil || n.Message == "" {
		return nil
	}
	switch n.Kind {
	case NoticeSuccess, NoticeError, NoticeInfo:
	default:
		n.Kind = NoticeInfo
	}
	return &n
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Error: message})
}
