package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/core"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{123450, "$1,234.50"},
		{100000000, "$1,000,000.00"},
		{-300, "-$3.00"},
		{-123456789, "-$1,234,567.89"},
	}
	for _, tt := range tests {
		if got := formatMoney(core.Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("formatMoney(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestSpentPercent(t *testing.T) {
	tests := []struct {
		limit, spent int64
		want         int
	}{
		{10000, 0, 0},
		{10000, 2500, 25},
		{10000, 25000, 100},
		{0, 0, 0},
		{0, 100, 100},
	}
	for _, tt := range tests {
		b := core.BudgetStatus{Limit: core.Money{Cents: tt.limit}, Spent: core.Money{Cents: tt.spent}}
		if got := spentPercent(b); got != tt.want {
			t.Errorf("spentPercent(%d/%d) = %d, want %d", tt.spent, tt.limit, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Food  ", "Food"},
		{"a\x00b\x07c", "abc"},
		{"line\nbreak", "line\nbreak"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNoticeRoundTrip(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add_transaction", nil)
	Redirect("/").Success("Saved <b>!</b>").Write(rr, req)

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("got %d to %q", rr.Code, rr.Header().Get("Location"))
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != noticeCookie {
		t.Fatalf("cookies = %+v", cookies)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	n := takeNotice(rr, next)
	if n == nil || n.Kind != NoticeSuccess || n.Message != "Saved <b>!</b>" {
		t.Fatalf("notice = %+v", n)
	}
	cleared := rr.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("notice cookie not cleared: %+v", cleared)
	}
}

func TestTakeNoticeIgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: noticeCookie, Value: "!!not-base64"})
	if n := takeNotice(httptest.NewRecorder(), req); n != nil {
		t.Fatalf("expected no notice, got %+v", n)
	}
}

func TestTransactionMessage(t *testing.T) {
	tests := []struct {
		err  error
		verb string
		want string
	}{
		{core.ErrNotFound, "edit", "Transaction not found or you do not have permission to edit it."},
		{core.ErrForbidden, "delete", "Transaction not found or you do not have permission to delete it."},
		{core.ErrInvalidAmount, "add", "An error occurred: invalid amount. Please ensure all fields are correct."},
		{http.ErrHandlerTimeout, "add", msgInternal},
	}
	for _, tt := range tests {
		if got := transactionMessage(tt.err, tt.verb); got != tt.want {
			t.Errorf("transactionMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
