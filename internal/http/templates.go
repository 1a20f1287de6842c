package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"fintrack/internal/core"
)

var pageNames = []string{"index.html", "login.html", "register.html", "edit.html"}

// renderer holds one template set per page, each combined with the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(fsys fs.FS) (*renderer, error) {
	funcs := template.FuncMap{
		"money":   formatMoney,
		"percent": spentPercent,
	}
	rd := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (rd *renderer) render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// formatMoney formats an amount as dollars, e.g. "$1,234.50" or "-$3.00".
func formatMoney(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := fmt.Sprintf("%d", cents/100)
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	return fmt.Sprintf("%s$%s.%02d", sign, whole, cents%100)
}

// spentPercent is the share of the budget used, capped at 100 for the bar.
func spentPercent(b core.BudgetStatus) int {
	if b.Limit.Cents <= 0 {
		if b.Spent.Cents > 0 {
			return 100
		}
		return 0
	}
	p := b.Spent.Cents * 100 / b.Limit.Cents
	if p > 100 {
		return 100
	}
	return int(p)
}
