package core

import (
	"strconv"
	"strings"
	"time"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month int // 1-12
}

// PeriodOf returns the calendar month containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// ParsePeriod reads year and month query values. Empty values fall back to
// the corresponding field of def.
func ParsePeriod(year, month string, def Period) (Period, error) {
	p := def
	if s := strings.TrimSpace(year); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return Period{}, ErrInvalidPeriod
		}
		p.Year = y
	}
	if s := strings.TrimSpace(month); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil {
			return Period{}, ErrInvalidPeriod
		}
		p.Month = m
	}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Year < 1 || p.Year > 9999 || p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

func (p Period) Start() Date {
	return NewDate(p.Year, p.Month, 1)
}

func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return p.Start().Format("2006-01")
}
