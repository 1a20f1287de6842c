package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	for _, in := range []string{"income", "Expense", " INCOME "} {
		if _, err := ParseKind(in); err != nil {
			t.Errorf("ParseKind(%q) unexpected error: %v", in, err)
		}
	}
	for _, in := range []string{"", "transfer", "incomes"} {
		if _, err := ParseKind(in); !errors.Is(err, ErrInvalidKind) {
			t.Errorf("ParseKind(%q) expected ErrInvalidKind, got %v", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 1 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.String() != "2024-03-01" {
		t.Fatalf("String() = %q", d.String())
	}
	for _, in := range []string{"", "2024-3-1", "01/03/2024", "2024-02-30"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestTransactionInputParse(t *testing.T) {
	tests := []struct {
		name    string
		in      TransactionInput
		wantErr error
	}{
		{"valid", TransactionInput{Amount: "50", Kind: "expense", Category: "food", Date: "2024-03-01"}, nil},
		{"bad amount", TransactionInput{Amount: "fifty", Kind: "expense", Category: "food", Date: "2024-03-01"}, ErrInvalidAmount},
		{"bad kind", TransactionInput{Amount: "50", Kind: "gift", Category: "food", Date: "2024-03-01"}, ErrInvalidKind},
		{"empty category", TransactionInput{Amount: "50", Kind: "income", Category: "  ", Date: "2024-03-01"}, ErrInvalidCategory},
		{"bad date", TransactionInput{Amount: "50", Kind: "income", Category: "pay", Date: "March 1"}, ErrInvalidDate},
		{"long description", TransactionInput{Amount: "1", Kind: "income", Category: "pay", Date: "2024-03-01", Description: string(make([]byte, 201))}, ErrInvalidDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := tt.in.Parse()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := tx.Validate(); err != nil {
				t.Fatalf("parsed transaction does not validate: %v", err)
			}
		})
	}
}

func TestPeriod(t *testing.T) {
	p := PeriodOf(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC))
	if p != (Period{Year: 2024, Month: 12}) {
		t.Fatalf("PeriodOf = %+v", p)
	}
	if p.Next() != (Period{Year: 2025, Month: 1}) {
		t.Fatalf("Next = %+v", p.Next())
	}
	if (Period{Year: 2024, Month: 1}).Prev() != (Period{Year: 2023, Month: 12}) {
		t.Fatal("Prev across year boundary")
	}
	if !p.Contains(NewDate(2024, 12, 1)) || p.Contains(NewDate(2023, 12, 1)) {
		t.Fatal("Contains must compare year and month")
	}
	if p.String() != "2024-12" {
		t.Fatalf("String = %q", p.String())
	}
}

func TestParsePeriod(t *testing.T) {
	def := Period{Year: 2024, Month: 3}
	got, err := ParsePeriod("", "4", def)
	if err != nil || got != (Period{Year: 2024, Month: 4}) {
		t.Fatalf("got %+v err=%v", got, err)
	}
	if _, err := ParsePeriod("2024", "13", def); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := ParsePeriod("x", "", def); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorClass
	}{
		{ErrWeakPassword, ClassValidation},
		{&PasswordError{Missing: []string{"a digit"}}, ClassValidation},
		{ErrInvalidCredentials, ClassAuth},
		{ErrUnauthenticated, ClassAuth},
		{ErrForbidden, ClassOwnership},
		{ErrNotFound, ClassNotFound},
		{errors.New("disk on fire"), ClassInternal},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Errorf("Classify(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
