package core

import (
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	MaxUsernameLength    = 80
	MaxCategoryLength    = 50
	MaxDescriptionLength = 200

	dateLayout = "2006-01-02"
)

type (
	UserID        int64
	TransactionID int64
	BudgetID      int64

	// Kind is the direction of a transaction.
	Kind string

	Date struct {
		time.Time
	}

	User struct {
		ID           UserID
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	Transaction struct {
		ID          TransactionID
		UserID      UserID
		Amount      Money
		Kind        Kind
		Category    string
		Date        Date
		Description string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// TransactionInput is the raw, unvalidated form of a transaction.
	TransactionInput struct {
		Amount      string
		Kind        string
		Category    string
		Date        string
		Description string
	}

	Budget struct {
		ID       BudgetID
		UserID   UserID
		Category string
		Limit    Money
		Period   Period
	}
)

// ParseKind accepts "income" or "expense", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Income, Expense:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, which sorts chronologically.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) Period() Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// NormalizeUsername trims the username and checks its length.
func NormalizeUsername(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	return s, nil
}

// NormalizeCategory trims the category and checks its length.
func NormalizeCategory(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxCategoryLength {
		return "", ErrInvalidCategory
	}
	return s, nil
}

// Parse validates the input and returns the transaction fields it describes.
// ID, UserID and timestamps are left for the caller.
func (in TransactionInput) Parse() (Transaction, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, err
	}
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return Transaction{}, err
	}
	category, err := NormalizeCategory(in.Category)
	if err != nil {
		return Transaction{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, err
	}
	desc := strings.TrimSpace(in.Description)
	if len(desc) > MaxDescriptionLength {
		return Transaction{}, ErrInvalidDescription
	}
	return Transaction{
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Date:        date,
		Description: desc,
	}, nil
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if _, err := NormalizeCategory(t.Category); err != nil {
		return err
	}
	if len(t.Description) > MaxDescriptionLength {
		return ErrInvalidDescription
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Limit.Cents < 0 {
		return ErrInvalidLimit
	}
	if _, err := NormalizeCategory(b.Category); err != nil {
		return err
	}
	return b.Period.Validate()
}
