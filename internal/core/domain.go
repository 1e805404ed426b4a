package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	Groceries      Category = "Groceries"
	Rent           Category = "Rent"
	Utilities      Category = "Utilities"
	Entertainment  Category = "Entertainment"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Health         Category = "Health"
	Other          Category = "Other"
)

// SalaryCategory labels every income transaction whose category was not supplied.
const SalaryCategory = "Salary"

const isoLayout = "2006-01-02"

type (
	// Kind is the polarity of a transaction.
	Kind string

	// Category is a member of the fixed expense category set.
	Category string

	// Date is a calendar day, stored as UTC midnight.
	Date struct {
		time.Time
	}

	// Transaction is compared by value: two transactions with equal fields are duplicates.
	Transaction struct {
		Date        Date
		Amount      decimal.Decimal
		Category    string
		Description string
		Kind        Kind
	}
)

// Categories returns the fixed category set in display order.
// The slice is a fresh copy on every call.
func Categories() []Category {
	return []Category{Groceries, Rent, Utilities, Entertainment, Transportation, Shopping, Health, Other}
}

// IsCategory reports whether name belongs to the fixed set (exact match).
func IsCategory(name string) bool {
	for _, c := range Categories() {
		if string(c) == name {
			return true
		}
	}
	return false
}

// ParseCategory matches name against the fixed set ignoring case and
// surrounding spaces, returning the canonical spelling.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// categoryRank orders known categories by display order and everything else after them.
func categoryRank(name string) int {
	for i, c := range Categories() {
		if string(c) == name {
			return i
		}
	}
	return len(Categories())
}

func (c Category) String() string {
	return string(c)
}

// ParseKind accepts "income" or "expense" in any case, surrounding spaces ignored.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
}

func (k Kind) String() string {
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseISODate parses the canonical YYYY-MM-DD form.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(isoLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(isoLayout)
}

// Equal compares calendar days.
func (d Date) Equal(o Date) bool {
	return d.String() == o.String()
}

// After reports whether d is a later day than o.
func (d Date) After(o Date) bool {
	return d.String() > o.String()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseISODate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Equal is the five-field duplicate test. Amounts compare numerically, so 50 and 50.00 match.
func (t Transaction) Equal(o Transaction) bool {
	return t.Date.Equal(o.Date) &&
		t.Amount.Equal(o.Amount) &&
		t.Category == o.Category &&
		t.Description == o.Description &&
		t.Kind == o.Kind
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, t.Amount)
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	return nil
}

// Matches reports whether the lower-cased keyword occurs in the ISO date, category or description.
func (t Transaction) Matches(keyword string) bool {
	keyword = strings.ToLower(keyword)
	return strings.Contains(t.Date.String(), keyword) ||
		strings.Contains(strings.ToLower(t.Category), keyword) ||
		strings.Contains(strings.ToLower(t.Description), keyword)
}
