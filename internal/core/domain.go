package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// AllMonths is the month filter sentinel selecting every record.
const AllMonths = "all"

// monthLayout renders a month key (YYYY-MM).
const monthLayout = "2006-01"

type (
	TxType string

	// Record is one income or expense entry. ID is the creation time in
	// Unix milliseconds and doubles as the sort and grouping key.
	Record struct {
		ID          int64   `json:"id" yaml:"id"`
		Description string  `json:"desc" yaml:"desc"`
		Amount      float64 `json:"amount" yaml:"amount"`
		Type        TxType  `json:"type" yaml:"type"`
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
)

// ParseTxType maps user input onto a TxType.
func ParseTxType(s string) (TxType, error) {
	switch TxType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrInvalidType
	}
}

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

func (t TxType) String() string {
	return string(t)
}

// Time returns the creation time of the record in loc.
func (r Record) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(r.ID).In(loc)
}

// Month returns the record's month key in loc.
func (r Record) Month(loc *time.Location) string {
	return MonthKey(r.Time(loc))
}

// MonthKey formats t as a YYYY-MM month key.
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// ValidMonthKey reports whether s is "all" or a YYYY-MM key.
func ValidMonthKey(s string) bool {
	if s == AllMonths {
		return true
	}
	_, err := time.Parse(monthLayout, s)
	return err == nil
}

// ValidateEntry checks the user-supplied part of a record.
func ValidateEntry(description string, amount float64, typ TxType) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	if !typ.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (r Record) Validate() error {
	return ValidateEntry(r.Description, r.Amount, r.Type)
}
