package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// TimestampLayout is the display format for column 0 of a ledger row.
// Day-first, matching the Vietnamese date convention. The same column is read
// back as the transaction date during aggregation, so the layout must stay
// parseable by CellMonthYear.
const TimestampLayout = "02/01/2006, 15:04:05"

type (
	Kind string

	// Money is a whole amount in Vietnamese đồng. VND has no minor unit,
	// so no cents field is needed.
	Money struct {
		Dong int64
	}

	// Row is one append-only ledger record. Exactly one of Expense/Income
	// is populated; the other stays zero and is written as an empty cell.
	Row struct {
		Timestamp string
		Label     string
		Expense   Money
		Income    Money
	}

	// MonthlyTotals holds the aggregated amounts for one month.
	// Derived at report time, never stored.
	MonthlyTotals struct {
		Income  Money
		Expense Money
	}
)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrBothKinds     = errors.New("row cannot carry both expense and income")
)

// NewRow builds a ledger row for an entry captured at ts.
func NewRow(ts time.Time, label string, kind Kind, amount Money) Row {
	r := Row{
		Timestamp: ts.Format(TimestampLayout),
		Label:     strings.TrimSpace(label),
	}
	if kind == Income {
		r.Income = amount
	} else {
		r.Expense = amount
	}
	return r
}

// Kind reports which amount column the row populates.
func (r Row) Kind() Kind {
	if r.Income.Dong != 0 {
		return Income
	}
	return Expense
}

// Amount returns the populated amount column.
func (r Row) Amount() Money {
	if r.Income.Dong != 0 {
		return r.Income
	}
	return r.Expense
}

func (r Row) Validate() error {
	if r.Expense.Dong != 0 && r.Income.Dong != 0 {
		return ErrBothKinds
	}
	if r.Expense.Dong < 0 || r.Income.Dong < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Cells returns the row as the ordered cell tuple stored in the ledger:
// timestamp, label, expense, income. The unused amount column is an empty
// string so spreadsheet cells stay blank rather than showing a zero.
func (r Row) Cells() []any {
	expense := any("")
	income := any("")
	if r.Expense.Dong != 0 {
		expense = r.Expense.Dong
	}
	if r.Income.Dong != 0 {
		income = r.Income.Dong
	}
	return []any{r.Timestamp, r.Label, expense, income}
}

func (m Money) Validate() error {
	if m.Dong < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Balance is income minus expense, computed at reply time.
func (t MonthlyTotals) Balance() Money {
	return Money{Dong: t.Income.Dong - t.Expense.Dong}
}

// ValidateReportRange checks the month/year bounds accepted by a report
// command. Out-of-range values produce a warning reply, never aggregation.
func ValidateReportRange(month, year int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	if year < 1930 || year > 2201 {
		return ErrInvalidYear
	}
	return nil
}
