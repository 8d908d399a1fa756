package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewRowPopulatesExactlyOneColumn(t *testing.T) {
	ts := time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

	exp := NewRow(ts, " Coffee ", Expense, Money{Dong: 50_000})
	if exp.Expense.Dong != 50_000 || exp.Income.Dong != 0 {
		t.Fatalf("expense row columns: expense=%d income=%d", exp.Expense.Dong, exp.Income.Dong)
	}
	if exp.Label != "Coffee" {
		t.Errorf("label not trimmed: %q", exp.Label)
	}
	if exp.Timestamp != "15/05/2024, 10:30:00" {
		t.Errorf("unexpected timestamp: %q", exp.Timestamp)
	}
	if exp.Kind() != Expense {
		t.Errorf("Kind() = %v", exp.Kind())
	}

	inc := NewRow(ts, "Salary", Income, Money{Dong: 10_000_000})
	if inc.Income.Dong != 10_000_000 || inc.Expense.Dong != 0 {
		t.Fatalf("income row columns: expense=%d income=%d", inc.Expense.Dong, inc.Income.Dong)
	}
	if inc.Kind() != Income || inc.Amount().Dong != 10_000_000 {
		t.Errorf("Kind()=%v Amount()=%d", inc.Kind(), inc.Amount().Dong)
	}
}

func TestRowCells(t *testing.T) {
	ts := time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)
	cells := NewRow(ts, "Coffee", Expense, Money{Dong: 50_000}).Cells()
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	if cells[2] != int64(50_000) {
		t.Errorf("expense cell = %v", cells[2])
	}
	if cells[3] != "" {
		t.Errorf("income cell should be empty, got %v", cells[3])
	}
}

func TestRowValidate(t *testing.T) {
	bad := Row{Expense: Money{Dong: 1}, Income: Money{Dong: 1}}
	if !errors.Is(bad.Validate(), ErrBothKinds) {
		t.Errorf("expected ErrBothKinds, got %v", bad.Validate())
	}
	neg := Row{Expense: Money{Dong: -1}}
	if !errors.Is(neg.Validate(), ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", neg.Validate())
	}
	if err := (Row{Income: Money{Dong: 5}}).Validate(); err != nil {
		t.Errorf("valid row rejected: %v", err)
	}
}

func TestMonthlyTotalsBalance(t *testing.T) {
	tot := MonthlyTotals{Income: Money{Dong: 10_000_000}, Expense: Money{Dong: 3_500_000}}
	if got := tot.Balance().Dong; got != 6_500_000 {
		t.Errorf("Balance() = %d", got)
	}
	overdrawn := MonthlyTotals{Expense: Money{Dong: 100}}
	if got := overdrawn.Balance().Dong; got != -100 {
		t.Errorf("negative balance = %d", got)
	}
}

func TestValidateReportRange(t *testing.T) {
	cases := []struct {
		month, year int
		want        error
	}{
		{1, 2024, nil},
		{12, 1930, nil},
		{12, 2201, nil},
		{0, 2024, ErrInvalidMonth},
		{13, 2024, ErrInvalidMonth},
		{5, 1929, ErrInvalidYear},
		{5, 2202, ErrInvalidYear},
	}
	for _, tc := range cases {
		if got := ValidateReportRange(tc.month, tc.year); !errors.Is(got, tc.want) {
			t.Errorf("ValidateReportRange(%d, %d) = %v, want %v", tc.month, tc.year, got, tc.want)
		}
	}
}
