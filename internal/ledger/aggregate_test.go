package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"chitieu/internal/core"
)

type stubReader struct {
	rows [][]any
	err  error
}

func (s *stubReader) ReadRows(context.Context) ([][]any, error) {
	return s.rows, s.err
}

func TestTotalForMixedCellFormats(t *testing.T) {
	reader := &stubReader{rows: [][]any{
		// In-range rows in several stored shapes.
		{"15/05/2024, 10:30:00", "Coffee", int64(50_000), ""},
		{time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC), "Lunch", "70,000 ₫", ""},
		{"20/05/2024", "Salary", "", float64(10_000_000)},
		// Out-of-range month and year.
		{"15/06/2024, 08:00:00", "Dinner", int64(90_000), ""},
		{"15/05/2023", "Old coffee", int64(10_000), ""},
		// Malformed date: contributes nothing, aborts nothing.
		{"not a date", "Mystery", int64(999_999), ""},
		// Malformed amount cell in range: contributes 0.
		{"02/05/2024", "Broken", "n/a", ""},
		// Short row.
		{},
	}}

	expense, err := TotalFor(context.Background(), reader, core.Expense, 5, 2024)
	if err != nil {
		t.Fatalf("expense total: %v", err)
	}
	if expense.Dong != 120_000 {
		t.Errorf("expense = %d, want 120000", expense.Dong)
	}

	income, err := TotalFor(context.Background(), reader, core.Income, 5, 2024)
	if err != nil {
		t.Fatalf("income total: %v", err)
	}
	if income.Dong != 10_000_000 {
		t.Errorf("income = %d, want 10000000", income.Dong)
	}
}

func TestTotalForEmptyLedger(t *testing.T) {
	total, err := TotalFor(context.Background(), &stubReader{}, core.Expense, 1, 2024)
	if err != nil || total.Dong != 0 {
		t.Fatalf("empty ledger: total=%d err=%v", total.Dong, err)
	}
}

func TestTotalForReadError(t *testing.T) {
	readErr := errors.New("store down")
	_, err := TotalFor(context.Background(), &stubReader{err: readErr}, core.Income, 1, 2024)
	if !errors.Is(err, readErr) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestTotalsFor(t *testing.T) {
	reader := &stubReader{rows: [][]any{
		{"01/03/2024", "Salary", "", int64(12_000_000)},
		{"05/03/2024", "Rent", int64(4_000_000), ""},
		{"09/03/2024", "Coffee", int64(50_000), ""},
	}}
	tot, err := TotalsFor(context.Background(), reader, 3, 2024)
	if err != nil {
		t.Fatalf("TotalsFor: %v", err)
	}
	if tot.Income.Dong != 12_000_000 || tot.Expense.Dong != 4_050_000 {
		t.Errorf("totals = %+v", tot)
	}
	if tot.Balance().Dong != 7_950_000 {
		t.Errorf("balance = %d", tot.Balance().Dong)
	}
}
