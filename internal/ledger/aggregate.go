// Package ledger defines the row storage ports and the monthly aggregation
// over stored rows.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"chitieu/internal/core"
)

// Column layout of a ledger row. Column 0 is the capture timestamp, which
// also serves as the transaction date on read-back.
const (
	colTimestamp = 0
	colLabel     = 1
	colExpense   = 2
	colIncome    = 3
)

// TotalFor scans every stored row and sums the amount column matching kind,
// restricted to rows whose normalized date falls in the requested month and
// year. Rows with unparseable dates or amounts contribute 0 and are skipped;
// a malformed row never aborts the scan. Only a failed read of the store
// itself is an error.
func TotalFor(ctx context.Context, r RowReader, kind core.Kind, month, year int) (core.Money, error) {
	rows, err := r.ReadRows(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("read rows: %w", err)
	}

	col := colExpense
	if kind == core.Income {
		col = colIncome
	}

	var sum int64
	for i, row := range rows {
		if len(row) <= colTimestamp {
			continue
		}
		m, y, ok := core.CellMonthYear(row[colTimestamp])
		if !ok {
			// +2: 1-based sheet rows, plus the excluded header.
			slog.DebugContext(ctx, "Skipping row with unparseable date", "row", i+2)
			continue
		}
		if m != month || y != year {
			continue
		}
		if col >= len(row) {
			continue
		}
		sum += core.CleanAmount(row[col])
	}
	return core.Money{Dong: sum}, nil
}

// TotalsFor computes income and expense totals for a month. Each kind is
// aggregated by its own TotalFor call; no accumulator is shared between
// the two scans.
func TotalsFor(ctx context.Context, r RowReader, month, year int) (core.MonthlyTotals, error) {
	income, err := TotalFor(ctx, r, core.Income, month, year)
	if err != nil {
		return core.MonthlyTotals{}, fmt.Errorf("income total: %w", err)
	}
	expense, err := TotalFor(ctx, r, core.Expense, month, year)
	if err != nil {
		return core.MonthlyTotals{}, fmt.Errorf("expense total: %w", err)
	}
	return core.MonthlyTotals{Income: income, Expense: expense}, nil
}
