package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"chitieu/internal/core"
	"chitieu/internal/ledger"

	_ "modernc.org/sqlite"
)

// Row is a ledger row as stored in SQLite. The amount columns are nullable
// so the income/expense split survives the round trip to spreadsheet cells.
type Row struct {
	ID          int64
	TsDisplay   string
	Label       string
	ExpenseDong sql.NullInt64
	IncomeDong  sql.NullInt64
	Version     int64
	Synced      bool
	SyncError   bool
	CreatedAt   time.Time
}

// ToCore converts a stored row back to the domain representation.
func (r *Row) ToCore() core.Row {
	row := core.Row{
		Timestamp: r.TsDisplay,
		Label:     r.Label,
	}
	if r.ExpenseDong.Valid {
		row.Expense = core.Money{Dong: r.ExpenseDong.Int64}
	}
	if r.IncomeDong.Valid {
		row.Income = core.Money{Dong: r.IncomeDong.Int64}
	}
	return row
}

// PendingSyncRow holds the minimal data needed for sync queue messages.
type PendingSyncRow struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.RowStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendRow implements ledger.RowAppender. The unused amount column is
// stored as NULL so ReadRows can reproduce the empty spreadsheet cell.
func (r *SQLiteRepository) AppendRow(ctx context.Context, row core.Row) (string, error) {
	if err := row.Validate(); err != nil {
		return "", err
	}

	expense := sql.NullInt64{}
	income := sql.NullInt64{}
	switch row.Kind() {
	case core.Expense:
		expense = sql.NullInt64{Int64: row.Expense.Dong, Valid: true}
	case core.Income:
		income = sql.NullInt64{Int64: row.Income.Dong, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_rows (ts_display, label, expense_dong, income_dong) VALUES (?, ?, ?, ?)`,
		row.Timestamp, row.Label, expense, income,
	)
	if err != nil {
		return "", fmt.Errorf("insert ledger row: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Ledger row saved to SQLite",
		"id", id,
		"label", row.Label,
		"amount_dong", row.Amount().Dong,
		"entry_kind", string(row.Kind()))

	return strconv.FormatInt(id, 10), nil
}

// ReadRows implements ledger.RowReader. Cells come back in spreadsheet
// column order with NULL amounts rendered as empty strings.
func (r *SQLiteRepository) ReadRows(ctx context.Context) ([][]any, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ts_display, label, expense_dong, income_dong FROM ledger_rows ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select ledger rows: %w", err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		var ts, label string
		var expense, income sql.NullInt64
		if err := rows.Scan(&ts, &label, &expense, &income); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		cells := []any{ts, label, amountCell(expense), amountCell(income)}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}

	return out, nil
}

func amountCell(v sql.NullInt64) any {
	if !v.Valid {
		return ""
	}
	return v.Int64
}

// GetRow retrieves a single row by ID
func (r *SQLiteRepository) GetRow(ctx context.Context, id int64) (*Row, error) {
	row := &Row{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ts_display, label, expense_dong, income_dong, version, synced, sync_error, created_at
		 FROM ledger_rows WHERE id = ?`, id,
	).Scan(&row.ID, &row.TsDisplay, &row.Label, &row.ExpenseDong, &row.IncomeDong,
		&row.Version, &row.Synced, &row.SyncError, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get ledger row by id: %w", err)
	}
	return row, nil
}

// GetPendingSyncRows returns rows that still need to be mirrored to the sheet
func (r *SQLiteRepository) GetPendingSyncRows(ctx context.Context, limit int) ([]PendingSyncRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, created_at FROM ledger_rows
		 WHERE synced = 0 AND sync_error = 0 ORDER BY id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get pending sync rows: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncRow
	for rows.Next() {
		var p PendingSyncRow
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync row: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync rows: %w", err)
	}

	return pending, nil
}

// MarkSynced marks a row as successfully mirrored to the sheet
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE ledger_rows SET synced = 1, sync_error = 0 WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("mark row synced: %w", err)
	}

	slog.InfoContext(ctx, "Ledger row marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a row as having failed to mirror
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE ledger_rows SET sync_error = 1 WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("mark row sync error: %w", err)
	}

	slog.WarnContext(ctx, "Ledger row marked with sync error", "id", id)
	return nil
}
