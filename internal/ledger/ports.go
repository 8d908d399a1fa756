package ledger

import (
	"context"

	"chitieu/internal/core"
)

// Ports for outbound row storage adapters.
type (
	// RowAppender appends a single ledger row. Rows are append-only; no
	// adapter ever mutates or deletes existing rows.
	RowAppender interface {
		AppendRow(ctx context.Context, r core.Row) (rowRef string, err error)
	}

	// RowReader returns the raw row tuples in insertion order, with the
	// header row already excluded. Cells keep whatever shape the backing
	// store gives them (strings, numbers, native dates); normalization is
	// the aggregator's job.
	RowReader interface {
		ReadRows(ctx context.Context) ([][]any, error)
	}

	// RowStore is the full collaborator surface the bot needs.
	RowStore interface {
		RowAppender
		RowReader
	}
)
