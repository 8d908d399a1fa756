package worker

import (
	"context"
	"fmt"
	"log/slog"

	"chitieu/internal/amqp"
	"chitieu/internal/ledger"
	"chitieu/internal/storage"
)

// SyncWorker mirrors ledger rows from SQLite to the Google sheet.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheet     ledger.RowAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheet ledger.RowAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single row sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RowSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	row, err := w.storage.GetRow(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get row from storage: %w", err)
	}
	if row.Synced {
		slog.DebugContext(ctx, "Row already synced, skipping", "id", msg.ID)
		return nil
	}

	if err := w.syncRowToSheet(ctx, msg.ID, row); err != nil {
		return fmt.Errorf("sync row to sheet: %w", err)
	}

	return nil
}

// ProcessPendingRows mirrors any rows that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingRows(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncRows(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending rows: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending rows", "count", len(pending))

	for _, p := range pending {
		row, err := w.storage.GetRow(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get row", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.syncRowToSheet(ctx, p.ID, row); err != nil {
			slog.ErrorContext(ctx, "Failed to sync row", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck verifies and syncs any pending rows at worker startup.
// Useful to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncRows(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending rows for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending rows found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending rows on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		row, err := w.storage.GetRow(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get row for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.syncRowToSheet(ctx, p.ID, row); err != nil {
			slog.ErrorContext(ctx, "Failed to sync row during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncRowToSheet(ctx context.Context, id int64, row *storage.Row) error {
	ref, err := w.sheet.AppendRow(ctx, row.ToCore())
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// The sheet write succeeded, so don't fail the message.
	}

	slog.InfoContext(ctx, "Successfully synced row",
		"id", id,
		"row_ref", ref,
		"label", row.Label)

	return nil
}
