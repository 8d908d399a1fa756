package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"chitieu/internal/core"
	"chitieu/internal/ledger"
	applog "chitieu/internal/log"
	"chitieu/internal/storage"
)

// RowSyncPublisher pushes row IDs onto the sync queue for the worker.
type RowSyncPublisher interface {
	PublishRowSync(ctx context.Context, id, version int64) error
	Close() error
}

// LedgerService orchestrates row writes across SQLite and AMQP. Rows land in
// SQLite first; mirroring to the sheet happens asynchronously via the queue.
type LedgerService struct {
	storage   *storage.SQLiteRepository
	publisher RowSyncPublisher
	log       *applog.StructuredLogger
}

var _ ledger.RowStore = (*LedgerService)(nil)

func NewLedgerService(storage *storage.SQLiteRepository, publisher RowSyncPublisher) *LedgerService {
	return &LedgerService{
		storage:   storage,
		publisher: publisher,
		log:       applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger)),
	}
}

// AppendRow saves a row locally and publishes a sync message. A publish
// failure never fails the append; the pending-rows scan picks the row up.
func (s *LedgerService) AppendRow(ctx context.Context, row core.Row) (string, error) {
	ref, err := s.storage.AppendRow(ctx, row)
	if err != nil {
		return "", fmt.Errorf("save row: %w", err)
	}

	s.log.LogRowAppended(ctx, row.Label, row.Amount().Dong, string(row.Kind()), ref)

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		s.log.LogError(ctx, "Failed to parse row ID", err, applog.OpParse,
			applog.NewFields())
		return ref, nil
	}

	if err := s.publishSyncMessage(ctx, id, 1); err != nil {
		s.log.LogError(ctx, "Failed to publish sync message", err, applog.OpSync,
			applog.NewFields().WithEntry(row.Label, row.Amount().Dong, string(row.Kind())))
	}

	return ref, nil
}

// ReadRows serves reports straight from SQLite.
func (s *LedgerService) ReadRows(ctx context.Context) ([][]any, error) {
	return s.storage.ReadRows(ctx)
}

func (s *LedgerService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.publisher.PublishRowSync(ctx, id, version)
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
