package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"chitieu/internal/core"
	"chitieu/internal/storage"
)

type fakePublisher struct {
	published []int64
	err       error
	closed    bool
}

func (p *fakePublisher) PublishRowSync(_ context.Context, id, _ int64) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, id)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func newTestService(t *testing.T, pub RowSyncPublisher) *LedgerService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	svc := NewLedgerService(repo, pub)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func testRow(label string) core.Row {
	ts := time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)
	return core.NewRow(ts, label, core.Expense, core.Money{Dong: 50_000})
}

func TestAppendRowPublishesSyncMessage(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub)

	ref, err := svc.AppendRow(context.Background(), testRow("Coffee"))
	if err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if ref != "1" {
		t.Errorf("ref = %q", ref)
	}
	if len(pub.published) != 1 || pub.published[0] != 1 {
		t.Errorf("published = %v", pub.published)
	}
}

func TestAppendRowSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(t, pub)

	ref, err := svc.AppendRow(context.Background(), testRow("Coffee"))
	if err != nil {
		t.Fatalf("AppendRow should not fail on publish error: %v", err)
	}
	if ref != "1" {
		t.Errorf("ref = %q", ref)
	}

	// The row is still readable locally.
	cells, err := svc.ReadRows(context.Background())
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(cells) != 1 {
		t.Errorf("rows = %d, want 1", len(cells))
	}
}

func TestAppendRowWithoutPublisher(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.AppendRow(context.Background(), testRow("Coffee")); err != nil {
		t.Fatalf("AppendRow without publisher: %v", err)
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	svc := NewLedgerService(repo, pub)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Error("publisher was not closed")
	}
}
