package memory

import (
	"context"
	"testing"
	"time"

	"chitieu/internal/core"
)

func TestStoreAppendAndRead(t *testing.T) {
	s := New()
	ts := time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

	ref, err := s.AppendRow(context.Background(), core.NewRow(ts, "Coffee", core.Expense, core.Money{Dong: 50_000}))
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rows, err := s.ReadRows(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("unexpected read: rows=%v err=%v", rows, err)
	}
	if rows[0][0] != "15/05/2024, 10:30:00" || rows[0][1] != "Coffee" {
		t.Errorf("unexpected cells: %v", rows[0])
	}
	if rows[0][2] != int64(50_000) || rows[0][3] != "" {
		t.Errorf("unexpected amount cells: %v", rows[0])
	}
}

func TestStoreRejectsInvalidRow(t *testing.T) {
	s := New()
	bad := core.Row{Expense: core.Money{Dong: 1}, Income: core.Money{Dong: 1}}
	if _, err := s.AppendRow(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	if s.Len() != 0 {
		t.Fatalf("invalid row was stored")
	}
}

func TestReadRowsReturnsCopies(t *testing.T) {
	s := New()
	s.Seed("15/05/2024", "Coffee", int64(1), "")
	rows, _ := s.ReadRows(context.Background())
	rows[0][1] = "tampered"
	again, _ := s.ReadRows(context.Background())
	if again[0][1] != "Coffee" {
		t.Fatal("internal rows were mutated through the returned slice")
	}
}
