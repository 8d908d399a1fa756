package core

import (
	"testing"
	"time"
)

func TestCellMonthYear(t *testing.T) {
	cases := []struct {
		name  string
		cell  any
		month int
		year  int
		ok    bool
	}{
		{"native date", time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC), 5, 2024, true},
		{"day first with time", "15/05/2024, 10:30:00", 5, 2024, true},
		{"day first date only", "15/05/2024", 5, 2024, true},
		{"space separated", "15 05 2024", 5, 2024, true},
		{"single digit parts", "1/2/2024", 2, 2024, true},
		{"day overflow rolls forward", "31/02/2024", 3, 2024, true},
		{"day above 31", "32/01/2024", 0, 0, false},
		{"day zero", "0/01/2024", 0, 0, false},
		{"month out of range", "05/13/2024", 0, 0, false},
		{"month zero", "05/0/2024", 0, 0, false},
		{"two parts only", "15/05", 0, 0, false},
		{"non numeric day", "abc/05/2024", 0, 0, false},
		{"non numeric year", "15/05/nope", 0, 0, false},
		{"empty string", "", 0, 0, false},
		{"unsupported cell type", 12345, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, y, ok := CellMonthYear(tc.cell)
			if ok != tc.ok || m != tc.month || y != tc.year {
				t.Errorf("CellMonthYear(%v) = (%d, %d, %v), want (%d, %d, %v)",
					tc.cell, m, y, ok, tc.month, tc.year, tc.ok)
			}
		})
	}
}

// The stored timestamp layout must round-trip through the date normalizer,
// since the capture timestamp doubles as the transaction date on read-back.
func TestTimestampLayoutRoundTrip(t *testing.T) {
	ts := time.Date(2024, time.November, 3, 21, 4, 5, 0, time.UTC)
	cell := ts.Format(TimestampLayout)
	m, y, ok := CellMonthYear(cell)
	if !ok || m != 11 || y != 2024 {
		t.Fatalf("round trip of %q = (%d, %d, %v), want (11, 2024, true)", cell, m, y, ok)
	}
}
