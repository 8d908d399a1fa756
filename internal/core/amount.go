// Package core provides the ledger domain: rows, amount and date
// normalization, and monthly totals.
//
// This file contains amount handling: the unit multiplier table applied to
// typed entry amounts, and the cleaning of raw amount cells read back from
// the ledger during aggregation.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitMultiplier returns the scale factor for a trailing amount unit.
// Units are the colloquial Vietnamese denominations; matching is
// case-insensitive. Unknown or empty units multiply by 1.
//
// Examples:
//
//	UnitMultiplier("k")     -> 1000
//	UnitMultiplier("triệu") -> 1000000
//	UnitMultiplier("")      -> 1
func UnitMultiplier(unit string) int64 {
	switch strings.ToLower(unit) {
	case "k", "nghìn", "ng", "ngàn":
		return 1_000
	case "xị", "lít", "trăm":
		return 100_000
	case "củ", "tr", "m", "triệu":
		return 1_000_000
	default:
		return 1
	}
}

// EntryAmount converts the typed digits plus unit into base đồng.
// Integer arithmetic only; the supported ranges never overflow int64.
func EntryAmount(digits int64, unit string) Money {
	return Money{Dong: digits * UnitMultiplier(unit)}
}

// CleanAmount normalizes a raw amount cell into whole đồng.
//
// Cells come back from the ledger in whatever shape they were stored or
// formatted in: native numbers, plain digit strings, or display strings with
// thousands separators and a currency glyph. Cleaning keeps only digits,
// comma, dot, and minus, strips the đồng glyph, drops thousands-separator
// commas, and parses the remainder. Any parse failure contributes 0 rather
// than aborting the scan. Cleaning an already-clean numeric string is a
// no-op, so the operation is idempotent.
func CleanAmount(cell any) int64 {
	s := cellString(cell)
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

// cellString renders a cell value for cleaning. Floats are formatted without
// exponent notation so large amounts survive the round trip.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
