package core

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// CellMonthYear extracts the calendar month and year from a ledger date cell.
//
// Native time values are read directly. Strings are split on "/", whitespace,
// or "," and the first three parts are read day-first as {day, month, year},
// compensating for the day-first display convention of the stored timestamp.
// The month must be a real month and the day within 1-31; a valid day that
// overflows a shorter month normalizes forward into the next month the way
// calendar arithmetic does. Anything unparseable reports ok=false so the
// caller can skip the row.
func CellMonthYear(cell any) (month, year int, ok bool) {
	switch v := cell.(type) {
	case time.Time:
		return int(v.Month()), v.Year(), true
	case string:
		return stringMonthYear(v)
	default:
		return 0, 0, false
	}
}

func stringMonthYear(s string) (month, year int, ok bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == ',' || unicode.IsSpace(r)
	})
	if len(parts) < 3 {
		return 0, 0, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	if day < 1 || day > 31 {
		return 0, 0, false
	}
	if m < 1 || m > 12 {
		return 0, 0, false
	}
	t := time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	return int(t.Month()), t.Year(), true
}
