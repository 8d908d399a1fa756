// Package vnd is the locale boundary for currency display. The aggregation
// core works with plain integer đồng; only replies pass through here.
package vnd

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"chitieu/internal/core"
)

var printer = message.NewPrinter(language.Vietnamese)

// Format renders an amount the way a Vietnamese user expects it:
// dot-grouped thousands with the đồng glyph, e.g. "50.000 ₫".
func Format(m core.Money) string {
	return printer.Sprintf("%d ₫", m.Dong)
}
