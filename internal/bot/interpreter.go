// Package bot interprets inbound ledger messages and drives the row store
// and messenger to produce exactly one reply per message.
package bot

import (
	"regexp"
	"strconv"
	"strings"

	"chitieu/internal/core"
)

// CommandKind tags the interpreted variant of an inbound message.
type CommandKind int

const (
	CmdInvalid CommandKind = iota
	CmdReport
	CmdEntry
)

// Command is the result of classifying one message. Report commands carry
// the parsed Month/Year plus the matched text; entry commands carry the
// entry kind, label, and the digits and trailing unit exactly as typed.
// Replies echo the matched text, so leading zeros survive.
type Command struct {
	Kind CommandKind

	Month     int
	Year      int
	MonthText string
	YearText  string

	EntryKind  core.Kind
	Label      string
	AmountText string
	Unit       string
}

// Amount is the normalized base-currency amount of an entry command.
func (c Command) Amount() core.Money {
	digits, _ := strconv.ParseInt(c.AmountText, 10, 64)
	return core.EntryAmount(digits, c.Unit)
}

// Validate checks the bounds of a report command. Entry commands carry no
// range constraints.
func (c Command) Validate() error {
	if c.Kind == CmdReport {
		return core.ValidateReportRange(c.Month, c.Year)
	}
	return nil
}

// The classification patterns, in priority order. Order matters: the entry
// patterns are permissive supersets of the report pattern, so the report
// pattern must win ties.
var (
	reportPattern  = regexp.MustCompile(`(?i)^Report tháng (\d+) năm (\d+)$`)
	incomePattern  = regexp.MustCompile(`^(.*) \+(\d+)(.*)$`)
	expensePattern = regexp.MustCompile(`^(.*) (\d+)(.*)$`)
)

type matcher struct {
	pattern *regexp.Regexp
	build   func(groups []string) Command
}

var matchers = []matcher{
	{reportPattern, buildReport},
	{incomePattern, buildEntry(core.Income)},
	{expensePattern, buildEntry(core.Expense)},
}

// Interpret classifies a message by the first matching pattern. Unmatched
// text is CmdInvalid.
func Interpret(text string) Command {
	for _, m := range matchers {
		if groups := m.pattern.FindStringSubmatch(text); groups != nil {
			return m.build(groups)
		}
	}
	return Command{Kind: CmdInvalid}
}

func buildReport(groups []string) Command {
	// \d+ guarantees digits; a value too large for int simply fails the
	// range validation later.
	month, _ := strconv.Atoi(groups[1])
	year, _ := strconv.Atoi(groups[2])
	return Command{
		Kind:      CmdReport,
		Month:     month,
		Year:      year,
		MonthText: groups[1],
		YearText:  groups[2],
	}
}

func buildEntry(kind core.Kind) func(groups []string) Command {
	return func(groups []string) Command {
		return Command{
			Kind:       CmdEntry,
			EntryKind:  kind,
			Label:      strings.TrimSpace(groups[1]),
			AmountText: groups[2],
			Unit:       groups[3],
		}
	}
}
