package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"chitieu/internal/cache"
	"chitieu/internal/core"
	"chitieu/internal/ledger"
	"chitieu/internal/log"
	"chitieu/internal/vnd"
)

// Messenger delivers the outbound reply. Fire-and-forget from the
// processor's point of view: a failed send is logged, never retried, and
// never changes what was written to the ledger.
type Messenger interface {
	SendReply(ctx context.Context, text string) error
}

// Fixed Vietnamese replies.
const (
	replyInvalid      = "⚠️ Lệnh không hợp lệ! Vui lòng nhập đúng định dạng."
	replyInvalidMonth = "⚠️ Tháng không hợp lệ! Vui lòng nhập tháng từ 1 - 12."
	replyInvalidYear  = "⚠️ Năm không hợp lệ!"
	replyStoreFailed  = "⚠️ Không thể xử lý yêu cầu lúc này. Vui lòng thử lại sau."
)

// Processor is the message entry point: one inbound text becomes at most one
// ledger append and exactly one reply.
type Processor struct {
	store ledger.RowStore
	msgr  Messenger
	now   func() time.Time

	totals *cache.LRUCache[core.MonthlyTotals]
}

func NewProcessor(store ledger.RowStore, msgr Messenger) *Processor {
	return &Processor{
		store: store,
		msgr:  msgr,
		now:   time.Now,
		// A year of report months is far below the cap; the TTL bounds
		// staleness if the sheet is edited by hand.
		totals: cache.NewLRUCache[core.MonthlyTotals](48, 5*time.Minute),
	}
}

// TotalsCache exposes the report cache for cleanup registration.
func (p *Processor) TotalsCache() *cache.LRUCache[core.MonthlyTotals] {
	return p.totals
}

// ProcessMessage interprets text and sends the resulting reply. All failure
// paths still produce a reply; only the send itself can fail silently.
func (p *Processor) ProcessMessage(ctx context.Context, text string) {
	reply := p.handle(ctx, text)
	if err := p.msgr.SendReply(ctx, reply); err != nil {
		slog.ErrorContext(ctx, "Reply send failed", "error", err)
	}
}

func (p *Processor) handle(ctx context.Context, text string) string {
	cmd := Interpret(text)
	switch cmd.Kind {
	case CmdReport:
		return p.handleReport(ctx, cmd)
	case CmdEntry:
		return p.handleEntry(ctx, cmd)
	default:
		slog.InfoContext(ctx, "Unrecognized command", "text", text)
		return replyInvalid
	}
}

func (p *Processor) handleEntry(ctx context.Context, cmd Command) string {
	now := p.now()
	row := core.NewRow(now, cmd.Label, cmd.EntryKind, cmd.Amount())

	ref, err := p.store.AppendRow(ctx, row)
	if err != nil {
		slog.ErrorContext(ctx, "Row append failed", "error", err,
			log.FieldComponent, log.ComponentBot,
			log.FieldLabel, cmd.Label,
			log.FieldAmountDong, cmd.Amount().Dong)
		return replyStoreFailed
	}

	// The new row lands in the capture month; stale totals for it must go.
	p.totals.Delete(totalsKey(int(now.Month()), now.Year()))

	slog.InfoContext(ctx, "Row appended", "ref", ref,
		log.FieldComponent, log.ComponentBot,
		log.FieldEntryKind, string(cmd.EntryKind),
		log.FieldLabel, cmd.Label,
		log.FieldAmountDong, cmd.Amount().Dong)

	// Echo the typed digits and unit verbatim, not the multiplied value.
	return fmt.Sprintf("✅ Done! %s %s%s", cmd.Label, cmd.AmountText, cmd.Unit)
}

func (p *Processor) handleReport(ctx context.Context, cmd Command) string {
	if err := cmd.Validate(); err != nil {
		slog.InfoContext(ctx, "Report range rejected", "month", cmd.Month, "year", cmd.Year, "error", err)
		switch {
		case errors.Is(err, core.ErrInvalidMonth):
			return replyInvalidMonth
		case errors.Is(err, core.ErrInvalidYear):
			return replyInvalidYear
		default:
			return replyInvalid
		}
	}

	key := totalsKey(cmd.Month, cmd.Year)
	tot, found := p.totals.Get(key)
	if !found {
		var err error
		tot, err = ledger.TotalsFor(ctx, p.store, cmd.Month, cmd.Year)
		if err != nil {
			slog.ErrorContext(ctx, "Aggregation failed", "error", err, "month", cmd.Month, "year", cmd.Year)
			return replyStoreFailed
		}
		p.totals.Set(key, tot)
	}

	// The header echoes the month and year as the user typed them.
	return fmt.Sprintf("📊 Report tháng %s/%s\n💰 Thu nhập: %s\n💸 Chi tiêu: %s\n💵 Còn lại: %s",
		cmd.MonthText, cmd.YearText,
		vnd.Format(tot.Income),
		vnd.Format(tot.Expense),
		vnd.Format(tot.Balance()))
}

func totalsKey(month, year int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}
