// Package report composes record-store queries into the reply text
// behind the admin reporting commands.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"societypay/internal/core"
)

const (
	shortDate    = "2006-01-02"
	fullDateTime = "2006-01-02 15:04"
)

// Store is the query surface the engine needs from the record store.
type Store interface {
	ListRecent(ctx context.Context, limit int) ([]core.PaymentRecord, error)
	SumInRange(ctx context.Context, start, end time.Time) (core.RangeTotal, error)
	SumForMember(ctx context.Context, name string) (core.RangeTotal, error)
	ListForMember(ctx context.Context, name string, limit int) ([]core.PaymentRecord, error)
	Stats(ctx context.Context) (core.PaymentStats, error)
}

// Engine renders reports. The clock is injectable so day and month
// windows are testable.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Today reports the current local day's collection, window
// [startOfToday, startOfTomorrow).
func (e *Engine) Today(ctx context.Context) (string, error) {
	now := e.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	total, err := e.store.SumInRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("today total: %w", err)
	}

	return fmt.Sprintf(
		"📅 *Today's Collection (%s)*\n\n💰 Total Amount: *%s*\n📝 Number of Payments: *%d*",
		start.Format(shortDate), core.FormatMoney(total.Total), total.Count), nil
}

// Month reports the current local month's collection.
func (e *Engine) Month(ctx context.Context) (string, error) {
	now := e.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	total, err := e.store.SumInRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("month total: %w", err)
	}

	return fmt.Sprintf(
		"📆 *%s %d Collection*\n\n💰 Total Amount: *%s*\n📝 Number of Payments: *%d*",
		now.Month().String(), now.Year(), core.FormatMoney(total.Total), total.Count), nil
}

// Member reports one member's totals and last 10 payments. An unknown
// member yields a friendly empty report, not an error.
func (e *Engine) Member(ctx context.Context, name string) (string, error) {
	total, err := e.store.SumForMember(ctx, name)
	if err != nil {
		return "", fmt.Errorf("member total: %w", err)
	}
	if total.Count == 0 {
		return fmt.Sprintf("❌ No payment records found for member: %s", name), nil
	}

	recent, err := e.store.ListForMember(ctx, name, 10)
	if err != nil {
		return "", fmt.Errorf("member history: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 *Payment History: %s*\n\n", core.CanonicalName(name))
	fmt.Fprintf(&b, "💰 Total Paid: *%s*\n", core.FormatMoney(total.Total))
	fmt.Fprintf(&b, "📝 Total Payments: *%d*\n\n", total.Count)
	b.WriteString("*Recent Payments:*\n")
	for _, rec := range recent {
		fmt.Fprintf(&b, "• %s on %s\n", core.FormatMoney(rec.Amount), rec.PaymentDate.Format(shortDate))
	}
	if remaining := total.Count - int64(len(recent)); remaining > 0 {
		fmt.Fprintf(&b, "\n_... and %d more payments_", remaining)
	}
	return b.String(), nil
}

// Table renders the last 20 payments as a fixed-width code block.
func (e *Engine) Table(ctx context.Context) (string, error) {
	payments, err := e.store.ListRecent(ctx, 20)
	if err != nil {
		return "", fmt.Errorf("recent payments: %w", err)
	}
	if len(payments) == 0 {
		return "📭 No payment records found.", nil
	}

	var b strings.Builder
	b.WriteString("📊 *Last 20 Payments*\n\n```\n")
	// amount column fits the widest FormatMoney output, Rs.99,999,999.99
	b.WriteString("ID   | Member     | Amount           | Date\n")
	b.WriteString("-----+------------+------------------+------------\n")
	for _, p := range payments {
		name := p.MemberName
		if len(name) > 10 {
			name = name[:10]
		}
		fmt.Fprintf(&b, "%-4d | %-10s | %-16s | %s\n",
			p.ID, name, core.FormatMoney(p.Amount), p.PaymentDate.Format(shortDate))
	}
	b.WriteString("```")
	return b.String(), nil
}

// Stats renders the all-time aggregate summary.
func (e *Engine) Stats(ctx context.Context) (string, error) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("stats: %w", err)
	}
	if stats.TotalPayments == 0 {
		return "📭 No payment records found.", nil
	}

	return fmt.Sprintf(
		"📈 *Payment Statistics*\n\n"+
			"📝 Total Payments: *%d*\n"+
			"👥 Unique Members: *%d*\n\n"+
			"💰 *Amount Summary:*\n"+
			"• Total: *%s*\n"+
			"• Average: *%s*\n"+
			"• Highest: *%s*\n"+
			"• Lowest: *%s*",
		stats.TotalPayments,
		stats.UniqueMembers,
		core.FormatMoney(stats.TotalAmount),
		core.FormatMoney(stats.AverageAmount),
		core.FormatMoney(stats.MaxAmount),
		core.FormatMoney(stats.MinAmount)), nil
}

// Confirmation renders the reply for a freshly recorded payment.
func Confirmation(rec core.PaymentRecord) string {
	return fmt.Sprintf(
		"✅ Payment recorded successfully\nMember: %s\nAmount: %s\nDate: %s",
		rec.MemberName, core.FormatMoney(rec.Amount), rec.PaymentDate.Format(fullDateTime))
}
