// Package bot classifies inbound chat messages and routes them to the
// record store, report engine, and export formatter.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"societypay/internal/core"
	"societypay/internal/export"
	applog "societypay/internal/log"
	"societypay/internal/report"
	"societypay/internal/storage"
)

const (
	welcomeMessage = "🏛️ *Welcome to Society Payment Tracker Bot*\n\n" +
		"This bot helps track member payments for the society.\n\n" +
		"*How to record a payment:*\n" +
		"Simply send a message in the format:\n" +
		"`name-amount`\n\n" +
		"*Examples:*\n" +
		"• kamal-500\n" +
		"• nimal-1000\n\n" +
		"Type /help for more commands."

	helpMessage = "📚 *Society Payment Tracker - Help*\n\n" +
		"*Recording Payments:*\n" +
		"Send a message in format: `name-amount`\n" +
		"Example: `kamal-500`\n\n" +
		"*Rules:*\n" +
		"• Name must contain only letters and spaces\n" +
		"• Amount must be a positive number\n"

	adminHelpMessage = "\n*Admin Commands:*\n" +
		"/table - Show last 20 payments\n" +
		"/today - Show today's total collection\n" +
		"/month - Show current month's total\n" +
		"/member <name> - Show member's payment history\n" +
		"/export - Export all data to Excel\n" +
		"/stats - Show payment statistics\n" +
		"/reset - Clear all records (confirmation required)\n"

	deniedMessage     = "🔒 This command is only available to administrators."
	formatHintMessage = "❌ Invalid format. Use: name-amount (example: kamal-500)"
	tryAgainMessage   = "❌ Failed to record payment. Please try again."
)

// Store is the record-store surface the dispatcher itself drives; the
// read-side reporting queries live behind the report engine.
type Store interface {
	Insert(ctx context.Context, memberName string, amount core.Money, recordedBy int64) (core.PaymentRecord, error)
	AllRecords(ctx context.Context) ([]core.PaymentRecord, error)
	DeleteAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (core.PaymentStats, error)
}

// SyncPublisher queues a recorded payment for the sheet mirror.
type SyncPublisher interface {
	PublishPaymentSync(ctx context.Context, id int64) error
}

// Admins is an immutable sender allow-list.
type Admins interface {
	IsAdmin(userID int64) bool
}

// Dispatcher owns the per-message routing and the one piece of shared
// mutable state: pending reset confirmations.
type Dispatcher struct {
	store     Store
	reports   *report.Engine
	transport Transport
	admins    Admins
	publisher SyncPublisher // nil when the sheet mirror is disabled
	logger    *applog.Logger

	resetTimeout time.Duration
	now          func() time.Time

	mu            sync.Mutex
	pendingResets map[int64]time.Time
}

func NewDispatcher(store Store, reports *report.Engine, transport Transport, admins Admins, publisher SyncPublisher, logger *applog.Logger, resetTimeout time.Duration) *Dispatcher {
	if resetTimeout <= 0 {
		resetTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentDispatch)
	}
	return &Dispatcher{
		store:         store,
		reports:       reports,
		transport:     transport,
		admins:        admins,
		publisher:     publisher,
		logger:        logger,
		resetTimeout:  resetTimeout,
		now:           time.Now,
		pendingResets: make(map[int64]time.Time),
	}
}

// HandleMessage processes one inbound message. It never panics out to
// the poll loop; a failure handling one message must not prevent
// handling of the next.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "Panic while handling message",
				applog.FieldSenderID, msg.SenderID,
				applog.FieldError, fmt.Sprint(r))
		}
	}()

	cmd := Parse(msg.Text)
	if cmd.Kind == KindNone {
		return
	}

	if cmd.adminOnly() && !d.admins.IsAdmin(msg.SenderID) {
		d.reply(ctx, msg.ChatID, deniedMessage)
		return
	}

	switch cmd.Kind {
	case KindStart:
		d.reply(ctx, msg.ChatID, welcomeMessage)
	case KindHelp:
		help := helpMessage
		if d.admins.IsAdmin(msg.SenderID) {
			help += adminHelpMessage
		}
		d.reply(ctx, msg.ChatID, help)
	case KindTable:
		d.replyReport(ctx, msg.ChatID, d.reports.Table, "❌ Error fetching payment records.")
	case KindToday:
		d.replyReport(ctx, msg.ChatID, d.reports.Today, "❌ Error fetching today's total.")
	case KindMonth:
		d.replyReport(ctx, msg.ChatID, d.reports.Month, "❌ Error fetching monthly total.")
	case KindMember:
		d.handleMember(ctx, msg, cmd.Member)
	case KindExport:
		d.handleExport(ctx, msg)
	case KindStats:
		d.replyReport(ctx, msg.ChatID, d.reports.Stats, "❌ Error fetching statistics.")
	case KindResetRequest:
		d.handleResetRequest(ctx, msg)
	case KindResetConfirm:
		d.handleResetConfirm(ctx, msg)
	case KindPayment:
		d.handlePayment(ctx, msg, cmd.Payment)
	case KindInvalidPayment:
		d.handleInvalidPayment(ctx, msg, cmd.Err)
	}
}

func (d *Dispatcher) handlePayment(ctx context.Context, msg Message, sub core.Submission) {
	rec, err := d.store.Insert(ctx, sub.MemberName, sub.Amount, msg.SenderID)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to record payment",
			applog.FieldSenderID, msg.SenderID,
			applog.FieldMemberName, sub.MemberName,
			applog.FieldError, err)
		d.reply(ctx, msg.ChatID, tryAgainMessage)
		return
	}

	d.logger.InfoContext(ctx, "Payment recorded",
		applog.FieldPaymentID, rec.ID,
		applog.FieldMemberName, rec.MemberName,
		applog.FieldAmount, rec.Amount.Cents,
		applog.FieldSenderID, msg.SenderID)

	d.reply(ctx, msg.ChatID, report.Confirmation(rec))

	// Best effort: a publish failure never fails the recorded payment.
	if d.publisher != nil {
		if err := d.publisher.PublishPaymentSync(ctx, rec.ID); err != nil {
			d.logger.ErrorContext(ctx, "Failed to publish sync message",
				applog.FieldPaymentID, rec.ID,
				applog.FieldError, err)
		}
	}
}

func (d *Dispatcher) handleInvalidPayment(ctx context.Context, msg Message, cause error) {
	var hint string
	switch {
	case errors.Is(cause, core.ErrInvalidName):
		hint = "❌ Invalid name. Use letters and spaces only (example: kamal-500)"
	case errors.Is(cause, core.ErrInvalidAmount):
		hint = "❌ Invalid amount. Use a positive number (example: kamal-500)"
	default:
		hint = formatHintMessage
	}
	d.reply(ctx, msg.ChatID, hint)
}

func (d *Dispatcher) handleMember(ctx context.Context, msg Message, name string) {
	if name == "" {
		d.reply(ctx, msg.ChatID, "❌ Please provide a member name.\nUsage: /member <name>")
		return
	}
	text, err := d.reports.Member(ctx, name)
	if err != nil {
		d.logger.ErrorContext(ctx, "Member report failed",
			applog.FieldMemberName, name,
			applog.FieldError, err)
		d.reply(ctx, msg.ChatID, "❌ Error fetching member records.")
		return
	}
	d.reply(ctx, msg.ChatID, text)
}

func (d *Dispatcher) handleExport(ctx context.Context, msg Message) {
	d.reply(ctx, msg.ChatID, "📤 Generating Excel export...")

	records, err := d.store.AllRecords(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "Export query failed", applog.FieldError, err)
		d.reply(ctx, msg.ChatID, "❌ Error generating export file.")
		return
	}
	if len(records) == 0 {
		d.reply(ctx, msg.ChatID, "📭 No records to export.")
		return
	}

	data, err := export.Workbook(records)
	if err != nil {
		d.logger.ErrorContext(ctx, "Workbook generation failed", applog.FieldError, err)
		d.reply(ctx, msg.ChatID, "❌ Error generating export file.")
		return
	}

	var totalCents int64
	for _, rec := range records {
		totalCents += rec.Amount.Cents
	}
	caption := fmt.Sprintf("📊 Society Payments Export\n📝 Total Records: %d\n💰 Total Amount: %s",
		len(records), core.FormatMoney(core.Money{Cents: totalCents}))

	filename := export.Filename(d.now())
	if err := d.transport.SendDocument(ctx, msg.ChatID, filename, data, caption); err != nil {
		d.logger.ErrorContext(ctx, "Failed to send export document", applog.FieldError, err)
		d.reply(ctx, msg.ChatID, "❌ Error generating export file.")
		return
	}

	d.logger.InfoContext(ctx, "Export completed", applog.FieldCount, len(records))
}

func (d *Dispatcher) handleResetRequest(ctx context.Context, msg Message) {
	stats, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "Reset stats query failed", applog.FieldError, err)
		d.reply(ctx, msg.ChatID, "❌ Error processing reset request.")
		return
	}
	if stats.TotalPayments == 0 {
		d.reply(ctx, msg.ChatID, "📭 No records to delete.")
		return
	}

	d.mu.Lock()
	d.pendingResets[msg.SenderID] = d.now()
	d.mu.Unlock()

	d.logger.WarnContext(ctx, "Reset requested", applog.FieldSenderID, msg.SenderID)

	d.reply(ctx, msg.ChatID, fmt.Sprintf(
		"⚠️ *WARNING: Reset Confirmation Required*\n\n"+
			"You are about to delete ALL payment records:\n"+
			"• Total Records: *%d*\n"+
			"• Total Amount: *%s*\n"+
			"• Unique Members: *%d*\n\n"+
			"This action *CANNOT BE UNDONE*.\n\n"+
			"To confirm, type: /confirm_reset\n"+
			"This confirmation will expire in %.0f seconds.",
		stats.TotalPayments,
		core.FormatMoney(stats.TotalAmount),
		stats.UniqueMembers,
		d.resetTimeout.Seconds()))
}

func (d *Dispatcher) handleResetConfirm(ctx context.Context, msg Message) {
	if !d.takePendingReset(msg.SenderID) {
		d.reply(ctx, msg.ChatID,
			"❌ No valid reset request found or it has expired.\nPlease use /reset first.")
		return
	}

	deleted, err := d.store.DeleteAll(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "Reset failed", applog.FieldError, err)
		d.reply(ctx, msg.ChatID, "❌ Error executing reset.")
		return
	}

	d.logger.WarnContext(ctx, "Reset executed",
		applog.FieldSenderID, msg.SenderID,
		applog.FieldCount, deleted)

	d.reply(ctx, msg.ChatID, fmt.Sprintf(
		"🗑️ *Reset Complete*\n\nSuccessfully deleted *%d* payment records.\nThe database is now empty.",
		deleted))
}

// takePendingReset atomically consumes a pending confirmation so two
// concurrent /confirm_reset messages cannot both trigger the delete.
func (d *Dispatcher) takePendingReset(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	requested, ok := d.pendingResets[userID]
	if !ok {
		return false
	}
	delete(d.pendingResets, userID)
	return d.now().Sub(requested) < d.resetTimeout
}

func (d *Dispatcher) replyReport(ctx context.Context, chatID int64, render func(context.Context) (string, error), failure string) {
	text, err := render(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			d.logger.ErrorContext(ctx, "Store unavailable", applog.FieldError, err)
		} else {
			d.logger.ErrorContext(ctx, "Report failed", applog.FieldError, err)
		}
		d.reply(ctx, chatID, failure)
		return
	}
	d.reply(ctx, chatID, text)
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	if err := d.transport.SendMessage(ctx, chatID, text); err != nil {
		d.logger.ErrorContext(ctx, "Failed to send reply",
			applog.FieldChatID, chatID,
			applog.FieldError, err)
	}
}
