// Package worker mirrors recorded payments from SQLite into the
// Google Sheet, driven by queue messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"societypay/internal/amqp"
	"societypay/internal/core"
	"societypay/internal/sheets"
)

// RecordGetter loads a payment row for a queue message.
type RecordGetter interface {
	GetPayment(ctx context.Context, id int64) (core.PaymentRecord, error)
}

// SyncWorker handles synchronization of payments to the sheet mirror.
type SyncWorker struct {
	store  RecordGetter
	writer sheets.PaymentWriter
}

func NewSyncWorker(store RecordGetter, writer sheets.PaymentWriter) *SyncWorker {
	return &SyncWorker{
		store:  store,
		writer: writer,
	}
}

// HandleSyncMessage processes a single payment sync message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PaymentSyncMessage) error {
	record, err := w.store.GetPayment(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get payment from storage: %w", err)
	}

	ref, err := w.writer.Append(ctx, record)
	if err != nil {
		return fmt.Errorf("append payment to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Payment mirrored to sheet",
		"id", record.ID,
		"member_name", record.MemberName,
		"sheets_ref", ref)

	return nil
}
