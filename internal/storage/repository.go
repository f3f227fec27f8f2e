// Package storage persists payment records in SQLite and exposes the
// validated query surface the dispatcher and reports are built on.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"societypay/internal/core"

	_ "modernc.org/sqlite"
)

// ErrUnavailable is returned when the backing database cannot be
// reached or a call exceeds its timeout. Callers surface it as a
// "try again" reply rather than a detailed error.
var ErrUnavailable = errors.New("payment store unavailable")

// timeLayout is the stored payment_date format. UTC and fixed-width so
// string comparison matches chronological order.
const timeLayout = "2006-01-02 15:04:05"

const (
	insertPayment = `INSERT INTO payments (member_name, amount_cents, recorded_by, payment_date)
VALUES (?, ?, ?, ?)`

	selectRecent = `SELECT id, member_name, amount_cents, recorded_by, payment_date
FROM payments
ORDER BY payment_date DESC, id DESC
LIMIT ?`

	selectInRange = `SELECT COALESCE(SUM(amount_cents), 0), COUNT(*)
FROM payments
WHERE payment_date >= ? AND payment_date < ?`

	selectMemberTotal = `SELECT COALESCE(SUM(amount_cents), 0), COUNT(*)
FROM payments
WHERE LOWER(member_name) = LOWER(?)`

	selectMemberRecent = `SELECT id, member_name, amount_cents, recorded_by, payment_date
FROM payments
WHERE LOWER(member_name) = LOWER(?)
ORDER BY payment_date DESC, id DESC
LIMIT ?`

	selectAll = `SELECT id, member_name, amount_cents, recorded_by, payment_date
FROM payments
ORDER BY payment_date DESC, id DESC`

	selectByID = `SELECT id, member_name, amount_cents, recorded_by, payment_date
FROM payments
WHERE id = ?`

	selectStats = `SELECT COUNT(*),
       COALESCE(SUM(amount_cents), 0),
       COALESCE(AVG(amount_cents), 0),
       COALESCE(MAX(amount_cents), 0),
       COALESCE(MIN(amount_cents), 0),
       COUNT(DISTINCT LOWER(member_name))
FROM payments`

	deleteAll = `DELETE FROM payments`
)

// Repository is the SQLite-backed record store.
type Repository struct {
	db      *sql.DB
	timeout time.Duration
	now     func() time.Time
}

// Options bound the connection pool and per-call timeout.
type Options struct {
	Timeout  time.Duration
	MaxConns int
}

func NewRepository(dbPath string, opts Options) (*Repository, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxConns <= 0 {
		opts.MaxConns = 5
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxConns)
	db.SetConnMaxIdleTime(time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{
		db:      db,
		timeout: opts.Timeout,
		now:     time.Now,
	}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert persists a new payment row. The id and timestamp are assigned
// here, never by the caller.
func (r *Repository) Insert(ctx context.Context, memberName string, amount core.Money, recordedBy int64) (core.PaymentRecord, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	recordedAt := r.now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, insertPayment,
		memberName, amount.Cents, recordedBy, recordedAt.Format(timeLayout))
	if err != nil {
		return core.PaymentRecord{}, r.storeErr("insert payment", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.PaymentRecord{}, r.storeErr("insert payment id", err)
	}

	record := core.PaymentRecord{
		ID:          id,
		MemberName:  memberName,
		Amount:      amount,
		RecordedBy:  recordedBy,
		PaymentDate: recordedAt,
	}

	slog.InfoContext(ctx, "Payment saved",
		"id", record.ID,
		"member_name", record.MemberName,
		"amount_cents", record.Amount.Cents,
		"recorded_by", record.RecordedBy)

	return record, nil
}

// ListRecent returns the newest payments, bounded by limit (default 20).
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]core.PaymentRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, r.storeErr("list recent", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SumInRange sums payments with start inclusive and end exclusive.
func (r *Repository) SumInRange(ctx context.Context, start, end time.Time) (core.RangeTotal, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	var total core.RangeTotal
	err := r.db.QueryRowContext(ctx, selectInRange,
		start.UTC().Format(timeLayout), end.UTC().Format(timeLayout)).
		Scan(&total.Total.Cents, &total.Count)
	if err != nil {
		return core.RangeTotal{}, r.storeErr("sum in range", err)
	}
	return total, nil
}

// SumForMember totals payments for one member, case-insensitively.
func (r *Repository) SumForMember(ctx context.Context, name string) (core.RangeTotal, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	var total core.RangeTotal
	err := r.db.QueryRowContext(ctx, selectMemberTotal, name).
		Scan(&total.Total.Cents, &total.Count)
	if err != nil {
		return core.RangeTotal{}, r.storeErr("sum for member", err)
	}
	return total, nil
}

// ListForMember returns a member's newest payments, case-insensitively.
func (r *Repository) ListForMember(ctx context.Context, name string, limit int) ([]core.PaymentRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectMemberRecent, name, limit)
	if err != nil {
		return nil, r.storeErr("list for member", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllRecords returns every payment, newest first, for export.
func (r *Repository) AllRecords(ctx context.Context) ([]core.PaymentRecord, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectAll)
	if err != nil {
		return nil, r.storeErr("all records", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetPayment loads a single record by id for the sync worker.
func (r *Repository) GetPayment(ctx context.Context, id int64) (core.PaymentRecord, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	record, err := scanRecord(r.db.QueryRowContext(ctx, selectByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.PaymentRecord{}, fmt.Errorf("payment %d: %w", id, err)
		}
		return core.PaymentRecord{}, r.storeErr("get payment", err)
	}
	return record, nil
}

// Stats computes the all-time aggregate summary.
func (r *Repository) Stats(ctx context.Context) (core.PaymentStats, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	var stats core.PaymentStats
	var avg float64
	err := r.db.QueryRowContext(ctx, selectStats).Scan(
		&stats.TotalPayments,
		&stats.TotalAmount.Cents,
		&avg,
		&stats.MaxAmount.Cents,
		&stats.MinAmount.Cents,
		&stats.UniqueMembers,
	)
	if err != nil {
		return core.PaymentStats{}, r.storeErr("stats", err)
	}
	stats.AverageAmount.Cents = int64(avg + 0.5)
	return stats, nil
}

// DeleteAll clears the table and returns the number of rows removed.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.callContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, deleteAll)
	if err != nil {
		return 0, r.storeErr("delete all", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, r.storeErr("delete all count", err)
	}

	slog.WarnContext(ctx, "All payment records deleted", "count", deleted)
	return deleted, nil
}

func (r *Repository) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// storeErr maps low-level failures onto ErrUnavailable while keeping
// the cause in the chain for server-side logs.
func (r *Repository) storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.PaymentRecord, error) {
	var rec core.PaymentRecord
	var stamp string
	if err := row.Scan(&rec.ID, &rec.MemberName, &rec.Amount.Cents, &rec.RecordedBy, &stamp); err != nil {
		return core.PaymentRecord{}, err
	}
	t, err := time.ParseInLocation(timeLayout, stamp, time.UTC)
	if err != nil {
		return core.PaymentRecord{}, fmt.Errorf("parse payment_date %q: %w", stamp, err)
	}
	rec.PaymentDate = t
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]core.PaymentRecord, error) {
	var records []core.PaymentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
