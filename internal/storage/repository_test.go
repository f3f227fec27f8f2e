package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"societypay/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"), Options{})
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInsertAndListRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec, err := repo.Insert(ctx, "Kamal", core.Money{Cents: 50000}, 111)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec.ID == 0 {
		t.Error("expected assigned id")
	}
	if rec.PaymentDate.IsZero() {
		t.Error("expected assigned payment date")
	}

	recent, err := repo.ListRecent(ctx, 1)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recent))
	}
	got := recent[0]
	if got.ID != rec.ID || got.MemberName != "Kamal" || got.Amount.Cents != 50000 || got.RecordedBy != 111 {
		t.Errorf("unexpected record: %+v", got)
	}
	if !got.PaymentDate.Equal(rec.PaymentDate) {
		t.Errorf("payment date round-trip: got %v, want %v", got.PaymentDate, rec.PaymentDate)
	}
}

func TestListRecentOrderAndLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return at }
		if _, err := repo.Insert(ctx, "Kamal", core.Money{Cents: int64(100 * (i + 1))}, 1); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	recent, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].PaymentDate.After(recent[i-1].PaymentDate) {
			t.Error("expected newest-first ordering")
		}
	}
	if recent[0].Amount.Cents != 500 {
		t.Errorf("expected newest record first, got %d cents", recent[0].Amount.Cents)
	}
}

func TestSumInRange(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	days := []struct {
		at    time.Time
		cents int64
	}{
		{time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 1000},
		{time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC), 2000},
		{time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 4000}, // outside, end exclusive
		{time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC), 8000},
	}
	for _, d := range days {
		at := d.at
		repo.now = func() time.Time { return at }
		if _, err := repo.Insert(ctx, "Kamal", core.Money{Cents: d.cents}, 1); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	total, err := repo.SumInRange(ctx,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("sum in range: %v", err)
	}
	if total.Total.Cents != 3000 || total.Count != 2 {
		t.Errorf("got total=%d count=%d, want total=3000 count=2", total.Total.Cents, total.Count)
	}

	empty, err := repo.SumInRange(ctx,
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("sum empty range: %v", err)
	}
	if empty.Total.Cents != 0 || empty.Count != 0 {
		t.Errorf("expected zero total for empty range, got %+v", empty)
	}
}

func TestSumForMemberCaseInsensitive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, "Kamal", core.Money{Cents: 1000}, 1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Insert(ctx, "Kamal", core.Money{Cents: 2000}, 2); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Insert(ctx, "Nimal", core.Money{Cents: 4000}, 1); err != nil {
		t.Fatalf("insert: %v", err)
	}

	total, err := repo.SumForMember(ctx, "kAMAL")
	if err != nil {
		t.Fatalf("sum for member: %v", err)
	}
	if total.Total.Cents != 3000 || total.Count != 2 {
		t.Errorf("got total=%d count=%d, want total=3000 count=2", total.Total.Cents, total.Count)
	}

	list, err := repo.ListForMember(ctx, "kamal", 10)
	if err != nil {
		t.Fatalf("list for member: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 records for kamal, got %d", len(list))
	}

	none, err := repo.SumForMember(ctx, "sunil")
	if err != nil {
		t.Fatalf("sum for missing member: %v", err)
	}
	if none.Count != 0 {
		t.Errorf("expected empty result for unknown member, got %+v", none)
	}
}

func TestStats(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, p := range []struct {
		name  string
		cents int64
	}{
		{"Kamal", 1000},
		{"kamal", 3000},
		{"Nimal", 2000},
	} {
		if _, err := repo.Insert(ctx, p.name, core.Money{Cents: p.cents}, 1); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalPayments != 3 {
		t.Errorf("total payments = %d, want 3", stats.TotalPayments)
	}
	if stats.TotalAmount.Cents != 6000 {
		t.Errorf("total amount = %d, want 6000", stats.TotalAmount.Cents)
	}
	if stats.AverageAmount.Cents != 2000 {
		t.Errorf("average = %d, want 2000", stats.AverageAmount.Cents)
	}
	if stats.MaxAmount.Cents != 3000 || stats.MinAmount.Cents != 1000 {
		t.Errorf("max/min = %d/%d, want 3000/1000", stats.MaxAmount.Cents, stats.MinAmount.Cents)
	}
	if stats.UniqueMembers != 2 {
		t.Errorf("unique members = %d, want 2", stats.UniqueMembers)
	}
}

func TestDeleteAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.Insert(ctx, "Kamal", core.Money{Cents: 1000}, 1); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	all, err := repo.AllRecords(ctx)
	if err != nil {
		t.Fatalf("all records: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty table after reset, got %d records", len(all))
	}
}

func TestGetPayment(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec, err := repo.Insert(ctx, "Kamal", core.Money{Cents: 1234}, 99)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetPayment(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if got.MemberName != "Kamal" || got.Amount.Cents != 1234 || got.RecordedBy != 99 {
		t.Errorf("unexpected record: %+v", got)
	}

	if _, err := repo.GetPayment(ctx, rec.ID+1000); err == nil {
		t.Error("expected error for missing payment")
	}
}
