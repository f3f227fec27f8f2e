package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"societypay/internal/core"
)

func TestWorkbook(t *testing.T) {
	records := []core.PaymentRecord{
		{ID: 2, MemberName: "Nimal", Amount: core.Money{Cents: 100000}, RecordedBy: 222,
			PaymentDate: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
		{ID: 1, MemberName: "Kamal", Amount: core.Money{Cents: 50000}, RecordedBy: 111,
			PaymentDate: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
	}

	data, err := Workbook(records)
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}

	// header + 2 data rows + blank + summary
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][1] != "Member Name" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][1] != "Nimal" || rows[1][2] != "1000.00" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
	if rows[2][3] != "111" {
		t.Errorf("unexpected recorded-by cell: %v", rows[2])
	}
	if rows[4][0] != "TOTAL" || rows[4][2] != "1500.00" {
		t.Errorf("unexpected summary row: %v", rows[4])
	}
}

func TestWorkbookEmpty(t *testing.T) {
	data, err := Workbook(nil)
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header-only sheet, got %d rows", len(rows))
	}
	if rows[0][4] != "Payment Date" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 3, 15, 14, 30, 45, 0, time.UTC)
	got := Filename(at)
	want := "society_payments_2026-03-15_14-30-45.xlsx"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}
