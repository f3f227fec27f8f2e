// Package export turns the full payment table into an xlsx workbook
// suitable for sending as a chat document.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"societypay/internal/core"
)

// ErrExportFailed wraps any spreadsheet generation error.
var ErrExportFailed = errors.New("export failed")

const sheetName = "Payments"

var headers = []string{"ID", "Member Name", "Amount (Rs.)", "Recorded By (User ID)", "Payment Date"}

var columnWidths = []float64{8, 20, 15, 22, 22}

// Workbook renders records into xlsx bytes: styled header row, one row
// per record, a TOTAL summary row. An empty record set still produces
// a header-only sheet.
func Workbook(records []core.PaymentRecord) ([]byte, error) {
	data, err := build(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return data, nil
}

// Filename returns a timestamped name for the exported attachment.
func Filename(at time.Time) string {
	return fmt.Sprintf("society_payments_%s.xlsx", at.Format("2006-01-02_15-04-05"))
}

func build(records []core.PaymentRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("bold style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	var totalCents int64
	for i, rec := range records {
		row := i + 2
		totalCents += rec.Amount.Cents

		values := []any{
			rec.ID,
			rec.MemberName,
			fmt.Sprintf("%.2f", float64(rec.Amount.Cents)/100),
			fmt.Sprintf("%d", rec.RecordedBy),
			rec.PaymentDate.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
			if err := f.SetCellStyle(sheetName, cell, cell, cellStyle); err != nil {
				return nil, fmt.Errorf("style cell: %w", err)
			}
		}
	}

	if len(records) > 0 {
		summaryRow := len(records) + 3
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
		totalCell, _ := excelize.CoordinatesToCellName(3, summaryRow)
		if err := f.SetCellValue(sheetName, labelCell, "TOTAL"); err != nil {
			return nil, fmt.Errorf("set summary label: %w", err)
		}
		if err := f.SetCellValue(sheetName, totalCell,
			fmt.Sprintf("%.2f", float64(totalCents)/100)); err != nil {
			return nil, fmt.Errorf("set summary total: %w", err)
		}
		for _, cell := range []string{labelCell, totalCell} {
			if err := f.SetCellStyle(sheetName, cell, cell, boldStyle); err != nil {
				return nil, fmt.Errorf("style summary: %w", err)
			}
		}
	}

	for col, width := range columnWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}
}
