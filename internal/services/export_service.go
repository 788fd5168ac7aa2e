package services

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/models"
)

const exportSheet = "Giao dịch"

var exportHeaders = []string{"Ngày", "Loại", "Danh mục", "Mô tả", "Ghi chú", "Số tiền"}

// exportService renders transactions into spreadsheets.
type exportService struct {
	transactions TransactionServicer
	loc          *time.Location
}

// NewExportService creates a new ExportServicer. Dates are written in loc.
func NewExportService(transactions TransactionServicer, loc *time.Location) ExportServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{transactions: transactions, loc: loc}
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// WriteTransactionsXLSX writes one sheet with the transactions between start
// and end, followed by income, expense and balance totals.
func (s *exportService) WriteTransactionsXLSX(w io.Writer, userID string, start, end time.Time) error {
	txs, err := s.transactions.ListByDateRange(userID, start, end)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	numFmt := "#,##0"
	dataStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder(), CustomNumFmt: &numFmt})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"FDE68A"}, Pattern: 1},
		Border:       thinBorder(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	widths := map[string]float64{"A": 18, "B": 10, "C": 14, "D": 30, "E": 24, "F": 16}
	for col, width := range widths {
		_ = f.SetColWidth(exportSheet, col, col, width)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, header)
	}
	_ = f.SetCellStyle(exportSheet, "A1", "F1", headerStyle)

	var income, expense int64
	row := 2
	for _, t := range txs {
		typeLabel := "Chi"
		if t.Type == models.TransactionTypeIncome {
			typeLabel = "Thu"
			income += t.Amount
		} else {
			expense += t.Amount
		}
		values := []interface{}{
			t.Date.In(s.loc).Format("2006-01-02 15:04"),
			typeLabel,
			t.Category.Info().Name,
			t.Description,
			t.NoteText(),
			t.Amount,
		}
		if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_ = f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
		_ = f.SetCellStyle(exportSheet, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), amountStyle)
		row++
	}

	totals := []struct {
		label  string
		amount int64
	}{
		{"Tổng thu", income},
		{"Tổng chi", expense},
		{"Số dư", income - expense},
	}
	for _, tot := range totals {
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), tot.label)
		_ = f.MergeCell(exportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row))
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), tot.amount)
		_ = f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), totalStyle)
		row++
	}

	if err := f.Write(w); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
