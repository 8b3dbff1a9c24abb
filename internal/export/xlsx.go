package export

import (
	"fmt"
	"os"
	"path/filepath"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// WriteXLSX writes the booking report for period into dir and returns the
// path of the created file.
func WriteXLSX(dir string, period Period, bookings []*models.BookingView) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	lastCol, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return "", err
	}

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		period.From.Format("2006-01-02"), period.To.AddDate(0, 0, -1).Format("2006-01-02")))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	if err := f.SetSheetRow(sheetName, "A2", &Headers); err != nil {
		return "", fmt.Errorf("write headers: %w", err)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheetName, "A2", lastCol+"2", headerStyle)

	for i, row := range Rows(bookings) {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return "", err
		}
		row := row
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "D", 10)
	_ = f.SetColWidth(sheetName, "E", "E", 20)
	_ = f.SetColWidth(sheetName, "F", lastCol, 18)

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		period.From.Format("2006-01-02"), period.To.AddDate(0, 0, -1).Format("2006-01-02"))
	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return path, nil
}
