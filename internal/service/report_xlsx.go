package service

import (
	"fmt"
	"io"
	"time"

	"github.com/veNNNx/time-reporting-tool/internal/locale"
	"github.com/xuri/excelize/v2"
)

// WriteMonthlyReportXLSX 将月度报表写成 XLSX：
// 第一个工作表为标签汇总，第二个为设备汇总。
func WriteMonthlyReportXLSX(w io.Writer, year int, month time.Month, tagTotals, machineTotals []NameTotal) error {
	file := excelize.NewFile()
	defer file.Close()

	title := fmt.Sprintf("%s %d", locale.MonthName(month), year)

	tagSheet := file.GetSheetName(0)
	if err := file.SetSheetName(tagSheet, "Roboty"); err != nil {
		return fmt.Errorf("rename tag sheet: %w", err)
	}
	if err := writeTotalsSheet(file, "Roboty", title, "Robota", tagTotals); err != nil {
		return err
	}

	if _, err := file.NewSheet("Maszyny"); err != nil {
		return fmt.Errorf("create machine sheet: %w", err)
	}
	if err := writeTotalsSheet(file, "Maszyny", title, "Maszyna", machineTotals); err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx report: %w", err)
	}

	return nil
}

func writeTotalsSheet(file *excelize.File, sheet, title, nameHeader string, totals []NameTotal) error {
	headers := []string{nameHeader, "Godziny"}

	if err := file.SetCellValue(sheet, "A1", title); err != nil {
		return fmt.Errorf("set sheet title: %w", err)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, total := range totals {
		row := i + 3

		nameCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := file.SetCellValue(sheet, nameCell, total.Name); err != nil {
			return fmt.Errorf("set excel value %s: %w", nameCell, err)
		}

		hoursCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := file.SetCellValue(sheet, hoursCell, total.Hours); err != nil {
			return fmt.Errorf("set excel value %s: %w", hoursCell, err)
		}
	}

	return nil
}
