package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"expensetracker/models"

	"github.com/xuri/excelize/v2"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeaders = []string{"ID", "金额", "类别", "时间"}

// safeCell 以公式字符开头的文本前加单引号，防止表格软件将其当作公式执行
func safeCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}

// WriteCSV 导出消费记录为 CSV，带 BOM 以便 Excel 正确识别 UTF-8
func WriteCSV(w io.Writer, expenses []models.Expense) error {
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, e := range expenses {
		row := []string{
			fmt.Sprintf("%d", e.ID),
			fmt.Sprintf("%.2f", e.Amount),
			safeCell(e.Category.Name),
			e.Timestamp.Format(exportTimeLayout),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteExcel 导出消费记录为 xlsx
func WriteExcel(w io.Writer, expenses []models.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "消费记录"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "B", 15)
	_ = f.SetColWidth(sheetName, "C", "C", 20)
	_ = f.SetColWidth(sheetName, "D", "D", 22)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, e := range expenses {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Amount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), safeCell(e.Category.Name))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Timestamp.Format(exportTimeLayout))
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), dataStyle)
	}

	_, err = f.WriteTo(w)
	return err
}
