package export

import (
	"fmt"
	"time"

	"cdrbot/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Звонки"

var headers = []string{"Время", "Кто звонил", "Кому", "Статус", "Длительность, сек.", "Запись", "ID"}

// FileName is the attachment name for a day's export.
func FileName(day time.Time) string {
	return fmt.Sprintf("calls_%s.xlsx", day.Format(models.DateLayout))
}

// WriteCalls builds an XLSX workbook with one row per call of the day.
func WriteCalls(day time.Time, calls []models.CallRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	// Заголовок с датой
	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Звонки за %s", day.Format("02.01.2006")))
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	missedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})

	for i, c := range calls {
		row := i + 3
		record := ""
		if c.HasRecording() {
			record = c.Recording().File
		}
		values := []any{c.CallDate.Format("15:04:05"), c.Src, c.Dst, c.Disposition, c.Duration, record, c.ID}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
		if !c.Answered() {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(headers), row)
			_ = f.SetCellStyle(sheetName, first, last, missedStyle)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "E", 20)
	_ = f.SetColWidth(sheetName, "F", "G", 40)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
