package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses the active sheet of an Excel workbook. Cells are read
// raw so date cells arrive as serial numbers rather than locale-formatted text.
func ReadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, formatError(path, "failed to open workbook", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, formatError(path, "workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, formatError(path, "failed to read sheet "+sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	return normalize(rows, path, func(cell string) (time.Time, error) {
		return parseWorkbookDate(cell, date1904)
	})
}

// parseWorkbookDate accepts an Excel serial date or day-first text.
func parseWorkbookDate(cell string, date1904 bool) (time.Time, error) {
	trimmed := strings.TrimSpace(cell)
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return excelize.ExcelDateToTime(serial, date1904)
	}
	return datetime.ParseDayFirst(trimmed)
}
