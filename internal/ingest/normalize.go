package ingest

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
)

// dateParser converts one Date cell into a time.
type dateParser func(string) (time.Time, error)

// normalize turns raw rows (header rows included) into a Table.
func normalize(records [][]string, source string, parseDate dateParser) (*Table, error) {
	records = dropBlankRows(records)
	if len(records) == 0 {
		return nil, formatError(source, "no header row", nil)
	}
	records[0] = stripBOM(records[0])

	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}

	headerRows := 1
	var columns []string
	if hasPlaceholder(records[0]) && len(records) > 1 {
		headerRows = 2
		columns = collapseHeaders(records[0], records[1], width)
	} else {
		columns = singleHeader(records[0], width)
	}
	columns = dedupe(columns)

	dateIdx := -1
	for i, col := range columns {
		if col == constants.DateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, formatError(source, fmt.Sprintf("missing %s column", constants.DateColumn), nil)
	}

	products := make([]string, 0, len(columns)-1)
	for i, col := range columns {
		if i != dateIdx {
			products = append(products, col)
		}
	}
	if len(products) == 0 {
		return nil, formatError(source, "no product columns", nil)
	}

	// The single-product export labels its only column "Number Sold"; that
	// column always holds croissant sales.
	if len(products) == 1 && products[0] == constants.GenericProductLabel {
		products[0] = constants.GenericProductName
		for i := range columns {
			if columns[i] == constants.GenericProductLabel {
				columns[i] = constants.GenericProductName
			}
		}
	}

	data := records[headerRows:]
	if len(data) == 0 {
		return nil, formatError(source, "no data rows", nil)
	}

	type row struct {
		date   time.Time
		values []float64
	}
	rows := make([]row, 0, len(data))
	seen := make(map[time.Time]int, len(data))
	for i, record := range data {
		line := headerRows + i + 1
		cell := ""
		if dateIdx < len(record) {
			cell = record[dateIdx]
		}
		date, err := parseDate(cell)
		if err != nil {
			return nil, formatError(source, fmt.Sprintf("row %d has an invalid %s", line, constants.DateColumn), err)
		}
		if first, dup := seen[date]; dup {
			return nil, formatError(source,
				fmt.Sprintf("row %d repeats date %s from row %d", line, datetime.Format(date), first), nil)
		}
		seen[date] = line

		values := make([]float64, 0, len(products))
		for j := range columns {
			if j == dateIdx {
				continue
			}
			v := math.NaN()
			if j < len(record) {
				v = parseQuantity(record[j])
			}
			values = append(values, v)
		}
		rows = append(rows, row{date: date, values: values})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].date.Before(rows[b].date)
	})

	table := &Table{
		Source:   source,
		Columns:  columns,
		Products: products,
		Dates:    make([]time.Time, len(rows)),
		Values:   make(map[string][]float64, len(products)),
	}
	for _, product := range products {
		table.Values[product] = make([]float64, len(rows))
	}
	for i, r := range rows {
		table.Dates[i] = r.date
		for j, product := range products {
			table.Values[product][i] = r.values[j]
		}
	}
	return table, nil
}

// isPlaceholder reports whether a header cell is blank or carries the
// "Unnamed" label spreadsheet tools give to blank header cells.
func isPlaceholder(label string) bool {
	trimmed := strings.TrimSpace(label)
	return trimmed == "" || strings.Contains(trimmed, constants.PlaceholderPrefix)
}

func hasPlaceholder(header []string) bool {
	for _, label := range header {
		if isPlaceholder(label) {
			return true
		}
	}
	return false
}

func placeholderLabel(idx int) string {
	return fmt.Sprintf("%s: %d", constants.PlaceholderPrefix, idx)
}

func cellAt(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func singleHeader(header []string, width int) []string {
	columns := make([]string, width)
	for i := range columns {
		label := cellAt(header, i)
		if label == "" {
			label = placeholderLabel(i)
		}
		columns[i] = label
	}
	return columns
}

// collapseHeaders merges a two-row header, preferring the inner label and
// falling back to the outer group label.
func collapseHeaders(outer, inner []string, width int) []string {
	columns := make([]string, width)
	for i := range columns {
		in := cellAt(inner, i)
		out := cellAt(outer, i)
		switch {
		case !isPlaceholder(in):
			columns[i] = in
		case !isPlaceholder(out):
			columns[i] = out
		default:
			columns[i] = placeholderLabel(i)
		}
	}
	return columns
}

// dedupe suffixes repeated labels with .1, .2, ... in order of appearance.
func dedupe(columns []string) []string {
	counts := make(map[string]int, len(columns))
	for i, col := range columns {
		n := counts[col]
		counts[col] = n + 1
		if n > 0 {
			columns[i] = fmt.Sprintf("%s.%d", col, n)
		}
	}
	return columns
}

func dropBlankRows(records [][]string) [][]string {
	kept := records[:0]
	for _, record := range records {
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				kept = append(kept, record)
				break
			}
		}
	}
	return kept
}

func stripBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}

// parseQuantity reads a product cell; anything that is not a number is
// missing rather than an error.
func parseQuantity(cell string) float64 {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
