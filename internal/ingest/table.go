// Package ingest loads sales spreadsheets and normalizes their layout into a
// Table with one Date column and one numeric column per product.
package ingest

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/iwvelando/sales-forecast/pkg/format"
)

// Table holds one loaded sales file. Rows are in ascending date order and
// missing or unparseable quantities are NaN.
type Table struct {
	Source   string
	Columns  []string // every label in source order, Date included
	Products []string // every label except Date, in source order
	Dates    []time.Time
	Values   map[string][]float64
}

// Series is the date-indexed history of a single product with missing
// values removed.
type Series struct {
	Product string
	Dates   []time.Time
	Values  []float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Dates)
}

// HasProduct reports whether name is one of the product columns.
func (t *Table) HasProduct(name string) bool {
	_, ok := t.Values[name]
	return ok
}

// Series extracts the history of one product, dropping missing cells.
func (t *Table) Series(product string) (Series, error) {
	column, ok := t.Values[product]
	if !ok {
		return Series{}, fmt.Errorf("unknown product %q", product)
	}

	series := Series{Product: product}
	for i, v := range column {
		if math.IsNaN(v) {
			continue
		}
		series.Dates = append(series.Dates, t.Dates[i])
		series.Values = append(series.Values, v)
	}
	return series, nil
}

// Rows renders the table as strings in column order, as shown in a grid.
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, t.Len())
	for i := range t.Dates {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			if col == constants.DateColumn {
				row[j] = datetime.Format(t.Dates[i])
				continue
			}
			row[j] = format.Plain(t.Values[col][i])
		}
		rows = append(rows, row)
	}
	return rows
}

// LastDate returns the most recent observation date.
func (t *Table) LastDate() time.Time {
	if len(t.Dates) == 0 {
		return time.Time{}
	}
	return t.Dates[len(t.Dates)-1]
}

// Len returns the number of observations in the series.
func (s Series) Len() int {
	return len(s.Values)
}

// LastDate returns the most recent observation date of the series.
func (s Series) LastDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}
