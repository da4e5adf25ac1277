package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Column names every record table carries
const (
	ColumnKey        = "key"
	ColumnPrompt     = "prompt"
	ColumnResult     = "result"
	ColumnEvaluation = "evaluation"
)

// RequiredColumns must be present in a loaded file
var RequiredColumns = []string{ColumnKey, ColumnPrompt, ColumnResult}

// Row maps column name to cell value
type Row map[string]string

// Table is an ordered set of rows sharing one header
type Table struct {
	header []string
	rows   []Row
}

// New creates a table with the given header and rows. Cells missing from a row
// read as empty strings.
func New(header []string, rows []Row) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{header: h, rows: rows}
}

// Header returns a copy of the column names in file order
func (t *Table) Header() []string {
	h := make([]string, len(t.header))
	copy(h, t.header)
	return h
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.header {
		if col == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names from want that the header lacks
func (t *Table) MissingColumns(want ...string) []string {
	var missing []string
	for _, col := range want {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// EnsureColumn appends name to the header with empty cells if it is absent.
// It returns true when the column was added.
func (t *Table) EnsureColumn(name string) bool {
	if t.HasColumn(name) {
		return false
	}
	t.header = append(t.header, name)
	for _, row := range t.rows {
		row[name] = ""
	}
	return true
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Get returns the cell at row i, column name
func (t *Table) Get(i int, name string) string {
	return t.rows[i][name]
}

// Set writes the cell at row i, column name
func (t *Table) Set(i int, name, value string) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("row index %d out of range [0,%d)", i, len(t.rows))
	}
	if !t.HasColumn(name) {
		return fmt.Errorf("unknown column %q", name)
	}
	t.rows[i][name] = value
	return nil
}

// IsLabeled reports whether row i carries an evaluation
func (t *Table) IsLabeled(i int) bool {
	return t.rows[i][ColumnEvaluation] != ""
}

// Completed counts rows with a non-empty evaluation
func (t *Table) Completed() int {
	n := 0
	for i := range t.rows {
		if t.IsLabeled(i) {
			n++
		}
	}
	return n
}

// Records returns the table as CSV records, header first
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.rows)+1)
	records = append(records, t.Header())
	for _, row := range t.rows {
		record := make([]string, len(t.header))
		for j, col := range t.header {
			record[j] = row[col]
		}
		records = append(records, record)
	}
	return records
}

// SortByKey orders rows ascending by the key column. Keys compare numerically
// when every key parses as a number, lexicographically otherwise. NaN keys go
// last. The sort is stable so duplicate keys keep their file order.
func (t *Table) SortByKey() {
	numeric := make([]float64, len(t.rows))
	allNumeric := len(t.rows) > 0
	for i, row := range t.rows {
		v, err := strconv.ParseFloat(row[ColumnKey], 64)
		if err != nil {
			allNumeric = false
			break
		}
		numeric[i] = v
	}

	if allNumeric {
		idx := make([]int, len(t.rows))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return lessNumeric(numeric[idx[a]], numeric[idx[b]])
		})
		sorted := make([]Row, len(t.rows))
		for i, j := range idx {
			sorted[i] = t.rows[j]
		}
		t.rows = sorted
		return
	}

	sort.SliceStable(t.rows, func(a, b int) bool {
		return t.rows[a][ColumnKey] < t.rows[b][ColumnKey]
	})
}

func lessNumeric(x, y float64) bool {
	if math.IsNaN(x) {
		return false
	}
	if math.IsNaN(y) {
		return true
	}
	return x < y
}
