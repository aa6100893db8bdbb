// Package table implements the labeled numeric matrices this tool
// passes between pipeline stages. A Table keeps an explicit column
// order and a row-key index so that feature-column ordering survives
// every operation.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Table is a 2-D float64 matrix with named rows and ordered, named
// columns. Row keys and column names are unique within a table.
type Table struct {
	indexName string
	rows      []string
	rowIdx    map[string]int
	cols      []string
	colIdx    map[string]int
	data      *mat.Dense
}

// New returns a zero-filled table with the given index label, row keys
// and column names. Duplicate row keys or column names are rejected.
func New(indexName string, rows, cols []string) (*Table, error) {
	t := &Table{
		indexName: indexName,
		rows:      append([]string(nil), rows...),
		rowIdx:    make(map[string]int, len(rows)),
		cols:      append([]string(nil), cols...),
		colIdx:    make(map[string]int, len(cols)),
	}
	for i, r := range t.rows {
		if _, dup := t.rowIdx[r]; dup {
			return nil, fmt.Errorf("duplicate row key %q", r)
		}
		t.rowIdx[r] = i
	}
	for j, c := range t.cols {
		if _, dup := t.colIdx[c]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c)
		}
		t.colIdx[c] = j
	}
	t.data = mat.NewDense(max(len(rows), 1), max(len(cols), 1), nil)
	return t, nil
}

// ReadTSV loads a tab-delimited matrix. The first header field becomes
// the index label, the remaining header fields the column names, and
// the first field of every data line the row key. Every cell must
// parse as a float.
func ReadTSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	header := records[0]
	rows := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, rec[0])
	}
	t, err := New(header[0], rows, header[1:])
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}
	for i, rec := range records[1:] {
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("in %s: row %q, column %q: value %q is not numeric", path, rec[0], header[j+1], field)
			}
			t.data.Set(i, j, v)
		}
	}
	return t, nil
}

// IndexName returns the label of the row-key column.
func (t *Table) IndexName() string { return t.indexName }

// Rows returns the row keys in order.
func (t *Table) Rows() []string { return t.rows }

// Cols returns the column names in order.
func (t *Table) Cols() []string { return t.cols }

// HasCol reports whether the table has a column with the given name.
func (t *Table) HasCol(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// At returns the cell at the given row key and column name.
// Both must exist.
func (t *Table) At(row, col string) float64 {
	return t.data.At(t.rowIdx[row], t.colIdx[col])
}

// Set assigns the cell at the given row key and column name.
func (t *Table) Set(row, col string, v float64) {
	t.data.Set(t.rowIdx[row], t.colIdx[col], v)
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []float64 {
	j, ok := t.colIdx[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(t.rows))
	mat.Col(out, j, t.data)
	return out
}

// Missing returns the sorted subset of names that are not columns of
// the table.
func (t *Table) Missing(names []string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasCol(n) {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	return missing
}

// Select returns a new table restricted and reordered to exactly the
// given columns. All names must be present; check with Missing first.
func (t *Table) Select(names []string) (*Table, error) {
	if missing := t.Missing(names); len(missing) > 0 {
		return nil, fmt.Errorf("unknown columns: %s", strings.Join(missing, ", "))
	}
	sub, err := New(t.indexName, t.rows, names)
	if err != nil {
		return nil, err
	}
	for j, name := range names {
		src := t.colIdx[name]
		for i := range t.rows {
			sub.data.Set(i, j, t.data.At(i, src))
		}
	}
	return sub, nil
}

// Matrix exposes the cell values as a dense matrix in row/column
// order. The caller must not mutate it.
func (t *Table) Matrix() *mat.Dense { return t.data }

// WriteTSV writes the table as a tab-delimited file with the index
// label as the first header field. Floats use default precision.
func (t *Table) WriteTSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\t%s\n", t.indexName, strings.Join(t.cols, "\t")); err != nil {
		return err
	}
	fields := make([]string, len(t.cols))
	for i, row := range t.rows {
		for j := range t.cols {
			fields[j] = strconv.FormatFloat(t.data.At(i, j), 'g', -1, 64)
		}
		if _, err := fmt.Fprintf(f, "%s\t%s\n", row, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return f.Close()
}
