package domain

import "fmt"

// Column names every instrument export must carry.
const (
	ColumnChemistry     = "Chemistry"
	ColumnConcentration = "Concentration"
	ColumnWellID        = "Well Id"
)

// RequiredColumns lists the columns the pipeline reads.
var RequiredColumns = []string{ColumnChemistry, ColumnConcentration, ColumnWellID}

// RawTable is an instrument export held as text: one header row plus data
// rows in file order. Header names are unique and every row has exactly
// len(Headers()) cells. Tables are never modified after construction;
// filters return new tables sharing the underlying row slices.
type RawTable struct {
	headers []string
	index   map[string]int
	rows    [][]string
	lines   []int // file line of each row, header is line 1
}

// NewRawTable builds a table, padding short rows and truncating long ones
// to the header width. Headers are made unique with UniqueHeaders.
func NewRawTable(headers []string, rows [][]string) *RawTable {
	t := &RawTable{
		headers: UniqueHeaders(headers),
		index:   make(map[string]int, len(headers)),
		rows:    make([][]string, 0, len(rows)),
	}
	for i, h := range t.headers {
		t.index[h] = i
	}
	for i, row := range rows {
		t.rows = append(t.rows, fitRow(row, len(t.headers)))
		t.lines = append(t.lines, i+2)
	}
	return t
}

// UniqueHeaders names blank headers "Unnamed: <position>" and renames the
// second and later occurrences of a name to "<name>.1", "<name>.2" and so
// on, skipping suffixes already taken. The first occurrence keeps its name.
func UniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	taken := make(map[string]struct{}, len(headers))
	for i, h := range headers {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}
	for _, h := range out {
		taken[h] = struct{}{}
	}

	seen := make(map[string]int, len(out))
	for i, h := range out {
		count, dup := seen[h]
		seen[h] = count + 1
		if !dup {
			continue
		}
		var name string
		for k := count; ; k++ {
			name = fmt.Sprintf("%s.%d", h, k)
			if _, used := taken[name]; !used {
				break
			}
		}
		taken[name] = struct{}{}
		out[i] = name
	}
	return out
}

// NewRawTableAt is NewRawTable for rows read from a file, with lines[i]
// giving the file line of rows[i].
func NewRawTableAt(headers []string, rows [][]string, lines []int) *RawTable {
	t := NewRawTable(headers, rows)
	copy(t.lines, lines)
	return t
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// Headers returns the column names in file order.
func (t *RawTable) Headers() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.headers...)
}

// Rows returns the data rows. Callers must not modify them.
func (t *RawTable) Rows() [][]string {
	if t == nil {
		return nil
	}
	return t.rows
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Line returns the file line row i was read from.
func (t *RawTable) Line(i int) int {
	return t.lines[i]
}

// HasColumn reports whether name is one of the headers.
func (t *RawTable) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns which of names are not headers of t.
func (t *RawTable) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Value returns the cell of row i in column name, or "" if the column is absent.
func (t *RawTable) Value(i int, name string) string {
	idx, ok := t.index[name]
	if !ok {
		return ""
	}
	return t.rows[i][idx]
}

// Column returns every value of the named column in row order.
func (t *RawTable) Column(name string) []string {
	if t == nil {
		return nil
	}
	idx, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out
}

// Record returns row i as a column-name keyed map.
func (t *RawTable) Record(i int) map[string]string {
	rec := make(map[string]string, len(t.headers))
	for j, h := range t.headers {
		rec[h] = t.rows[i][j]
	}
	return rec
}

// FilterFunc keeps the rows for which keep returns true.
func (t *RawTable) FilterFunc(keep func(row int) bool) *RawTable {
	if t == nil {
		return NewRawTable(nil, nil)
	}
	out := &RawTable{headers: t.headers, index: t.index}
	for i, row := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, row)
			out.lines = append(out.lines, t.lines[i])
		}
	}
	return out
}

// Filter keeps the rows whose column equals value exactly. A missing column
// matches nothing.
func (t *RawTable) Filter(column, value string) *RawTable {
	if !t.HasColumn(column) {
		return t.FilterFunc(func(int) bool { return false })
	}
	idx := t.index[column]
	return t.FilterFunc(func(i int) bool { return t.rows[i][idx] == value })
}

// Project returns a table with only the given columns, in the given order.
// Columns t does not have come back blank.
func (t *RawTable) Project(columns ...string) *RawTable {
	rows := make([][]string, t.Len())
	for i := range rows {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = t.Value(i, c)
		}
		rows[i] = row
	}
	out := NewRawTable(columns, rows)
	for i := range out.lines {
		out.lines[i] = t.lines[i]
	}
	return out
}
