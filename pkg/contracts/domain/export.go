package domain

// ExportSheet is one worksheet of the raw-results workbook: the raw rows of
// every plate that belong to an active well and to Chemistry.
type ExportSheet struct {
	Name      string     `json:"name"`
	Chemistry string     `json:"chemistry"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
}

// RowCount returns the number of data rows (the header is not counted).
func (s ExportSheet) RowCount() int {
	return len(s.Rows)
}
