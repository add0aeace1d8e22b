package models

// Document is a single-sheet spreadsheet ready to be written out.
type Document struct {
	// SheetName is the name of the only sheet.
	SheetName string `json:"sheet_name"`
	// Header holds the visible column names (row 0).
	Header []string `json:"header"`
	// Rows holds the data rows, aligned with Header by position.
	Rows [][]Cell `json:"rows,omitempty"`
	// DataRowOffset is the 0-based sheet row of the first data row.
	DataRowOffset int `json:"data_row_offset"`
}

// RowCount returns the number of data rows.
func (d *Document) RowCount() int {
	return len(d.Rows)
}
