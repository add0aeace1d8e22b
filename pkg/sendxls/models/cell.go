// Package models defines data structures for spreadsheet reports.
package models

// CellKind is the lexical shape detected for a raw cell value.
type CellKind string

const (
	// KindText is the fallback for values that match no other shape.
	KindText CellKind = "text"
	// KindDate is a digit triple separated by '-', '/' or '.'.
	KindDate CellKind = "date"
	// KindFloat is digits, a dot, and digits.
	KindFloat CellKind = "float"
	// KindInteger is a run of digits.
	KindInteger CellKind = "integer"
)

// Format is a display number format applied to a single cell.
type Format string

const (
	// FormatGeneral leaves the cell in the spreadsheet's general format.
	FormatGeneral Format = ""
	// FormatShortDate renders as month/day/2-digit year.
	FormatShortDate Format = "M/D/YY"
	// FormatTwoDecimals renders a number with two decimal places.
	FormatTwoDecimals Format = "0.00"
	// FormatWholeNumber renders a number with no decimal places.
	FormatWholeNumber Format = "0"
)

// Cell represents one rendered cell of a data row.
type Cell struct {
	// Raw is the input string the cell was built from.
	Raw string `json:"raw"`
	// Kind is the inferred lexical shape of Raw.
	Kind CellKind `json:"kind"`
	// Value is the payload written to the sheet: string or float64.
	Value interface{} `json:"value"`
	// Format is the per-cell display format.
	Format Format `json:"format,omitempty"`
}
