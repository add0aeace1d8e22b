// Package sendxls converts search results into spreadsheet documents.
package sendxls

import "github.com/ukaji3/sendxls-go/pkg/sendxls/parser"

// Options configures conversion behavior.
type Options struct {
	// MetaPrefix marks metadata columns to leave out of the sheet.
	// An empty prefix keeps every column.
	MetaPrefix string
	// Lenient pads short rows with empty values and ignores extra fields
	// instead of failing with a RowShapeError.
	Lenient bool
	// MaxRows caps the number of data rows. Zero means no limit.
	MaxRows int
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		MetaPrefix: parser.DefaultMetaPrefix,
	}
}

// DataRowOffset is the sheet row of the first data row. The header always
// takes row 0 in both invocation modes.
const DataRowOffset = 1
