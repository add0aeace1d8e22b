package writer

import (
	"unicode/utf8"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
)

// Column width bounds, in characters.
const (
	MinColumnWidth = 8.0
	MaxColumnWidth = 60.0
)

// ColumnWidths sizes each header column to its longest raw value, header
// included, clamped to [MinColumnWidth, MaxColumnWidth].
func ColumnWidths(doc *models.Document) []float64 {
	longest := make([]int, len(doc.Header))
	for col, name := range doc.Header {
		longest[col] = utf8.RuneCountInString(name)
	}
	for _, row := range doc.Rows {
		for col, cell := range row {
			if col >= len(longest) {
				break
			}
			if n := utf8.RuneCountInString(cell.Raw); n > longest[col] {
				longest[col] = n
			}
		}
	}

	widths := make([]float64, len(longest))
	for col, n := range longest {
		// room for padding
		w := float64(n + 2)
		switch {
		case w < MinColumnWidth:
			w = MinColumnWidth
		case w > MaxColumnWidth:
			w = MaxColumnWidth
		}
		widths[col] = w
	}
	return widths
}
