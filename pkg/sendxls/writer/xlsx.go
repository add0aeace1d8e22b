// Package writer renders report documents as spreadsheet files.
package writer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
	"github.com/xuri/excelize/v2"
)

// Extension is the file extension of written workbooks.
const Extension = ".xlsx"

// MaxSheetNameLength is the spreadsheet limit on sheet name length.
const MaxSheetNameLength = 31

const defaultSheet = "Sheet1"

// Write renders doc into a new workbook. The caller owns the returned file
// and must close it.
//
// Text longer than the spreadsheet cell limit of 32767 characters is
// truncated by the stream writer.
func Write(doc *models.Document) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := SheetName(doc.SheetName)
	if !strings.EqualFold(sheet, defaultSheet) {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	if err := writeRows(f, sheet, doc); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, doc *models.Document) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	// Column widths must be set before the first row.
	for i, w := range ColumnWidths(doc) {
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	header := make([]interface{}, len(doc.Header))
	for i, name := range doc.Header {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Rows must be written in ascending order after the header.
	offset := doc.DataRowOffset
	if offset < 1 {
		offset = 1
	}

	styles := newStyleCache(f)
	for i, row := range doc.Rows {
		values := make([]interface{}, len(row))
		for j, cell := range row {
			styleID, err := styles.id(cell.Format)
			if err != nil {
				return err
			}
			values[j] = excelize.Cell{StyleID: styleID, Value: cell.Value}
		}
		axis, err := excelize.CoordinatesToCellName(1, offset+i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return nil
}

// styleCache creates one workbook style per display format.
type styleCache struct {
	f   *excelize.File
	ids map[models.Format]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[models.Format]int)}
}

func (c *styleCache) id(format models.Format) (int, error) {
	if format == models.FormatGeneral {
		return 0, nil
	}
	if id, ok := c.ids[format]; ok {
		return id, nil
	}
	code := numFmtCode(format)
	id, err := c.f.NewStyle(&excelize.Style{CustomNumFmt: &code})
	if err != nil {
		return 0, fmt.Errorf("create style %q: %w", format, err)
	}
	c.ids[format] = id
	return id, nil
}

// numFmtCode maps a display format to a spreadsheet number format code.
func numFmtCode(format models.Format) string {
	if format == models.FormatShortDate {
		return "m/d/yy"
	}
	return string(format)
}

// SheetName makes name usable as a sheet name: characters the format
// rejects become '_', leading and trailing apostrophes are dropped, and the
// result is cut to MaxSheetNameLength runes. An empty result gives "Sheet1".
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(strings.TrimSpace(name), "'")
	if utf8.RuneCountInString(name) > MaxSheetNameLength {
		name = string([]rune(name)[:MaxSheetNameLength])
	}
	if name == "" {
		return defaultSheet
	}
	return name
}

// Save renders doc and writes it to path.
func Save(doc *models.Document, path string) error {
	f, err := Write(doc)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
