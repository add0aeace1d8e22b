package sendxls

import (
	"errors"
	"fmt"
	"io"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/parser"
)

// Convert builds a document from rows held in memory. The header is the
// column list of the first row. An empty slice returns ErrEmptyInput.
func Convert(sheetName string, rows []models.Row, opts Options) (*models.Document, error) {
	return ConvertSource(sheetName, parser.NewSliceSource(rows), opts)
}

// ConvertSource builds a document from a row source.
//
// Metadata columns are dropped from the header once and every row is then
// matched against the remaining columns by name. A source with a header
// and no rows gives a header-only document.
func ConvertSource(sheetName string, src parser.RowSource, opts Options) (*models.Document, error) {
	header, err := src.Header()
	if errors.Is(err, parser.ErrNoHeader) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}

	plan := parser.PlanColumns(header, opts.MetaPrefix)
	doc := &models.Document{
		SheetName:     sheetName,
		Header:        plan.Names,
		DataRowOffset: DataRowOffset,
	}

	for i := 0; ; i++ {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if opts.MaxRows > 0 && i >= opts.MaxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, opts.MaxRows)
		}

		values, ok := plan.Select(row, opts.Lenient)
		if !ok {
			return nil, &RowShapeError{Row: i, Want: plan.Width, Got: row.Len()}
		}
		doc.Rows = append(doc.Rows, parser.ClassifyRow(values))
	}

	return doc, nil
}
