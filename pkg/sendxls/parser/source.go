package parser

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
)

// ErrNoHeader is returned by a RowSource that has no header to offer.
var ErrNoHeader = errors.New("no header")

// RowSource yields the header and then the data rows of a result set.
// Next returns io.EOF after the last row. A source is not restartable.
type RowSource interface {
	Header() ([]string, error)
	Next() (models.Row, error)
}

// SliceSource serves rows held in memory. The header is the name list of
// the first row.
type SliceSource struct {
	rows []models.Row
	pos  int
}

// NewSliceSource wraps rows. The slice is read, never modified.
func NewSliceSource(rows []models.Row) *SliceSource {
	return &SliceSource{rows: rows}
}

// Header implements RowSource.
func (s *SliceSource) Header() ([]string, error) {
	if len(s.rows) == 0 {
		return nil, ErrNoHeader
	}
	return s.rows[0].Names(), nil
}

// Next implements RowSource.
func (s *SliceSource) Next() (models.Row, error) {
	if s.pos >= len(s.rows) {
		return models.Row{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// CSVSource decodes comma separated rows whose first record is the header.
type CSVSource struct {
	r      *csv.Reader
	header []string
	read   bool
	line   int
}

// NewCSVSource reads CSV from r.
func NewCSVSource(r io.Reader) *CSVSource {
	cr := csv.NewReader(r)
	// Row width is checked by the converter so it can report the row.
	cr.FieldsPerRecord = -1
	return &CSVSource{r: cr}
}

// Header implements RowSource. It reads the first record on first use.
func (s *CSVSource) Header() ([]string, error) {
	if s.read {
		if s.header == nil {
			return nil, ErrNoHeader
		}
		return s.header, nil
	}
	s.read = true
	rec, err := s.r.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	s.header = rec
	return s.header, nil
}

// Next implements RowSource.
func (s *CSVSource) Next() (models.Row, error) {
	if !s.read {
		if _, err := s.Header(); err != nil {
			if errors.Is(err, ErrNoHeader) {
				return models.Row{}, io.EOF
			}
			return models.Row{}, err
		}
	}
	rec, err := s.r.Read()
	if err == io.EOF {
		return models.Row{}, io.EOF
	}
	if err != nil {
		return models.Row{}, fmt.Errorf("read row %d: %w", s.line+1, err)
	}
	s.line++
	return models.NewRow(s.header, rec), nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// OpenResults opens a results file, decompressing it when it is gzip data.
// The caller must call the returned cleanup function.
func OpenResults(path string) (*CSVSource, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	br := bufio.NewReader(file)
	magic, _ := br.Peek(len(gzipMagic))
	if len(magic) == len(gzipMagic) && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, nil, fmt.Errorf("open gzip results: %w", err)
		}
		cleanup := func() error {
			gz.Close()
			return file.Close()
		}
		return NewCSVSource(gz), cleanup, nil
	}

	return NewCSVSource(br), file.Close, nil
}
