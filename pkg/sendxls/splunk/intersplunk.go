package splunk

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/parser"
)

// Header keys sent ahead of the results of a search command.
const (
	SettingSessionKey = "sessionKey"
	SettingNamespace  = "namespace"
	SettingOwner      = "owner"
)

var settingLineRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*:`)

// CommandInput is what a search command reads on stdin: a settings header
// and the result rows.
type CommandInput struct {
	Settings map[string]string
	Header   []string
	Rows     []models.Row
}

// ReadCommandInput reads an optional "key:value" settings block ended by an
// empty line, followed by CSV results with a header record.
func ReadCommandInput(r io.Reader) (*CommandInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read command input: %w", err)
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	in := &CommandInput{Settings: make(map[string]string)}
	if settingLineRe.Match(data) {
		block, rest, _ := bytes.Cut(data, []byte("\n\n"))
		for _, line := range strings.Split(string(block), "\n") {
			key, value, ok := strings.Cut(line, ":")
			if ok {
				in.Settings[key] = value
			}
		}
		data = rest
	}

	src := parser.NewCSVSource(bytes.NewReader(data))
	header, err := src.Header()
	if errors.Is(err, parser.ErrNoHeader) {
		return in, nil
	}
	if err != nil {
		return nil, err
	}
	in.Header = header
	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		in.Rows = append(in.Rows, row)
	}
	return in, nil
}

// WriteResults writes rows back as CSV with header as the first record.
func WriteResults(w io.Writer, header []string, rows []models.Row) error {
	cw := csv.NewWriter(w)
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteError writes a single result whose ERROR field the search shows to
// the user.
func WriteError(w io.Writer, msg string) error {
	return WriteResults(w, []string{"ERROR"}, []models.Row{
		{Fields: []models.Field{{Name: "ERROR", Value: msg}}},
	})
}
