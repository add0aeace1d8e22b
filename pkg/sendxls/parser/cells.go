// Package parser classifies cell values and reads result rows.
package parser

import (
	"regexp"
	"strconv"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
)

var (
	// The date pattern is anchored at the start only: "2024-01-15T10:00" is
	// still date-like.
	dateRe    = regexp.MustCompile(`^\d+-\d+-\d+|^\d+/\d+/\d+|^\d+\.\d+\.\d+`)
	floatRe   = regexp.MustCompile(`^\d+\.\d+$`)
	integerRe = regexp.MustCompile(`^\d+$`)
)

// ClassifyCell infers the kind, payload and display format of a raw value.
// Checks run in order date, float, integer; anything else is text.
// It never fails: unrecognized shapes stay text.
func ClassifyCell(raw string) models.Cell {
	switch {
	case dateRe.MatchString(raw):
		return models.Cell{Raw: raw, Kind: models.KindDate, Value: raw, Format: models.FormatShortDate}
	case floatRe.MatchString(raw):
		if f, ok := parseFloat(raw); ok {
			return models.Cell{Raw: raw, Kind: models.KindFloat, Value: f, Format: models.FormatTwoDecimals}
		}
	case integerRe.MatchString(raw):
		// Whole numbers are still written as floating point cells.
		if f, ok := parseFloat(raw); ok {
			return models.Cell{Raw: raw, Kind: models.KindInteger, Value: f, Format: models.FormatWholeNumber}
		}
	}
	return models.Cell{Raw: raw, Kind: models.KindText, Value: raw, Format: models.FormatGeneral}
}

// parseFloat parses a value already matched by one of the numeric patterns.
// Out of range values (ParseFloat returns ±Inf) fall back to text.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ClassifyRow classifies each value in order.
func ClassifyRow(values []string) []models.Cell {
	cells := make([]models.Cell, len(values))
	for i, v := range values {
		cells[i] = ClassifyCell(v)
	}
	return cells
}
