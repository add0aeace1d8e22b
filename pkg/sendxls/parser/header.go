package parser

import (
	"strings"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
)

// DefaultMetaPrefix marks internal columns such as __mv_host.
const DefaultMetaPrefix = "__"

// IsMetaColumn reports whether a column name carries the metadata prefix.
// An empty prefix disables filtering.
func IsMetaColumn(name, prefix string) bool {
	return prefix != "" && strings.HasPrefix(name, prefix)
}

// ColumnPlan is the set of visible columns computed once from a header.
type ColumnPlan struct {
	// Names are the visible column names in header order.
	Names []string
	// Positions are the header indexes of Names.
	Positions []int
	// Width is the full header width including metadata columns.
	Width int
}

// PlanColumns drops metadata columns from a header.
func PlanColumns(header []string, metaPrefix string) ColumnPlan {
	plan := ColumnPlan{Width: len(header)}
	for i, name := range header {
		if IsMetaColumn(name, metaPrefix) {
			continue
		}
		plan.Names = append(plan.Names, name)
		plan.Positions = append(plan.Positions, i)
	}
	return plan
}

// Select picks the visible values of a row by column name.
//
// A row must have exactly Width fields and contain every visible column.
// With lenient set, missing columns become "" and extra fields are ignored.
// The second result is false when the row does not fit the plan.
func (p ColumnPlan) Select(row models.Row, lenient bool) ([]string, bool) {
	if !lenient && row.Len() != p.Width {
		return nil, false
	}
	values := make([]string, len(p.Names))
	for i, name := range p.Names {
		pos := p.Positions[i]
		// Rows decoded against the same header line up by position; this
		// also keeps duplicate column names apart.
		if pos < row.Len() && row.Fields[pos].Name == name {
			values[i] = row.Fields[pos].Value
			continue
		}
		v, ok := row.Get(name)
		if !ok && !lenient {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
