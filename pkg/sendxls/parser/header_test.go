package parser

import (
	"reflect"
	"testing"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
)

func TestIsMetaColumn(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		expected bool
	}{
		{"__mv_host", "__", true},
		{"_time", "__", false},
		{"host", "__", false},
		{"__mv_host", "", false},
		{"_raw", "_", true},
	}
	for _, tt := range tests {
		if got := IsMetaColumn(tt.name, tt.prefix); got != tt.expected {
			t.Errorf("IsMetaColumn(%q, %q) = %v, expected %v", tt.name, tt.prefix, got, tt.expected)
		}
	}
}

func TestPlanColumns(t *testing.T) {
	plan := PlanColumns([]string{"host", "__mv_host", "count", "__mv_count", "_time"}, DefaultMetaPrefix)

	if !reflect.DeepEqual(plan.Names, []string{"host", "count", "_time"}) {
		t.Errorf("unexpected names: %v", plan.Names)
	}
	if !reflect.DeepEqual(plan.Positions, []int{0, 2, 4}) {
		t.Errorf("unexpected positions: %v", plan.Positions)
	}
	if plan.Width != 5 {
		t.Errorf("Expected width 5, got %d", plan.Width)
	}
}

func TestColumnPlanSelect(t *testing.T) {
	header := []string{"host", "__mv_host", "count"}
	plan := PlanColumns(header, DefaultMetaPrefix)

	t.Run("positional row", func(t *testing.T) {
		got, ok := plan.Select(models.NewRow(header, []string{"web01", "$web01$", "3"}), false)
		if !ok || !reflect.DeepEqual(got, []string{"web01", "3"}) {
			t.Fatalf("unexpected selection: %v %v", got, ok)
		}
	})

	t.Run("reordered row is matched by name", func(t *testing.T) {
		row := models.Row{Fields: []models.Field{
			{Name: "count", Value: "3"},
			{Name: "host", Value: "web01"},
			{Name: "__mv_host", Value: "$web01$"},
		}}
		got, ok := plan.Select(row, false)
		if !ok || !reflect.DeepEqual(got, []string{"web01", "3"}) {
			t.Fatalf("unexpected selection: %v %v", got, ok)
		}
	})

	t.Run("metadata-looking values are kept", func(t *testing.T) {
		got, ok := plan.Select(models.NewRow(header, []string{"__weird", "", "1"}), false)
		if !ok || got[0] != "__weird" {
			t.Fatalf("unexpected selection: %v %v", got, ok)
		}
	})

	t.Run("short row is rejected", func(t *testing.T) {
		if _, ok := plan.Select(models.NewRow(header, []string{"web01"}), false); ok {
			t.Fatal("expected short row to be rejected")
		}
	})

	t.Run("missing column is rejected", func(t *testing.T) {
		row := models.NewRow([]string{"host", "__mv_host", "other"}, []string{"a", "b", "c"})
		if _, ok := plan.Select(row, false); ok {
			t.Fatal("expected row without count to be rejected")
		}
	})

	t.Run("lenient pads and truncates", func(t *testing.T) {
		got, ok := plan.Select(models.NewRow(header, []string{"web01"}), true)
		if !ok || !reflect.DeepEqual(got, []string{"web01", ""}) {
			t.Fatalf("unexpected short selection: %v %v", got, ok)
		}
		got, ok = plan.Select(models.NewRow(header, []string{"a", "b", "c", "d"}), true)
		if !ok || !reflect.DeepEqual(got, []string{"a", "c"}) {
			t.Fatalf("unexpected long selection: %v %v", got, ok)
		}
	})
}
