package splunk

import (
	"encoding/json"
	"strings"
)

// Flag is a boolean setting as the host serializes it: a JSON bool, a
// number, or a string such as "1", "true" or "yes".
type Flag bool

// ParseFlag applies the host's truth table: true, t, 1, yes and y are true
// (case-insensitive); anything else is false.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "y":
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case float64:
		*f = Flag(t != 0)
	case string:
		*f = Flag(ParseFlag(t))
	default:
		*f = false
	}
	return nil
}
