package models

// Field is one named value of a row.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Row is an ordered list of named string values.
//
// Command-mode rows carry the names of the result columns. Rows decoded from
// a delimited stream get the names of the stream's header line by position.
type Row struct {
	Fields []Field `json:"fields"`
}

// NewRow builds a row by pairing names and values by position.
// Values beyond len(names) are kept with an empty name; missing values are
// not invented.
func NewRow(names, values []string) Row {
	fields := make([]Field, len(values))
	for i, v := range values {
		var name string
		if i < len(names) {
			name = names[i]
		}
		fields[i] = Field{Name: name, Value: v}
	}
	return Row{Fields: fields}
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.Fields)
}

// Get returns the value of the first field with the given name.
func (r Row) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the field names in order.
func (r Row) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Values returns the field values in order.
func (r Row) Values() []string {
	values := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		values[i] = f.Value
	}
	return values
}
