// Package schema validates raw input tables against a required set of
// fields and renames external column names onto the canonical field
// vocabulary used by the rest of the filter.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/somatic-filter/internal/table"
)

// Field maps one external column onto a canonical name.
type Field struct {
	Source    string   // column name in the external file
	Aliases   []string // alternative spellings accepted for Source
	Canonical string   // internal name
}

// Schema describes the required fields of one input type. Schemas are
// built once by their constructor and must not be modified afterwards.
type Schema struct {
	Name    string
	Version string
	Fields  []Field

	// Positional schemas address columns by index: Fields[i] is column i.
	Positional bool

	// KeepUnmapped keeps every column of the input, in place, renaming only
	// the mapped ones. Otherwise the result holds just the mapped fields in
	// schema order.
	KeepUnmapped bool
}

// SchemaError reports a required field missing from an input table.
type SchemaError struct {
	Table string
	Field string
	Found []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table: expected column %s not found among [%s]",
		e.Table, e.Field, strings.Join(e.Found, ", "))
}

// Required returns the external names of the required fields.
func (s *Schema) Required() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Source
	}
	return names
}

// Canonical returns the canonical field names in schema order.
func (s *Schema) Canonical() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Canonical
	}
	return names
}

// Validate checks that header carries every required field and returns, for
// each field, the index of the column that satisfies it.
func (s *Schema) Validate(header []string) ([]int, error) {
	positions := make([]int, len(s.Fields))

	if s.Positional {
		for i, f := range s.Fields {
			if i >= len(header) {
				return nil, &SchemaError{Table: s.Name, Field: f.Canonical + " (column " + strconv.Itoa(i) + ")", Found: header}
			}
			positions[i] = i
		}
		return positions, nil
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	for i, f := range s.Fields {
		pos, ok := index[f.Source]
		if !ok {
			for _, alias := range f.Aliases {
				if pos, ok = index[alias]; ok {
					break
				}
			}
		}
		if !ok {
			return nil, &SchemaError{Table: s.Name, Field: f.Source, Found: header}
		}
		positions[i] = pos
	}
	return positions, nil
}

// Normalize validates t and returns a new table whose columns carry
// canonical names. Cell values are shared with t and never converted.
func (s *Schema) Normalize(t *table.Table) (*table.Table, error) {
	positions, err := s.Validate(t.Header)
	if err != nil {
		return nil, err
	}

	out := &table.Table{Name: t.Name}
	if out.Name == "" {
		out.Name = s.Name
	}

	if s.KeepUnmapped {
		out.Header = make([]string, len(t.Header))
		copy(out.Header, t.Header)
		for i, f := range s.Fields {
			out.Header[positions[i]] = f.Canonical
		}
		out.Rows = t.Rows
		return out, nil
	}

	out.Header = s.Canonical()
	out.Rows = make([]table.Row, len(t.Rows))
	for i, row := range t.Rows {
		fields := make([]string, len(positions))
		for j, pos := range positions {
			fields[j] = row.Fields[pos]
		}
		out.Rows[i] = table.Row{Line: row.Line, Fields: fields}
	}
	return out, nil
}
