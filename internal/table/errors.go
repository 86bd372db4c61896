package table

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed table or a value that could not be
// interpreted as the type a field requires.
type ParseError struct {
	Table   string
	Line    int
	Field   string // column name, empty for structural errors
	Value   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s parse error at line %d: field %s: %s (value %q)",
			e.Table, e.Line, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s parse error at line %d: %s", e.Table, e.Line, e.Message)
}

// ParseCount interprets value as a non-negative integer count.
func ParseCount(tableName string, line int, field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ParseError{Table: tableName, Line: line, Field: field, Value: value, Message: "not an integer"}
	}
	if n < 0 {
		return 0, &ParseError{Table: tableName, Line: line, Field: field, Value: value, Message: "negative count"}
	}
	return n, nil
}
