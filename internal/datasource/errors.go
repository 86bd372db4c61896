// Package datasource holds what the reference table loaders share.
package datasource

import (
	"fmt"
	"strings"

	"github.com/inodb/somatic-filter/internal/table"
)

// ReferenceDataError reports a reference table whose join key is not
// unique. A many-to-one join cannot be guaranteed against such a table.
type ReferenceDataError struct {
	Table string
	Key   string
	Lines []int // source lines carrying the key, when known
}

func (e *ReferenceDataError) Error() string {
	if len(e.Lines) == 0 {
		return fmt.Sprintf("%s reference: duplicate join key %s", e.Table, e.Key)
	}
	lines := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = fmt.Sprint(l)
	}
	return fmt.Sprintf("%s reference: duplicate join key %s at lines %s",
		e.Table, e.Key, strings.Join(lines, ", "))
}

// IsMissing reports whether a reference cell holds no value.
func IsMissing(value string) bool {
	switch strings.TrimSpace(value) {
	case "", ".", "NA", "nan", "NaN":
		return true
	}
	return false
}

// ParseOptionalCount parses a non-negative count, reading a missing cell as
// zero.
func ParseOptionalCount(tableName string, line int, field, value string) (int, error) {
	if IsMissing(value) {
		return 0, nil
	}
	return table.ParseCount(tableName, line, field, value)
}
