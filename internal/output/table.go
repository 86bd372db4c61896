// Package output writes filtered variant tables and run summaries.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/somatic-filter/internal/annotate"
	"github.com/inodb/somatic-filter/internal/variant"
)

// TableWriter writes variant records as TSV, preserving the original input
// columns under their original names and appending annotation columns.
type TableWriter struct {
	w       *bufio.Writer
	header  []string
	keep    []int    // original column indices written, in order
	columns []string // appended column names, core first
}

// NewTableWriter creates a writer for records read from a table with the
// given header. The core annotation columns are always appended, followed
// by sources. An input column whose name collides with an appended column
// is dropped so the output never carries two columns of the same name.
func NewTableWriter(w io.Writer, header []string, sources []annotate.ColumnDef) *TableWriter {
	tw := &TableWriter{w: bufio.NewWriter(w)}

	appended := make(map[string]bool)
	for _, col := range annotate.CoreColumns {
		tw.columns = append(tw.columns, col.Name)
		appended[col.Name] = true
	}
	for _, col := range sources {
		if appended[col.Name] {
			continue
		}
		tw.columns = append(tw.columns, col.Name)
		appended[col.Name] = true
	}

	for i, name := range header {
		if appended[name] {
			continue
		}
		tw.keep = append(tw.keep, i)
		tw.header = append(tw.header, name)
	}
	tw.header = append(tw.header, tw.columns...)
	return tw
}

// Header returns the full output header.
func (t *TableWriter) Header() []string {
	return t.header
}

// WriteHeader writes the header line.
func (t *TableWriter) WriteHeader() error {
	_, err := t.w.WriteString(strings.Join(t.header, "\t") + "\n")
	return err
}

// WriteRecord writes one decided record.
func (t *TableWriter) WriteRecord(r *variant.Record) error {
	row := make([]string, 0, len(t.header))
	for _, i := range t.keep {
		if i < len(r.Fields) {
			row = append(row, r.Fields[i])
		} else {
			row = append(row, "")
		}
	}
	for _, col := range t.columns {
		row = append(row, value(r, col))
	}

	_, err := t.w.WriteString(strings.Join(row, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (t *TableWriter) Flush() error {
	return t.w.Flush()
}

// value renders an appended column for r.
func value(r *variant.Record, column string) string {
	st := &r.Status
	switch column {
	case "read_depth":
		return strconv.Itoa(st.ReadDepth)
	case "low_read_depth":
		return flag(st.LowDepth)
	case "coding":
		return flag(st.Coding)
	case "whitelist":
		return flag(st.Override)
	case "exac_common":
		return flag(st.PopulationCommon)
	case "common_variant":
		return flag(st.Common)
	case "filter_reason":
		if st.Pass {
			return ""
		}
		return strings.Join(st.Reasons, ",")
	}
	return st.GetExtra(column)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
