// Package table reads tab-delimited text tables (MAF files, reference
// exports, whitelists) into memory. Values are never coerced: every cell is
// kept as the text found in the file.
package table

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Options controls how a table is read.
type Options struct {
	// Name labels the table in error messages (e.g. "maf", "exac").
	Name string

	// Headerless treats the first data line as a row. Columns are then
	// named by their zero-based index ("0", "1", ...).
	Headerless bool
}

// Row is a single data line.
type Row struct {
	Line   int      // 1-based line number in the source file
	Fields []string // one value per header column
}

// Table is a fully loaded tab-delimited file.
type Table struct {
	Name   string
	Header []string
	Rows   []Row
}

// Read loads a table from path. Gzipped input is detected by its magic
// bytes; "-" reads from stdin.
func Read(path string, opts Options) (*Table, error) {
	if path == "-" {
		return ReadFrom(os.Stdin, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s table: %w", opts.Name, err)
	}
	defer f.Close()

	r, closeFn, err := decompress(f)
	if err != nil {
		return nil, fmt.Errorf("open %s table: %w", opts.Name, err)
	}
	defer closeFn()

	return ReadFrom(r, opts)
}

// HeaderInfo locates the header of a table file.
type HeaderInfo struct {
	Columns []string
	Line    int  // 1-based line number of the header line
	Gzip    bool // the file carries the gzip magic number
}

// ReadHeader returns only the header of the table at path, without loading
// its rows. Used to validate a schema before handing the file to another
// loader.
func ReadHeader(path string, opts Options) ([]string, error) {
	info, err := Inspect(path, opts)
	if err != nil {
		return nil, err
	}
	return info.Columns, nil
}

// Inspect reads up to the header of the table at path and reports where it
// was found. Leading blank and comment lines are counted in Line.
func Inspect(path string, opts Options) (HeaderInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return HeaderInfo{}, fmt.Errorf("open %s table: %w", opts.Name, err)
	}
	defer f.Close()

	gzipped, err := isGzip(f)
	if err != nil {
		return HeaderInfo{}, fmt.Errorf("open %s table: %w", opts.Name, err)
	}
	r, closeFn, err := decompress(f)
	if err != nil {
		return HeaderInfo{}, fmt.Errorf("open %s table: %w", opts.Name, err)
	}
	defer closeFn()

	s := newScanner(r)
	if s.next() {
		return HeaderInfo{Columns: splitLine(s.line), Line: s.lineNumber, Gzip: gzipped}, nil
	}
	if s.err != nil {
		return HeaderInfo{}, fmt.Errorf("read %s header: %w", opts.Name, s.err)
	}
	return HeaderInfo{}, &ParseError{Table: opts.Name, Line: s.lineNumber, Message: "no header line found"}
}

// ReadFrom loads a table from an io.Reader.
func ReadFrom(r io.Reader, opts Options) (*Table, error) {
	t := &Table{Name: opts.Name}
	s := newScanner(r)

	for s.next() {
		fields := splitLine(s.line)

		if t.Header == nil {
			if opts.Headerless {
				t.Header = make([]string, len(fields))
				for i := range fields {
					t.Header[i] = strconv.Itoa(i)
				}
			} else {
				t.Header = fields
				continue
			}
		}

		if len(fields) > len(t.Header) {
			if !opts.Headerless {
				return nil, &ParseError{
					Table:   opts.Name,
					Line:    s.lineNumber,
					Message: fmt.Sprintf("expected at most %d columns, found %d", len(t.Header), len(fields)),
				}
			}
			for i := len(t.Header); i < len(fields); i++ {
				t.Header = append(t.Header, strconv.Itoa(i))
			}
		}

		t.Rows = append(t.Rows, Row{Line: s.lineNumber, Fields: fields})
	}
	if s.err != nil {
		return nil, fmt.Errorf("read %s table: %w", opts.Name, s.err)
	}

	if t.Header == nil {
		if opts.Headerless {
			return t, nil
		}
		return nil, &ParseError{Table: opts.Name, Line: s.lineNumber, Message: "no header line found"}
	}

	// Short rows are padded rather than dropped.
	for i := range t.Rows {
		if n := len(t.Rows[i].Fields); n < len(t.Header) {
			t.Rows[i].Fields = append(t.Rows[i].Fields, make([]string, len(t.Header)-n)...)
		}
	}

	return t, nil
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, col := range t.Header {
		if col == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the cell at row i of the named column, or "" when the
// column does not exist.
func (t *Table) Value(i int, column string) string {
	idx := t.Index(column)
	if idx < 0 {
		return ""
	}
	return t.Rows[i].Fields[idx]
}

// decompress wraps f in a gzip reader when the gzip magic number (0x1f 0x8b)
// is present.
func decompress(f *os.File) (io.Reader, func(), error) {
	gzipped, err := isGzip(f)
	if err != nil {
		return nil, nil, err
	}
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	}
	return f, func() {}, nil
}

// isGzip checks for the gzip magic number and rewinds f.
func isGzip(f *os.File) (bool, error) {
	buf := make([]byte, 2)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read header bytes: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("seek: %w", err)
	}
	return n == 2 && buf[0] == 0x1f && buf[1] == 0x8b, nil
}

// scanner yields non-empty, non-comment lines with their line numbers.
type scanner struct {
	reader     *bufio.Reader
	line       string
	lineNumber int
	err        error
}

func newScanner(r io.Reader) *scanner {
	return &scanner{reader: bufio.NewReader(r)}
}

func (s *scanner) next() bool {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			s.err = err
			return false
		}
		if line == "" && err == io.EOF {
			return false
		}
		s.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if err == io.EOF {
				return false
			}
			continue
		}

		if !utf8.ValidString(line) {
			line = decodeLatin1(line)
		}

		s.line = line
		return true
	}
}

// decodeLatin1 reads each invalid UTF-8 byte of line as Latin-1. Valid
// multi-byte sequences are kept. Older MAF exports are Latin-1 encoded.
func decodeLatin1(line string) string {
	var b strings.Builder
	b.Grow(len(line) + 8)
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(charmap.ISO8859_1.DecodeByte(line[i]))
		} else {
			b.WriteString(line[i : i+size])
		}
		i += size
	}
	return b.String()
}

func splitLine(line string) []string {
	return strings.Split(line, "\t")
}
