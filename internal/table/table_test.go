package table

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFrom_HeaderAndRows(t *testing.T) {
	input := "#version 2.4\n" +
		"Hugo_Symbol\tChromosome\tStart_position\n" +
		"\n" +
		"KRAS\t12\t25398284\n" +
		"# trailing comment\n" +
		"TP53\t17\t7577120\n"

	tbl, err := ReadFrom(strings.NewReader(input), Options{Name: "maf"})
	require.NoError(t, err)

	assert.Equal(t, "maf", tbl.Name)
	assert.Equal(t, []string{"Hugo_Symbol", "Chromosome", "Start_position"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, 4, tbl.Rows[0].Line)
	assert.Equal(t, 6, tbl.Rows[1].Line)
	assert.Equal(t, "TP53", tbl.Value(1, "Hugo_Symbol"))
	assert.Equal(t, "", tbl.Value(1, "Missing"))
	assert.Equal(t, 2, tbl.Index("Start_position"))
	assert.Equal(t, -1, tbl.Index("Missing"))
}

func TestReadFrom_CRLF(t *testing.T) {
	tbl, err := ReadFrom(strings.NewReader("a\tb\r\n1\t2\r\n"), Options{Name: "t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Header)
	assert.Equal(t, []string{"1", "2"}, tbl.Rows[0].Fields)
}

func TestReadFrom_NoTrailingNewline(t *testing.T) {
	tbl, err := ReadFrom(strings.NewReader("a\tb\n1\t2"), Options{Name: "t"})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"1", "2"}, tbl.Rows[0].Fields)
}

func TestReadFrom_ShortRowPadded(t *testing.T) {
	tbl, err := ReadFrom(strings.NewReader("a\tb\tc\n1\n"), Options{Name: "t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0].Fields)
}

func TestReadFrom_LongRowIsParseError(t *testing.T) {
	_, err := ReadFrom(strings.NewReader("a\tb\n1\t2\t3\n"), Options{Name: "maf"})
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "maf", perr.Table)
	assert.Equal(t, 2, perr.Line)
}

func TestReadFrom_EmptyInput(t *testing.T) {
	_, err := ReadFrom(strings.NewReader("# only comments\n"), Options{Name: "exac"})
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "no header line found")

	tbl, err := ReadFrom(strings.NewReader(""), Options{Name: "whitelist", Headerless: true})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestReadFrom_Headerless(t *testing.T) {
	input := "7\t140453136\t140453136\tBRAF:V600E\n" +
		"12\t25398284\t25398284\tKRAS:G12C\textra\n"

	tbl, err := ReadFrom(strings.NewReader(input), Options{Name: "whitelist", Headerless: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"7", "140453136", "140453136", "BRAF:V600E", ""}, tbl.Rows[0].Fields)
	assert.Equal(t, "KRAS:G12C", tbl.Value(1, "3"))
}

func TestReadFrom_Latin1Fallback(t *testing.T) {
	input := "Hugo_Symbol\tNote\nKRAS\tcaf\xe9\n"
	tbl, err := ReadFrom(strings.NewReader(input), Options{Name: "maf"})
	require.NoError(t, err)
	assert.Equal(t, "café", tbl.Value(0, "Note"))
}

func TestReadFrom_MixedEncodingLine(t *testing.T) {
	input := "Hugo_Symbol\tNote\tOther\nKRAS\tna\xefve\tcafé\n"
	tbl, err := ReadFrom(strings.NewReader(input), Options{Name: "maf"})
	require.NoError(t, err)
	assert.Equal(t, "naïve", tbl.Value(0, "Note"))
	assert.Equal(t, "café", tbl.Value(0, "Other"))
}

func TestRead_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exac.txt.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("CHROM\tPOS\n1\t100\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tbl, err := Read(path, Options{Name: "exac"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CHROM", "POS"}, tbl.Header)
	assert.Equal(t, "100", tbl.Value(0, "POS"))

	header, err := ReadHeader(path, Options{Name: "exac"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CHROM", "POS"}, header)

	info, err := Inspect(path, Options{Name: "exac"})
	require.NoError(t, err)
	assert.True(t, info.Gzip)
	assert.Equal(t, 1, info.Line)
}

func TestInspect_HeaderLine(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"header first", "CHROM\tPOS\n1\t100\n", 1},
		{"after comments", "##fileformat=ExAC\n#source\nCHROM\tPOS\n1\t100\n", 3},
		{"after blank line", "\n#c\n\nCHROM\tPOS\n", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			info, err := Inspect(path, Options{Name: "exac"})
			require.NoError(t, err)
			assert.Equal(t, []string{"CHROM", "POS"}, info.Columns)
			assert.Equal(t, tt.line, info.Line)
			assert.False(t, info.Gzip)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.txt"), Options{Name: "maf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr string
	}{
		{"0", 0, ""},
		{"42", 42, ""},
		{" 7 ", 7, ""},
		{"abc", 0, "not an integer"},
		{"", 0, "not an integer"},
		{"1.5", 0, "not an integer"},
		{"-3", 0, "negative count"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseCount("maf", 5, "t_alt_count", tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 5, perr.Line)
			assert.Equal(t, "t_alt_count", perr.Field)
			assert.Equal(t, tt.value, perr.Value)
			assert.Contains(t, perr.Error(), tt.wantErr)
		})
	}
}
