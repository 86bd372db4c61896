package exac

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/somatic-filter/internal/datasource"
	"github.com/inodb/somatic-filter/internal/table"
	"github.com/inodb/somatic-filter/internal/variant"
)

var exacHeader = strings.Join([]string{
	"CHROM", "POS", "REF", "ALT", "AF", "AC", "AN",
	"AC_AFR", "AC_AMR", "AC_EAS", "AC_FIN", "AC_NFE", "AC_OTH", "AC_SAS",
	"AN_AFR", "AN_AMR", "AN_EAS", "AN_FIN", "AN_NFE", "AN_OTH", "AN_SAS",
}, "\t")

// Small test fixture in formatted ExAC r0.3 layout.
const exacRows = `1	100	A	T	0.25	30	120	0	2	0	0	11	0	17	10	10	10	10	50	10	20
1	200	G	C	1e-05	1	121412	0	0	0	0	1	0	0	10406	11578	8654	6614	66740	908	16512
12	25398284	C	A	.	.	.	.	.	.	.	.	.	.	.	.	.	.	.	.	.
17	7577120	C	T	0.001	20	20000	3	3	3	3	3	2	3	100	100	100	100	100	100	100
`

func writeExAC(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exac.txt")
	require.NoError(t, os.WriteFile(path, []byte(exacHeader+"\n"+rows), 0644))
	return path
}

func TestLoadAndLookup(t *testing.T) {
	ref, err := Load(writeExAC(t, exacRows))
	require.NoError(t, err)
	assert.Equal(t, 4, ref.Len())

	e, ok := ref.Lookup(variant.Key{Chrom: "1", Pos: "100", Ref: "A", Alt: "T"})
	require.True(t, ok)
	assert.InDelta(t, 0.25, e.AF, 1e-9)
	assert.Equal(t, 30, e.AC)
	assert.Equal(t, 120, e.AN)
	assert.Equal(t, []int{0, 2, 0, 0, 11, 0, 17}, e.Counts)
	assert.Equal(t, []int{10, 10, 10, 10, 50, 10, 20}, e.Totals)

	// Missing cells read as zero.
	e, ok = ref.Lookup(variant.Key{Chrom: "12", Pos: "25398284", Ref: "C", Alt: "A"})
	require.True(t, ok)
	assert.Zero(t, e.AF)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0}, e.Counts)

	// Miss: zero entry with one slot per population.
	e, ok = ref.Lookup(variant.Key{Chrom: "1", Pos: "100", Ref: "A", Alt: "G"})
	assert.False(t, ok)
	assert.Len(t, e.Counts, 7)
	assert.Len(t, e.Totals, 7)
}

func TestLookup_ExactTextKey(t *testing.T) {
	ref, err := Load(writeExAC(t, exacRows))
	require.NoError(t, err)

	// Keys are compared as text: "chr1" and "0100" are different sites.
	_, ok := ref.Lookup(variant.Key{Chrom: "chr1", Pos: "100", Ref: "A", Alt: "T"})
	assert.False(t, ok)
	_, ok = ref.Lookup(variant.Key{Chrom: "1", Pos: "0100", Ref: "A", Alt: "T"})
	assert.False(t, ok)
}

func TestBatchLookup(t *testing.T) {
	ref, err := Load(writeExAC(t, exacRows))
	require.NoError(t, err)

	hit := variant.Key{Chrom: "17", Pos: "7577120", Ref: "C", Alt: "T"}
	miss := variant.Key{Chrom: "2", Pos: "1", Ref: "A", Alt: "C"}
	got, err := ref.BatchLookup([]variant.Key{hit, miss, hit})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 20, got[hit].AC)
}

func TestLoad_DuplicateKey(t *testing.T) {
	rows := exacRows + "1	100	A	T	0.5	1	2	0	0	0	0	0	0	0	0	0	0	0	0	0	0\n"
	_, err := Load(writeExAC(t, rows))

	var rerr *datasource.ReferenceDataError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "exac", rerr.Table)
	assert.Equal(t, "1:100:A>T", rerr.Key)
	assert.Equal(t, []int{2, 6}, rerr.Lines)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exac.txt")
	header := strings.Replace(exacHeader, "\tAC_NFE", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(header+"\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AC_NFE")
}

func TestLoad_BadCount(t *testing.T) {
	rows := "1	100	A	T	0.25	many	120	0	0	0	0	0	0	0	0	0	0	0	0	0	0\n"
	_, err := Load(writeExAC(t, rows))

	var perr *table.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "exac_ac", perr.Field)
	assert.Equal(t, 2, perr.Line)
}

func TestLoad_BadFrequency(t *testing.T) {
	rows := "1	100	A	T	-0.1	1	120	0	0	0	0	0	0	0	0	0	0	0	0	0	0\n"
	_, err := Load(writeExAC(t, rows))

	var perr *table.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "exac_af", perr.Field)
}

func TestCommonality(t *testing.T) {
	tests := []struct {
		name   string
		rule   Commonality
		counts []int
		want   bool
	}{
		{"all zero", DefaultCommonality(), []int{0, 0, 0, 0, 0, 0, 0}, false},
		{"equal to threshold", DefaultCommonality(), []int{10, 0, 0, 0, 0, 0, 0}, false},
		{"one above threshold", DefaultCommonality(), []int{0, 0, 0, 0, 11, 0, 0}, true},
		{"any: spread below threshold", DefaultCommonality(), []int{3, 3, 3, 3, 3, 2, 3}, false},
		{"sum: spread above threshold", Commonality{Threshold: 10, Aggregate: AggregateSum}, []int{3, 3, 3, 3, 3, 2, 3}, true},
		{"sum: equal to threshold", Commonality{Threshold: 10, Aggregate: AggregateSum}, []int{5, 5, 0, 0, 0, 0, 0}, false},
		{"zero threshold", Commonality{Threshold: 0}, []int{0, 0, 1, 0, 0, 0, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.IsCommon(tt.counts))
		})
	}
}

func TestAggregate_Text(t *testing.T) {
	var a Aggregate
	require.NoError(t, a.UnmarshalText([]byte("sum")))
	assert.Equal(t, AggregateSum, a)
	require.NoError(t, a.UnmarshalText([]byte("any")))
	assert.Equal(t, AggregateAny, a)
	assert.Error(t, a.UnmarshalText([]byte("max")))

	text, err := AggregateSum.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "sum", string(text))
}
