package annotate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inodb/somatic-filter/internal/table"
	"github.com/inodb/somatic-filter/internal/variant"
)

// recordingSource records the records it was asked to annotate.
type recordingSource struct {
	name string
	seen int
	err  error
}

func (s *recordingSource) Name() string    { return s.name }
func (s *recordingSource) Version() string { return "test" }
func (s *recordingSource) Columns() []ColumnDef {
	return []ColumnDef{{Name: s.name + "_col", Description: "test column"}}
}

func (s *recordingSource) Annotate(records []*variant.Record) error {
	for _, r := range records {
		if !r.Status.Annotated {
			return errors.New("source ran before core signals")
		}
		r.Status.SetExtra(s.name+"_col", r.Gene)
		s.seen++
	}
	return s.err
}

func newRecord(gene, pc, class, ref, alt string) *variant.Record {
	return &variant.Record{
		Line:           2,
		Gene:           gene,
		Chrom:          "1",
		Pos:            "100",
		Ref:            "A",
		Alt:            "T",
		ProteinChange:  pc,
		Classification: class,
		RefCount:       ref,
		AltCount:       alt,
	}
}

func TestAnnotator_Annotate(t *testing.T) {
	ann := NewAnnotator(10)

	r := newRecord("KRAS", "p.G12C", "Missense_Mutation", "4", "6")
	require.NoError(t, ann.Annotate(r))

	st := r.Status
	assert.True(t, st.Annotated)
	assert.Equal(t, 10, st.ReadDepth)
	assert.True(t, st.LowDepth)
	assert.True(t, st.Coding)
	assert.False(t, st.Synonymous)
	assert.Equal(t, "KRAS:G12C", st.Identity)
}

func TestAnnotator_AnnotateAllRunsSources(t *testing.T) {
	ann := NewAnnotator(0)
	ann.SetLogger(zap.NewNop())

	a := &recordingSource{name: "a"}
	b := &recordingSource{name: "b"}
	ann.AddSource(a)
	ann.AddSource(b)

	records := []*variant.Record{
		newRecord("KRAS", "p.G12C", "Missense_Mutation", "40", "12"),
		newRecord("TP53", "", "Silent", "30", "3"),
	}
	require.NoError(t, ann.AnnotateAll(records))

	assert.Equal(t, 2, a.seen)
	assert.Equal(t, 2, b.seen)
	assert.Equal(t, "TP53", records[1].Status.GetExtra("b_col"))
	assert.False(t, records[0].Status.LowDepth)
	assert.True(t, records[1].Status.Synonymous)

	require.Len(t, ann.Sources(), 2)
	assert.Equal(t, []ColumnDef{
		{Name: "a_col", Description: "test column"},
		{Name: "b_col", Description: "test column"},
	}, ann.Columns())
}

func TestAnnotator_ParseErrorStopsBeforeSources(t *testing.T) {
	ann := NewAnnotator(0)
	src := &recordingSource{name: "a"}
	ann.AddSource(src)

	records := []*variant.Record{
		newRecord("KRAS", "p.G12C", "Missense_Mutation", "40", "x"),
	}
	err := ann.AnnotateAll(records)

	var perr *table.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, src.seen)
}

func TestAnnotator_SourceErrorIsWrapped(t *testing.T) {
	ann := NewAnnotator(0)
	ann.AddSource(&recordingSource{name: "broken", err: errors.New("boom")})

	err := ann.AnnotateAll([]*variant.Record{newRecord("KRAS", "p.G12C", "Missense_Mutation", "1", "1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "join broken: boom")
}

func TestCoreColumns(t *testing.T) {
	var names []string
	for _, c := range CoreColumns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"read_depth", "low_read_depth", "coding", "whitelist",
		"exac_common", "common_variant", "filter_reason",
	}, names)
}
