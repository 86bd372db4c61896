// Package variant holds the in-memory somatic variant record and the
// signals derived for it during a filter run.
package variant

import (
	"fmt"

	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/table"
)

// Key identifies a variant by exact coordinate and alleles. Reference
// frequency tables are joined on it.
type Key struct {
	Chrom string
	Pos   string
	Ref   string
	Alt   string
}

func (k Key) String() string {
	return k.Chrom + ":" + k.Pos + ":" + k.Ref + ">" + k.Alt
}

// Record is one row of a normalized variant table. Input fields hold the
// text found in the file and are never modified; derived signals live in
// Status.
type Record struct {
	Index  int // zero-based row position in the input table
	Line   int // line number in the input file
	Fields []string

	Gene           string
	Chrom          string
	Pos            string
	Ref            string
	Alt            string
	ProteinChange  string
	Classification string
	RefCount       string
	AltCount       string

	Status Status
}

// Key returns the coordinate join key.
func (r *Record) Key() Key {
	return Key{Chrom: r.Chrom, Pos: r.Pos, Ref: r.Ref, Alt: r.Alt}
}

// FromTable builds records from a table normalized with schema.MAF.
func FromTable(t *table.Table) ([]*Record, error) {
	cols := make(map[string]int)
	for _, name := range schema.MAF().Canonical() {
		idx := t.Index(name)
		if idx < 0 {
			return nil, fmt.Errorf("variant table is not normalized: missing %s", name)
		}
		cols[name] = idx
	}

	records := make([]*Record, len(t.Rows))
	for i, row := range t.Rows {
		f := row.Fields
		records[i] = &Record{
			Index:          i,
			Line:           row.Line,
			Fields:         f,
			Gene:           f[cols[schema.Gene]],
			Chrom:          f[cols[schema.Chromosome]],
			Pos:            f[cols[schema.StartPosition]],
			Ref:            f[cols[schema.RefAllele]],
			Alt:            f[cols[schema.AltAllele]],
			ProteinChange:  f[cols[schema.ProteinChange]],
			Classification: f[cols[schema.VariantClassification]],
			RefCount:       f[cols[schema.RefCount]],
			AltCount:       f[cols[schema.AltCount]],
		}
	}
	return records, nil
}
