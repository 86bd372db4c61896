// Package cosmic provides recurrence counts from a COSMIC mutation export,
// keyed by gene and protein change.
package cosmic

import (
	"github.com/inodb/somatic-filter/internal/datasource"
	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/table"
)

// DefaultMinCount is the recurrence count at which a variant is treated as
// a known somatic hotspot.
const DefaultMinCount = 3

// Key identifies a protein change within a gene.
type Key struct {
	Gene          string
	ProteinChange string
}

func (k Key) String() string {
	return k.Gene + " " + k.ProteinChange
}

// Counts maps a gene and protein change to its observed recurrence.
type Counts map[Key]int

// Load reads a COSMIC recurrence export from path.
func Load(path string) (Counts, error) {
	raw, err := table.Read(path, table.Options{Name: "cosmic"})
	if err != nil {
		return nil, err
	}
	return FromTable(raw)
}

// FromTable builds recurrence counts from a raw COSMIC table. Duplicate
// keys are rejected.
func FromTable(raw *table.Table) (Counts, error) {
	t, err := schema.COSMIC().Normalize(raw)
	if err != nil {
		return nil, err
	}

	counts := make(Counts, len(t.Rows))
	lines := make(map[Key]int, len(t.Rows))
	for _, row := range t.Rows {
		k := Key{Gene: row.Fields[0], ProteinChange: row.Fields[1]}
		n, err := datasource.ParseOptionalCount("cosmic", row.Line, schema.Count, row.Fields[2])
		if err != nil {
			return nil, err
		}
		if prev, dup := lines[k]; dup {
			return nil, &datasource.ReferenceDataError{Table: "cosmic", Key: k.String(), Lines: []int{prev, row.Line}}
		}
		lines[k] = row.Line
		counts[k] = n
	}
	return counts, nil
}

// Lookup returns the recurrence of a protein change, or zero.
func (c Counts) Lookup(gene, proteinChange string) (int, bool) {
	n, ok := c[Key{Gene: gene, ProteinChange: proteinChange}]
	return n, ok
}
