// Package exac joins ExAC population allele counts onto variant records and
// decides whether a variant is common in any population.
package exac

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/somatic-filter/internal/datasource"
	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/table"
	"github.com/inodb/somatic-filter/internal/variant"
)

// Entry holds the allele counts of one ExAC site.
type Entry struct {
	AF     float64
	AC     int
	AN     int
	Counts []int // allele count per population, in schema.Populations order
	Totals []int // allele number per population
}

// emptyEntry is the fill value for variants absent from the table.
func emptyEntry() Entry {
	return Entry{
		Counts: make([]int, len(schema.Populations)),
		Totals: make([]int, len(schema.Populations)),
	}
}

// Reference looks up ExAC entries for a batch of variant keys. Keys without
// an entry are absent from the returned map.
type Reference interface {
	BatchLookup(keys []variant.Key) (map[variant.Key]Entry, error)
}

// Table is an in-memory ExAC reference keyed by exact coordinate and
// alleles.
type Table struct {
	entries map[variant.Key]Entry
}

// Load reads and validates an ExAC table from path.
func Load(path string) (*Table, error) {
	raw, err := table.Read(path, table.Options{Name: "exac"})
	if err != nil {
		return nil, err
	}
	return FromTable(raw)
}

// FromTable builds the reference from a raw ExAC table. Duplicate keys are
// rejected.
func FromTable(raw *table.Table) (*Table, error) {
	t, err := schema.ExAC().Normalize(raw)
	if err != nil {
		return nil, err
	}

	entries := make(map[variant.Key]Entry, len(t.Rows))
	lines := make(map[variant.Key]int, len(t.Rows))
	for _, row := range t.Rows {
		key, entry, err := parseRow(row.Line, row.Fields)
		if err != nil {
			return nil, err
		}
		if prev, dup := lines[key]; dup {
			return nil, &datasource.ReferenceDataError{Table: "exac", Key: key.String(), Lines: []int{prev, row.Line}}
		}
		lines[key] = row.Line
		entries[key] = entry
	}

	return &Table{entries: entries}, nil
}

// Len returns the number of sites in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the entry for key. Unmatched keys return an all-zero entry.
func (t *Table) Lookup(key variant.Key) (Entry, bool) {
	e, ok := t.entries[key]
	if !ok {
		return emptyEntry(), false
	}
	return e, true
}

// BatchLookup implements Reference.
func (t *Table) BatchLookup(keys []variant.Key) (map[variant.Key]Entry, error) {
	out := make(map[variant.Key]Entry, len(keys))
	for _, k := range keys {
		if e, ok := t.entries[k]; ok {
			out[k] = e
		}
	}
	return out, nil
}

// canonical holds the ExAC column names in schema order.
var canonical = schema.ExAC().Canonical()

// parseRow converts a row in schema.ExAC canonical order into a key and
// entry. Missing cells read as zero.
func parseRow(line int, fields []string) (variant.Key, Entry, error) {
	key := variant.Key{Chrom: fields[0], Pos: fields[1], Ref: fields[2], Alt: fields[3]}

	e := emptyEntry()
	if !datasource.IsMissing(fields[4]) {
		af, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
		if err != nil || af < 0 {
			return key, e, &table.ParseError{Table: "exac", Line: line, Field: canonical[4], Value: fields[4], Message: "not a non-negative number"}
		}
		e.AF = af
	}

	var err error
	if e.AC, err = datasource.ParseOptionalCount("exac", line, canonical[5], fields[5]); err != nil {
		return key, e, err
	}
	if e.AN, err = datasource.ParseOptionalCount("exac", line, canonical[6], fields[6]); err != nil {
		return key, e, err
	}

	n := len(schema.Populations)
	for i := 0; i < n; i++ {
		c := 7 + i
		if e.Counts[i], err = datasource.ParseOptionalCount("exac", line, canonical[c], fields[c]); err != nil {
			return key, e, err
		}
		c = 7 + n + i
		if e.Totals[i], err = datasource.ParseOptionalCount("exac", line, canonical[c], fields[c]); err != nil {
			return key, e, err
		}
	}
	return key, e, nil
}

// Aggregate selects how population counts are compared to the threshold.
type Aggregate int

const (
	// AggregateAny flags a variant when any single population exceeds the
	// threshold.
	AggregateAny Aggregate = iota
	// AggregateSum flags a variant when the summed population counts exceed
	// the threshold.
	AggregateSum
)

func (a Aggregate) String() string {
	switch a {
	case AggregateAny:
		return "any"
	case AggregateSum:
		return "sum"
	}
	return fmt.Sprintf("Aggregate(%d)", int(a))
}

// UnmarshalText parses "any" or "sum".
func (a *Aggregate) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "any", "":
		*a = AggregateAny
	case "sum":
		*a = AggregateSum
	default:
		return fmt.Errorf("unknown aggregate %q (want any or sum)", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Aggregate) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// DefaultThreshold is the population allele count above which a variant is
// considered common.
const DefaultThreshold = 10

// Commonality decides whether population counts make a variant common.
// The comparison is strict: a count equal to Threshold is not common.
type Commonality struct {
	Threshold int
	Aggregate Aggregate
}

// DefaultCommonality returns the any-population, threshold 10 rule.
func DefaultCommonality() Commonality {
	return Commonality{Threshold: DefaultThreshold, Aggregate: AggregateAny}
}

// IsCommon applies the rule to per-population counts.
func (c Commonality) IsCommon(counts []int) bool {
	if c.Aggregate == AggregateSum {
		sum := 0
		for _, n := range counts {
			sum += n
		}
		return sum > c.Threshold
	}
	for _, n := range counts {
		if n > c.Threshold {
			return true
		}
	}
	return false
}
