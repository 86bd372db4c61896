// Package whitelist loads curated somatic sites that the filter must never
// reject.
package whitelist

import (
	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/table"
)

// Entry is one whitelisted site. Only Identity takes part in matching.
type Entry struct {
	Chrom    string
	Start    string
	End      string
	Identity string // gene:protein change, e.g. "KRAS:G12C"
}

// Set is a collection of whitelisted identities.
type Set struct {
	entries    []Entry
	identities map[string]bool
}

// Empty returns a set that matches nothing, used when no whitelist is
// configured.
func Empty() *Set {
	return &Set{identities: map[string]bool{}}
}

// Load reads a headerless whitelist file.
func Load(path string) (*Set, error) {
	raw, err := table.Read(path, table.Options{Name: "whitelist", Headerless: true})
	if err != nil {
		return nil, err
	}
	return FromTable(raw)
}

// FromTable builds a set from a headerless table whose first four columns
// are chromosome, start, end and identity.
func FromTable(raw *table.Table) (*Set, error) {
	if raw.Len() == 0 {
		return Empty(), nil
	}

	t, err := schema.Whitelist().Normalize(raw)
	if err != nil {
		return nil, err
	}

	s := &Set{
		entries:    make([]Entry, 0, len(t.Rows)),
		identities: make(map[string]bool, len(t.Rows)),
	}
	for _, row := range t.Rows {
		e := Entry{
			Chrom:    row.Fields[0],
			Start:    row.Fields[1],
			End:      row.Fields[2],
			Identity: row.Fields[3],
		}
		s.entries = append(s.entries, e)
		s.identities[e.Identity] = true
	}
	return s, nil
}

// Contains reports whether identity is whitelisted.
func (s *Set) Contains(identity string) bool {
	return s.identities[identity]
}

// Len returns the number of whitelist entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entries returns the whitelist entries in file order.
func (s *Set) Entries() []Entry {
	return s.entries
}
