package annotate

import "github.com/inodb/somatic-filter/internal/variant"

// Source joins an external reference table onto variant records.
type Source interface {
	Name() string         // e.g. "exac"
	Version() string      // e.g. "0.3"
	Columns() []ColumnDef // output columns this source provides
	Annotate(records []*variant.Record) error
}

// ColumnDef describes an output column.
type ColumnDef struct {
	Name        string // column header, e.g. "exac_ac_afr"
	Description string // human-readable description
}

// CoreColumns are appended to every output row, before source columns.
var CoreColumns = []ColumnDef{
	{Name: "read_depth", Description: "Reference plus alternate read count"},
	{Name: "low_read_depth", Description: "1 when read depth is at or below the minimum depth"},
	{Name: "coding", Description: "1 when the variant classification alters protein sequence"},
	{Name: "whitelist", Description: "1 when gene:protein change is on the whitelist"},
	{Name: "exac_common", Description: "1 when any population allele count exceeds the threshold"},
	{Name: "common_variant", Description: "1 when population-common and not whitelisted"},
	{Name: "filter_reason", Description: "Comma-separated reject reasons, empty on pass"},
}
