package annotate

import (
	"strings"

	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/table"
	"github.com/inodb/somatic-filter/internal/variant"
)

// Variant classifications expected to alter protein sequence.
var codingClassifications = map[string]bool{
	"Missense_Mutation": true,
	"Nonsense_Mutation": true,
	"Nonstop_Mutation":  true,
	"Splice_Site":       true,
	"Frame_Shift_Ins":   true,
	"Frame_Shift_Del":   true,
	"In_Frame_Ins":      true,
	"In_Frame_Del":      true,
}

// Classifications kept when synonymous removal is enabled.
var nonSynonymousClassifications = map[string]bool{
	"Missense_Mutation": true,
	"Nonsense_Mutation": true,
	"Splice_Site":       true,
}

// ReadDepth parses the record's reference and alternate counts and returns
// their sum.
func ReadDepth(r *variant.Record) (int, error) {
	ref, err := table.ParseCount("maf", r.Line, schema.RefCount, r.RefCount)
	if err != nil {
		return 0, err
	}
	alt, err := table.ParseCount("maf", r.Line, schema.AltCount, r.AltCount)
	if err != nil {
		return 0, err
	}
	return ref + alt, nil
}

// IsLowDepth reports whether depth is at or below minDepth. A minDepth of
// zero disables the check.
func IsLowDepth(depth, minDepth int) bool {
	return minDepth > 0 && depth <= minDepth
}

// IsCoding reports whether the variant classification is a coding change.
func IsCoding(classification string) bool {
	return codingClassifications[classification]
}

// IsSynonymous reports whether the classification falls outside the
// missense, nonsense and splice site classes.
func IsSynonymous(classification string) bool {
	return !nonSynonymousClassifications[classification]
}

// Identity builds the whitelist key gene:suffix, where suffix is the part of
// the protein change after its "p." prefix. A missing prefix gives an empty
// suffix.
func Identity(gene, proteinChange string) string {
	_, suffix, ok := strings.Cut(proteinChange, "p.")
	if !ok {
		suffix = ""
	}
	return gene + ":" + suffix
}
