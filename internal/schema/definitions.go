package schema

import "strings"

// Canonical variant field names.
const (
	Gene                  = "gene"
	Chromosome            = "chromosome"
	StartPosition         = "start_position"
	EndPosition           = "end_position"
	RefAllele             = "ref_allele"
	AltAllele             = "alt_allele"
	ProteinChange         = "protein_change"
	VariantClassification = "variant_classification"
	RefCount              = "ref_count"
	AltCount              = "alt_count"
	Identity              = "alteration"
	Count                 = "count"
)

// Populations lists the ExAC population buckets, in output order.
var Populations = []string{"afr", "amr", "eas", "fin", "nfe", "oth", "sas"}

// MAF returns the schema of the somatic variant table. Column positions are
// preserved so the output can be written under the original header.
func MAF() *Schema {
	return &Schema{
		Name:    "maf",
		Version: "1",
		Fields: []Field{
			{Source: "Hugo_Symbol", Canonical: Gene},
			{Source: "Chromosome", Canonical: Chromosome},
			{Source: "Start_position", Aliases: []string{"Start_Position"}, Canonical: StartPosition},
			{Source: "Reference_Allele", Aliases: []string{"Reference.Allele"}, Canonical: RefAllele},
			{Source: "Tumor_Seq_Allele2", Aliases: []string{"Alternate.Allele"}, Canonical: AltAllele},
			{Source: "Protein_Change", Aliases: []string{"HGVSp_Short"}, Canonical: ProteinChange},
			{Source: "Variant_Classification", Canonical: VariantClassification},
			{Source: "t_ref_count", Aliases: []string{"REF_COUNT"}, Canonical: RefCount},
			{Source: "t_alt_count", Aliases: []string{"ALT_COUNT"}, Canonical: AltCount},
		},
		KeepUnmapped: true,
	}
}

// ExAC returns the schema of the formatted ExAC population frequency table.
func ExAC() *Schema {
	fields := []Field{
		{Source: "CHROM", Canonical: Chromosome},
		{Source: "POS", Canonical: StartPosition},
		{Source: "REF", Canonical: RefAllele},
		{Source: "ALT", Canonical: AltAllele},
		{Source: "AF", Canonical: "exac_af"},
		{Source: "AC", Canonical: "exac_ac"},
		{Source: "AN", Canonical: "exac_an"},
	}
	for _, pop := range Populations {
		fields = append(fields, Field{Source: "AC_" + strings.ToUpper(pop), Canonical: ExACCount(pop)})
	}
	for _, pop := range Populations {
		fields = append(fields, Field{Source: "AN_" + strings.ToUpper(pop), Canonical: ExACTotal(pop)})
	}
	return &Schema{Name: "exac", Version: "0.3", Fields: fields}
}

// ExACCount is the canonical name of a population's allele count.
func ExACCount(pop string) string { return "exac_ac_" + pop }

// ExACTotal is the canonical name of a population's allele number.
func ExACTotal(pop string) string { return "exac_an_" + pop }

// COSMIC returns the schema of a COSMIC recurrence count export.
func COSMIC() *Schema {
	return &Schema{
		Name:    "cosmic",
		Version: "1",
		Fields: []Field{
			{Source: "Gene name", Canonical: Gene},
			{Source: "Mutation AA", Canonical: ProteinChange},
			{Source: "count", Canonical: Count},
		},
	}
}

// Whitelist returns the schema of the headerless whitelist: the first four
// columns are chromosome, start, end and the gene:protein identity.
func Whitelist() *Schema {
	return &Schema{
		Name:    "whitelist",
		Version: "1",
		Fields: []Field{
			{Source: "0", Canonical: Chromosome},
			{Source: "1", Canonical: StartPosition},
			{Source: "2", Canonical: EndPosition},
			{Source: "3", Canonical: Identity},
		},
		Positional: true,
	}
}
