package variant

// Reasons a record lands in the reject partition.
const (
	ReasonLowDepth   = "low_depth"
	ReasonNonCoding  = "non_coding"
	ReasonSynonymous = "synonymous"
	ReasonCommon     = "population_common"
	ReasonGermline   = "germline"
	ReasonNotNovel   = "not_novel"
)

// Status holds the signals derived for a record.
type Status struct {
	Annotated bool // set once the signal annotator has run

	ReadDepth  int
	LowDepth   bool
	Coding     bool
	Synonymous bool

	// Population frequency join.
	PopulationMatched bool
	PopulationCounts  []int // one per population bucket, zero when unmatched
	TotalAlleleCount  int
	PopulationCommon  bool

	// Recurrence join.
	RecurrenceMatched bool
	Recurrence        int

	Identity string
	Override bool

	// Decision.
	Common  bool // population-common and not overridden
	Decided bool
	Pass    bool
	Reasons []string

	// Extra holds per-source output values keyed by column name.
	Extra map[string]string
}

// SetExtra records a source-provided output value.
func (s *Status) SetExtra(column, value string) {
	if s.Extra == nil {
		s.Extra = make(map[string]string)
	}
	s.Extra[column] = value
}

// GetExtra returns a source-provided output value, or "".
func (s *Status) GetExtra(column string) string {
	if s.Extra == nil {
		return ""
	}
	return s.Extra[column]
}
