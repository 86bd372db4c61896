package cosmic

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/inodb/somatic-filter/internal/annotate"
	"github.com/inodb/somatic-filter/internal/variant"
)

// Source wraps Counts as an annotate.Source.
type Source struct {
	counts  Counts
	version string
	logger  *zap.Logger
}

// NewSource creates an annotate.Source for the given COSMIC release.
func NewSource(counts Counts, version string) *Source {
	if version == "" {
		version = "unknown"
	}
	return &Source{counts: counts, version: version, logger: zap.NewNop()}
}

// SetLogger sets the logger for join statistics.
func (s *Source) SetLogger(l *zap.Logger) {
	s.logger = l
}

func (s *Source) Name() string    { return "cosmic" }
func (s *Source) Version() string { return s.version }

// column is the output column, named after the release, e.g. COSMIC_v84_counts.
func (s *Source) column() string {
	return "COSMIC_v" + s.version + "_counts"
}

func (s *Source) Columns() []annotate.ColumnDef {
	return []annotate.ColumnDef{
		{Name: s.column(), Description: "COSMIC recurrence of gene and protein change"},
	}
}

// Annotate sets the recurrence count of every record, zero when unmatched.
func (s *Source) Annotate(records []*variant.Record) error {
	matched := 0
	for _, r := range records {
		n, ok := s.counts.Lookup(r.Gene, r.ProteinChange)
		if ok {
			matched++
		}
		r.Status.RecurrenceMatched = ok
		r.Status.Recurrence = n
		r.Status.SetExtra(s.column(), strconv.Itoa(n))
	}

	s.logger.Info("joined COSMIC",
		zap.String("version", s.version),
		zap.Int("variants", len(records)),
		zap.Int("matched", matched))
	return nil
}
