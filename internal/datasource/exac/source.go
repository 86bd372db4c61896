package exac

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/inodb/somatic-filter/internal/annotate"
	"github.com/inodb/somatic-filter/internal/schema"
	"github.com/inodb/somatic-filter/internal/variant"
)

// Source wraps an ExAC Reference as an annotate.Source.
type Source struct {
	ref         Reference
	commonality Commonality
	logger      *zap.Logger
}

// NewSource creates an annotate.Source backed by ref.
func NewSource(ref Reference, commonality Commonality) *Source {
	return &Source{ref: ref, commonality: commonality, logger: zap.NewNop()}
}

// SetLogger sets the logger for join statistics.
func (s *Source) SetLogger(l *zap.Logger) {
	s.logger = l
}

func (s *Source) Name() string    { return "exac" }
func (s *Source) Version() string { return schema.ExAC().Version }

func (s *Source) Columns() []annotate.ColumnDef {
	cols := []annotate.ColumnDef{
		{Name: canonical[4], Description: "ExAC allele frequency"},
		{Name: canonical[5], Description: "ExAC allele count"},
		{Name: canonical[6], Description: "ExAC allele number"},
	}
	for _, pop := range schema.Populations {
		cols = append(cols, annotate.ColumnDef{Name: schema.ExACCount(pop), Description: "ExAC allele count, " + pop})
	}
	for _, pop := range schema.Populations {
		cols = append(cols, annotate.ColumnDef{Name: schema.ExACTotal(pop), Description: "ExAC allele number, " + pop})
	}
	return cols
}

// Annotate left-joins the reference onto records. Unmatched records get
// zero for every count and frequency.
func (s *Source) Annotate(records []*variant.Record) error {
	keys := make([]variant.Key, len(records))
	for i, r := range records {
		keys[i] = r.Key()
	}

	found, err := s.ref.BatchLookup(keys)
	if err != nil {
		return err
	}

	matched, common := 0, 0
	for _, r := range records {
		e, ok := found[r.Key()]
		if !ok {
			e = emptyEntry()
		} else {
			matched++
		}

		st := &r.Status
		st.PopulationMatched = ok
		st.PopulationCounts = e.Counts
		st.TotalAlleleCount = e.AC
		st.PopulationCommon = s.commonality.IsCommon(e.Counts)
		if st.PopulationCommon {
			common++
		}

		st.SetExtra(canonical[4], strconv.FormatFloat(e.AF, 'g', -1, 64))
		st.SetExtra(canonical[5], strconv.Itoa(e.AC))
		st.SetExtra(canonical[6], strconv.Itoa(e.AN))
		for i, pop := range schema.Populations {
			st.SetExtra(schema.ExACCount(pop), strconv.Itoa(e.Counts[i]))
			st.SetExtra(schema.ExACTotal(pop), strconv.Itoa(e.Totals[i]))
		}
	}

	s.logger.Info("joined ExAC",
		zap.Int("variants", len(records)),
		zap.Int("matched", matched),
		zap.Int("common", common),
		zap.Int("threshold", s.commonality.Threshold),
		zap.Stringer("aggregate", s.commonality.Aggregate))
	return nil
}
