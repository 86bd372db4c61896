// Package annotate derives per-variant signals (read depth, coding status,
// whitelist identity) and joins reference sources onto variant records.
package annotate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/somatic-filter/internal/variant"
)

// Annotator computes signals for variant records and runs the configured
// reference sources over them.
type Annotator struct {
	minDepth int
	sources  []Source
	logger   *zap.Logger
}

// NewAnnotator creates an annotator. A minDepth of zero disables the
// low-depth flag.
func NewAnnotator(minDepth int) *Annotator {
	return &Annotator{
		minDepth: minDepth,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// AddSource registers a reference source. Sources run in registration order.
func (a *Annotator) AddSource(s Source) {
	a.sources = append(a.sources, s)
}

// Sources returns the registered sources.
func (a *Annotator) Sources() []Source {
	return a.sources
}

// Columns returns the output columns provided by the registered sources.
func (a *Annotator) Columns() []ColumnDef {
	var cols []ColumnDef
	for _, s := range a.sources {
		cols = append(cols, s.Columns()...)
	}
	return cols
}

// Annotate computes the signals of a single record.
func (a *Annotator) Annotate(r *variant.Record) error {
	depth, err := ReadDepth(r)
	if err != nil {
		return err
	}

	st := &r.Status
	st.ReadDepth = depth
	st.LowDepth = IsLowDepth(depth, a.minDepth)
	st.Coding = IsCoding(r.Classification)
	st.Synonymous = IsSynonymous(r.Classification)
	st.Identity = Identity(r.Gene, r.ProteinChange)
	st.Annotated = true
	return nil
}

// AnnotateAll annotates every record and then joins each source onto the
// full set. The first failure aborts the run; no record is skipped.
func (a *Annotator) AnnotateAll(records []*variant.Record) error {
	for _, r := range records {
		if err := a.Annotate(r); err != nil {
			return fmt.Errorf("annotate variant: %w", err)
		}
	}

	for _, s := range a.sources {
		if err := s.Annotate(records); err != nil {
			return fmt.Errorf("join %s: %w", s.Name(), err)
		}
		a.logger.Debug("joined reference source",
			zap.String("source", s.Name()),
			zap.String("version", s.Version()))
	}

	if len(records) == 0 {
		a.logger.Info("0 variants processed")
	}
	return nil
}
