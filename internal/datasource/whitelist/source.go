package whitelist

import (
	"go.uber.org/zap"

	"github.com/inodb/somatic-filter/internal/annotate"
	"github.com/inodb/somatic-filter/internal/variant"
)

// Source wraps a Set as an annotate.Source. It adds no output columns of
// its own; the override flag is written as the core "whitelist" column.
type Source struct {
	set    *Set
	logger *zap.Logger
}

// NewSource creates an annotate.Source backed by set.
func NewSource(set *Set) *Source {
	if set == nil {
		set = Empty()
	}
	return &Source{set: set, logger: zap.NewNop()}
}

// SetLogger sets the logger for match statistics.
func (s *Source) SetLogger(l *zap.Logger) {
	s.logger = l
}

func (s *Source) Name() string                  { return "whitelist" }
func (s *Source) Version() string               { return "1" }
func (s *Source) Columns() []annotate.ColumnDef { return nil }

// Annotate flags records whose gene:protein identity is whitelisted.
func (s *Source) Annotate(records []*variant.Record) error {
	matched := 0
	for _, r := range records {
		id := r.Status.Identity
		if id == "" {
			id = annotate.Identity(r.Gene, r.ProteinChange)
			r.Status.Identity = id
		}
		r.Status.Override = s.set.Contains(id)
		if r.Status.Override {
			matched++
		}
	}

	s.logger.Info("matched whitelist",
		zap.Int("entries", s.set.Len()),
		zap.Int("variants", len(records)),
		zap.Int("matched", matched))
	return nil
}
