package filter

import (
	"errors"
	"fmt"

	"github.com/inodb/somatic-filter/internal/variant"
)

// ErrNotAnnotated is returned when a record reaches the combiner without
// its signals computed.
var ErrNotAnnotated = errors.New("record has not been annotated")

// ErrNotDecided is returned by Partition for a record Decide has not seen.
var ErrNotDecided = errors.New("record has not been decided")

// Decide sets the pass flag, reject reasons and commonality label of every
// record. A whitelisted record always passes.
func Decide(records []*variant.Record, p Policy) error {
	for _, r := range records {
		st := &r.Status
		if !st.Annotated {
			return fmt.Errorf("row %d: %w", r.Index, ErrNotAnnotated)
		}

		st.Reasons = rejectReasons(st, p)
		st.Pass = len(st.Reasons) == 0 || st.Override
		st.Common = st.PopulationCommon && !st.Override
		st.Decided = true
	}
	return nil
}

// rejectReasons lists why a record is a reject candidate under p, before
// the whitelist is applied.
func rejectReasons(st *variant.Status, p Policy) []string {
	var reasons []string
	if st.LowDepth {
		reasons = append(reasons, variant.ReasonLowDepth)
	}
	if p.RemoveSynonymous && st.Synonymous {
		reasons = append(reasons, variant.ReasonSynonymous)
	}

	switch p.Mode {
	case ModeSomatic:
		if !st.Coding {
			reasons = append(reasons, variant.ReasonNonCoding)
		}
		if st.PopulationCommon {
			reasons = append(reasons, variant.ReasonCommon)
		}
	case ModeGermline:
		if st.PopulationCommon {
			reasons = append(reasons, variant.ReasonGermline)
		}
	case ModeRecurrence:
		if st.TotalAlleleCount != 0 && st.Recurrence < p.MinRecurrence {
			reasons = append(reasons, variant.ReasonNotNovel)
		}
	}
	return reasons
}

// Partition splits decided records into pass and reject, each in input
// order. Every record lands in exactly one of the two.
func Partition(records []*variant.Record) (pass, reject []*variant.Record, err error) {
	for _, r := range records {
		if !r.Status.Decided {
			return nil, nil, fmt.Errorf("row %d: %w", r.Index, ErrNotDecided)
		}
		if r.Status.Pass {
			pass = append(pass, r)
		} else {
			reject = append(reject, r)
		}
	}
	return pass, reject, nil
}
