// Package filter decides, from annotated signals, which variants pass and
// partitions the variant table accordingly.
package filter

import (
	"fmt"
	"strings"
)

// Mode selects the pass/reject rule.
type Mode int

const (
	// ModeSomatic rejects low-depth, non-coding and population-common
	// variants.
	ModeSomatic Mode = iota
	// ModeGermline passes a variant unless it is population-common.
	ModeGermline
	// ModeRecurrence passes variants absent from ExAC or recurrent in COSMIC.
	ModeRecurrence
)

func (m Mode) String() string {
	switch m {
	case ModeSomatic:
		return "somatic"
	case ModeGermline:
		return "germline"
	case ModeRecurrence:
		return "recurrence"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// UnmarshalText parses a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "somatic", "":
		*m = ModeSomatic
	case "germline":
		*m = ModeGermline
	case "recurrence":
		*m = ModeRecurrence
	default:
		return fmt.Errorf("unknown filter mode %q (want somatic, germline or recurrence)", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Policy configures Decide. Depth and commonality thresholds are applied
// earlier, by the annotator and the ExAC source; the policy decides how the
// resulting flags combine.
type Policy struct {
	Mode Mode

	// RemoveSynonymous rejects classifications other than missense,
	// nonsense and splice site.
	RemoveSynonymous bool

	// MinRecurrence is the COSMIC count at which ModeRecurrence passes a
	// variant seen in ExAC.
	MinRecurrence int
}

// DefaultPolicy returns the somatic policy.
func DefaultPolicy() Policy {
	return Policy{Mode: ModeSomatic, MinRecurrence: 3}
}
