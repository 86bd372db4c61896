package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/montanaflynn/stats"

	"github.com/inodb/somatic-filter/internal/variant"
)

// Summary collects per-run partition statistics.
type Summary struct {
	Total   int
	Pass    int
	Reject  int
	Common  int            // records labeled common_variant
	Rescued int            // whitelisted records that would otherwise be rejected
	Reasons map[string]int // reject reason -> record count

	PassDepth   stats.Float64Data
	RejectDepth stats.Float64Data
}

// Summarize computes a Summary from the two partitions.
func Summarize(pass, reject []*variant.Record) Summary {
	s := Summary{
		Total:   len(pass) + len(reject),
		Pass:    len(pass),
		Reject:  len(reject),
		Reasons: make(map[string]int),
	}

	depths := make([]int, 0, len(pass))
	for _, r := range pass {
		depths = append(depths, r.Status.ReadDepth)
		if r.Status.Override && len(r.Status.Reasons) > 0 {
			s.Rescued++
		}
		if r.Status.Common {
			s.Common++
		}
	}
	s.PassDepth = stats.LoadRawData(depths)

	depths = make([]int, 0, len(reject))
	for _, r := range reject {
		depths = append(depths, r.Status.ReadDepth)
		for _, reason := range r.Status.Reasons {
			s.Reasons[reason]++
		}
		if r.Status.Common {
			s.Common++
		}
	}
	s.RejectDepth = stats.LoadRawData(depths)

	return s
}

// SummaryWriter writes a human-readable Summary as aligned columns.
type SummaryWriter struct {
	w *tabwriter.Writer
}

// NewSummaryWriter creates a summary writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{w: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// Write writes s and flushes.
func (sw *SummaryWriter) Write(s Summary) error {
	fmt.Fprintf(sw.w, "\nFilter Summary:\n")
	fmt.Fprintf(sw.w, "  Total variants:\t%d\n", s.Total)
	fmt.Fprintf(sw.w, "  Pass:\t%d\t(%s)\n", s.Pass, percent(s.Pass, s.Total))
	fmt.Fprintf(sw.w, "  Reject:\t%d\t(%s)\n", s.Reject, percent(s.Reject, s.Total))
	fmt.Fprintf(sw.w, "  Common variants:\t%d\n", s.Common)
	fmt.Fprintf(sw.w, "  Whitelist rescued:\t%d\n", s.Rescued)

	reasons := make([]string, 0, len(s.Reasons))
	for reason := range s.Reasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(sw.w, "    %s:\t%d\n", reason, s.Reasons[reason])
	}

	fmt.Fprintf(sw.w, "\n  Partition\tMean depth\tMedian depth\n")
	for _, p := range []struct {
		name string
		data stats.Float64Data
	}{
		{"pass", s.PassDepth},
		{"reject", s.RejectDepth},
	} {
		mean, median, err := meanMedian(p.data)
		if err != nil {
			return fmt.Errorf("%s depth: %w", p.name, err)
		}
		fmt.Fprintf(sw.w, "  %s\t%s\t%s\n", p.name, mean, median)
	}

	return sw.w.Flush()
}

func meanMedian(data stats.Float64Data) (string, string, error) {
	if data.Len() < 1 {
		return "N/A", "N/A", nil
	}
	mean, err := data.Mean()
	if err != nil {
		return "", "", err
	}
	median, err := data.Median()
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%.1f", mean), fmt.Sprintf("%.1f", median), nil
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
