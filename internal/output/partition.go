package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inodb/somatic-filter/internal/annotate"
	"github.com/inodb/somatic-filter/internal/variant"
)

// Files names the two partition files of a run.
type Files struct {
	Dir        string
	Prefix     string
	PassName   string
	RejectName string
}

// DefaultFiles returns pass.txt and reject.txt in the working directory.
func DefaultFiles() Files {
	return Files{Dir: ".", PassName: "pass.txt", RejectName: "reject.txt"}
}

// PassPath returns the pass partition path.
func (f Files) PassPath() string {
	return filepath.Join(f.Dir, f.Prefix+f.PassName)
}

// RejectPath returns the reject partition path.
func (f Files) RejectPath() string {
	return filepath.Join(f.Dir, f.Prefix+f.RejectName)
}

// WritePartition writes the pass and reject records to their files. Both
// files share the same header.
func WritePartition(f Files, header []string, sources []annotate.ColumnDef, pass, reject []*variant.Record) error {
	if f.Dir != "" {
		if err := os.MkdirAll(f.Dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := writeFile(f.PassPath(), header, sources, pass); err != nil {
		return err
	}
	return writeFile(f.RejectPath(), header, sources, reject)
}

func writeFile(path string, header []string, sources []annotate.ColumnDef, records []*variant.Record) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	tw := NewTableWriter(out, header, sources)
	if err := tw.WriteHeader(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, r := range records {
		if err := tw.WriteRecord(r); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
