package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/reviewminer/reviewminer/internal/model"
)

// Renderer writes records and verdicts as JSON or Markdown.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer. Summaries go to out, usually stdout.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the value as indented JSON, to the path or to the
// summary writer when the path is "-" or empty.
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = r.out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderMarkdown writes a human-readable report of the record.
func (r *Renderer) RenderMarkdown(rec *model.Record, path string) error {
	var b strings.Builder
	b.WriteString("# Extraction Report\n\n")

	if rec.LitSearchDate != "" {
		fmt.Fprintf(&b, "- **Last literature search:** %s\n", rec.LitSearchDate)
	}
	if rec.Studies != nil {
		fmt.Fprintf(&b, "- **Included studies:** %d (RCT %d, cohort %d, case-control %d, cross-sectional %d, NRSI %d)\n",
			rec.Studies.Total, rec.Studies.RCT, rec.Studies.Cohort,
			rec.Studies.CaseControl, rec.Studies.CrossSectional, rec.Studies.NRSI)
	}
	if rec.Databases != nil {
		fmt.Fprintf(&b, "- **Databases (%d):** %s\n", rec.Databases.NumDatabases, strings.Join(rec.Databases.DatabaseList, ", "))
	}
	if len(rec.Regions) > 0 {
		fmt.Fprintf(&b, "- **Regions:** %s\n", strings.Join(sortedKeys(rec.Regions), ", "))
	}
	if rec.Countries != nil && len(rec.Countries.StudyCounts) > 0 {
		b.WriteString("\n## Studies per country\n\n")
		for _, name := range sortedCountKeys(rec.Countries.StudyCounts) {
			fmt.Fprintf(&b, "- %s: %d\n", name, rec.Countries.StudyCounts[name])
		}
	}
	if len(rec.Topics) > 0 {
		b.WriteString("\n## Topics\n\n")
		for _, code := range sortedCountKeys(rec.Topics) {
			fmt.Fprintf(&b, "- %s: %d\n", code, rec.Topics[code])
		}
	}
	if rec.Treatment != nil {
		b.WriteString("\n## Treatment\n\n")
		if len(rec.Treatment.Durations) > 0 {
			fmt.Fprintf(&b, "- Durations: %s\n", strings.Join(rec.Treatment.Durations, "; "))
		}
		if rec.Treatment.Dosage != nil {
			if len(rec.Treatment.Dosage.Amounts) > 0 {
				fmt.Fprintf(&b, "- Dose amounts: %s\n", strings.Join(rec.Treatment.Dosage.Amounts, "; "))
			}
			if len(rec.Treatment.Dosage.Schedules) > 0 {
				fmt.Fprintf(&b, "- Schedules: %s\n", strings.Join(rec.Treatment.Dosage.Schedules, "; "))
			}
		}
		if len(rec.Treatment.Comparator) > 0 {
			fmt.Fprintf(&b, "- Comparators: %s\n", strings.Join(rec.Treatment.Comparator, "; "))
		}
	}
	if len(rec.Evidence) > 0 {
		b.WriteString("\n## Evidence\n\n")
		for _, pair := range rec.Evidence {
			fmt.Fprintf(&b, "- `%s`: %s\n", pair.Field, pair.Text)
		}
	}

	if path == "" || path == "-" {
		_, err := io.WriteString(r.out, b.String())
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderSummary prints a one-screen overview of the record.
func (r *Renderer) RenderSummary(rec *model.Record) {
	if rec.LitSearchDate != "" {
		fmt.Fprintf(r.out, "Last search:      %s\n", rec.LitSearchDate)
	}
	if rec.Studies != nil {
		fmt.Fprintf(r.out, "Included studies: %d\n", rec.Studies.Total)
	}
	if rec.Databases != nil {
		fmt.Fprintf(r.out, "Databases:        %d\n", rec.Databases.NumDatabases)
	}
	if rec.Countries != nil {
		fmt.Fprintf(r.out, "Countries:        %d\n", len(rec.Countries.StudyCounts)+len(rec.Countries.SampleSizes))
	}
	if len(rec.Topics) > 0 {
		fmt.Fprintf(r.out, "Topics:           %s\n", strings.Join(sortedCountKeys(rec.Topics), ", "))
	}
}

// RenderVerdict prints the AMSTAR verdict with its flaw lists.
func (r *Renderer) RenderVerdict(v *model.AmstarVerdict) {
	fmt.Fprintf(r.out, "AMSTAR-2 confidence: %s\n", v.Label)
	if len(v.Flaws) > 0 {
		fmt.Fprintln(r.out, "Flaws:")
		for _, flaw := range v.Flaws {
			fmt.Fprintf(r.out, "  %s\n", flaw)
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
