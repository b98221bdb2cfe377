package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bluepencil/citecheck/internal/model"
)

// Renderer writes footnote reports to JSON and Markdown outputs
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the reports as pretty-printed JSON
func (r *Renderer) RenderJSON(reports []*model.FootnoteReport, path string) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable summary of the reports
func (r *Renderer) RenderMarkdown(reports []*model.FootnoteReport, path string) error {
	var b strings.Builder

	total, incorrect, degraded := 0, 0, 0
	for _, report := range reports {
		for _, res := range report.Results {
			total++
			if !res.IsCorrect {
				incorrect++
			}
			if res.DegradedValidation {
				degraded++
			}
		}
	}

	b.WriteString("# Citation check report\n\n")
	fmt.Fprintf(&b, "- Citations checked: %d\n", total)
	fmt.Fprintf(&b, "- Citations with findings: %d\n", incorrect)
	if degraded > 0 {
		fmt.Fprintf(&b, "- Degraded validations (deterministic checks only): %d\n", degraded)
	}
	b.WriteString("\n")

	for _, report := range reports {
		if report.Error != "" {
			fmt.Fprintf(&b, "## Footnote %d\n\nError: %s\n\n", report.FootnoteNumber, report.Error)
			continue
		}
		wroteHeader := false
		for _, res := range report.Results {
			if res.IsCorrect && !res.EvidenceValidationFailed {
				continue
			}
			if !wroteHeader {
				fmt.Fprintf(&b, "## Footnote %d\n\n", report.FootnoteNumber)
				wroteHeader = true
			}
			fmt.Fprintf(&b, "### Citation %d (%s)\n\n", res.Citation.CitationNumber, res.Citation.DetectedType)
			fmt.Fprintf(&b, "> %s\n\n", res.Citation.FullText)
			if res.EvidenceValidationFailed {
				b.WriteString("**Reasoner output rejected: evidence could not be traced to a retrieved rule.**\n\n")
			}
			for _, f := range res.Findings {
				fmt.Fprintf(&b, "- **%s** (confidence %.2f): %s\n", f.Category, f.Confidence, f.Description)
				if f.RuleID != "" {
					fmt.Fprintf(&b, "  - Rule %s (%s corpus): %q\n", f.RuleID, f.Corpus, f.EvidenceQuote)
				}
				if f.SuggestedText != "" {
					fmt.Fprintf(&b, "  - Suggested: %s\n", f.SuggestedText)
				}
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by citecheck. Findings are advisory; review before editing.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}
