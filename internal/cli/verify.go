package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bluepencil/citecheck/internal/docproc"
	"github.com/bluepencil/citecheck/internal/model"
	"github.com/bluepencil/citecheck/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	quotes        []string
	quotesFile    string
	verifyOutJSON string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <pdf>...",
	Short: "Verify quoted material against source documents",
	Long: `Verify checks whether quotes appear verbatim in source PDFs.

Each PDF is processed into marked regions (annotated areas when present,
heuristic fallback regions otherwise) and each region's text quality is
assessed. Quotes are then matched exactly, and when no exact match
exists, approximately; approximate matches report the differences
between the quote and the closest source passage.

Example:
  citecheck verify opinion.pdf --quote "laws of nature are not patentable"
  citecheck verify opinion.pdf appendix.pdf --quotes-file quotes.txt --json matches.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringArrayVar(&quotes, "quote", nil, "quote to verify (repeatable)")
	verifyCmd.Flags().StringVar(&quotesFile, "quotes-file", "", "file of quotes, one per line")
	verifyCmd.Flags().StringVar(&verifyOutJSON, "json", "", "output JSON path (optional)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	all := append([]string{}, quotes...)
	if quotesFile != "" {
		fromFile, err := readQuotesFile(quotesFile)
		if err != nil {
			return fmt.Errorf("read quotes: %w", err)
		}
		all = append(all, fromFile...)
	}
	if len(all) == 0 {
		return fmt.Errorf("no quotes given: use --quote or --quotes-file")
	}

	cfg := loadConfig()
	cfg.Output.Verbose = verbose
	p := pipeline.NewPipeline(cfg, nil)

	// Process each source document
	var docs []*model.SourceDocumentExtraction
	for _, path := range args {
		rendering, err := docproc.OpenPDF(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		doc, err := p.ProcessDocument(rendering)
		if err != nil {
			return fmt.Errorf("process %s: %w", path, err)
		}
		if verbose {
			corrupted := 0
			for _, reg := range doc.MarkedRegions {
				if reg.IsCorrupted {
					corrupted++
				}
			}
			fmt.Fprintf(os.Stderr, "✓ %s: %d regions (%d corrupted)\n", path, len(doc.MarkedRegions), corrupted)
		}
		docs = append(docs, doc)
	}

	// Verify each quote against all documents
	results := make([]model.QuoteVerification, 0, len(all))
	for _, q := range all {
		v := p.VerifyQuote(q, docs)
		results = append(results, v)

		switch {
		case v.ExactMatch:
			fmt.Printf("✓ exact   %q (%s)\n", q, v.SourceID)
		case v.Found:
			fmt.Printf("~ fuzzy   %q (%s, confidence %.2f)\n", q, v.SourceID, v.Confidence)
			for _, d := range v.Differences {
				fmt.Printf("    - %s\n", d)
			}
			for _, s := range v.Suggestions {
				fmt.Printf("    → %s\n", s)
			}
		default:
			fmt.Printf("✗ missing %q (best confidence %.2f)\n", q, v.Confidence)
		}
	}

	if verifyOutJSON != "" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		if err := os.WriteFile(verifyOutJSON, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", verifyOutJSON, err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", verifyOutJSON)
	}

	return nil
}

// readQuotesFile reads one quote per line, skipping blanks and # comments.
func readQuotesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}
