package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bluepencil/citecheck/internal/model"
	"github.com/bluepencil/citecheck/internal/pipeline"
	"github.com/bluepencil/citecheck/internal/rules"
	"github.com/bluepencil/citecheck/internal/worker"
	"github.com/spf13/cobra"
)

var (
	primaryRules   string
	secondaryRules string
	outJSON        string
	outMD          string
	checkTimeout   time.Duration
	concurrency    int
	noCache        bool
	cacheDir       string
	noFooter       bool
	llmEnabled     bool
	llmModel       string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <footnotes-file>",
	Short: "Validate citations in a file of footnotes",
	Long: `Check validates every citation in a footnotes file:
- Extract individual citations from each footnote
- Classify citations and run structural pre-validation
- Run deterministic formatting checks (quotation marks, non-breaking
  spaces, parenthetical capitalization)
- Retrieve relevant citation-manual rules and, if enabled, have a
  reasoning model review each citation against them

The footnotes file holds one footnote per line, either numbered
("12<TAB>See Brown v. Board...") or implicitly numbered by line order.
Rule corpora are JSON files of rule trees.

Example:
  citecheck check footnotes.txt --primary-rules bluebook.json
  citecheck check footnotes.txt --primary-rules bluebook.json --llm --llm-model gpt-4o-mini
  citecheck check footnotes.txt --primary-rules rules.json --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Rule corpus flags
	checkCmd.Flags().StringVar(&primaryRules, "primary-rules", "", "primary rule corpus (JSON, required)")
	checkCmd.Flags().StringVar(&secondaryRules, "secondary-rules", "", "secondary rule corpus (JSON, optional)")
	_ = checkCmd.MarkFlagRequired("primary-rules")

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Processing flags
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Minute, "overall timeout for the run")
	checkCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (0 = config default)")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the reasoner response cache")
	checkCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist reasoner responses under this directory")

	// LLM flags
	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable reasoning-model review")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "reasoning model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	// Build configuration from flags
	cfg := loadConfig()
	cfg.Cache.Enabled = !noCache
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Configure the reasoner if enabled
	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	// Load rule corpora
	primary, err := rules.LoadCorpusFile(primaryRules)
	if err != nil {
		return fmt.Errorf("load primary rules: %w", err)
	}
	var secondary []model.RuleNode
	if secondaryRules != "" {
		secondary, err = rules.LoadCorpusFile(secondaryRules)
		if err != nil {
			return fmt.Errorf("load secondary rules: %w", err)
		}
	}
	index, err := rules.NewIndex(primary, secondary, cfg.Retrieval)
	if err != nil {
		return fmt.Errorf("build rule index: %w", err)
	}

	// Load footnotes
	footnotes, err := worker.ReadFootnotesFile(file)
	if err != nil {
		return fmt.Errorf("read footnotes: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Footnotes: %d\n", len(footnotes))
		fmt.Fprintf(os.Stderr, "Rules: %d primary, %d secondary\n",
			index.RuleCount(model.CorpusPrimary), index.RuleCount(model.CorpusSecondary))
		fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Concurrency.Workers)
		if llmEnabled {
			fmt.Fprintf(os.Stderr, "Reasoner: openai/%s\n", cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Validate all footnotes in parallel
	p := pipeline.NewPipeline(cfg, index)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	reports := processor.ProcessFootnotes(ctx, footnotes)

	// Summarize to stderr
	citations, flagged := 0, 0
	for _, rep := range reports {
		for _, res := range rep.Results {
			citations++
			if !res.IsCorrect {
				flagged++
			}
		}
	}
	fmt.Fprintf(os.Stderr, "✓ Checked %d citations across %d footnotes, %d flagged\n",
		citations, len(reports), flagged)

	// Render outputs
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(reports, outJSON); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(reports, outMD); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
	}

	return nil
}
