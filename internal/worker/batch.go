package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bluepencil/citecheck/internal/model"
)

// Checker validates one footnote's citations
type Checker interface {
	CheckFootnote(ctx context.Context, footnoteNumber int, text string) *model.FootnoteReport
}

// FootnoteJob validates one footnote
type FootnoteJob struct {
	Number  int
	Text    string
	Checker Checker
}

// Execute runs the footnote through the checker
func (j *FootnoteJob) Execute(ctx context.Context) Result {
	report := j.Checker.CheckFootnote(ctx, j.Number, j.Text)
	return &FootnoteResult{Report: report}
}

// FootnoteResult wraps one footnote's report as a pool result
type FootnoteResult struct {
	Report *model.FootnoteReport
	Err    error
}

// GetError returns the error from the footnote result
func (r *FootnoteResult) GetError() error {
	return r.Err
}

// BatchProcessor validates many footnotes concurrently. Citations are
// independent of each other, so no ordering is required during
// processing; results are re-sorted by footnote number at the end.
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &BatchProcessor{checker: checker, concurrency: concurrency}
}

// ProcessFootnotes validates footnotes concurrently, returning reports
// ordered by footnote number.
func (b *BatchProcessor) ProcessFootnotes(ctx context.Context, footnotes map[int]string) []*model.FootnoteReport {
	if len(footnotes) == 0 {
		return []*model.FootnoteReport{}
	}

	pool := NewPool(b.concurrency)
	pool.Start(ctx)

	for number, text := range footnotes {
		pool.Submit(&FootnoteJob{Number: number, Text: text, Checker: b.checker})
	}
	results := pool.Wait()

	reports := make([]*model.FootnoteReport, 0, len(results))
	for _, r := range results {
		if fr, ok := r.(*FootnoteResult); ok && fr.Report != nil {
			reports = append(reports, fr.Report)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].FootnoteNumber < reports[j].FootnoteNumber
	})
	return reports
}

// ReadFootnotesFile parses a footnotes file: one footnote per non-empty
// line, either "number<TAB>text" or bare text numbered by line order.
// Lines starting with # are comments.
func ReadFootnotesFile(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open footnotes file: %w", err)
	}
	defer f.Close()

	footnotes := make(map[int]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lineNo++

		number := lineNo
		text := line
		if tab := strings.IndexByte(line, '\t'); tab > 0 {
			if n, err := parsePositiveInt(line[:tab]); err == nil {
				number = n
				text = strings.TrimSpace(line[tab+1:])
			}
		}
		if _, exists := footnotes[number]; exists {
			return nil, fmt.Errorf("duplicate footnote number %d", number)
		}
		footnotes[number] = text
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read footnotes file: %w", err)
	}
	return footnotes, nil
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, fmt.Errorf("footnote numbers start at 1")
	}
	return n, nil
}
