package quote

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffWordRuns compares the source passage to the quote word by word,
// using a line-oriented diff over words, and renders the added/removed
// runs as human-readable entries, capped at maxEntries.
func diffWordRuns(source, quote string, maxEntries int) []string {
	if maxEntries <= 0 {
		maxEntries = 10
	}

	dmp := diffmatchpatch.New()
	srcLines := strings.Join(strings.Fields(source), "\n")
	quoteLines := strings.Join(strings.Fields(quote), "\n")

	c1, c2, lines := dmp.DiffLinesToChars(srcLines, quoteLines)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	var entries []string
	for _, d := range diffs {
		run := strings.Join(strings.Fields(d.Text), " ")
		if run == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			entries = append(entries, fmt.Sprintf("source has %q where the quote omits it", run))
		case diffmatchpatch.DiffInsert:
			entries = append(entries, fmt.Sprintf("quote adds %q not found in the source", run))
		}
		if len(entries) >= maxEntries {
			break
		}
	}
	return entries
}

// suggestions derives heuristic fix hints from how the quote differs
// from the source passage.
func suggestions(quote, source string) []string {
	var out []string

	if len(source) > len(quote)*3/2 {
		out = append(out, "the source passage is much longer than the quote; consider an ellipsis ( … ) to mark omitted text")
	}

	qr := []rune(quote)
	sr := []rune(firstLetterAligned(source, quote))
	if len(qr) > 0 && len(sr) > 0 {
		q0, s0 := qr[0], sr[0]
		if unicode.ToLower(q0) == unicode.ToLower(s0) && q0 != s0 {
			out = append(out, fmt.Sprintf("leading letter case differs from the source; use bracket notation, e.g. %q", "["+string(q0)+"]"+string(qr[1:])))
		}
	}
	return out
}

// firstLetterAligned returns the source tail starting at the first
// position whose lowercase form matches the quote's first letter,
// so a mid-sentence quote still compares the right letters.
func firstLetterAligned(source, quote string) string {
	qr := []rune(quote)
	if len(qr) == 0 {
		return source
	}
	lower := unicode.ToLower(qr[0])
	for i, r := range source {
		if unicode.ToLower(r) == lower {
			return source[i:]
		}
	}
	return source
}
