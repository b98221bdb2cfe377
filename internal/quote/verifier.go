// Package quote matches quoted text from citations against processed
// source documents: exact search first, then fuzzy sentence and
// sliding-window matching with diff-based discrepancy reporting.
package quote

import (
	"strings"
	"unicode"

	"github.com/bluepencil/citecheck/internal/model"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Verifier matches quotes against source documents
type Verifier struct {
	cfg model.QuoteConfig
}

// NewVerifier creates a verifier with the given matching config
func NewVerifier(cfg model.QuoteConfig) *Verifier {
	if cfg.FuzzyThreshold <= 0 {
		cfg = model.DefaultConfig().Quote
	}
	return &Verifier{cfg: cfg}
}

// candidate is the best fuzzy match seen so far across all documents
type candidate struct {
	text     string
	sourceID string
	page     int
	score    int // 0-100 scale
}

// Verify matches one quote against every page of every document. The
// result is a pure function of the inputs: identical inputs always
// yield identical found, confidence, and differences.
func (v *Verifier) Verify(quoteText string, docs []*model.SourceDocumentExtraction) model.QuoteVerification {
	result := model.QuoteVerification{QuoteText: quoteText}
	normalized := normalizeWhitespace(quoteText)
	if normalized == "" {
		return result
	}

	// Stage 1: exact substring, then exact after stripping non-word
	// characters from both sides.
	for _, doc := range docs {
		for _, page := range doc.Pages {
			if hit, ok := exactMatch(normalized, page.Text, v.cfg.ContextRadius); ok {
				result.Found = true
				result.ExactMatch = true
				result.Confidence = 1.0
				result.SourceID = doc.SourceID
				pageNum := page.Number
				result.PageNumber = &pageNum
				result.ContextSnippet = hit
				return result
			}
		}
	}

	// Stage 2: fuzzy, only for quotes of at least the minimum word count.
	words := strings.Fields(normalized)
	if len(words) < v.cfg.MinFuzzyWords {
		return result
	}

	best := v.bestFuzzyCandidate(normalized, words, docs)
	if best == nil {
		return result
	}

	result.Confidence = float64(best.score) / 100
	if best.score < v.cfg.FuzzyThreshold {
		// Below the floor: report the best-seen confidence for
		// diagnostics but stay not-found.
		return result
	}

	result.Found = true
	result.SourceID = best.sourceID
	pageNum := best.page
	result.PageNumber = &pageNum
	result.ContextSnippet = best.text
	result.Differences = diffWordRuns(best.text, normalized, v.cfg.MaxDifferences)
	result.Suggestions = suggestions(normalized, best.text)
	return result
}

// bestFuzzyCandidate scores every page sentence by partial similarity,
// and for long quotes also slides a window of the quote's word count
// across the page scoring whole-string similarity.
func (v *Verifier) bestFuzzyCandidate(normalized string, quoteWords []string, docs []*model.SourceDocumentExtraction) *candidate {
	var best *candidate
	consider := func(text, sourceID string, page, score int) {
		if score <= 0 {
			return
		}
		if best == nil || score > best.score {
			best = &candidate{text: text, sourceID: sourceID, page: page, score: score}
		}
	}

	for _, doc := range docs {
		for _, page := range doc.Pages {
			for _, sentence := range splitSentences(page.Text) {
				consider(sentence, doc.SourceID, page.Number, fuzzy.PartialRatio(normalized, sentence))
			}

			if len(normalized) > v.cfg.WindowThreshold {
				pageWords := strings.Fields(normalizeWhitespace(page.Text))
				span := len(quoteWords)
				for i := 0; i+span <= len(pageWords); i++ {
					window := strings.Join(pageWords[i:i+span], " ")
					consider(window, doc.SourceID, page.Number, fuzzy.Ratio(normalized, window))
				}
			}
		}
	}
	return best
}

// exactMatch searches pageText for the quote, first literally, then
// with all non-word characters stripped from both sides. Returns the
// context window around the hit.
func exactMatch(quote, pageText string, radius int) (string, bool) {
	page := normalizeWhitespace(pageText)
	if idx := strings.Index(page, quote); idx >= 0 {
		return contextWindow(page, idx, len(quote), radius), true
	}

	strippedQuote := stripNonWord(quote)
	if strippedQuote == "" {
		return "", false
	}
	strippedPage, offsets := stripNonWordMapped(page)
	if idx := strings.Index(strippedPage, strippedQuote); idx >= 0 {
		start := offsets[idx]
		end := offsets[idx+len(strippedQuote)-1] + 1
		return contextWindow(page, start, end-start, radius), true
	}
	return "", false
}

// contextWindow returns radius characters either side of [idx, idx+n).
func contextWindow(text string, idx, n, radius int) string {
	lo := idx - radius
	if lo < 0 {
		lo = 0
	}
	hi := idx + n + radius
	if hi > len(text) {
		hi = len(text)
	}
	for lo > 0 && text[lo]&0xc0 == 0x80 {
		lo--
	}
	for hi < len(text) && text[hi]&0xc0 == 0x80 {
		hi++
	}
	return text[lo:hi]
}

// normalizeWhitespace collapses internal whitespace runs to single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripNonWord removes every character that is not a letter or digit.
func stripNonWord(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripNonWordMapped strips non-word characters while recording each
// kept byte's offset in the original string.
func stripNonWordMapped(s string) (string, []int) {
	var b strings.Builder
	var offsets []int
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			start := b.Len()
			b.WriteRune(r)
			for j := start; j < b.Len(); j++ {
				offsets = append(offsets, i)
			}
		}
	}
	return b.String(), offsets
}

// splitSentences splits page text on sentence terminators, keeping
// fragments long enough to be meaningful match candidates.
func splitSentences(text string) []string {
	text = normalizeWhitespace(text)
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if len(s) >= 3 {
			sentences = append(sentences, s)
		}
		current.Reset()
	}
	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(text) || text[i+1] == ' ' {
				flush()
			}
		}
	}
	flush()
	return sentences
}
