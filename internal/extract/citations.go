package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bluepencil/citecheck/internal/model"
)

// SignalWords is the fixed vocabulary of citation-introducing signals,
// ordered longest-first so that compound signals win over their prefixes.
var SignalWords = []string{
	"see generally",
	"see also",
	"but see",
	"but cf.",
	"see",
	"cf.",
	"accord",
	"compare",
	"contra",
}

var signalRe = regexp.MustCompile(`(?i)\b(see generally|see also|but see|but cf\.|see|cf\.|accord|compare|contra)\b`)

// SignalsIn returns the distinct signal words present in text, lowercased.
func SignalsIn(text string) []string {
	matches := signalRe.FindAllString(text, -1)
	seen := make(map[string]bool)
	var out []string
	for _, m := range matches {
		m = strings.ToLower(m)
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Extractor splits annotated footnote text into structured citations
type Extractor struct{}

// NewExtractor creates a citation extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Citations splits one footnote's raw text into citations. Splitting never
// fails on malformed input: a segment that matches no type pattern is
// returned with type unknown and empty components for downstream stages
// to flag.
func (e *Extractor) Citations(footnoteNumber int, raw string) []model.Citation {
	parsed := parseMarkup(raw)
	segments := splitSegments(parsed.Plain)

	citations := make([]model.Citation, 0, len(segments))
	for i, seg := range segments {
		text := parsed.Plain[seg.start:seg.end]
		detected, components := detectType(text)
		citations = append(citations, model.Citation{
			FootnoteNumber:  footnoteNumber,
			CitationNumber:  i + 1,
			FullText:        text,
			DetectedType:    detected,
			Components:      components,
			FormattingSpans: clipSpans(parsed.Spans, seg.start, seg.end),
			RawFootnoteText: raw,
		})
	}
	return citations
}

// segment is a half-open byte range into the plain footnote text
type segment struct {
	start, end int
}

// splitSegments cuts footnote text at citation signals and at semicolons
// that follow a signal. A footnote with no signal is a single segment.
func splitSegments(text string) []segment {
	locs := signalRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		if s, ok := trimSegment(text, 0, len(text)); ok {
			return []segment{s}
		}
		return nil
	}

	// Candidate boundaries: the start of every signal occurrence past the
	// first, and the position after every semicolon that follows the first
	// signal.
	firstSignal := locs[0][0]
	var cuts []int
	for _, loc := range locs {
		if loc[0] > firstSignal {
			cuts = append(cuts, loc[0])
		}
	}
	for i := firstSignal; i < len(text); i++ {
		if text[i] == ';' {
			cuts = append(cuts, i+1)
		}
	}

	cuts = dedupeSorted(cuts)

	var segs []segment
	prev := 0
	for _, cut := range cuts {
		if s, ok := trimSegment(text, prev, cut); ok {
			segs = append(segs, s)
		}
		prev = cut
	}
	if s, ok := trimSegment(text, prev, len(text)); ok {
		segs = append(segs, s)
	}
	if len(segs) == 0 {
		if s, ok := trimSegment(text, 0, len(text)); ok {
			return []segment{s}
		}
	}
	return segs
}

// trimSegment shrinks [start, end) past whitespace and stray separators,
// reporting false for segments that are empty once trimmed.
func trimSegment(text string, start, end int) (segment, bool) {
	for start < end {
		r := rune(text[start])
		if unicode.IsSpace(r) || r == ';' {
			start++
			continue
		}
		break
	}
	for end > start && (unicode.IsSpace(rune(text[end-1])) || text[end-1] == ';') {
		end--
	}
	if start >= end {
		return segment{}, false
	}
	return segment{start: start, end: end}, true
}

func dedupeSorted(xs []int) []int {
	if len(xs) == 0 {
		return xs
	}
	// Insertion sort: cut lists are tiny.
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
