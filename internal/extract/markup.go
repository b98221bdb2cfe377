package extract

import (
	"strings"

	"github.com/bluepencil/citecheck/internal/model"
	"golang.org/x/net/html"
)

// styleForTag maps inline markup tags (as produced by the DOCX extraction
// step) to formatting span names. Unknown tags are passed through as text.
func styleForTag(tag string) string {
	switch tag {
	case "i", "em":
		return model.StyleItalic
	case "b", "strong":
		return model.StyleBold
	case "sc", "smallcaps":
		return model.StyleSmallCaps
	}
	return ""
}

// parsedText is footnote text with inline markers stripped and the
// formatting they carried recorded as byte-offset spans.
type parsedText struct {
	Plain string
	Spans map[string][]model.Span
}

// parseMarkup strips inline formatting tags from raw footnote text and
// records the ranges they covered. Malformed markup never fails; unclosed
// tags extend to the end of the text.
func parseMarkup(raw string) parsedText {
	tok := html.NewTokenizer(strings.NewReader(raw))

	var plain strings.Builder
	spans := make(map[string][]model.Span)
	open := make(map[string][]int) // style -> stack of start offsets

	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			plain.WriteString(html.UnescapeString(string(tok.Text())))
		case html.StartTagToken:
			name, _ := tok.TagName()
			if style := styleForTag(string(name)); style != "" {
				open[style] = append(open[style], plain.Len())
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			style := styleForTag(string(name))
			if style == "" {
				continue
			}
			stack := open[style]
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			open[style] = stack[:len(stack)-1]
			if plain.Len() > start {
				spans[style] = append(spans[style], model.Span{Start: start, End: plain.Len()})
			}
		case html.SelfClosingTagToken:
			// Formatting tags are never self-closing; ignore.
		}
	}

	// Close any dangling tags at end of text.
	for style, stack := range open {
		for _, start := range stack {
			if plain.Len() > start {
				spans[style] = append(spans[style], model.Span{Start: start, End: plain.Len()})
			}
		}
	}

	if len(spans) == 0 {
		spans = nil
	}
	return parsedText{Plain: plain.String(), Spans: spans}
}

// clipSpans rebases formatting spans onto a [start, end) segment of the
// plain text, dropping spans that fall entirely outside it.
func clipSpans(spans map[string][]model.Span, start, end int) map[string][]model.Span {
	if len(spans) == 0 {
		return nil
	}
	out := make(map[string][]model.Span)
	for style, list := range spans {
		for _, s := range list {
			lo, hi := s.Start, s.End
			if lo < start {
				lo = start
			}
			if hi > end {
				hi = end
			}
			if lo >= hi {
				continue
			}
			out[style] = append(out[style], model.Span{Start: lo - start, End: hi - start})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
