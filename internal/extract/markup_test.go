package extract

import (
	"testing"

	"github.com/bluepencil/citecheck/internal/model"
)

func TestParseMarkup_Plain(t *testing.T) {
	p := parseMarkup("no markup here")

	if p.Plain != "no markup here" {
		t.Errorf("Expected text unchanged, got %q", p.Plain)
	}
	if p.Spans != nil {
		t.Errorf("Expected no spans, got %v", p.Spans)
	}
}

func TestParseMarkup_ItalicSpan(t *testing.T) {
	p := parseMarkup("<i>See</i> Brown v. Board")

	if p.Plain != "See Brown v. Board" {
		t.Errorf("Expected tags stripped, got %q", p.Plain)
	}
	spans := p.Spans[model.StyleItalic]
	if len(spans) != 1 {
		t.Fatalf("Expected 1 italic span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 3 {
		t.Errorf("Expected span [0,3), got [%d,%d)", spans[0].Start, spans[0].End)
	}
}

func TestParseMarkup_TagAliases(t *testing.T) {
	p := parseMarkup("<em>a</em><strong>b</strong><sc>c</sc>")

	if len(p.Spans[model.StyleItalic]) != 1 {
		t.Errorf("Expected em to map to italic")
	}
	if len(p.Spans[model.StyleBold]) != 1 {
		t.Errorf("Expected strong to map to bold")
	}
	if len(p.Spans[model.StyleSmallCaps]) != 1 {
		t.Errorf("Expected sc to map to small caps")
	}
}

func TestParseMarkup_UnclosedTagExtendsToEnd(t *testing.T) {
	p := parseMarkup("plain <i>slanted to the end")

	spans := p.Spans[model.StyleItalic]
	if len(spans) != 1 {
		t.Fatalf("Expected 1 italic span, got %d", len(spans))
	}
	if spans[0].Start != 6 || spans[0].End != len("plain slanted to the end") {
		t.Errorf("Expected span [6,%d), got [%d,%d)",
			len("plain slanted to the end"), spans[0].Start, spans[0].End)
	}
}

func TestParseMarkup_StrayCloseTagIgnored(t *testing.T) {
	p := parseMarkup("text</i> more")

	if p.Plain != "text more" {
		t.Errorf("Expected close tag stripped, got %q", p.Plain)
	}
	if p.Spans != nil {
		t.Errorf("Expected no spans from a stray close tag, got %v", p.Spans)
	}
}

func TestClipSpans(t *testing.T) {
	spans := map[string][]model.Span{
		model.StyleItalic: {{Start: 0, End: 10}, {Start: 20, End: 30}},
	}

	clipped := clipSpans(spans, 5, 25)

	got := clipped[model.StyleItalic]
	if len(got) != 2 {
		t.Fatalf("Expected 2 clipped spans, got %d", len(got))
	}
	if got[0].Start != 0 || got[0].End != 5 {
		t.Errorf("Expected first span rebased to [0,5), got [%d,%d)", got[0].Start, got[0].End)
	}
	if got[1].Start != 15 || got[1].End != 20 {
		t.Errorf("Expected second span rebased to [15,20), got [%d,%d)", got[1].Start, got[1].End)
	}
}

func TestClipSpans_OutsideDropped(t *testing.T) {
	spans := map[string][]model.Span{
		model.StyleBold: {{Start: 0, End: 4}},
	}
	if got := clipSpans(spans, 10, 20); got != nil {
		t.Errorf("Expected spans outside the segment dropped, got %v", got)
	}
}
