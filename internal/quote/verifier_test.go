package quote

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bluepencil/citecheck/internal/model"
)

func sourceDoc(id string, pageTexts ...string) *model.SourceDocumentExtraction {
	doc := &model.SourceDocumentExtraction{SourceID: id}
	for i, text := range pageTexts {
		doc.Pages = append(doc.Pages, model.Page{Number: i + 1, Text: text})
	}
	return doc
}

func newTestVerifier() *Verifier {
	return NewVerifier(model.DefaultConfig().Quote)
}

func TestVerifier_ExactMatch(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{
		sourceDoc("opinion.pdf",
			"Preliminary matter on the first page.",
			"The Court held that laws of nature are not patentable subject matter."),
	}

	result := newTestVerifier().Verify("laws of nature are not patentable", docs)

	if !result.Found || !result.ExactMatch {
		t.Fatalf("Expected exact match, got %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %f", result.Confidence)
	}
	if result.SourceID != "opinion.pdf" {
		t.Errorf("Expected source id recorded, got %q", result.SourceID)
	}
	if result.PageNumber == nil || *result.PageNumber != 2 {
		t.Errorf("Expected page 2, got %v", result.PageNumber)
	}
	if !strings.Contains(result.ContextSnippet, "laws of nature are not patentable") {
		t.Errorf("Expected context around the hit, got %q", result.ContextSnippet)
	}
	if len(result.Differences) != 0 {
		t.Errorf("Expected no differences on an exact match, got %v", result.Differences)
	}
}

func TestVerifier_ExactMatchAcrossWhitespace(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{
		sourceDoc("src", "laws  of\nnature   are not\tpatentable"),
	}

	result := newTestVerifier().Verify("laws of nature are not patentable", docs)

	if !result.ExactMatch {
		t.Errorf("Expected whitespace-normalized exact match, got %+v", result)
	}
}

func TestVerifier_ExactMatchIgnoringPunctuation(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{
		sourceDoc("src", "The court held: laws of nature, are not patentable."),
	}

	result := newTestVerifier().Verify("laws of nature are not patentable", docs)

	if !result.Found || !result.ExactMatch {
		t.Fatalf("Expected punctuation-stripped exact match, got %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %f", result.Confidence)
	}
}

func TestVerifier_FuzzyMatchWithCaseDifference(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{
		sourceDoc("mayo.pdf", "Laws of nature are not patentable subject matter. The claims here do not qualify."),
	}

	result := newTestVerifier().Verify("laws of nature are not patentable", docs)

	if !result.Found {
		t.Fatalf("Expected fuzzy match, got %+v", result)
	}
	if result.ExactMatch {
		t.Error("Expected a fuzzy, not exact, match")
	}
	if result.Confidence < 0.75 || result.Confidence >= 1.0 {
		t.Errorf("Expected confidence in [0.75,1), got %f", result.Confidence)
	}
	if len(result.Differences) == 0 {
		t.Error("Expected differences reported for a fuzzy match")
	}
	bracket := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "[l]") {
			bracket = true
		}
	}
	if !bracket {
		t.Errorf("Expected a bracket-notation suggestion for the case difference, got %v", result.Suggestions)
	}
}

func TestVerifier_ShortQuoteSkipsFuzzy(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{
		sourceDoc("src", "completely different page content with nothing to offer"),
	}

	result := newTestVerifier().Verify("two words", docs)

	if result.Found {
		t.Errorf("Expected not found, got %+v", result)
	}
	if result.Confidence != 0 {
		t.Errorf("Expected no fuzzy confidence for a short quote, got %f", result.Confidence)
	}
}

func TestVerifier_BelowThresholdStaysNotFound(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{
		sourceDoc("src", "The procedural history of this appeal spans a decade of litigation."),
	}

	result := newTestVerifier().Verify("quantum entanglement governs peanut butter viscosity", docs)

	if result.Found {
		t.Errorf("Expected not found below threshold, got %+v", result)
	}
	if result.ExactMatch {
		t.Error("Expected no exact match")
	}
	if result.Confidence >= 0.75 {
		t.Errorf("Expected best-seen confidence below the threshold, got %f", result.Confidence)
	}
}

func TestVerifier_EmptyQuote(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{sourceDoc("src", "some text")}

	result := newTestVerifier().Verify("   ", docs)

	if result.Found || result.Confidence != 0 {
		t.Errorf("Expected empty verification, got %+v", result)
	}
}

func TestVerifier_Deterministic(t *testing.T) {
	docs := []*model.SourceDocumentExtraction{
		sourceDoc("a.pdf", "Laws of nature are not patentable subject matter."),
		sourceDoc("b.pdf", "An unrelated discussion of procedure and venue."),
	}
	v := newTestVerifier()

	first := v.Verify("laws of nature are not patentable", docs)
	second := v.Verify("laws of nature are not patentable", docs)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results for identical inputs:\n%+v\n%+v", first, second)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First point. Second point! Third? Trailing fragment")

	want := []string{"First point.", "Second point!", "Third?", "Trailing fragment"}
	if !reflect.DeepEqual(sentences, want) {
		t.Errorf("Expected %v, got %v", want, sentences)
	}
}

func TestSplitSentences_AbbreviationNotSplit(t *testing.T) {
	sentences := splitSentences("See 42 U.S.C. for details.")

	// Periods inside U.S.C. are not followed by spaces mid-token, so only
	// the one after "U.S.C." and the final one can split.
	for _, s := range sentences {
		if s == "U." || s == "S." || s == "C." {
			t.Errorf("Expected no single-letter fragments, got %v", sentences)
		}
	}
}
