package rules

import (
	"testing"

	"github.com/bluepencil/citecheck/internal/model"
)

func testRetrieverIndex(t *testing.T) *Index {
	t.Helper()
	primary := []model.RuleNode{
		{ID: "P1", Title: "Case names", Text: "Use v. between the parties of a case name."},
		{ID: "P2", Title: "Reporters", Text: "The reporter volume precedes the reporter abbreviation in a case citation."},
		{ID: "P3", Title: "Statutes", Text: "Cite statutes to the official code."},
	}
	secondary := []model.RuleNode{
		{ID: "S1", Title: "Case style", Text: "Italicize the case name and the parties."},
		{ID: "S2", Title: "Footnote placement", Text: "Footnote markers follow punctuation."},
	}
	idx, err := NewIndex(primary, secondary, model.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Expected index to build, got %v", err)
	}
	return idx
}

func TestRetriever_PrimaryBeforeSecondary(t *testing.T) {
	r := NewRetriever(testRetrieverIndex(t), model.RetrievalConfig{})

	matches, _ := r.Retrieve("Smith v. Jones, 123 F.3d 456 (1999)")

	if len(matches) == 0 {
		t.Fatal("Expected matches for a case citation")
	}
	sawSecondary := false
	for _, m := range matches {
		if m.Corpus == model.CorpusSecondary {
			sawSecondary = true
		}
		if m.Corpus == model.CorpusPrimary && sawSecondary {
			t.Fatalf("Expected every primary match before any secondary match, got %v", matches)
		}
	}
	if matches[0].Corpus != model.CorpusPrimary {
		t.Errorf("Expected a primary match first, got %q", matches[0].Corpus)
	}
}

func TestRetriever_QuotaTruncation(t *testing.T) {
	r := NewRetriever(testRetrieverIndex(t), model.RetrievalConfig{PrimaryQuota: 1, SecondaryQuota: 1})

	matches, cov := r.Retrieve("Smith v. Jones, 123 F.3d 456 (1999)")

	if cov.Primary.Returned > 1 || cov.Secondary.Returned > 1 {
		t.Errorf("Expected quotas enforced, got coverage %+v", cov)
	}
	if len(matches) != cov.Primary.Returned+cov.Secondary.Returned {
		t.Errorf("Expected matches to agree with coverage, got %d matches and %+v", len(matches), cov)
	}
	if cov.Primary.Matched < cov.Primary.Returned {
		t.Errorf("Expected matched >= returned, got %+v", cov.Primary)
	}
}

func TestRetriever_CoverageScanned(t *testing.T) {
	r := NewRetriever(testRetrieverIndex(t), model.RetrievalConfig{})

	_, cov := r.Retrieve("nothing relevant xyzzy")

	if cov.Primary.Scanned != 3 {
		t.Errorf("Expected 3 primary rules scanned, got %d", cov.Primary.Scanned)
	}
	if cov.Secondary.Scanned != 2 {
		t.Errorf("Expected 2 secondary rules scanned, got %d", cov.Secondary.Scanned)
	}
	if cov.Primary.Matched != 0 || cov.Primary.Returned != 0 {
		t.Errorf("Expected no matches for irrelevant text, got %+v", cov.Primary)
	}
}

func TestRetriever_EmptyCorpusIsNotAnError(t *testing.T) {
	idx, err := NewIndex(nil, nil, model.RetrievalConfig{})
	if err != nil {
		t.Fatalf("Expected empty corpora to build, got %v", err)
	}
	r := NewRetriever(idx, model.RetrievalConfig{})

	matches, cov := r.Retrieve("Smith v. Jones, 123 F.3d 456 (1999)")

	if len(matches) != 0 {
		t.Errorf("Expected no matches, got %v", matches)
	}
	if cov.Primary.Scanned != 0 || cov.Secondary.Scanned != 0 {
		t.Errorf("Expected zero scanned, got %+v", cov)
	}
}

func TestQueryTerms_StructuralCues(t *testing.T) {
	terms := QueryTerms("See Smith v. Jones, 123 F.3d 456, 460 (1999)", 3)

	set := make(map[string]bool, len(terms))
	for _, term := range terms {
		set[term] = true
	}

	for _, want := range []string{"see", "case", "parties", "versus", "reporter", "volume", "parenthetical", "pincite", "page", "smith", "jones"} {
		if !set[want] {
			t.Errorf("Expected query term %q, got %v", want, terms)
		}
	}
	if set["f"] {
		t.Error("Expected short tokens dropped")
	}
}

func TestQueryTerms_Deduplicated(t *testing.T) {
	terms := QueryTerms("Jones Jones Jones", 3)

	count := 0
	for _, term := range terms {
		if term == "jones" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected jones once, got %d", count)
	}
}
