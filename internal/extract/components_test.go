package extract

import (
	"testing"

	"github.com/bluepencil/citecheck/internal/model"
)

func TestDetectType_Case(t *testing.T) {
	typ, c := detectType("Brown v. Board of Education, 347 U.S. 483, 495 (1954)")

	if typ != model.CitationTypeCase {
		t.Fatalf("Expected case, got %s", typ)
	}
	want := map[string]string{
		"case_name": "Brown v. Board of Education",
		"volume":    "347",
		"reporter":  "U.S.",
		"page":      "483",
		"pincite":   "495",
		"year":      "1954",
	}
	for k, v := range want {
		if c[k] != v {
			t.Errorf("Expected %s=%q, got %q", k, v, c[k])
		}
	}
}

func TestDetectType_CaseWithCourt(t *testing.T) {
	typ, c := detectType("United States v. Carroll Towing Co., 159 F.2d 169 (2d Cir. 1947)")

	if typ != model.CitationTypeCase {
		t.Fatalf("Expected case, got %s", typ)
	}
	if c["reporter"] != "F.2d" {
		t.Errorf("Expected reporter F.2d, got %q", c["reporter"])
	}
	if c["court"] != "2d Cir." {
		t.Errorf("Expected court '2d Cir.', got %q", c["court"])
	}
	if c["year"] != "1947" {
		t.Errorf("Expected year 1947, got %q", c["year"])
	}
}

func TestDetectType_CaseAcceptsVs(t *testing.T) {
	// "vs." is wrong style but must still classify as a case so the
	// pre-validator can flag it.
	typ, c := detectType("Smith vs. Jones, 123 F.3d 456 (1999)")

	if typ != model.CitationTypeCase {
		t.Fatalf("Expected case, got %s", typ)
	}
	if c["case_name"] != "Smith v. Jones" {
		t.Errorf("Expected normalized case name, got %q", c["case_name"])
	}
}

func TestDetectType_Statute(t *testing.T) {
	typ, c := detectType("42 U.S.C. § 1983 (2018)")

	if typ != model.CitationTypeStatute {
		t.Fatalf("Expected statute, got %s", typ)
	}
	want := map[string]string{
		"title":        "42",
		"code":         "U.S.C.",
		"section_mark": "§",
		"section":      "1983",
		"year":         "2018",
	}
	for k, v := range want {
		if c[k] != v {
			t.Errorf("Expected %s=%q, got %q", k, v, c[k])
		}
	}
}

func TestDetectType_StatuteWithoutSectionMark(t *testing.T) {
	typ, c := detectType("42 U.S.C. 1983")

	if typ != model.CitationTypeStatute {
		t.Fatalf("Expected statute, got %s", typ)
	}
	if c["section_mark"] != "" {
		t.Errorf("Expected no section mark recorded, got %q", c["section_mark"])
	}
	if c["section"] != "1983" {
		t.Errorf("Expected section 1983, got %q", c["section"])
	}
}

func TestDetectType_Constitution(t *testing.T) {
	typ, c := detectType("U.S. Const. amend. XIV, § 1")

	if typ != model.CitationTypeConstitution {
		t.Fatalf("Expected constitution, got %s", typ)
	}
	if c["constitution"] != "U.S." {
		t.Errorf("Expected constitution U.S., got %q", c["constitution"])
	}
	if c["amendment"] != "XIV" {
		t.Errorf("Expected amendment XIV, got %q", c["amendment"])
	}
	if c["section"] != "1" {
		t.Errorf("Expected section 1, got %q", c["section"])
	}
}

func TestDetectType_ConstitutionArticle(t *testing.T) {
	typ, c := detectType("U.S. Const. art. III, § 2, cl. 1")

	if typ != model.CitationTypeConstitution {
		t.Fatalf("Expected constitution, got %s", typ)
	}
	if c["article"] != "III" {
		t.Errorf("Expected article III, got %q", c["article"])
	}
	if c["clause"] != "1" {
		t.Errorf("Expected clause 1, got %q", c["clause"])
	}
}

func TestDetectType_Book(t *testing.T) {
	typ, c := detectType("Richard A. Posner, Economic Analysis of Law (9th ed. 2014)")

	if typ != model.CitationTypeBook {
		t.Fatalf("Expected book, got %s", typ)
	}
	if c["author"] != "Richard A. Posner" {
		t.Errorf("Expected author Richard A. Posner, got %q", c["author"])
	}
	if c["title"] != "Economic Analysis of Law" {
		t.Errorf("Expected title Economic Analysis of Law, got %q", c["title"])
	}
	if c["edition"] != "9th" {
		t.Errorf("Expected edition 9th, got %q", c["edition"])
	}
	if c["year"] != "2014" {
		t.Errorf("Expected year 2014, got %q", c["year"])
	}
}

func TestDetectType_Article(t *testing.T) {
	typ, c := detectType("John Hart Ely, The Wages of Crying Wolf, 82 Yale L.J. 920, 935 (1973)")

	if typ != model.CitationTypeArticle {
		t.Fatalf("Expected article, got %s", typ)
	}
	want := map[string]string{
		"author":  "John Hart Ely",
		"title":   "The Wages of Crying Wolf",
		"volume":  "82",
		"journal": "Yale L.J.",
		"page":    "920",
		"pincite": "935",
		"year":    "1973",
	}
	for k, v := range want {
		if c[k] != v {
			t.Errorf("Expected %s=%q, got %q", k, v, c[k])
		}
	}
}

func TestDetectType_OrderCaseBeforeArticle(t *testing.T) {
	// A case citation also has comma-separated parts; detection order
	// must classify it as a case, not an article.
	typ, _ := detectType("Marbury v. Madison, 5 U.S. 137 (1803)")
	if typ != model.CitationTypeCase {
		t.Errorf("Expected case, got %s", typ)
	}
}

func TestDetectType_Unknown(t *testing.T) {
	typ, c := detectType("supra note 12, at 45")
	if typ != model.CitationTypeUnknown {
		t.Errorf("Expected unknown, got %s", typ)
	}
	if c != nil {
		t.Errorf("Expected nil components, got %v", c)
	}
}
