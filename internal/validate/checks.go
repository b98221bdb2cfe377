package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/bluepencil/citecheck/internal/model"
)

// Deterministic pattern checks: always executed, independent of rule
// retrieval and of the reasoning call. Findings carry confidence 1.0 and
// no rule id; their evidence quote is the offending literal text itself.

const nbsp = " "

// nbspPatterns match token shapes that must never break across a line.
// Each pattern's match contains exactly one ordinary space to replace.
var nbspPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"section_symbol", regexp.MustCompile(`[§¶]+ \d`)},
	{"list_marker", regexp.MustCompile(`\(\d+\) [A-Za-z]`)},
	{"time_of_day", regexp.MustCompile(`\d(?::\d{2})? (?:[AP]\.?M\.?|[ap]\.m\.)`)},
	{"month_day", regexp.MustCompile(`(?:Jan|Feb|Mar|Apr|May|June?|July?|Aug|Sept?|Oct|Nov|Dec)\.? \d`)},
	{"versus", regexp.MustCompile(`[A-Za-z.,'’] v\.`)},
	{"labeled_identifier", regexp.MustCompile(`(?:Part|Figure|Fig\.|Table|No\.|Ch\.) [A-Za-z0-9]`)},
}

var (
	straightDoubleRe = regexp.MustCompile(`"[^"]*"|"`)
	parentheticalRe  = regexp.MustCompile(`\(([^()]*)\)`)
)

// historyMarkers open a subsequent-history parenthetical; those keep
// their capitalization.
var historyMarkers = []string{"aff'd", "aff’d", "rev'd", "rev’d", "cert. denied", "cert. granted", "vacated", "overruled", "en banc"}

// continuationMarkers open a citation-continuation parenthetical.
var continuationMarkers = []string{"id.", "citing", "quoting", "internal quotation"}

// RunChecks executes every deterministic check against the citation and
// returns the deduplicated findings.
func RunChecks(citation model.Citation) []model.ValidationFinding {
	var findings []model.ValidationFinding
	findings = append(findings, checkQuotationMarks(citation.FullText)...)
	findings = append(findings, checkNonBreakingSpaces(citation.FullText)...)
	findings = append(findings, checkFinalParenthetical(citation.FullText)...)
	return dedupeFindings(findings)
}

// checkQuotationMarks flags straight quotes where curled ones belong,
// double and single quotes separately.
func checkQuotationMarks(text string) []model.ValidationFinding {
	var findings []model.ValidationFinding

	if strings.ContainsRune(text, '"') {
		quoted := straightDoubleRe.FindString(text)
		suggested := quoted
		if strings.Count(quoted, `"`) == 2 {
			suggested = "“" + strings.Trim(quoted, `"`) + "”"
		}
		findings = append(findings, model.ValidationFinding{
			Category:      model.CategoryQuotationMarks,
			Description:   "straight double quotation marks; use curled quotation marks",
			Confidence:    1.0,
			EvidenceQuote: quoted,
			CurrentText:   quoted,
			SuggestedText: suggested,
		})
	}

	if strings.ContainsRune(text, '\'') {
		idx := strings.IndexRune(text, '\'')
		current := snippetAround(text, idx, 10)
		findings = append(findings, model.ValidationFinding{
			Category:      model.CategoryQuotationMarks,
			Description:   "straight single quotation mark or apostrophe; use the curled form",
			Confidence:    1.0,
			EvidenceQuote: current,
			CurrentText:   current,
			SuggestedText: strings.Replace(current, "'", "’", 1),
		})
	}

	return findings
}

// checkNonBreakingSpaces flags ordinary breakable spaces inside token
// shapes that must stay on one line, suggesting a non-breaking space.
func checkNonBreakingSpaces(text string) []model.ValidationFinding {
	var findings []model.ValidationFinding
	for _, pat := range nbspPatterns {
		for _, m := range pat.re.FindAllString(text, -1) {
			findings = append(findings, model.ValidationFinding{
				Category:      model.CategoryNonBreakingSpace,
				Description:   fmt.Sprintf("breakable space in %s token; use a non-breaking space", strings.ReplaceAll(pat.name, "_", " ")),
				Confidence:    1.0,
				EvidenceQuote: m,
				CurrentText:   m,
				SuggestedText: strings.Replace(m, " ", nbsp, 1),
			})
		}
	}
	return findings
}

// checkFinalParenthetical flags the last parenthetical when it is an
// explanatory one starting with an uppercase letter. Quotations,
// subsequent-history markers, and citation-continuation markers keep
// their capitalization.
func checkFinalParenthetical(text string) []model.ValidationFinding {
	all := parentheticalRe.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return nil
	}
	content := strings.TrimSpace(all[len(all)-1][1])
	if content == "" {
		return nil
	}

	// Quotation parentheticals start with a quote mark, so requiring an
	// uppercase letter first excludes them as well.
	runes := []rune(content)
	if !unicode.IsUpper(runes[0]) || !unicode.IsLetter(runes[0]) {
		return nil
	}
	lower := strings.ToLower(content)
	for _, m := range historyMarkers {
		if strings.HasPrefix(lower, m) {
			return nil
		}
	}
	for _, m := range continuationMarkers {
		if strings.HasPrefix(lower, m) {
			return nil
		}
	}

	suggested := string(unicode.ToLower(runes[0])) + string(runes[1:])
	return []model.ValidationFinding{{
		Category:      model.CategoryParenthetical,
		Description:   "final explanatory parenthetical starts with an uppercase letter",
		Confidence:    1.0,
		EvidenceQuote: content,
		CurrentText:   "(" + content + ")",
		SuggestedText: "(" + suggested + ")",
	}}
}

// dedupeFindings drops findings identical on every field.
func dedupeFindings(findings []model.ValidationFinding) []model.ValidationFinding {
	seen := make(map[model.ValidationFinding]bool)
	var unique []model.ValidationFinding
	for _, f := range findings {
		if !seen[f] {
			seen[f] = true
			unique = append(unique, f)
		}
	}
	return unique
}

// snippetAround returns up to radius bytes of context either side of idx.
func snippetAround(text string, idx, radius int) string {
	lo := idx - radius
	if lo < 0 {
		lo = 0
	}
	hi := idx + radius
	if hi > len(text) {
		hi = len(text)
	}
	for lo > 0 && !isASCIIBoundarySafe(text[lo]) {
		lo--
	}
	for hi < len(text) && !isASCIIBoundarySafe(text[hi]) {
		hi++
	}
	return text[lo:hi]
}

func isASCIIBoundarySafe(b byte) bool { return b < 0x80 || b >= 0xc0 }
