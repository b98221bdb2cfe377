package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bluepencil/citecheck/internal/model"
)

// Structural patterns per citation type. Full matches carry the high base
// confidence; short-form matches carry slightly less; a citation matching
// nothing gets the no-match floor.
type structuralPattern struct {
	name  string
	re    *regexp.Regexp
	types []model.CitationType
	base  float64
}

var structuralPatterns = []structuralPattern{
	{
		name:  "case_full",
		re:    regexp.MustCompile(`\bvs?\.\s+.+?,\s+\d+\s+[A-Z][A-Za-z0-9.' ]*?\s+\d+`),
		types: []model.CitationType{model.CitationTypeCase},
		base:  0.95,
	},
	{
		name:  "case_short",
		re:    regexp.MustCompile(`\bvs?\.\s+[A-Z]`),
		types: []model.CitationType{model.CitationTypeCase},
		base:  0.85,
	},
	{
		name:  "statute_full",
		re:    regexp.MustCompile(`\b\d+\s+[A-Z][A-Za-z.\s]*?§§?\s*\d`),
		types: []model.CitationType{model.CitationTypeStatute},
		base:  0.9,
	},
	{
		name:  "statute_short",
		re:    regexp.MustCompile(`§§?\s*\d`),
		types: []model.CitationType{model.CitationTypeStatute},
		base:  0.85,
	},
	{
		name:  "constitution",
		re:    regexp.MustCompile(`\bConst\.`),
		types: []model.CitationType{model.CitationTypeConstitution},
		base:  0.9,
	},
	{
		name:  "book",
		re:    regexp.MustCompile(`^[A-Z][\w.'’\- ]+?,\s+[^,()]+?\s+\(\d{4}\)`),
		types: []model.CitationType{model.CitationTypeBook},
		base:  0.88,
	},
	{
		name:  "article",
		re:    regexp.MustCompile(`,\s+\d+\s+[A-Z][A-Za-z.&'\s]+?\s+\d+.*\(\d{4}\)`),
		types: []model.CitationType{model.CitationTypeArticle},
		base:  0.88,
	},
}

var yearParenRe = regexp.MustCompile(`\([^)]*\d{4}\)`)

// PreValidator performs fast, type-specific structural checks on a
// citation. It is a triage filter ahead of any network call; its verdict
// is informational context, never merged into final findings.
type PreValidator struct {
	cfg model.StructuralConfig
}

// NewPreValidator creates a pre-validator with the given penalty config
func NewPreValidator(cfg model.StructuralConfig) *PreValidator {
	if cfg.MinLength <= 0 {
		cfg = model.DefaultConfig().Structural
	}
	return &PreValidator{cfg: cfg}
}

// Validate runs the structural checks. Confidence starts from the best
// matching pattern's base score and is reduced by fixed multiplicative
// penalties per defect. IsValid is true only when no hard error was
// recorded.
func (p *PreValidator) Validate(citation model.Citation) model.PreValidation {
	text := citation.FullText
	result := model.PreValidation{
		DetectedType: citation.DetectedType,
	}

	confidence := 0.3 // No structural match floor
	for _, pat := range structuralPatterns {
		if !pat.re.MatchString(text) {
			continue
		}
		result.MatchedPatterns = append(result.MatchedPatterns, pat.name)
		if typeMatches(pat.types, citation.DetectedType) && pat.base > confidence {
			confidence = pat.base
		}
	}

	if len(text) < p.cfg.MinLength {
		result.Errors = append(result.Errors,
			fmt.Sprintf("citation too short (%d chars, minimum %d)", len(text), p.cfg.MinLength))
		confidence *= p.cfg.ShortPenalty
	}

	if !yearParenRe.MatchString(text) {
		result.Errors = append(result.Errors, "missing parenthesized year")
		confidence *= p.cfg.MissingYearPenalty
	}

	if citation.DetectedType == model.CitationTypeCase && strings.Contains(text, " vs. ") {
		result.Errors = append(result.Errors, `case citation uses "vs." instead of "v."`)
		confidence *= p.cfg.VsPenalty
	}

	if citation.DetectedType == model.CitationTypeStatute && !strings.ContainsRune(text, '§') {
		result.Errors = append(result.Errors, "statute citation missing section mark")
		confidence *= p.cfg.NoSectionPenalty
	}

	if len(text) > p.cfg.MaxLength {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("unusually long citation (%d chars)", len(text)))
		confidence *= p.cfg.OverlongPenalty
	}

	result.Confidence = confidence
	result.IsValid = len(result.Errors) == 0
	return result
}

func typeMatches(types []model.CitationType, t model.CitationType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
