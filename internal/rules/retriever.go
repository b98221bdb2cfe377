package rules

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/bluepencil/citecheck/internal/extract"
	"github.com/bluepencil/citecheck/internal/model"
)

// Structural probes over citation text. Each hit contributes fixed cue
// terms to the query so that rules about that structure rank up even when
// the citation itself never uses the word.
var (
	docketRe        = regexp.MustCompile(`\bNo\.\s*\d+[-–]?\w*`)
	reporterRe      = regexp.MustCompile(`\b\d+\s+[A-Z][A-Za-z.]*\.\s*(?:\d+[a-z]*\s+)?\d+\b`)
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	pinciteRe       = regexp.MustCompile(`\d+,\s*\d+(?:[-–]\d+)?`)
	versusRe        = regexp.MustCompile(`\s+vs?\.\s+`)
)

var probeCues = []struct {
	re    *regexp.Regexp
	terms []string
}{
	{docketRe, []string{"docket", "number"}},
	{reporterRe, []string{"reporter", "volume"}},
	{parentheticalRe, []string{"parenthetical", "parentheses"}},
	{pinciteRe, []string{"pincite", "page"}},
	{versusRe, []string{"case", "parties", "versus"}},
}

// Retriever ranks rules from both corpora for a citation
type Retriever struct {
	index *Index
	cfg   model.RetrievalConfig
}

// NewRetriever creates a retriever over a built index
func NewRetriever(index *Index, cfg model.RetrievalConfig) *Retriever {
	if cfg.PrimaryQuota <= 0 {
		cfg.PrimaryQuota = 8
	}
	if cfg.SecondaryQuota <= 0 {
		cfg.SecondaryQuota = 4
	}
	if cfg.MinQueryToken <= 0 {
		cfg.MinQueryToken = 3
	}
	return &Retriever{index: index, cfg: cfg}
}

// Retrieve scores both corpora against the citation text and returns the
// quota-truncated matches, primary corpus strictly before secondary, with
// full per-corpus coverage accounting. Ordering is enforced here, never
// left to the caller.
func (r *Retriever) Retrieve(citationText string) ([]model.RuleMatch, model.Coverage) {
	terms := QueryTerms(citationText, r.cfg.MinQueryToken)

	primary, pcov := rankCorpus(&r.index.primary, terms, r.cfg.PrimaryQuota)
	secondary, scov := rankCorpus(&r.index.secondary, terms, r.cfg.SecondaryQuota)

	combined := append(primary, secondary...)
	return combined, model.Coverage{Primary: pcov, Secondary: scov}
}

// QueryTerms extracts the deduplicated query term set for a citation:
// signal words present, structural cue terms, and generic lowercase
// tokens of at least minLen characters.
func QueryTerms(citationText string, minLen int) []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(t string) {
		t = strings.ToLower(t)
		if t != "" && !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	for _, sig := range extract.SignalsIn(citationText) {
		for _, w := range strings.Fields(sig) {
			add(strings.Trim(w, "."))
		}
	}
	for _, probe := range probeCues {
		if probe.re.MatchString(citationText) {
			for _, t := range probe.terms {
				add(t)
			}
		}
	}

	var tok strings.Builder
	flush := func() {
		if tok.Len() >= minLen {
			add(tok.String())
		}
		tok.Reset()
	}
	for _, r := range citationText {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			tok.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return terms
}

// rankCorpus scores every rule in one corpus by summed term frequency.
// No IDF weighting; ties break by index order.
func rankCorpus(ci *corpusIndex, terms []string, quota int) ([]model.RuleMatch, model.CorpusCoverage) {
	cov := model.CorpusCoverage{Scanned: len(ci.rules)}
	if len(ci.rules) == 0 {
		return nil, cov
	}

	scores := make([]int, len(ci.rules))
	for _, term := range terms {
		for _, p := range ci.inverted[term] {
			scores[p.rule] += p.count
		}
	}

	var order []int
	for i, s := range scores {
		if s > 0 {
			order = append(order, i)
		}
	}
	cov.Matched = len(order)

	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	if len(order) > quota {
		order = order[:quota]
	}
	cov.Returned = len(order)

	matches := make([]model.RuleMatch, 0, len(order))
	for _, i := range order {
		rule := ci.rules[i]
		matches = append(matches, model.RuleMatch{
			RuleID:    rule.RuleID,
			Corpus:    rule.Corpus,
			Title:     rule.Title,
			BodyText:  rule.BodyText,
			Score:     float64(scores[i]),
			MatchType: model.MatchTypeKeyword,
		})
	}
	return matches, cov
}
