// Package rules loads the two citation-style rule corpora and retrieves
// the rules most relevant to a citation. The index is built once at
// startup and is read-only afterwards, so it is safe to share across
// concurrent validations without synchronization.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/bluepencil/citecheck/internal/model"
)

// posting records how often a token occurs in one rule
type posting struct {
	rule  int // Position in the corpus's flat rule list
	count int
}

// corpusIndex is the flattened rule list of one corpus plus an inverted
// keyword index over title and body text
type corpusIndex struct {
	corpus   model.Corpus
	rules    []model.Rule
	inverted map[string][]posting
}

// Index holds both corpora. Primary always precedes secondary in any
// combined output.
type Index struct {
	primary   corpusIndex
	secondary corpusIndex
	minToken  int
}

// NewIndex flattens both rule forests and builds their inverted indexes.
// Rule ids are synthesized by joining each node's local id to its
// parent's synthesized id; duplicates within a corpus are an error.
func NewIndex(primary, secondary []model.RuleNode, cfg model.RetrievalConfig) (*Index, error) {
	minToken := cfg.MinIndexToken
	if minToken <= 0 {
		minToken = 2
	}
	idx := &Index{minToken: minToken}

	var err error
	if idx.primary, err = buildCorpus(model.CorpusPrimary, primary, minToken); err != nil {
		return nil, err
	}
	if idx.secondary, err = buildCorpus(model.CorpusSecondary, secondary, minToken); err != nil {
		return nil, err
	}
	return idx, nil
}

// LoadCorpusFile reads one corpus's rule forest from a JSON file.
func LoadCorpusFile(path string) ([]model.RuleNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var nodes []model.RuleNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	return nodes, nil
}

// RuleCount returns the number of rules loaded for a corpus.
func (idx *Index) RuleCount(corpus model.Corpus) int {
	if corpus == model.CorpusPrimary {
		return len(idx.primary.rules)
	}
	return len(idx.secondary.rules)
}

// Lookup returns the rule with the given id from the given corpus.
func (idx *Index) Lookup(corpus model.Corpus, ruleID string) (model.Rule, bool) {
	ci := &idx.secondary
	if corpus == model.CorpusPrimary {
		ci = &idx.primary
	}
	for _, r := range ci.rules {
		if r.RuleID == ruleID {
			return r, true
		}
	}
	return model.Rule{}, false
}

func buildCorpus(corpus model.Corpus, forest []model.RuleNode, minToken int) (corpusIndex, error) {
	ci := corpusIndex{
		corpus:   corpus,
		inverted: make(map[string][]posting),
	}

	seen := make(map[string]bool)
	var flatten func(nodes []model.RuleNode, parentID string) error
	flatten = func(nodes []model.RuleNode, parentID string) error {
		for _, n := range nodes {
			id := n.ID
			if parentID != "" {
				id = parentID + "." + n.ID
			}
			if seen[id] {
				return fmt.Errorf("%s corpus: duplicate rule id %q", corpus, id)
			}
			seen[id] = true

			ci.rules = append(ci.rules, model.Rule{
				RuleID:   id,
				Corpus:   corpus,
				Title:    n.Title,
				BodyText: n.Text,
			})
			if err := flatten(n.Children, id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := flatten(forest, ""); err != nil {
		return corpusIndex{}, err
	}

	for i, r := range ci.rules {
		for tok, count := range tokenCounts(r.Title+" "+r.BodyText, minToken) {
			ci.inverted[tok] = append(ci.inverted[tok], posting{rule: i, count: count})
		}
	}
	return ci, nil
}

// tokenCounts lowercases text and counts alphanumeric tokens of at least
// minLen characters.
func tokenCounts(text string, minLen int) map[string]int {
	counts := make(map[string]int)
	var tok strings.Builder
	flush := func() {
		if tok.Len() >= minLen {
			counts[strings.ToLower(tok.String())]++
		}
		tok.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			tok.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return counts
}
