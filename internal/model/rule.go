package model

// Corpus identifies which rule corpus a rule or finding belongs to
type Corpus string

const (
	CorpusPrimary   Corpus = "primary"   // Always takes precedence
	CorpusSecondary Corpus = "secondary" // Consulted only when the primary is silent
	CorpusNone      Corpus = ""          // Purely deterministic finding, no corpus involved
)

// RuleNode is one node of a corpus's nested rule tree as published.
// Children may be empty; the index flattens the tree at load time.
type RuleNode struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Text     string     `json:"text"`
	Children []RuleNode `json:"children,omitempty"`
}

// Rule is a flattened rule with its synthesized hierarchical id.
// Rules are loaded once at process start and immutable for the run.
type Rule struct {
	RuleID   string `json:"rule_id"` // Dotted path of ancestor ids, unique within a corpus
	Corpus   Corpus `json:"corpus"`
	Title    string `json:"title"`
	BodyText string `json:"body_text"`
}

// MatchType records how a rule was selected for a citation
type MatchType string

const (
	MatchTypeKeyword       MatchType = "keyword"       // Term-frequency scored
	MatchTypeDeterministic MatchType = "deterministic" // Selected by a fixed probe
)

// RuleMatch is one retrieved rule with its relevance score
type RuleMatch struct {
	RuleID    string    `json:"rule_id"`
	Corpus    Corpus    `json:"corpus"`
	Title     string    `json:"title"`
	BodyText  string    `json:"body_text"`
	Score     float64   `json:"score"` // Non-negative term-frequency score
	MatchType MatchType `json:"match_type"`
}

// CorpusCoverage audits retrieval completeness for one corpus
type CorpusCoverage struct {
	Scanned  int `json:"scanned"`  // Rules examined
	Matched  int `json:"matched"`  // Rules with a positive score
	Returned int `json:"returned"` // Rules surviving the quota cut
}

// Coverage holds per-corpus retrieval accounting for one citation
type Coverage struct {
	Primary   CorpusCoverage `json:"primary"`
	Secondary CorpusCoverage `json:"secondary"`
}
