package llm

import (
	"fmt"
	"strings"

	"github.com/bluepencil/citecheck/internal/model"
)

// BuildPrompt renders the review request for the collaborator. Primary
// corpus rules come first, clearly separated from secondary ones, each
// with its id and full body text visible so evidence quotes can be
// verbatim.
func BuildPrompt(req ReviewRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are checking one legal citation for formatting correctness against the style rules supplied below.

CRITICAL RULES:
1. Judge ONLY against the supplied rules. Do not invent rules.
2. Every reported error MUST include "evidence_quote": an EXACT, verbatim substring copied from one supplied rule's body text.
3. Primary-corpus rules always take precedence; consult secondary-corpus rules only where the primary corpus is silent.
4. If the citation is correct, report zero errors.

Citation (footnote %d, citation %d, detected type: %s):
%s

`, req.FootnoteNumber, req.CitationNumber, req.CitationType, req.CitationText)

	writeCorpus := func(label string, corpus model.Corpus) {
		fmt.Fprintf(&b, "=== %s CORPUS RULES ===\n", label)
		count := 0
		for _, r := range req.Rules {
			if r.Corpus != corpus {
				continue
			}
			count++
			fmt.Fprintf(&b, "[%s] %s\n%s\n\n", r.RuleID, r.Title, r.BodyText)
		}
		if count == 0 {
			b.WriteString("(none retrieved)\n\n")
		}
	}
	writeCorpus("PRIMARY", model.CorpusPrimary)
	writeCorpus("SECONDARY", model.CorpusSecondary)

	b.WriteString(`Respond with a single JSON object:
{
  "is_correct": bool,
  "errors": [
    {
      "description": "what is wrong",
      "rule_id": "id of the rule applied",
      "corpus": "primary" or "secondary",
      "evidence_quote": "verbatim text copied from that rule's body",
      "current_text": "the offending citation text",
      "suggested_text": "the corrected citation text"
    }
  ]
}
No prose outside the JSON object.`)

	return b.String()
}
