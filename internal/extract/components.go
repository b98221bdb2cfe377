package extract

import (
	"regexp"
	"strings"

	"github.com/bluepencil/citecheck/internal/model"
)

// Type-detection patterns, tried in order; the first match wins.
// "vs." is accepted in the case pattern so that malformed case citations
// still reach the pre-validator as cases rather than as unknowns.
var (
	leadingSignalRe = regexp.MustCompile(`^(?i)(see generally|see also|but see|but cf\.|see|cf\.|accord|compare|contra)[,\s]+`)

	caseRe = regexp.MustCompile(`^(.+?)\s+vs?\.\s+(.+?),\s+(\d+)\s+([A-Z][A-Za-z0-9.' ]*?)\s+(\d+)(?:,\s*(\d+(?:[-–]\d+)?))?(?:\s*\(([A-Za-z0-9.\s]*?\s)?(\d{4})\))?`)

	statuteRe = regexp.MustCompile(`^(\d+)\s+([A-Z][A-Za-z.]*(?:\s+[A-Z][A-Za-z.]*)*?)\s*(§§?)\s*([0-9][A-Za-z0-9.()\-]*)(?:\s*\((?:([A-Za-z.\s]+?)\s+)?(\d{4})\))?`)

	// Statutes cited without their section mark still carry a recognizable
	// code abbreviation (U.S.C., C.F.R., ... Code, ... Stat.).
	statuteLooseRe = regexp.MustCompile(`^(\d+)\s+((?:[A-Z][a-z]*\.\s*){2,}[A-Z][A-Za-z.]*|[A-Z][A-Za-z.\s]*(?:Code|Stat\.)[A-Za-z.\s]*)\s+([0-9][A-Za-z0-9.()\-]*)`)

	constRe = regexp.MustCompile(`^([A-Z][A-Za-z.\s]*?)\s*Const\.(?:\s+(amend\.|art\.)\s+([IVXLC0-9]+))?(?:,\s*§\s*(\d+))?(?:,\s*cl\.\s*(\d+))?`)

	bookRe = regexp.MustCompile(`^([A-Z][\w.'’\- ]+?),\s+([^,()]+?)\s+\((?:(\d+(?:st|d|th)?)\s+ed\.\s*)?(\d{4})\)`)

	articleRe = regexp.MustCompile(`^([^,]+?),\s+(.+?),\s+(\d+)\s+([A-Z][A-Za-z.&'\s]+?)\s+(\d+)(?:,\s*(\d+(?:[-–]\d+)?))?\s*\((\d{4})\)`)
)

// stripSignal removes a leading citation signal for component matching;
// the signal stays part of the citation's full text.
func stripSignal(text string) string {
	return leadingSignalRe.ReplaceAllString(text, "")
}

// detectType classifies a citation segment and parses its type-specific
// components. Segments that match no pattern come back unknown with nil
// components.
func detectType(text string) (model.CitationType, map[string]string) {
	body := stripSignal(strings.TrimSpace(text))

	if m := caseRe.FindStringSubmatch(body); m != nil {
		c := map[string]string{
			"case_name": m[1] + " v. " + m[2],
			"volume":    m[3],
			"reporter":  strings.TrimSpace(m[4]),
			"page":      m[5],
		}
		if m[6] != "" {
			c["pincite"] = m[6]
		}
		if court := strings.TrimSpace(m[7]); court != "" {
			c["court"] = court
		}
		if m[8] != "" {
			c["year"] = m[8]
		}
		return model.CitationTypeCase, c
	}

	if m := statuteRe.FindStringSubmatch(body); m != nil {
		c := map[string]string{
			"title":        m[1],
			"code":         strings.TrimSpace(m[2]),
			"section_mark": m[3],
			"section":      m[4],
		}
		if pub := strings.TrimSpace(m[5]); pub != "" {
			c["publisher"] = pub
		}
		if m[6] != "" {
			c["year"] = m[6]
		}
		return model.CitationTypeStatute, c
	}
	if m := statuteLooseRe.FindStringSubmatch(body); m != nil {
		return model.CitationTypeStatute, map[string]string{
			"title":   m[1],
			"code":    strings.TrimSpace(m[2]),
			"section": m[3],
		}
	}

	if m := constRe.FindStringSubmatch(body); m != nil {
		c := map[string]string{"constitution": strings.TrimSpace(m[1])}
		if m[2] != "" {
			kind := "article"
			if m[2] == "amend." {
				kind = "amendment"
			}
			c[kind] = m[3]
		}
		if m[4] != "" {
			c["section"] = m[4]
		}
		if m[5] != "" {
			c["clause"] = m[5]
		}
		return model.CitationTypeConstitution, c
	}

	if !strings.Contains(body, " v. ") {
		if m := bookRe.FindStringSubmatch(body); m != nil {
			c := map[string]string{
				"author": strings.TrimSpace(m[1]),
				"title":  strings.TrimSpace(m[2]),
				"year":   m[4],
			}
			if m[3] != "" {
				c["edition"] = m[3]
			}
			return model.CitationTypeBook, c
		}
	}

	if m := articleRe.FindStringSubmatch(body); m != nil && !strings.Contains(m[1], " v. ") {
		c := map[string]string{
			"author":  strings.TrimSpace(m[1]),
			"title":   strings.TrimSpace(m[2]),
			"volume":  m[3],
			"journal": strings.TrimSpace(m[4]),
			"page":    m[5],
			"year":    m[7],
		}
		if m[6] != "" {
			c["pincite"] = m[6]
		}
		return model.CitationTypeArticle, c
	}

	return model.CitationTypeUnknown, nil
}
