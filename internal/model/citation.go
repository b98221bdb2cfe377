package model

// CitationType categorizes the kind of authority a citation refers to
type CitationType string

const (
	CitationTypeCase         CitationType = "case"         // Party v. Party, reporter citation
	CitationTypeStatute      CitationType = "statute"      // Title, code abbreviation, section
	CitationTypeConstitution CitationType = "constitution" // Constitutional provision
	CitationTypeBook         CitationType = "book"         // Author, title, year
	CitationTypeArticle      CitationType = "article"      // Author, title, journal, page
	CitationTypeUnknown      CitationType = "unknown"      // No pattern matched
)

// Span is a half-open [Start, End) byte-offset range into a citation's text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Citation represents one structured reference extracted from a footnote.
// It is created once by the extractor and never mutated; validators attach
// their results to a separate ValidationResult record.
type Citation struct {
	FootnoteNumber  int               `json:"footnote_number"`            // Footnote the citation came from
	CitationNumber  int               `json:"citation_number"`            // 1-indexed ordinal within the footnote
	FullText        string            `json:"full_text"`                  // Citation text with markers stripped
	DetectedType    CitationType      `json:"detected_type"`              // First matching type pattern
	Components      map[string]string `json:"components,omitempty"`       // Type-specific parsed parts
	FormattingSpans map[string][]Span `json:"formatting_spans,omitempty"` // style name -> offset ranges
	RawFootnoteText string            `json:"raw_footnote_text"`          // Original footnote text incl. markers
}

// Formatting style names used as FormattingSpans keys
const (
	StyleItalic    = "italic"
	StyleBold      = "bold"
	StyleSmallCaps = "small-caps"
)

// QuotedSpans returns the text inside curled or straight double quotes,
// in order of appearance. Used to feed the quote verifier.
func (c Citation) QuotedSpans() []string {
	var quotes []string
	runes := []rune(c.FullText)
	start := -1
	for i, r := range runes {
		switch r {
		case '“': // opening curled
			start = i + 1
		case '”': // closing curled
			if start >= 0 && i > start {
				quotes = append(quotes, string(runes[start:i]))
			}
			start = -1
		case '"':
			if start >= 0 {
				if i > start {
					quotes = append(quotes, string(runes[start:i]))
				}
				start = -1
			} else {
				start = i + 1
			}
		}
	}
	return quotes
}
