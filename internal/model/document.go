package model

// Rect is an axis-aligned rectangle in page coordinates
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Expand returns the rectangle grown by tol on every side
func (r Rect) Expand(tol float64) Rect {
	return Rect{X0: r.X0 - tol, Y0: r.Y0 - tol, X1: r.X1 + tol, Y1: r.Y1 + tol}
}

// Intersects reports whether two rectangles overlap
func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// TextBlock is one raw text run with its bounding box
type TextBlock struct {
	Text string  `json:"text"`
	BBox Rect    `json:"bbox"`
	Font string  `json:"font,omitempty"`
	Size float64 `json:"size,omitempty"`
}

// AnnotationType classifies a source-document annotation
type AnnotationType string

const (
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationSquare    AnnotationType = "square"
	AnnotationUnderline AnnotationType = "underline"
	AnnotationFreeText  AnnotationType = "free_text"
)

// Annotation is one existing markup object on a page
type Annotation struct {
	Type  AnnotationType `json:"type"`
	Rect  Rect           `json:"rect"`
	Color string         `json:"color,omitempty"`
	Note  string         `json:"note,omitempty"`
}

// DrawnRect is a filled or stroked rectangle found in page drawings,
// used as a marked-region fallback when no annotations exist
type DrawnRect struct {
	Rect   Rect `json:"rect"`
	Filled bool `json:"filled"`
}

// Page is one rendered page's extraction input
type Page struct {
	Number      int          `json:"number"` // 1-indexed
	Text        string       `json:"text"`   // Full page text in reading order
	Blocks      []TextBlock  `json:"blocks"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Drawings    []DrawnRect  `json:"drawings,omitempty"`
	BBox        Rect         `json:"bbox"` // Page media box
}

// MarkedRegion is a rectangular area flagged as containing a citation
// element to verify, with the text extracted from it and its quality
type MarkedRegion struct {
	Page           int     `json:"page"`
	Rect           Rect    `json:"rect"`
	Text           string  `json:"text"`
	QualityScore   float64 `json:"quality_score"` // [0,1]
	IsCorrupted    bool    `json:"is_corrupted"`
	WasReExtracted bool    `json:"was_re_extracted"`
	Improved       bool    `json:"improved,omitempty"` // Re-extraction beat the first pass
	Fallback       bool    `json:"fallback,omitempty"` // Produced by a no-annotation fallback
}

// SourceDocumentExtraction is the processed form of one rendered document
type SourceDocumentExtraction struct {
	SourceID      string         `json:"source_id"`
	Pages         []Page         `json:"pages"`
	MarkedRegions []MarkedRegion `json:"marked_regions"`
}

// QuoteVerification is the outcome of matching one quote against a
// set of processed source documents
type QuoteVerification struct {
	QuoteText      string   `json:"quote_text"`
	Found          bool     `json:"found"`
	ExactMatch     bool     `json:"exact_match"`
	Confidence     float64  `json:"confidence"` // [0,1]
	SourceID       string   `json:"source_id,omitempty"`
	PageNumber     *int     `json:"page_number,omitempty"`
	ContextSnippet string   `json:"context_snippet,omitempty"`
	Differences    []string `json:"differences,omitempty"` // Capped, human-readable
	Suggestions    []string `json:"suggestions,omitempty"`
}
