package docproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/bluepencil/citecheck/internal/model"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoHighRes is returned by renderings without a high-resolution
// re-extraction path.
var ErrNoHighRes = errors.New("high-resolution re-extraction not supported")

// PDFRendering implements Rendering on top of pdfcpu content-stream
// parsing. Text runs get approximate bounding boxes from the text
// positioning operators; filled rectangles from `re` drawing operators
// feed the no-annotation fallback. Existing PDF annotations require a
// renderer with full page-tree support and are not surfaced here.
type PDFRendering struct {
	sourceID string
	ctx      *pdfmodel.Context
}

// OpenPDF reads and validates a PDF file as a rendering input.
func OpenPDF(path string) (*PDFRendering, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := pdfmodel.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &PDFRendering{sourceID: path, ctx: ctx}, nil
}

// SourceID identifies the document within a validation run.
func (r *PDFRendering) SourceID() string { return r.sourceID }

// Pages parses every page's content stream into text blocks and drawn
// rectangles.
func (r *PDFRendering) Pages() ([]model.Page, error) {
	var pages []model.Page
	for pageNr := 1; pageNr <= r.ctx.PageCount; pageNr++ {
		content, err := pdfcpu.ExtractPageContent(r.ctx, pageNr)
		if err != nil {
			// A page that fails to parse is surfaced empty rather than
			// aborting the whole document.
			pages = append(pages, model.Page{Number: pageNr, BBox: defaultMediaBox()})
			continue
		}
		data, err := io.ReadAll(content)
		if err != nil || len(data) == 0 {
			pages = append(pages, model.Page{Number: pageNr, BBox: defaultMediaBox()})
			continue
		}

		blocks, drawings := parseContentStream(data)
		var text strings.Builder
		for i, b := range blocks {
			if i > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(b.Text)
		}
		pages = append(pages, model.Page{
			Number:   pageNr,
			Text:     text.String(),
			Blocks:   blocks,
			Drawings: drawings,
			BBox:     defaultMediaBox(),
		})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages found in %s", r.sourceID)
	}
	return pages, nil
}

// ReExtract has no raster path under pdfcpu; callers fall back to the
// first-pass text.
func (r *PDFRendering) ReExtract(page int, rect model.Rect) (string, error) {
	return "", ErrNoHighRes
}

func defaultMediaBox() model.Rect {
	// US Letter in PDF points.
	return model.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// parseContentStream walks the page's operator stream, tracking the text
// position set by Td/TD/Tm and the font size set by Tf, and emits one
// text block per text-showing operator plus every filled rectangle.
func parseContentStream(data []byte) ([]model.TextBlock, []model.DrawnRect) {
	var blocks []model.TextBlock
	var drawings []model.DrawnRect

	x, y := 0.0, 0.0
	fontSize := 10.0
	var lastRect *model.Rect

	emit := func(text string) {
		text = cleanStreamText(text)
		if text == "" {
			return
		}
		// Rough glyph advance; exact metrics need font data we don't load.
		width := float64(len(text)) * fontSize * 0.5
		blocks = append(blocks, model.TextBlock{
			Text: text,
			BBox: model.Rect{X0: x, Y0: y, X1: x + width, Y1: y + fontSize},
			Size: fontSize,
		})
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		fields := strings.Fields(string(line))
		last := fields[len(fields)-1]

		switch last {
		case "Td", "TD":
			if nx, ny, ok := lastTwoFloats(fields); ok {
				x, y = nx, ny
			}
			continue
		case "Tm":
			// Text matrix: last two operands are the translation.
			if nx, ny, ok := lastTwoFloats(fields); ok {
				x, y = nx, ny
			}
			continue
		case "Tf":
			if len(fields) >= 3 {
				if size, err := strconv.ParseFloat(fields[len(fields)-2], 64); err == nil && size > 0 {
					fontSize = size
				}
			}
			continue
		case "re":
			if rect, ok := parseRectOp(fields); ok {
				lastRect = &rect
			}
			continue
		case "f", "F", "b", "B":
			if lastRect != nil {
				drawings = append(drawings, model.DrawnRect{Rect: *lastRect, Filled: true})
				lastRect = nil
			}
			continue
		}

		if bytes.HasSuffix(line, []byte("Tj")) || bytes.HasSuffix(line, []byte("TJ")) ||
			(bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("("))) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				emit(decodePDFString(m[1]))
			}
		}
	}
	return blocks, drawings
}

// lastTwoFloats parses the two operands preceding the operator token.
func lastTwoFloats(fields []string) (float64, float64, bool) {
	if len(fields) < 3 {
		return 0, 0, false
	}
	a, err1 := strconv.ParseFloat(fields[len(fields)-3], 64)
	b, err2 := strconv.ParseFloat(fields[len(fields)-2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

// parseRectOp parses `x y w h re`.
func parseRectOp(fields []string) (model.Rect, bool) {
	if len(fields) < 5 {
		return model.Rect{}, false
	}
	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(fields[len(fields)-5+i], 64)
		if err != nil {
			return model.Rect{}, false
		}
		vals[i] = v
	}
	return model.Rect{X0: vals[0], Y0: vals[1], X1: vals[0] + vals[2], Y1: vals[1] + vals[3]}, true
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\', '(', ')':
				sb.WriteByte(raw[i])
			default:
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
						i++
						val = val*8 + int(raw[i]-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// cleanStreamText normalises whitespace in one extracted run.
func cleanStreamText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
