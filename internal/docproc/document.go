// Package docproc turns a rendered source document into text blocks,
// annotations, and marked regions, with quality assessment and targeted
// re-extraction of degraded regions. It never performs document
// retrieval or rendering itself; a Rendering supplies the raw input.
package docproc

import (
	"fmt"
	"strings"

	"github.com/bluepencil/citecheck/internal/model"
	"github.com/rs/zerolog/log"
)

// Rendering is the source-document renderer boundary: per-page raw text
// runs with bounding boxes, existing annotation objects, and on-demand
// higher-resolution re-extraction of a rectangle.
type Rendering interface {
	// SourceID identifies the document within a validation run.
	SourceID() string

	// Pages returns every page's raw extraction input.
	Pages() ([]model.Page, error)

	// ReExtract re-renders one rectangle at a higher resolution and
	// returns its text. Renderings without a high-resolution path return
	// an error.
	ReExtract(page int, rect model.Rect) (string, error)
}

// Processor extracts marked regions from renderings
type Processor struct {
	cfg model.QualityConfig
}

// NewProcessor creates a processor with the given quality config
func NewProcessor(cfg model.QualityConfig) *Processor {
	if cfg.AlnumRatioFloor == 0 {
		cfg = model.DefaultConfig().Quality
	}
	return &Processor{cfg: cfg}
}

// Process extracts text blocks, annotations, and marked regions from one
// rendering. Corrupted regions trigger a lazy high-resolution
// re-extraction; a region that stays corrupted is still returned with
// IsCorrupted set so the caller can route it to manual review.
func (p *Processor) Process(rendering Rendering) (*model.SourceDocumentExtraction, error) {
	pages, err := rendering.Pages()
	if err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}

	extraction := &model.SourceDocumentExtraction{
		SourceID: rendering.SourceID(),
		Pages:    pages,
	}

	regions := p.annotatedRegions(pages)
	if len(regions) == 0 {
		regions = p.fallbackRegions(pages)
	}

	for i := range regions {
		p.assessAndRecover(rendering, &regions[i])
	}
	extraction.MarkedRegions = regions
	return extraction, nil
}

// annotatedRegions matches each annotation to overlapping text runs.
// The annotation rectangle is expanded by the configured tolerance on
// all sides before the overlap test; overlapping run texts concatenate
// in encounter order.
func (p *Processor) annotatedRegions(pages []model.Page) []model.MarkedRegion {
	var regions []model.MarkedRegion
	for _, page := range pages {
		for _, ann := range page.Annotations {
			expanded := ann.Rect.Expand(p.cfg.OverlapTolerance)
			var parts []string
			for _, block := range page.Blocks {
				if expanded.Intersects(block.BBox) {
					parts = append(parts, block.Text)
				}
			}
			regions = append(regions, model.MarkedRegion{
				Page: page.Number,
				Rect: ann.Rect,
				Text: strings.Join(parts, " "),
			})
		}
	}
	return regions
}

// fallbackRegions applies the no-annotation fallbacks: the top portion
// of the first page, and filled/drawn rectangles on the first few pages
// whose text exceeds the minimum length. Both come back flagged as
// lower-confidence fallback regions.
func (p *Processor) fallbackRegions(pages []model.Page) []model.MarkedRegion {
	if len(pages) == 0 {
		return nil
	}

	var regions []model.MarkedRegion

	first := pages[0]
	topRect := model.Rect{
		X0: first.BBox.X0,
		Y0: first.BBox.Y0,
		X1: first.BBox.X1,
		Y1: first.BBox.Y0 + first.BBox.Height()*p.cfg.FallbackTopRatio,
	}
	if text := textInRect(first, topRect); strings.TrimSpace(text) != "" {
		regions = append(regions, model.MarkedRegion{
			Page:     first.Number,
			Rect:     topRect,
			Text:     text,
			Fallback: true,
		})
	}

	maxPages := p.cfg.FallbackMaxPages
	if maxPages <= 0 || maxPages > len(pages) {
		maxPages = len(pages)
	}
	for _, page := range pages[:maxPages] {
		for _, d := range page.Drawings {
			text := textInRect(page, d.Rect)
			if len(strings.TrimSpace(text)) < p.cfg.FallbackMinChars {
				continue
			}
			regions = append(regions, model.MarkedRegion{
				Page:     page.Number,
				Rect:     d.Rect,
				Text:     text,
				Fallback: true,
			})
		}
	}
	return regions
}

// assessAndRecover runs quality assessment on a region and, when the
// text is corrupted and the rendering supports it, re-extracts just that
// rectangle at a higher resolution and keeps whichever candidate scores
// higher.
func (p *Processor) assessAndRecover(rendering Rendering, region *model.MarkedRegion) {
	report := AssessQuality(region.Text, p.cfg)
	region.QualityScore = report.Score
	region.IsCorrupted = report.IsCorrupted
	if !report.IsCorrupted {
		return
	}

	retext, err := rendering.ReExtract(region.Page, region.Rect)
	if err != nil {
		log.Debug().
			Err(err).
			Int("page", region.Page).
			Msg("high-resolution re-extraction unavailable")
		return
	}
	region.WasReExtracted = true

	rereport := AssessQuality(retext, p.cfg)
	if rereport.Score > report.Score {
		region.Text = retext
		region.QualityScore = rereport.Score
		region.IsCorrupted = rereport.IsCorrupted
		region.Improved = true
	}
}

// textInRect concatenates the text of every block overlapping rect, in
// encounter order. Pages without block data fall back to full page text.
func textInRect(page model.Page, rect model.Rect) string {
	if len(page.Blocks) == 0 {
		return page.Text
	}
	var parts []string
	for _, block := range page.Blocks {
		if rect.Intersects(block.BBox) {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, " ")
}
