// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"fmt"
	"sort"

	"docuscrub/internal/detector"
	"docuscrub/internal/observability"
)

const (
	// DefaultBorderExpand widens exact-search regions on all sides so
	// anti-aliased glyph edges are fully covered
	DefaultBorderExpand = 2.0

	// DefaultPreviewZoom is the rasterization factor for preview images
	DefaultPreviewZoom = 2.0
)

// Redactor creates redacted copies of PDFs by destroying the content under
// each finding's region and painting it black.
type Redactor struct {
	borderExpand float64
	previewZoom  float64
	observer     *observability.StandardObserver
}

// NewRedactor creates a Redactor with default border expansion and preview
// zoom.
func NewRedactor(observer *observability.StandardObserver) *Redactor {
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityMetrics, nil)
	}
	return &Redactor{
		borderExpand: DefaultBorderExpand,
		previewZoom:  DefaultPreviewZoom,
		observer:     observer,
	}
}

// WithBorderExpand overrides the region expansion border
func (r *Redactor) WithBorderExpand(border float64) *Redactor {
	r.borderExpand = border
	return r
}

// Redact returns a copy of pdfData with every locatable finding's region
// irreversibly removed and blacked out.
//
// Failure semantics: an unreadable document fails the call; a finding with
// an out-of-range page number is skipped with a warning; a value that
// cannot be located on its page is skipped with a warning. One finding's
// failure never prevents redaction of the others.
func (r *Redactor) Redact(pdfData []byte, findings []detector.PageFinding) ([]byte, error) {
	finishTiming := r.observer.StartTiming("redactor", "redact", "")

	session, err := OpenSession(pdfData)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	byPage := groupByPage(findings)
	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	redacted := 0
	for _, page := range pages {
		if page < 1 || page > session.PageCount() {
			r.observer.Warn("redactor", fmt.Sprintf(
				"skipping page %d: document has %d pages", page, session.PageCount()))
			continue
		}

		rects, located := r.pageRegions(session, page, byPage[page])
		if len(rects) == 0 {
			continue
		}
		if err := session.ApplyRegions(page, rects); err != nil {
			finishTiming(false, map[string]interface{}{"page": page, "error": err.Error()})
			return nil, fmt.Errorf("committing redactions on page %d: %w", page, err)
		}
		redacted += located
	}

	out, err := session.Bytes()
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	finishTiming(true, map[string]interface{}{
		"finding_count":  len(findings),
		"redacted_count": redacted,
	})
	return out, nil
}

// pageRegions locates every finding on one page and returns the regions to
// commit plus the count of findings that produced at least one region.
// Exact-search regions are expanded by the border; fallback regions
// already cover whole rows and are used as-is.
func (r *Redactor) pageRegions(session *Session, page int, findings []detector.PageFinding) ([]Rect, int) {
	rows, err := session.Rows(page)
	if err != nil {
		r.observer.Warn("redactor", fmt.Sprintf("page %d: no text geometry: %v", page, err))
		return nil, 0
	}

	var (
		rects   []Rect
		located int
	)
	for _, f := range findings {
		found, accuracy := LocateValue(rows, f.Value)
		switch accuracy {
		case AccuracyNone:
			r.observer.Warn("redactor", fmt.Sprintf(
				"page %d: could not locate a %s finding on the page", page, f.Kind))
			continue
		case AccuracyExact:
			for _, rect := range found {
				rects = append(rects, rect.Expand(r.borderExpand))
			}
		case AccuracyFallback:
			rects = append(rects, found...)
		}
		located++
	}
	return rects, located
}

func groupByPage(findings []detector.PageFinding) map[int][]detector.PageFinding {
	grouped := make(map[int][]detector.PageFinding)
	for _, f := range findings {
		grouped[f.PageNumber] = append(grouped[f.PageNumber], f)
	}
	return grouped
}
