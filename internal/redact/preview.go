// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"docuscrub/internal/detector"
)

// ErrPageOutOfRange indicates a directly requested page that the
// document does not have.
var ErrPageOutOfRange = errors.New("page out of range")

// Preview renders one page as a PNG after applying that page's redactions.
// Unlike bulk Redact, an out-of-range page number is an error here: the
// page was requested directly by the caller, not derived from stored
// findings. Other pages' findings are ignored and the original document is
// left untouched.
func (r *Redactor) Preview(pdfData []byte, findings []detector.PageFinding, pageNumber int, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = r.previewZoom
	}

	session, err := OpenSession(pdfData)
	if err != nil {
		return nil, err
	}
	if pageNumber < 1 || pageNumber > session.PageCount() {
		return nil, fmt.Errorf("%w: page %d (document has %d pages)", ErrPageOutOfRange, pageNumber, session.PageCount())
	}

	var pageFindings []detector.PageFinding
	for _, f := range findings {
		if f.PageNumber == pageNumber {
			pageFindings = append(pageFindings, f)
		}
	}

	rendered := pdfData
	if len(pageFindings) > 0 {
		rects, _ := r.pageRegions(session, pageNumber, pageFindings)
		if len(rects) > 0 {
			if err := session.ApplyRegions(pageNumber, rects); err != nil {
				return nil, fmt.Errorf("redacting preview page %d: %w", pageNumber, err)
			}
			rendered, err = session.Bytes()
			if err != nil {
				return nil, err
			}
		}
	}

	return rasterizePage(rendered, pageNumber, zoom)
}

// rasterizePage renders a 1-based page to PNG at the given zoom factor
// (1.0 = 72 dpi).
func rasterizePage(pdfData []byte, pageNumber int, zoom float64) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", pageNumber, err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(pageNumber-1, 72*zoom)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", pageNumber, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding preview image: %w", err)
	}
	return buf.Bytes(), nil
}
