// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package document turns a PDF into per-page text and page-stamped
// findings. Extraction reconstructs reading order and word spacing from
// glyph coordinates; the same row geometry feeds the redaction layer's
// region search.
package document

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// spaceGapRatio is the fraction of the font size a horizontal gap between
// adjacent glyphs must exceed to be rendered as a space.
const spaceGapRatio = 0.2

// defaultFontSize substitutes for glyphs that carry no size information
const defaultFontSize = 12.0

// Row is one baseline of text on a page: its glyphs sorted left to right,
// the reconstructed text, and the byte offset of each glyph's contribution
// within that text. Offsets let callers map a substring of Text back to
// the glyphs (and thus coordinates) that produced it.
type Row struct {
	Y       float64
	Glyphs  []pdf.Text
	Text    string
	Offsets []int
}

// Opens a reader over in-memory PDF data.
func newReader(data []byte) (*pdf.Reader, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return r, nil
}

// ExtractPages returns one text string per page, 1-indexed implicitly by
// position. Pages whose extraction fails contribute an empty string; the
// document as a whole only errors when the container cannot be opened.
func ExtractPages(data []byte) ([]string, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}

	pageTexts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pageTexts = append(pageTexts, "")
			continue
		}
		pageTexts = append(pageTexts, extractPageText(p))
	}
	return pageTexts, nil
}

// PageRows returns the positioned row geometry for a single 1-based page.
// The redaction layer uses this to correlate finding values with page
// coordinates.
func PageRows(data []byte, pageNumber int) ([]Row, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	if pageNumber < 1 || pageNumber > r.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", pageNumber, r.NumPage())
	}
	p := r.Page(pageNumber)
	if p.V.IsNull() {
		return nil, nil
	}
	return pageRows(p)
}

// extractPageText extracts a page's text using row-based positioning for
// accurate spacing, falling back to the library's plain extraction when
// row geometry is unavailable.
func extractPageText(p pdf.Page) string {
	rows, err := pageRows(p)
	if err != nil || len(rows) == 0 {
		text, err := p.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return text
	}

	var buf bytes.Buffer
	for _, row := range rows {
		if strings.TrimSpace(row.Text) == "" {
			continue
		}
		buf.WriteString(row.Text)
		buf.WriteString("\n")
	}
	return buf.String()
}

// pageRows builds positioned rows from the page's glyph runs, ordered top
// to bottom (PDF Y grows upward) and left to right within a row.
func pageRows(p pdf.Page) ([]Row, error) {
	rawRows, err := p.GetTextByRow()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(rawRows))
	for _, raw := range rawRows {
		if raw == nil || len(raw.Content) == 0 {
			continue
		}
		rows = append(rows, buildRow(raw.Content))
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Y > rows[j].Y
	})
	return rows, nil
}

// buildRow sorts a row's glyphs by X and reconstructs its text, inserting
// a space wherever the horizontal gap between adjacent glyphs exceeds a
// fraction of the font size.
func buildRow(content []pdf.Text) Row {
	glyphs := make([]pdf.Text, len(content))
	copy(glyphs, content)
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	var (
		buf     bytes.Buffer
		offsets = make([]int, len(glyphs))
		ySum    float64
	)
	for i, g := range glyphs {
		offsets[i] = buf.Len()
		buf.WriteString(g.S)
		ySum += g.Y

		if i < len(glyphs)-1 {
			next := glyphs[i+1]
			gap := next.X - (g.X + g.W)

			fontSize := g.FontSize
			if fontSize <= 0 {
				fontSize = defaultFontSize
			}
			if gap > fontSize*spaceGapRatio {
				buf.WriteString(" ")
			}
		}
	}

	row := Row{
		Glyphs:  glyphs,
		Text:    buf.String(),
		Offsets: offsets,
	}
	if len(glyphs) > 0 {
		row.Y = ySum / float64(len(glyphs))
	}
	return row
}
