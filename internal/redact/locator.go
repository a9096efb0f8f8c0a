// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"docuscrub/internal/document"
)

// glyph boxes are padded vertically since Y is the baseline: descenders
// reach below it and ascenders roughly one font size above.
const (
	descenderRatio = 0.25
	ascenderRatio  = 1.0
)

// A locate strategy returns the rects covering occurrences of value in the
// page's row geometry, or nil when it finds none.
type locateStrategy func(rows []document.Row, value string) []Rect

// Accuracy reports how a region was located.
type Accuracy int

const (
	// AccuracyNone means no strategy produced a region
	AccuracyNone Accuracy = iota
	// AccuracyExact means glyph-accurate rects from a text search
	AccuracyExact
	// AccuracyFallback means whole-row rects from the content scan
	AccuracyFallback
)

// LocateValue finds the rectangular regions covering occurrences of value
// on a page. Strategies are tried in a fixed order until one yields a
// non-empty result: exact search, whitespace-insensitive search, then a
// case-insensitive content scan that returns whole-row boxes. The content
// scan trades precision for coverage: over-redaction is preferred to a
// missed redaction. An empty result is a valid outcome, not an error.
func LocateValue(rows []document.Row, value string) ([]Rect, Accuracy) {
	if value == "" || len(rows) == 0 {
		return nil, AccuracyNone
	}

	exact := []locateStrategy{searchExact, searchIgnoreSpaces}
	for _, strategy := range exact {
		if rects := strategy(rows, value); len(rects) > 0 {
			return rects, AccuracyExact
		}
	}
	if rects := scanRows(rows, value); len(rects) > 0 {
		return rects, AccuracyFallback
	}
	return nil, AccuracyNone
}

// searchExact finds literal occurrences of value in each row's
// reconstructed text and unions the boxes of the glyphs backing the match.
func searchExact(rows []document.Row, value string) []Rect {
	var rects []Rect
	for _, row := range rows {
		from := 0
		for {
			i := strings.Index(row.Text[from:], value)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(value)
			if r, ok := glyphRangeRect(row, start, end); ok {
				rects = append(rects, r)
			}
			from = end
		}
	}
	return rects
}

// searchIgnoreSpaces retries the exact search with all spaces removed from
// both the value and the row text. This recovers matches that extraction
// spacing heuristics split differently than the detector saw them.
func searchIgnoreSpaces(rows []document.Row, value string) []Rect {
	collapsed := strings.ReplaceAll(value, " ", "")
	if collapsed == "" || collapsed == value {
		return nil
	}

	var rects []Rect
	for _, row := range rows {
		rowCollapsed, indexMap := collapseSpaces(row.Text)
		from := 0
		for {
			i := strings.Index(rowCollapsed[from:], collapsed)
			if i < 0 {
				break
			}
			start := indexMap[from+i]
			end := indexMap[from+i+len(collapsed)-1] + 1
			if r, ok := glyphRangeRect(row, start, end); ok {
				rects = append(rects, r)
			}
			from += i + len(collapsed)
		}
	}
	return rects
}

// scanRows is the last-resort content scan: any row containing the value
// as a case-insensitive substring is covered whole.
func scanRows(rows []document.Row, value string) []Rect {
	needle := strings.ToLower(value)

	var rects []Rect
	for _, row := range rows {
		if !strings.Contains(strings.ToLower(row.Text), needle) {
			continue
		}
		if r, ok := glyphRangeRect(row, 0, len(row.Text)); ok {
			rects = append(rects, r)
		}
	}
	return rects
}

// collapseSpaces removes spaces from s and returns the collapsed string
// together with a map from collapsed index to original index.
func collapseSpaces(s string) (string, []int) {
	var b strings.Builder
	indexMap := make([]int, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			continue
		}
		b.WriteByte(s[i])
		indexMap = append(indexMap, i)
	}
	return b.String(), indexMap
}

// glyphRangeRect unions the boxes of all glyphs whose text overlaps the
// byte range [start,end) of the row's reconstructed text.
func glyphRangeRect(row document.Row, start, end int) (Rect, bool) {
	var (
		union Rect
		found bool
	)
	for i, g := range row.Glyphs {
		gStart := row.Offsets[i]
		gEnd := gStart + len(g.S)
		if gStart >= end || gEnd <= start {
			continue
		}
		r := glyphRect(g)
		if !found {
			union = r
			found = true
		} else {
			union = union.Union(r)
		}
	}
	return union, found
}

// glyphRect approximates a glyph run's box from its baseline origin, width
// and font size.
func glyphRect(g pdf.Text) Rect {
	fontSize := g.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}
	return Rect{
		X0: g.X,
		Y0: g.Y - fontSize*descenderRatio,
		X1: g.X + g.W,
		Y1: g.Y + fontSize*ascenderRatio,
	}
}
