// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"testing"

	"github.com/ledongthuc/pdf"

	"docuscrub/internal/document"
)

// makeRow builds a synthetic row of fixed-pitch glyphs: every non-space
// character occupies 6 units starting at x=10, baseline at y, font size 10.
func makeRow(text string, y float64) document.Row {
	var (
		glyphs  []pdf.Text
		offsets []int
	)
	x := 10.0
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			x += 6
			continue
		}
		glyphs = append(glyphs, pdf.Text{S: string(text[i]), X: x, Y: y, W: 5, FontSize: 10})
		offsets = append(offsets, i)
		x += 6
	}
	return document.Row{Y: y, Glyphs: glyphs, Text: text, Offsets: offsets}
}

func TestLocateValue_Exact(t *testing.T) {
	rows := []document.Row{
		makeRow("Contact john.doe@example.com today", 700),
		makeRow("nothing sensitive here", 680),
	}

	rects, accuracy := LocateValue(rows, "john.doe@example.com")
	if accuracy != AccuracyExact {
		t.Fatalf("expected exact accuracy, got %v", accuracy)
	}
	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}

	r := rects[0]
	// "john.doe@example.com" starts at text offset 8 → x = 10 + 8*6 = 58.
	if r.X0 != 58 {
		t.Errorf("expected X0 58, got %f", r.X0)
	}
	if r.X1 <= r.X0 || r.Y1 <= r.Y0 {
		t.Errorf("degenerate rect %+v", r)
	}
	// Baseline padding must reach below and above y=700.
	if r.Y0 >= 700 || r.Y1 <= 700 {
		t.Errorf("rect %+v does not straddle the baseline", r)
	}
}

func TestLocateValue_MultipleOccurrences(t *testing.T) {
	rows := []document.Row{
		makeRow("a@b.com and again a@b.com", 700),
		makeRow("also a@b.com", 680),
	}
	rects, accuracy := LocateValue(rows, "a@b.com")
	if accuracy != AccuracyExact {
		t.Fatalf("expected exact accuracy, got %v", accuracy)
	}
	if len(rects) != 3 {
		t.Errorf("expected 3 rects, got %d", len(rects))
	}
}

func TestLocateValue_IgnoreSpaces(t *testing.T) {
	// Extraction produced doubled spacing; the exact search fails, the
	// whitespace-insensitive pass recovers it.
	rows := []document.Row{makeRow("SSN  123  45  6789 on file", 700)}

	rects, accuracy := LocateValue(rows, "123 45 6789")
	if accuracy != AccuracyExact {
		t.Fatalf("expected exact accuracy via space-insensitive search, got %v", accuracy)
	}
	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}
}

func TestLocateValue_FallbackCaseInsensitive(t *testing.T) {
	rows := []document.Row{
		makeRow("mail JOHN.DOE@EXAMPLE.COM follows", 700),
		makeRow("other line", 680),
	}

	rects, accuracy := LocateValue(rows, "john.doe@example.com")
	if accuracy != AccuracyFallback {
		t.Fatalf("expected fallback accuracy, got %v", accuracy)
	}
	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}
	// Fallback covers the whole row, from the first glyph on.
	if rects[0].X0 != 10 {
		t.Errorf("fallback rect should start at the row's first glyph, got X0=%f", rects[0].X0)
	}
}

func TestLocateValue_NotFound(t *testing.T) {
	rows := []document.Row{makeRow("completely unrelated text", 700)}
	rects, accuracy := LocateValue(rows, "123-45-6789")
	if accuracy != AccuracyNone || len(rects) != 0 {
		t.Errorf("expected no regions, got %d (%v)", len(rects), accuracy)
	}
}

func TestLocateValue_EmptyInputs(t *testing.T) {
	if rects, _ := LocateValue(nil, "x"); len(rects) != 0 {
		t.Error("nil rows should yield no rects")
	}
	if rects, _ := LocateValue([]document.Row{makeRow("x", 0)}, ""); len(rects) != 0 {
		t.Error("empty value should yield no rects")
	}
}

func TestRect_ExpandAndOverlap(t *testing.T) {
	r := Rect{X0: 10, Y0: 10, X1: 20, Y1: 20}

	e := r.Expand(2)
	if e.X0 != 8 || e.Y0 != 8 || e.X1 != 22 || e.Y1 != 22 {
		t.Errorf("unexpected expansion %+v", e)
	}

	if !r.Overlaps(Rect{X0: 15, Y0: 15, X1: 25, Y1: 25}) {
		t.Error("intersecting rects should overlap")
	}
	if r.Overlaps(Rect{X0: 30, Y0: 30, X1: 40, Y1: 40}) {
		t.Error("disjoint rects should not overlap")
	}
	// Touching edges do not count as overlap.
	if r.Overlaps(Rect{X0: 20, Y0: 10, X1: 30, Y1: 20}) {
		t.Error("edge-touching rects should not overlap")
	}
}

func TestRect_Union(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 5, Y1: 5}
	b := Rect{X0: 3, Y0: -2, X1: 10, Y1: 4}
	u := a.Union(b)
	if u.X0 != 0 || u.Y0 != -2 || u.X1 != 10 || u.Y1 != 5 {
		t.Errorf("unexpected union %+v", u)
	}
}
