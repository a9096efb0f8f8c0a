// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestAggregateFindings_PageStamping(t *testing.T) {
	p := NewProcessor(0, nil)

	pages := []string{
		"Contact john.doe@example.com for details",
		"   \n\t  ",
		"SSN: 123-45-6789 on file",
	}

	findings := p.AggregateFindings(pages)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].PageNumber != 1 {
		t.Errorf("email finding on page %d, want 1", findings[0].PageNumber)
	}
	if findings[1].PageNumber != 3 {
		t.Errorf("ssn finding on page %d, want 3", findings[1].PageNumber)
	}
	if findings[1].Value != "123-45-6789" {
		t.Errorf("unexpected value %q", findings[1].Value)
	}
}

func TestAggregateFindings_SkipsWhitespacePages(t *testing.T) {
	p := NewProcessor(0, nil)

	findings := p.AggregateFindings([]string{"", "  ", "\n\n"})
	if len(findings) != 0 {
		t.Fatalf("expected no findings on blank pages, got %d", len(findings))
	}
}

func TestAggregateFindings_PageOrder(t *testing.T) {
	p := NewProcessor(0, nil)

	pages := []string{
		"a@b.com and 123-45-6789",
		"c@d.org",
	}
	findings := p.AggregateFindings(pages)
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}
	for i := 1; i < len(findings); i++ {
		if findings[i].PageNumber < findings[i-1].PageNumber {
			t.Errorf("findings out of page order at %d", i)
		}
	}
	// Within page 1 the email precedes the SSN by start offset.
	if findings[0].Start > findings[1].Start {
		t.Errorf("page 1 findings out of offset order")
	}
}

func TestAggregateFindings_CustomRedactionLabel(t *testing.T) {
	p := NewProcessor(0, nil).WithRedactionLabel("[HIDDEN]")

	findings := p.AggregateFindings([]string{"reach me at a@b.com"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].RedactionLabel != "[HIDDEN]" {
		t.Errorf("label = %q, want %q", findings[0].RedactionLabel, "[HIDDEN]")
	}

	// An empty override keeps the default.
	p = NewProcessor(0, nil).WithRedactionLabel("")
	findings = p.AggregateFindings([]string{"a@b.com"})
	if findings[0].RedactionLabel != "[REDACTED]" {
		t.Errorf("label = %q, want default", findings[0].RedactionLabel)
	}
}

func TestProcess_FileTooLarge(t *testing.T) {
	p := NewProcessor(10, nil)

	_, err := p.Process(make([]byte, 11), "big.pdf")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestProcess_CorruptData(t *testing.T) {
	p := NewProcessor(0, nil)

	_, err := p.Process([]byte("this is not a pdf"), "bad.pdf")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestResultSummary(t *testing.T) {
	p := NewProcessor(0, nil)

	r := &Result{
		Filename:  "doc.pdf",
		Status:    "success",
		PageCount: 4,
		FileSize:  2048,
		Findings: p.AggregateFindings([]string{
			"a@b.com",
			"",
			"c@d.org and 123-45-6789",
			"",
		}),
	}

	s := r.Summary()
	if s.TotalFindings != 3 {
		t.Errorf("TotalFindings = %d, want 3", s.TotalFindings)
	}
	if s.FindingsByType["email"] != 2 {
		t.Errorf("email count = %d, want 2", s.FindingsByType["email"])
	}
	if s.FindingsByType["ssn"] != 1 {
		t.Errorf("ssn count = %d, want 1", s.FindingsByType["ssn"])
	}
	if s.PagesWithFindings != 2 {
		t.Errorf("PagesWithFindings = %d, want 2", s.PagesWithFindings)
	}
	if s.FileSizeKB != 2.0 {
		t.Errorf("FileSizeKB = %v, want 2.0", s.FileSizeKB)
	}
}

func TestBuildRow_SpacingFromGaps(t *testing.T) {
	// Glyphs "Hi" packed tight, then a wide gap before "there".
	glyphs := []pdf.Text{
		{S: "H", X: 10, Y: 700, W: 5, FontSize: 10},
		{S: "i", X: 15, Y: 700, W: 3, FontSize: 10},
		{S: "t", X: 30, Y: 700, W: 4, FontSize: 10},
		{S: "h", X: 34, Y: 700, W: 5, FontSize: 10},
		{S: "e", X: 39, Y: 700, W: 5, FontSize: 10},
		{S: "r", X: 44, Y: 700, W: 4, FontSize: 10},
		{S: "e", X: 48, Y: 700, W: 5, FontSize: 10},
	}

	row := buildRow(glyphs)
	if row.Text != "Hi there" {
		t.Errorf("row text = %q, want %q", row.Text, "Hi there")
	}
	if row.Y != 700 {
		t.Errorf("row Y = %v, want 700", row.Y)
	}
}

func TestBuildRow_SortsGlyphsByX(t *testing.T) {
	// Out-of-order glyph runs still read left to right.
	glyphs := []pdf.Text{
		{S: "b", X: 20, Y: 500, W: 5, FontSize: 10},
		{S: "a", X: 10, Y: 500, W: 5, FontSize: 10},
		{S: "c", X: 30, Y: 500, W: 5, FontSize: 10},
	}

	row := buildRow(glyphs)
	// Gap of 5 between glyphs exceeds fontSize*0.2, so spaces appear.
	if row.Text != "a b c" {
		t.Errorf("row text = %q, want %q", row.Text, "a b c")
	}
}

func TestBuildRow_OffsetsTrackGlyphs(t *testing.T) {
	glyphs := []pdf.Text{
		{S: "ab", X: 10, Y: 600, W: 10, FontSize: 10},
		{S: "cd", X: 20, Y: 600, W: 10, FontSize: 10},
	}

	row := buildRow(glyphs)
	if len(row.Offsets) != 2 {
		t.Fatalf("offsets length = %d, want 2", len(row.Offsets))
	}
	if row.Offsets[0] != 0 {
		t.Errorf("first offset = %d, want 0", row.Offsets[0])
	}
	// Second glyph starts where the first's text ends (no gap, no space).
	if row.Offsets[1] != 2 {
		t.Errorf("second offset = %d, want 2", row.Offsets[1])
	}
}

func TestBuildRow_ZeroFontSizeFallsBack(t *testing.T) {
	// fontSize 0 uses the default when judging gaps; a 1-unit gap stays
	// well under 12*0.2 so no space appears.
	glyphs := []pdf.Text{
		{S: "x", X: 10, Y: 100, W: 5, FontSize: 0},
		{S: "y", X: 16, Y: 100, W: 5, FontSize: 0},
	}
	row := buildRow(glyphs)
	if row.Text != "xy" {
		t.Errorf("row text = %q, want %q", row.Text, "xy")
	}
}
