// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"docuscrub/internal/detector"
)

// minimalPDF builds a one-page PDF with a single uncompressed content
// stream showing text at (72, 720) in 12pt Helvetica. Object offsets for
// the xref table are computed while writing.
func minimalPDF(text string) []byte {
	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>\nendobj\n")
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	writeObj(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream))
	writeObj("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xrefOffset := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset))
	return buf.Bytes()
}

// pageContent reopens a document and returns page 1's decoded content
// stream.
func pageContent(t *testing.T, pdfData []byte) string {
	t.Helper()
	session, err := OpenSession(pdfData)
	if err != nil {
		t.Fatalf("reopening document: %v", err)
	}
	reader, err := pdfcpu.ExtractPageContent(session.ctx, 1)
	if err != nil {
		t.Fatalf("extracting page content: %v", err)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading page content: %v", err)
	}
	return string(content)
}

func TestOpenSession_PageCount(t *testing.T) {
	session, err := OpenSession(minimalPDF("hello"))
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	if session.PageCount() != 1 {
		t.Fatalf("PageCount = %d, want 1", session.PageCount())
	}
}

func TestOpenSession_Corrupt(t *testing.T) {
	if _, err := OpenSession([]byte("not a pdf")); err == nil {
		t.Fatal("expected error for corrupt input")
	}
}

func TestApplyRegions_DestroysText(t *testing.T) {
	original := minimalPDF("SSN: 123-45-6789")

	session, err := OpenSession(original)
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	// Whole page, so the show operator must be removed regardless of the
	// text's exact metrics.
	if err := session.ApplyRegions(1, []Rect{{X0: 0, Y0: 0, X1: 612, Y1: 792}}); err != nil {
		t.Fatalf("ApplyRegions failed: %v", err)
	}
	out, err := session.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	content := pageContent(t, out)
	if strings.Contains(content, "123-45-6789") {
		t.Errorf("redacted content stream still holds the value:\n%s", content)
	}
	if !strings.Contains(content, "0 0 0 rg") || !strings.Contains(content, "re f") {
		t.Errorf("redacted content stream missing fill operators:\n%s", content)
	}

	// The rewrite must not touch the caller's original bytes.
	if !strings.Contains(pageContent(t, original), "123-45-6789") {
		t.Error("original document was modified")
	}
}

func TestRedact_OutOfRangePageSkipped(t *testing.T) {
	original := minimalPDF("nothing sensitive here")
	r := NewRedactor(nil)

	findings := []detector.PageFinding{
		{
			Finding:    detector.Finding{Kind: detector.KindSSN, Value: "123-45-6789"},
			PageNumber: 99,
		},
	}

	out, err := r.Redact(original, findings)
	if err != nil {
		t.Fatalf("Redact failed on out-of-range finding: %v", err)
	}

	// The result is still a readable one-page document.
	session, err := OpenSession(out)
	if err != nil {
		t.Fatalf("redacted output unreadable: %v", err)
	}
	if session.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1", session.PageCount())
	}
}

func TestRedact_CorruptDocument(t *testing.T) {
	r := NewRedactor(nil)
	if _, err := r.Redact([]byte("garbage"), nil); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestPreview_PageOutOfRange(t *testing.T) {
	r := NewRedactor(nil)

	_, err := r.Preview(minimalPDF("hello"), nil, 2, 1.0)
	if !errors.Is(err, ErrPageOutOfRange) {
		t.Fatalf("expected ErrPageOutOfRange, got %v", err)
	}
}
