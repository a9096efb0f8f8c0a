// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docuscrub/internal/document"
)

// Session is an exclusively-owned handle on one open document. It is
// created from the original bytes, mutated through ApplyRegions, and then
// consumed by Bytes or dropped. A Session must never be shared across
// goroutines; parallelism belongs at the document level.
type Session struct {
	data      []byte
	ctx       *model.Context
	rowsCache map[int][]document.Row
}

// OpenSession parses pdfData and prepares it for redaction. A document
// that cannot be opened fails the whole call.
func OpenSession(pdfData []byte) (*Session, error) {
	ctx, err := api.ReadContext(bytes.NewReader(pdfData), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("opening PDF for redaction: %w", err)
	}
	// ReadContext leaves the page count unset; resolve it from the page
	// tree so page-range checks see real pages.
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("opening PDF for redaction: %w", err)
	}
	return &Session{
		data:      pdfData,
		ctx:       ctx,
		rowsCache: make(map[int][]document.Row),
	}, nil
}

// PageCount returns the document's page count
func (s *Session) PageCount() int {
	return s.ctx.PageCount
}

// Rows returns the positioned text geometry for a 1-based page, cached per
// session since locating several findings on one page reuses it.
func (s *Session) Rows(pageNumber int) ([]document.Row, error) {
	if rows, ok := s.rowsCache[pageNumber]; ok {
		return rows, nil
	}
	rows, err := document.PageRows(s.data, pageNumber)
	if err != nil {
		return nil, err
	}
	s.rowsCache[pageNumber] = rows
	return rows, nil
}

// ApplyRegions commits all queued regions on one page in a single
// irreversible operation: the page's content stream is replaced by a
// rewritten stream with the regions' text removed and opaque fills drawn
// on top. Committing once per page avoids partially-redacted pages when a
// later finding on the same page fails.
func (s *Session) ApplyRegions(pageNumber int, rects []Rect) error {
	if len(rects) == 0 {
		return nil
	}

	reader, err := pdfcpu.ExtractPageContent(s.ctx, pageNumber)
	if err != nil {
		return fmt.Errorf("reading content of page %d: %w", pageNumber, err)
	}
	var content []byte
	if reader != nil {
		content, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("reading content of page %d: %w", pageNumber, err)
		}
	}

	redacted := RedactContent(content, rects)

	sd, err := s.ctx.XRefTable.NewStreamDictForBuf(redacted)
	if err != nil {
		return fmt.Errorf("building content stream for page %d: %w", pageNumber, err)
	}
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("encoding content stream for page %d: %w", pageNumber, err)
	}
	ir, err := s.ctx.XRefTable.IndRefForNewObject(*sd)
	if err != nil {
		return fmt.Errorf("registering content stream for page %d: %w", pageNumber, err)
	}

	pageDict, _, _, err := s.ctx.PageDict(pageNumber, false)
	if err != nil {
		return fmt.Errorf("resolving page %d: %w", pageNumber, err)
	}
	pageDict.Update("Contents", *ir)

	return nil
}

// Bytes serializes the mutated document. The session should be considered
// consumed afterwards.
func (s *Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := api.WriteContext(s.ctx, &buf); err != nil {
		return nil, fmt.Errorf("serializing redacted PDF: %w", err)
	}
	return buf.Bytes(), nil
}
