// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docuscrub/internal/detector"
	"docuscrub/internal/observability"
)

// DefaultMaxFileSize bounds uploads and CLI inputs (50 MiB)
const DefaultMaxFileSize = 50 * 1024 * 1024

// Result holds the findings and metadata from processing one PDF.
type Result struct {
	Filename         string                 `json:"filename"`
	Status           string                 `json:"status"`
	PageCount        int                    `json:"page_count"`
	FileSize         int                    `json:"file_size"`
	Findings         []detector.PageFinding `json:"findings"`
	ExtractedText    string                 `json:"-"`
	ProcessingTimeMs float64                `json:"processing_time_ms"`
}

// Summary aggregates a result for display and persistence.
type Summary struct {
	TotalFindings     int            `json:"total_findings"`
	FindingsByType    map[string]int `json:"findings_by_type"`
	PagesWithFindings int            `json:"pages_with_findings"`
	PageCount         int            `json:"page_count"`
	FileSizeKB        float64        `json:"file_size_kb"`
	ProcessingTimeMs  float64        `json:"processing_time_ms"`
}

// Summary computes aggregate statistics for the result
func (r *Result) Summary() Summary {
	byType := make(map[string]int)
	pages := make(map[int]bool)
	for _, f := range r.Findings {
		byType[f.Kind.String()]++
		pages[f.PageNumber] = true
	}
	return Summary{
		TotalFindings:     len(r.Findings),
		FindingsByType:    byType,
		PagesWithFindings: len(pages),
		PageCount:         r.PageCount,
		FileSizeKB:        float64(r.FileSize) / 1024,
		ProcessingTimeMs:  r.ProcessingTimeMs,
	}
}

// Processor extracts text from PDFs and runs detection per page. The
// embedded Detector is reused across documents; each Process call owns its
// document exclusively.
type Processor struct {
	detector       *detector.Detector
	maxFileSize    int
	redactionLabel string
	pdfConfig      *model.Configuration
	observer       *observability.StandardObserver
}

// NewProcessor creates a Processor with the given size limit. A limit of 0
// selects DefaultMaxFileSize.
func NewProcessor(maxFileSize int, observer *observability.StandardObserver) *Processor {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityMetrics, nil)
	}
	return &Processor{
		detector:       detector.NewDetector(),
		maxFileSize:    maxFileSize,
		redactionLabel: detector.DefaultRedactionLabel,
		pdfConfig:      model.NewDefaultConfiguration(),
		observer:       observer,
	}
}

// WithRedactionLabel overrides the label stamped on findings. An empty
// label keeps the default.
func (p *Processor) WithRedactionLabel(label string) *Processor {
	if label != "" {
		p.redactionLabel = label
	}
	return p
}

// Detector exposes the processor's shared detector
func (p *Processor) Detector() *detector.Detector {
	return p.detector
}

// Process extracts text from pdfData, detects sensitive data on every page
// and returns the page-stamped findings in page order.
func (p *Processor) Process(pdfData []byte, filename string) (*Result, error) {
	finishTiming := p.observer.StartTiming("processor", "process", filename)
	start := time.Now()

	if len(pdfData) > p.maxFileSize {
		finishTiming(false, map[string]interface{}{"file_size": len(pdfData)})
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, filename, len(pdfData), p.maxFileSize)
	}

	if err := p.validate(pdfData); err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	pageTexts, err := ExtractPages(pdfData)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("extracting text from %s: %w", filename, err)
	}

	findings := p.AggregateFindings(pageTexts)

	result := &Result{
		Filename:         filename,
		Status:           "success",
		PageCount:        len(pageTexts),
		FileSize:         len(pdfData),
		Findings:         findings,
		ExtractedText:    strings.Join(pageTexts, "\n"),
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000,
	}

	finishTiming(true, map[string]interface{}{
		"page_count":    result.PageCount,
		"finding_count": len(findings),
	})
	return result, nil
}

// AggregateFindings runs detection once per page and stamps each finding
// with its 1-based page number. Whitespace-only pages are skipped. The
// returned slice is ordered by page, then by start offset within a page;
// findings are never reordered across pages after stamping.
func (p *Processor) AggregateFindings(pageTexts []string) []detector.PageFinding {
	var all []detector.PageFinding

	for i, pageText := range pageTexts {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		for _, f := range p.detector.Detect(pageText) {
			f.RedactionLabel = p.redactionLabel
			all = append(all, detector.PageFinding{
				Finding:    f,
				PageNumber: i + 1,
			})
		}
	}
	return all
}

// validate opens the container with pdfcpu to reject corrupt and
// password-protected documents before extraction.
func (p *Processor) validate(pdfData []byte) error {
	ctx, err := api.ReadContext(bytes.NewReader(pdfData), p.pdfConfig)
	if err != nil {
		if isEncryptionError(err) {
			return fmt.Errorf("%w: %v", ErrEncrypted, err)
		}
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

func isEncryptionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "encrypt") || strings.Contains(msg, "password")
}
