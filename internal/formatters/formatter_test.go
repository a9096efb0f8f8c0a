// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"strings"
	"testing"

	"docuscrub/internal/detector"
	"docuscrub/internal/document"
	"docuscrub/internal/formatters"
	jsonformatter "docuscrub/internal/formatters/json"
	textformatter "docuscrub/internal/formatters/text"
)

func sampleResult() *document.Result {
	return &document.Result{
		Filename:  "report.pdf",
		Status:    "success",
		PageCount: 2,
		FileSize:  4096,
		Findings: []detector.PageFinding{
			{
				Finding: detector.Finding{
					Kind: detector.KindEmail, Value: "a@b.com",
					Start: 4, End: 11, Confidence: 1.0,
					Context: "to a@b.com now", RedactionLabel: "[REDACTED]",
				},
				PageNumber: 1,
			},
			{
				Finding: detector.Finding{
					Kind: detector.KindSSN, Value: "123-45-6789",
					Start: 5, End: 16, Confidence: 0.8,
					Context: "SSN: 123-45-6789", RedactionLabel: "[REDACTED]",
				},
				PageNumber: 2,
			},
		},
		ProcessingTimeMs: 8.2,
	}
}

func TestRegistry(t *testing.T) {
	registry := formatters.NewRegistry()
	registry.Register(textformatter.NewFormatter())
	registry.Register(jsonformatter.NewFormatter())

	if _, ok := registry.Get("text"); !ok {
		t.Error("text formatter not registered")
	}
	if _, ok := registry.Get("json"); !ok {
		t.Error("json formatter not registered")
	}
	if _, ok := registry.Get("csv"); ok {
		t.Error("unexpected csv formatter")
	}
	if len(registry.List()) != 2 {
		t.Errorf("List() returned %d names, want 2", len(registry.List()))
	}
}

func TestTextFormatter(t *testing.T) {
	f := textformatter.NewFormatter()

	out, err := f.Format(sampleResult(), formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{"report.pdf", "Page 1:", "Page 2:", "email", "ssn", "HIGH", "MEDIUM", "Summary: 2 findings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Values stay hidden without ShowValue.
	if strings.Contains(out, "a@b.com") {
		t.Errorf("output leaks detected value:\n%s", out)
	}
}

func TestTextFormatter_ShowValue(t *testing.T) {
	f := textformatter.NewFormatter()

	out, err := f.Format(sampleResult(), formatters.FormatterOptions{NoColor: true, ShowValue: true})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, "a@b.com") || !strings.Contains(out, "123-45-6789") {
		t.Errorf("output missing values with ShowValue:\n%s", out)
	}
}

func TestTextFormatter_NoFindings(t *testing.T) {
	f := textformatter.NewFormatter()

	result := sampleResult()
	result.Findings = nil
	out, err := f.Format(result, formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, "No sensitive data found.") {
		t.Errorf("output missing empty message:\n%s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	f := jsonformatter.NewFormatter()

	out, err := f.Format(sampleResult(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var parsed struct {
		Filename string `json:"filename"`
		Summary  struct {
			TotalFindings int `json:"total_findings"`
		} `json:"summary"`
		Findings []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"findings"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Filename != "report.pdf" {
		t.Errorf("filename = %q", parsed.Filename)
	}
	if parsed.Summary.TotalFindings != 2 {
		t.Errorf("total_findings = %d, want 2", parsed.Summary.TotalFindings)
	}
	// Masked by default.
	for _, finding := range parsed.Findings {
		if finding.Value != "[REDACTED]" {
			t.Errorf("value %q not masked", finding.Value)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	registry := formatters.DefaultRegistry
	registry.Register(textformatter.NewFormatter())

	_, err := formatters.Export("csv", sampleResult(), formatters.FormatterOptions{})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}
