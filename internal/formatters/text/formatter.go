// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"docuscrub/internal/detector"
	"docuscrub/internal/document"
	"docuscrub/internal/formatters"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *document.Result, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	summary := result.Summary()
	builder.WriteString(f.colors["white"].Sprintf("Scan results for %s", result.Filename))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("  %d pages, %.1f KB, %.1f ms\n",
		summary.PageCount, summary.FileSizeKB, summary.ProcessingTimeMs))

	if len(result.Findings) == 0 {
		builder.WriteString("\nNo sensitive data found.\n")
		return builder.String(), nil
	}

	byPage := make(map[int][]detector.PageFinding)
	for _, finding := range result.Findings {
		byPage[finding.PageNumber] = append(byPage[finding.PageNumber], finding)
	}
	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	for _, page := range pages {
		builder.WriteString(f.colors["cyan"].Sprintf("\nPage %d:", page))
		builder.WriteString("\n")
		for _, finding := range byPage[page] {
			level := f.confidenceLevel(finding.Confidence)
			display := finding.RedactionLabel
			if options.ShowValue {
				display = finding.Value
			}
			builder.WriteString(fmt.Sprintf("  [%s] %-6s %s (pos %d-%d)\n",
				f.colorForLevel(level).Sprint(level), finding.Kind, display, finding.Start, finding.End))
			if options.Verbose && finding.Context != "" {
				builder.WriteString(fmt.Sprintf("         context: %s\n", finding.Context))
			}
		}
	}

	var typeParts []string
	types := make([]string, 0, len(summary.FindingsByType))
	for kind := range summary.FindingsByType {
		types = append(types, kind)
	}
	sort.Strings(types)
	for _, kind := range types {
		typeParts = append(typeParts, fmt.Sprintf("%s: %d", kind, summary.FindingsByType[kind]))
	}

	builder.WriteString(fmt.Sprintf("\nSummary: %d findings (%s) on %d of %d pages\n",
		summary.TotalFindings, strings.Join(typeParts, ", "),
		summary.PagesWithFindings, summary.PageCount))

	return builder.String(), nil
}

// confidenceLevel maps a confidence score to a display level
func (f *Formatter) confidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "HIGH"
	case confidence >= 0.6:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func (f *Formatter) colorForLevel(level string) *color.Color {
	switch level {
	case "HIGH":
		return f.colors["red"]
	case "MEDIUM":
		return f.colors["yellow"]
	default:
		return f.colors["green"]
	}
}
