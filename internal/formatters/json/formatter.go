// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"docuscrub/internal/detector"
	"docuscrub/internal/document"
	"docuscrub/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Machine-readable JSON output"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

type jsonOutput struct {
	Filename string                 `json:"filename"`
	Status   string                 `json:"status"`
	Summary  document.Summary       `json:"summary"`
	Findings []detector.PageFinding `json:"findings"`
}

func (f *Formatter) Format(result *document.Result, options formatters.FormatterOptions) (string, error) {
	out := jsonOutput{
		Filename: result.Filename,
		Status:   result.Status,
		Summary:  result.Summary(),
		Findings: result.Findings,
	}
	if out.Findings == nil {
		out.Findings = []detector.PageFinding{}
	}

	// Hide detected values unless explicitly requested.
	if !options.ShowValue {
		masked := make([]detector.PageFinding, len(out.Findings))
		copy(masked, out.Findings)
		for i := range masked {
			masked[i].Value = masked[i].RedactionLabel
		}
		out.Findings = masked
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshaling to JSON: %w", err)
	}
	return string(data), nil
}
