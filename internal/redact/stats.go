// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import "docuscrub/internal/detector"

// Stats describes what a set of findings will redact. ByType counts every
// occurrence; UniqueValues counts distinct value strings per type, so the
// same SSN appearing five times contributes five to ByType but one to
// UniqueValues.
type Stats struct {
	TotalRedactions int            `json:"total_redactions"`
	ByType          map[string]int `json:"by_type"`
	ByPage          map[int]int    `json:"by_page"`
	UniqueValues    map[string]int `json:"unique_values"`
}

// Statistics aggregates redaction counts from a finding list. Pure
// function; the findings are not modified.
func Statistics(findings []detector.PageFinding) Stats {
	stats := Stats{
		TotalRedactions: len(findings),
		ByType:          make(map[string]int),
		ByPage:          make(map[int]int),
		UniqueValues:    make(map[string]int),
	}

	seen := make(map[detector.FindingKind]map[string]bool)
	for _, f := range findings {
		kind := f.Kind.String()
		stats.ByType[kind]++
		stats.ByPage[f.PageNumber]++

		if seen[f.Kind] == nil {
			seen[f.Kind] = make(map[string]bool)
		}
		seen[f.Kind][f.Value] = true
	}

	for kind, values := range seen {
		stats.UniqueValues[kind.String()] = len(values)
	}
	return stats
}
