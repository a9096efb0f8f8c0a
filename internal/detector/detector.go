// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detector finds sensitive data (email addresses and Social
// Security Numbers) in extracted page text using compiled regex patterns,
// issuance-rule validation and context-aware confidence scoring.
package detector

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"docuscrub/internal/observability"
)

const (
	// contextWindow is the number of characters captured on each side of a
	// match for the finding's context snippet
	contextWindow = 30

	// confidenceWindow is the number of characters before an SSN match
	// examined for context keywords
	confidenceWindow = 50

	// ssnBaseConfidence applies to SSN matches without a nearby keyword
	ssnBaseConfidence = 0.8
)

// ssnContextKeywords raise SSN confidence to 1.0 when any appears in the
// text immediately preceding a match.
var ssnContextKeywords = []string{
	"ssn", "social security", "social", "tin", "taxpayer",
	"tax id", "social security number", "ss#", "soc sec",
}

// Detector scans page text for sensitive data. Patterns are compiled once
// at construction; a Detector is immutable afterwards and safe for
// concurrent use across documents.
type Detector struct {
	emailRegex *regexp.Regexp

	// Three independently matched SSN spellings. Separators differ, so a
	// given offset can only be matched by one spelling; deduplication is
	// only needed for identical (start,end) spans across passes.
	ssnRegexes []*regexp.Regexp

	observer *observability.StandardObserver
}

// NewDetector creates a Detector with its patterns compiled. The patterns
// are fixed; a failure to compile is a code defect and panics at
// construction rather than surfacing as a runtime error.
func NewDetector() *Detector {
	return &Detector{
		// RFC 5322 simplified for practical use
		emailRegex: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		ssnRegexes: []*regexp.Regexp{
			regexp.MustCompile(`\b(\d{3})-(\d{2})-(\d{4})\b`),
			regexp.MustCompile(`\b(\d{3})(\d{2})(\d{4})\b`),
			regexp.MustCompile(`\b(\d{3})\s(\d{2})\s(\d{4})\b`),
		},
	}
}

// SetObserver sets the observability component
func (d *Detector) SetObserver(observer *observability.StandardObserver) {
	d.observer = observer
}

// Detect returns all sensitive data findings in text, sorted ascending by
// start offset. Empty or whitespace-only text yields no findings and no
// error. Ties on start offset keep insertion order (email pass first).
func (d *Detector) Detect(text string) []Finding {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var finishTiming func(bool, map[string]interface{})
	if d.observer != nil {
		finishTiming = d.observer.StartTiming("detector", "detect", "")
	}

	findings := d.detectEmails(text)
	findings = append(findings, d.detectSSNs(text)...)

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Start < findings[j].Start
	})

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{"finding_count": len(findings)})
	}
	return findings
}

// detectEmails finds email addresses; every email match has confidence 1.0.
func (d *Detector) detectEmails(text string) []Finding {
	var findings []Finding

	for _, loc := range d.emailRegex.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		findings = append(findings, Finding{
			Kind:           KindEmail,
			Value:          text[start:end],
			Start:          start,
			End:            end,
			Confidence:     1.0,
			Context:        extractContext(text, start, end),
			RedactionLabel: DefaultRedactionLabel,
		})
	}

	return findings
}

// detectSSNs finds SSNs across the three spellings, discarding matches that
// fail issuance-rule validation and spans already accepted in an earlier
// pass.
func (d *Detector) detectSSNs(text string) []Finding {
	var findings []Finding
	seen := make(map[[2]int]bool)

	for _, re := range d.ssnRegexes {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			span := [2]int{start, end}
			if seen[span] {
				continue
			}

			area := text[loc[2]:loc[3]]
			group := text[loc[4]:loc[5]]
			serial := text[loc[6]:loc[7]]
			if !ValidSSNGroups(area, group, serial) {
				continue
			}

			findings = append(findings, Finding{
				Kind:           KindSSN,
				Value:          text[start:end],
				Start:          start,
				End:            end,
				Confidence:     d.ssnConfidence(text, start),
				Context:        extractContext(text, start, end),
				RedactionLabel: DefaultRedactionLabel,
			})
			seen[span] = true
		}
	}

	return findings
}

// ssnConfidence scores an SSN match by scanning the preceding text for
// context keywords. The heuristic is purely local: it never looks past the
// match or at global document statistics.
func (d *Detector) ssnConfidence(text string, start int) float64 {
	from := runeFloor(text, start-confidenceWindow)
	preceding := strings.ToLower(text[from:start])

	for _, keyword := range ssnContextKeywords {
		if strings.Contains(preceding, keyword) {
			return 1.0
		}
	}
	return ssnBaseConfidence
}

// extractContext returns the text surrounding [start,end) bounded by
// contextWindow on each side, with an ellipsis marking each truncated edge.
// The snippet always contains the matched value. Window edges back off to
// rune boundaries so the snippet stays valid UTF-8.
func extractContext(text string, start, end int) string {
	from := runeFloor(text, start-contextWindow)
	to := runeCeil(text, end+contextWindow)

	var b strings.Builder
	if from > 0 {
		b.WriteString("...")
	}
	b.WriteString(text[from:to])
	if to < len(text) {
		b.WriteString("...")
	}
	return b.String()
}

// runeFloor clamps i to [0, len(text)] and backs it off to the start of
// the rune it falls inside.
func runeFloor(text string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(text) {
		return len(text)
	}
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// runeCeil clamps i to [0, len(text)] and advances it to the next rune
// boundary.
func runeCeil(text string, i int) int {
	if i >= len(text) {
		return len(text)
	}
	if i <= 0 {
		return 0
	}
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return i
}
