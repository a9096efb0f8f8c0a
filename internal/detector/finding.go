// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"encoding/json"
	"fmt"
)

// FindingKind identifies the category of sensitive data a finding holds.
// It is a closed set; consumers switch exhaustively over it.
type FindingKind int

const (
	// KindEmail is an email address finding
	KindEmail FindingKind = iota
	// KindSSN is a Social Security Number finding
	KindSSN
)

// String returns the wire/display name of the kind
func (k FindingKind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindSSN:
		return "ssn"
	default:
		return "unknown"
	}
}

// ParseKind maps a stored kind name back to its FindingKind.
// The second return value is false for names outside the closed set.
func ParseKind(s string) (FindingKind, bool) {
	switch s {
	case "email":
		return KindEmail, true
	case "ssn":
		return KindSSN, true
	default:
		return 0, false
	}
}

// MarshalJSON encodes the kind by its wire name
func (k FindingKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a wire name back to its kind
func (k *FindingKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	kind, ok := ParseKind(name)
	if !ok {
		return fmt.Errorf("unknown finding type %q", name)
	}
	*k = kind
	return nil
}

// DefaultRedactionLabel is the display string substituted for redacted values
const DefaultRedactionLabel = "[REDACTED]"

// Finding represents one detected occurrence of sensitive data in a page's
// text. Value is an owned copy of the matched substring; Start and End are
// half-open byte offsets into the text the finding was produced from.
// Findings are immutable once created.
type Finding struct {
	Kind           FindingKind `json:"type"`
	Value          string      `json:"value"`
	Start          int         `json:"start_pos"`
	End            int         `json:"end_pos"`
	Confidence     float64     `json:"confidence"`
	Context        string      `json:"context"`
	RedactionLabel string      `json:"redaction_label"`
}

// PageFinding is a Finding stamped with the 1-based page number of the
// document page it was detected on.
type PageFinding struct {
	Finding
	PageNumber int `json:"page_number"`
}
