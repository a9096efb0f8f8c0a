// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// invalidAreaNumbers holds SSN area numbers that are never issued.
// 900-999 is handled by range check below rather than enumeration.
var invalidAreaNumbers = map[string]bool{
	"000": true,
	"666": true,
}

// ValidSSNGroups reports whether a 3-2-4 digit grouping is an issuable SSN
// per SSA rules. Groups are pre-extracted by the pattern match, so each
// argument is all digits of the expected length; anything else is a
// programming error, not a runtime condition.
//
// Invalid groupings:
//   - area 000, 666, or 900-999
//   - group 00
//   - serial 0000
func ValidSSNGroups(area, group, serial string) bool {
	if invalidAreaNumbers[area] {
		return false
	}
	if area[0] == '9' {
		return false
	}
	if group == "00" {
		return false
	}
	if serial == "0000" {
		return false
	}
	return true
}
