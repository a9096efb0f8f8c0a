// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redact locates finding values on rendered PDF pages and commits
// irreversible redactions: the content inside each region is removed from
// the page's content stream and painted over with an opaque fill.
package redact

// Rect is a page-local bounding box in PDF user space (origin bottom-left,
// Y grows upward). X0,Y0 is the lower-left corner, X1,Y1 the upper-right.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Expand grows the rect by border units on all four sides
func (r Rect) Expand(border float64) Rect {
	return Rect{
		X0: r.X0 - border,
		Y0: r.Y0 - border,
		X1: r.X1 + border,
		Y1: r.Y1 + border,
	}
}

// Union returns the smallest rect covering both r and other
func (r Rect) Union(other Rect) Rect {
	u := r
	if other.X0 < u.X0 {
		u.X0 = other.X0
	}
	if other.Y0 < u.Y0 {
		u.Y0 = other.Y0
	}
	if other.X1 > u.X1 {
		u.X1 = other.X1
	}
	if other.Y1 > u.Y1 {
		u.Y1 = other.Y1
	}
	return u
}

// Overlaps reports whether two rects intersect
func (r Rect) Overlaps(other Rect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 &&
		r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// Width returns the horizontal extent
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }
