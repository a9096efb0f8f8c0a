// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"bytes"
	"fmt"
	"strconv"
)

// RedactContent rewrites a decoded page content stream so that no text
// drawn inside any of the given regions survives, then paints each region
// with an opaque black fill. Text-show operators whose estimated extent
// overlaps a region are removed outright; everything else is copied
// through byte-for-byte. The returned stream replaces the page's original
// content, so the removal is irreversible once the document is written.
//
// Glyph extents are estimated (0.5 em per byte) because exact advances
// would require the font programs; estimation errs toward removing more,
// never less, which is the safe direction for redaction.
func RedactContent(content []byte, rects []Rect) []byte {
	e := &contentEditor{src: content, rects: rects}
	e.run()

	var out bytes.Buffer
	out.Write(e.out.Bytes())
	out.WriteString("\nq\n0 0 0 rg\n")
	for _, r := range rects {
		fmt.Fprintf(&out, "%.2f %.2f %.2f %.2f re f\n", r.X0, r.Y0, r.Width(), r.Height())
	}
	out.WriteString("Q\n")
	return out.Bytes()
}

// estEmPerByte is the assumed glyph advance per string byte, in ems
const estEmPerByte = 0.5

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokArrayOpen
	tokArrayClose
	tokDictOpen
	tokDictClose
	tokOperator
)

type token struct {
	kind     tokenKind
	start    int
	end      int
	num      float64
	byteLen  int    // decoded byte count for strings
	text     string // operator or name text
}

// contentEditor walks one content stream statement at a time, tracking
// just enough text state (font size, text matrix translation, leading) to
// estimate where each show operator draws.
type contentEditor struct {
	src   []byte
	out   bytes.Buffer
	rects []Rect

	pos       int
	stmtStart int
	operands  []token

	fontSize float64
	scaleX   float64
	scaleY   float64
	leading  float64
	lineX    float64
	lineY    float64
	curX     float64
	curY     float64
}

func (e *contentEditor) run() {
	e.scaleX, e.scaleY = 1, 1

	for {
		tok, ok := e.next()
		if !ok {
			// Trailing bytes after the last operator are copied as-is.
			e.out.Write(e.src[e.stmtStart:])
			return
		}
		if tok.kind != tokOperator {
			e.operands = append(e.operands, tok)
			continue
		}
		e.apply(tok)
		e.operands = e.operands[:0]
	}
}

// apply handles one operator: update tracked state, then either copy the
// whole statement through or drop it.
func (e *contentEditor) apply(op token) {
	drop := false
	var substitute string

	switch op.text {
	case "BT":
		e.lineX, e.lineY, e.curX, e.curY = 0, 0, 0, 0
		e.scaleX, e.scaleY = 1, 1
	case "Tf":
		if n, ok := e.lastNumbers(1); ok {
			e.fontSize = n[0]
		}
	case "TL":
		if n, ok := e.lastNumbers(1); ok {
			e.leading = n[0]
		}
	case "Td":
		if n, ok := e.lastNumbers(2); ok {
			e.moveLine(n[0], n[1])
		}
	case "TD":
		if n, ok := e.lastNumbers(2); ok {
			e.leading = -n[1]
			e.moveLine(n[0], n[1])
		}
	case "Tm":
		if n, ok := e.lastNumbers(6); ok {
			e.scaleX, e.scaleY = abs(n[0]), abs(n[3])
			e.lineX, e.lineY = n[4], n[5]
			e.curX, e.curY = n[4], n[5]
		}
	case "T*":
		e.nextLine()
	case "Tj":
		drop = e.showString(e.lastStringLen())
	case "'":
		e.nextLine()
		if drop = e.showString(e.lastStringLen()); drop {
			// The line advance is a side effect subsequent operators may
			// rely on, so it survives the removed show.
			substitute = "T*\n"
		}
	case "\"":
		e.nextLine()
		if drop = e.showString(e.lastStringLen()); drop {
			substitute = "T*\n"
		}
	case "TJ":
		drop = e.showArray()
	case "BI":
		// Inline image: the binary payload up to EI must not be tokenized.
		e.skipInlineImage()
		e.out.Write(e.src[e.stmtStart:e.pos])
		e.stmtStart = e.pos
		return
	}

	if drop {
		e.out.WriteString(substitute)
	} else {
		e.out.Write(e.src[e.stmtStart:op.end])
	}
	e.stmtStart = op.end
}

func (e *contentEditor) moveLine(tx, ty float64) {
	e.lineX += tx * e.scaleX
	e.lineY += ty * e.scaleY
	e.curX, e.curY = e.lineX, e.lineY
}

func (e *contentEditor) nextLine() {
	e.lineY -= e.leading * e.scaleY
	e.curX, e.curY = e.lineX, e.lineY
}

// showString advances the pen by the estimated string width and reports
// whether the drawn extent overlaps a redaction region.
func (e *contentEditor) showString(byteLen int) bool {
	width := float64(byteLen) * estEmPerByte * e.effFontSize()
	hit := e.overlaps(e.curX, width)
	e.curX += width
	return hit
}

// showArray handles TJ: strings advance the pen, numbers adjust it by
// thousandths of an em (negative values move right in display space).
func (e *contentEditor) showArray() bool {
	startX := e.curX
	x := e.curX
	for _, t := range e.operands {
		switch t.kind {
		case tokString:
			x += float64(t.byteLen) * estEmPerByte * e.effFontSize()
		case tokNumber:
			x -= t.num / 1000 * e.effFontSize()
		}
	}
	e.curX = x
	return e.overlaps(startX, x-startX)
}

func (e *contentEditor) effFontSize() float64 {
	fs := e.fontSize
	if fs <= 0 {
		fs = 12
	}
	if e.scaleY > 0 {
		fs *= e.scaleY
	}
	return fs
}

func (e *contentEditor) overlaps(x, width float64) bool {
	if width < 0 {
		x, width = x+width, -width
	}
	fs := e.effFontSize()
	box := Rect{
		X0: x,
		Y0: e.curY - fs*descenderRatio,
		X1: x + width,
		Y1: e.curY + fs*ascenderRatio,
	}
	for _, r := range e.rects {
		if box.Overlaps(r) {
			return true
		}
	}
	return false
}

// lastNumbers returns the trailing n numeric operands of the current
// statement, in source order.
func (e *contentEditor) lastNumbers(n int) ([]float64, bool) {
	nums := make([]float64, 0, n)
	for i := len(e.operands) - 1; i >= 0 && len(nums) < n; i-- {
		if e.operands[i].kind == tokNumber {
			nums = append(nums, e.operands[i].num)
		}
	}
	if len(nums) < n {
		return nil, false
	}
	// reverse into source order
	for i, j := 0, len(nums)-1; i < j; i, j = i+1, j-1 {
		nums[i], nums[j] = nums[j], nums[i]
	}
	return nums, true
}

func (e *contentEditor) lastStringLen() int {
	for i := len(e.operands) - 1; i >= 0; i-- {
		if e.operands[i].kind == tokString {
			return e.operands[i].byteLen
		}
	}
	return 0
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// --- tokenizer ---

func isWhitespace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// next scans the following token. Raw extents are preserved so statements
// can be copied through without reformatting.
func (e *contentEditor) next() (token, bool) {
	for e.pos < len(e.src) {
		b := e.src[e.pos]
		switch {
		case isWhitespace(b):
			e.pos++
		case b == '%':
			for e.pos < len(e.src) && e.src[e.pos] != '\n' && e.src[e.pos] != '\r' {
				e.pos++
			}
		default:
			return e.scanToken(), true
		}
	}
	return token{}, false
}

func (e *contentEditor) scanToken() token {
	start := e.pos
	b := e.src[e.pos]

	switch {
	case b == '(':
		return e.scanLiteralString()
	case b == '<':
		if e.pos+1 < len(e.src) && e.src[e.pos+1] == '<' {
			e.pos += 2
			return token{kind: tokDictOpen, start: start, end: e.pos}
		}
		return e.scanHexString()
	case b == '>':
		if e.pos+1 < len(e.src) && e.src[e.pos+1] == '>' {
			e.pos += 2
			return token{kind: tokDictClose, start: start, end: e.pos}
		}
		e.pos++
		return token{kind: tokDictClose, start: start, end: e.pos}
	case b == '[':
		e.pos++
		return token{kind: tokArrayOpen, start: start, end: e.pos}
	case b == ']':
		e.pos++
		return token{kind: tokArrayClose, start: start, end: e.pos}
	case b == '/':
		e.pos++
		for e.pos < len(e.src) && !isWhitespace(e.src[e.pos]) && !isDelimiter(e.src[e.pos]) {
			e.pos++
		}
		return token{kind: tokName, start: start, end: e.pos, text: string(e.src[start:e.pos])}
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		for e.pos < len(e.src) && !isWhitespace(e.src[e.pos]) && !isDelimiter(e.src[e.pos]) {
			e.pos++
		}
		n, _ := strconv.ParseFloat(string(e.src[start:e.pos]), 64)
		return token{kind: tokNumber, start: start, end: e.pos, num: n}
	default:
		for e.pos < len(e.src) && !isWhitespace(e.src[e.pos]) && !isDelimiter(e.src[e.pos]) {
			e.pos++
		}
		return token{kind: tokOperator, start: start, end: e.pos, text: string(e.src[start:e.pos])}
	}
}

// scanLiteralString consumes a ( ) string handling nesting and escapes.
// Only the decoded byte count is needed downstream.
func (e *contentEditor) scanLiteralString() token {
	start := e.pos
	e.pos++ // (
	depth := 1
	count := 0
	for e.pos < len(e.src) && depth > 0 {
		switch e.src[e.pos] {
		case '\\':
			e.pos++
			if e.pos < len(e.src) {
				// Octal escapes span up to three digits; every escape
				// decodes to a single byte.
				if e.src[e.pos] >= '0' && e.src[e.pos] <= '7' {
					for i := 0; i < 3 && e.pos < len(e.src) && e.src[e.pos] >= '0' && e.src[e.pos] <= '7'; i++ {
						e.pos++
					}
					e.pos--
				}
				count++
				e.pos++
			}
		case '(':
			depth++
			count++
			e.pos++
		case ')':
			depth--
			if depth > 0 {
				count++
			}
			e.pos++
		default:
			count++
			e.pos++
		}
	}
	return token{kind: tokString, start: start, end: e.pos, byteLen: count}
}

func (e *contentEditor) scanHexString() token {
	start := e.pos
	e.pos++ // <
	digits := 0
	for e.pos < len(e.src) && e.src[e.pos] != '>' {
		b := e.src[e.pos]
		if (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') {
			digits++
		}
		e.pos++
	}
	if e.pos < len(e.src) {
		e.pos++ // >
	}
	return token{kind: tokString, start: start, end: e.pos, byteLen: (digits + 1) / 2}
}

// skipInlineImage advances past an inline image's binary payload to just
// after the EI marker.
func (e *contentEditor) skipInlineImage() {
	for e.pos+1 < len(e.src) {
		if e.src[e.pos] == 'E' && e.src[e.pos+1] == 'I' &&
			(e.pos+2 >= len(e.src) || isWhitespace(e.src[e.pos+2])) &&
			(e.pos == 0 || isWhitespace(e.src[e.pos-1])) {
			e.pos += 2
			return
		}
		e.pos++
	}
	e.pos = len(e.src)
}
