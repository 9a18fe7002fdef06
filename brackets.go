package main

import "github.com/gdamore/tcell/v2"

// BracketPair holds the positions of two matching brackets.
// BracketPair хранит позиции пары парных скобок.
type BracketPair struct {
	OpenLine  int
	OpenCol   int
	CloseLine int
	CloseCol  int
}

var (
	openToClose = map[rune]rune{'(': ')', '[': ']', '{': '}'}
	closeToOpen = map[rune]rune{')': '(', ']': '[', '}': '{'}
)

var bracketStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue)

// matchBracketAt finds the partner of the bracket at (line, col), scanning
// across lines in the direction of the partner.
func matchBracketAt(lines []string, line, col int) (BracketPair, bool) {
	if line < 0 || line >= len(lines) {
		return BracketPair{}, false
	}
	runes := []rune(lines[line])
	if col < 0 || col >= len(runes) {
		return BracketPair{}, false
	}
	ch := runes[col]

	if closing, ok := openToClose[ch]; ok {
		depth := 0
		for l := line; l < len(lines); l++ {
			rs := []rune(lines[l])
			start := 0
			if l == line {
				start = col
			}
			for c := start; c < len(rs); c++ {
				switch rs[c] {
				case ch:
					depth++
				case closing:
					depth--
					if depth == 0 {
						return BracketPair{OpenLine: line, OpenCol: col, CloseLine: l, CloseCol: c}, true
					}
				}
			}
		}
		return BracketPair{}, false
	}

	if opening, ok := closeToOpen[ch]; ok {
		depth := 0
		for l := line; l >= 0; l-- {
			rs := []rune(lines[l])
			start := len(rs) - 1
			if l == line {
				start = col
			}
			for c := start; c >= 0; c-- {
				switch rs[c] {
				case ch:
					depth++
				case opening:
					depth--
					if depth == 0 {
						return BracketPair{OpenLine: l, OpenCol: c, CloseLine: line, CloseCol: col}, true
					}
				}
			}
		}
	}
	return BracketPair{}, false
}

// bracketAtCursor checks the rune under the cursor, then the one before it.
func bracketAtCursor(t *Tab) (BracketPair, bool) {
	if t == nil {
		return BracketPair{}, false
	}
	if pair, ok := matchBracketAt(t.Lines, t.cy, t.cx); ok {
		return pair, true
	}
	return matchBracketAt(t.Lines, t.cy, t.cx-1)
}

// closingFor returns the auto-close partner of r, or 0.
func closingFor(r rune) rune {
	switch r {
	case '(', '[', '{':
		return openToClose[r]
	case '"', '\'':
		return r
	}
	return 0
}

// shouldAutoClose reports whether typing open at the cursor should also
// insert its partner: only at end of line or before whitespace/punctuation.
func shouldAutoClose(t *Tab) bool {
	runes := []rune(t.currentLine())
	if t.cx >= len(runes) {
		return true
	}
	switch runes[t.cx] {
	case ' ', '\t', ')', ']', '}', ';', ',', ':':
		return true
	}
	return false
}

// shouldSkipClosing reports whether typing r should step over an identical
// closing rune already under the cursor.
func shouldSkipClosing(t *Tab, r rune) bool {
	if _, isClose := closeToOpen[r]; !isClose && r != '"' && r != '\'' {
		return false
	}
	runes := []rune(t.currentLine())
	return t.cx < len(runes) && runes[t.cx] == r
}
