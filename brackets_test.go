package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBracketAcrossLines(t *testing.T) {
	lines := []string{"int main() {", "    if (x) { y(); }", "}"}

	pair, ok := matchBracketAt(lines, 0, 11)
	require.True(t, ok)
	assert.Equal(t, BracketPair{OpenLine: 0, OpenCol: 11, CloseLine: 2, CloseCol: 0}, pair)

	pair, ok = matchBracketAt(lines, 2, 0)
	require.True(t, ok)
	assert.Equal(t, 0, pair.OpenLine)
	assert.Equal(t, 11, pair.OpenCol)

	pair, ok = matchBracketAt(lines, 1, 7)
	require.True(t, ok)
	assert.Equal(t, 1, pair.CloseLine)
	assert.Equal(t, 9, pair.CloseCol)
}

func TestMatchBracketMisses(t *testing.T) {
	lines := []string{"(a", "b"}
	_, ok := matchBracketAt(lines, 0, 0)
	assert.False(t, ok)
	_, ok = matchBracketAt(lines, 0, 1)
	assert.False(t, ok)
	_, ok = matchBracketAt(lines, 5, 0)
	assert.False(t, ok)
}

func TestBracketAtCursorChecksPreviousRune(t *testing.T) {
	tab := textTab("f(x)")
	tab.cx = 4

	pair, ok := bracketAtCursor(tab)
	require.True(t, ok)
	assert.Equal(t, 1, pair.OpenCol)
	assert.Equal(t, 3, pair.CloseCol)
}

func TestAutoCloseRules(t *testing.T) {
	tab := textTab("x = abc")
	tab.cx = 7
	assert.True(t, shouldAutoClose(tab))
	tab.cx = 4
	assert.False(t, shouldAutoClose(tab))

	assert.Equal(t, ')', closingFor('('))
	assert.Equal(t, '"', closingFor('"'))
	assert.Equal(t, rune(0), closingFor('x'))
}

func TestTypingAutoClosesAndSkips(t *testing.T) {
	e, tab := newTestEditor(t, "javascript", "")
	typeText(e, "f(")
	assert.Equal(t, []string{"f()"}, tab.Lines)
	assert.Equal(t, 2, tab.cx)

	typeText(e, ")")
	assert.Equal(t, []string{"f()"}, tab.Lines)
	assert.Equal(t, 3, tab.cx)
}

func TestApostropheAfterLetterIsNotClosed(t *testing.T) {
	e, tab := newTestEditor(t, "python", "")
	typeText(e, "it's")
	assert.Equal(t, []string{"it's"}, tab.Lines)
}
