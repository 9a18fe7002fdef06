package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textTab(lines ...string) *Tab {
	t := newTab("t.py", "", nil, "")
	t.Lines = lines
	return t
}

func TestNewlineSplitsAndIndents(t *testing.T) {
	tab := textTab("    foo(bar)")
	tab.cy, tab.cx = 0, 8

	tab.newline()

	assert.Equal(t, []string{"    foo(", "    bar)"}, tab.Lines)
	assert.Equal(t, 1, tab.cy)
	assert.Equal(t, 4, tab.cx)
}

func TestBackspaceJoinsLines(t *testing.T) {
	tab := textTab("ab", "cd")
	tab.cy, tab.cx = 1, 0

	require.True(t, tab.backspace())
	assert.Equal(t, []string{"abcd"}, tab.Lines)
	assert.Equal(t, 2, tab.cx)

	tab.cy, tab.cx = 0, 0
	assert.False(t, tab.backspace())
}

func TestDeleteForwardJoinsLines(t *testing.T) {
	tab := textTab("ab", "cd")
	tab.cy, tab.cx = 0, 2

	require.True(t, tab.deleteForward())
	assert.Equal(t, []string{"abcd"}, tab.Lines)

	tab.cx = 4
	assert.False(t, tab.deleteForward())
}

func TestInsertMultilineText(t *testing.T) {
	tab := textTab("x = [", "]")
	tab.cy, tab.cx = 0, 5

	tab.insertText("\n  1,\r\n  2,")

	assert.Equal(t, []string{"x = [", "  1,", "  2,", "]"}, tab.Lines)
	assert.Equal(t, 2, tab.cy)
	assert.Equal(t, 4, tab.cx)
}

func TestUndoRedo(t *testing.T) {
	tab := textTab("")
	tab.insertRune('a')
	tab.insertRune('b')
	require.Equal(t, []string{"ab"}, tab.Lines)

	require.True(t, tab.undo())
	assert.Equal(t, []string{"a"}, tab.Lines)
	require.True(t, tab.undo())
	assert.Equal(t, []string{""}, tab.Lines)
	assert.False(t, tab.undo())

	require.True(t, tab.redo())
	assert.Equal(t, []string{"a"}, tab.Lines)

	tab.insertRune('z')
	assert.False(t, tab.redo(), "a new edit drops the redo history")
}

func TestUndoHistoryIsBounded(t *testing.T) {
	tab := textTab("")
	for i := 0; i < maxUndo+50; i++ {
		tab.insertRune('x')
	}
	assert.Len(t, tab.undoStack, maxUndo)
}

func TestCutLine(t *testing.T) {
	tab := textTab("one", "two", "three")
	tab.cy = 2

	assert.Equal(t, "three", tab.cutLine())
	assert.Equal(t, []string{"one", "two"}, tab.Lines)
	assert.Equal(t, 1, tab.cy)

	single := textTab("only")
	assert.Equal(t, "only", single.cutLine())
	assert.Equal(t, []string{""}, single.Lines)
}
