package main

import "strings"

// maxUndo bounds the snapshot history per tab.
const maxUndo = 200

// TabState is a snapshot of a tab for undo/redo.
type TabState struct {
	Lines []string
	Cx    int
	Cy    int
}

func (t *Tab) snapshot() TabState {
	lines := make([]string, len(t.Lines))
	copy(lines, t.Lines)
	return TabState{Lines: lines, Cx: t.cx, Cy: t.cy}
}

func (t *Tab) restore(s TabState) {
	t.Lines = s.Lines
	t.cx = s.Cx
	t.cy = s.Cy
}

// pushUndo saves the current state before a change and drops the redo history.
func (t *Tab) pushUndo() {
	t.undoStack = append(t.undoStack, t.snapshot())
	if len(t.undoStack) > maxUndo {
		t.undoStack = t.undoStack[len(t.undoStack)-maxUndo:]
	}
	t.redoStack = nil
	t.Modified = true
}

// undo reverts the last change.
// undo отменяет последнее изменение.
func (t *Tab) undo() bool {
	if len(t.undoStack) == 0 {
		return false
	}
	t.redoStack = append(t.redoStack, t.snapshot())
	last := t.undoStack[len(t.undoStack)-1]
	t.undoStack = t.undoStack[:len(t.undoStack)-1]
	t.restore(last)
	t.Modified = true
	return true
}

// redo reapplies the last undone change.
// redo повторяет отменённое изменение.
func (t *Tab) redo() bool {
	if len(t.redoStack) == 0 {
		return false
	}
	t.undoStack = append(t.undoStack, t.snapshot())
	next := t.redoStack[len(t.redoStack)-1]
	t.redoStack = t.redoStack[:len(t.redoStack)-1]
	t.restore(next)
	t.Modified = true
	return true
}

// currentLine returns the line under the cursor.
func (t *Tab) currentLine() string {
	if t.cy < 0 || t.cy >= len(t.Lines) {
		return ""
	}
	return t.Lines[t.cy]
}

func (t *Tab) clampCursor() {
	if t.cy >= len(t.Lines) {
		t.cy = len(t.Lines) - 1
	}
	if t.cy < 0 {
		t.cy = 0
	}
	if n := len([]rune(t.currentLine())); t.cx > n {
		t.cx = n
	}
	if t.cx < 0 {
		t.cx = 0
	}
}

// insertRune inserts r at the cursor.
// insertRune вставляет символ в позицию курсора.
func (t *Tab) insertRune(r rune) {
	t.pushUndo()
	t.clampCursor()
	runes := []rune(t.Lines[t.cy])
	runes = append(runes[:t.cx], append([]rune{r}, runes[t.cx:]...)...)
	t.Lines[t.cy] = string(runes)
	t.cx++
}

// insertText inserts possibly multi-line text at the cursor.
func (t *Tab) insertText(text string) {
	if text == "" {
		return
	}
	t.pushUndo()
	t.clampCursor()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	runes := []rune(t.Lines[t.cy])
	left, right := string(runes[:t.cx]), string(runes[t.cx:])
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		t.Lines[t.cy] = left + parts[0] + right
		t.cx += len([]rune(parts[0]))
		return
	}
	newLines := make([]string, 0, len(parts))
	newLines = append(newLines, left+parts[0])
	newLines = append(newLines, parts[1:len(parts)-1]...)
	last := parts[len(parts)-1]
	newLines = append(newLines, last+right)

	rest := append([]string{}, t.Lines[t.cy+1:]...)
	t.Lines = append(append(t.Lines[:t.cy], newLines...), rest...)
	t.cy += len(parts) - 1
	t.cx = len([]rune(last))
}

// newline splits the line at the cursor and keeps the leading indentation.
func (t *Tab) newline() {
	t.pushUndo()
	t.clampCursor()
	runes := []rune(t.Lines[t.cy])
	left, right := string(runes[:t.cx]), string(runes[t.cx:])
	indent := leadingWhitespace(left)
	t.Lines[t.cy] = left
	rest := append([]string{indent + right}, t.Lines[t.cy+1:]...)
	t.Lines = append(t.Lines[:t.cy+1], rest...)
	t.cy++
	t.cx = len([]rune(indent))
}

// backspace deletes the rune before the cursor, joining lines at column 0.
func (t *Tab) backspace() bool {
	t.clampCursor()
	if t.cx > 0 {
		t.pushUndo()
		runes := []rune(t.Lines[t.cy])
		t.Lines[t.cy] = string(append(runes[:t.cx-1], runes[t.cx:]...))
		t.cx--
		return true
	}
	if t.cy > 0 {
		t.pushUndo()
		prev := t.Lines[t.cy-1]
		t.Lines[t.cy-1] = prev + t.Lines[t.cy]
		t.Lines = append(t.Lines[:t.cy], t.Lines[t.cy+1:]...)
		t.cy--
		t.cx = len([]rune(prev))
		return true
	}
	return false
}

// deleteForward deletes the rune under the cursor.
func (t *Tab) deleteForward() bool {
	t.clampCursor()
	runes := []rune(t.Lines[t.cy])
	if t.cx < len(runes) {
		t.pushUndo()
		t.Lines[t.cy] = string(append(runes[:t.cx], runes[t.cx+1:]...))
		return true
	}
	if t.cy < len(t.Lines)-1 {
		t.pushUndo()
		t.Lines[t.cy] += t.Lines[t.cy+1]
		t.Lines = append(t.Lines[:t.cy+1], t.Lines[t.cy+2:]...)
		return true
	}
	return false
}

// cutLine removes the current line and returns it.
func (t *Tab) cutLine() string {
	t.clampCursor()
	t.pushUndo()
	line := t.Lines[t.cy]
	if len(t.Lines) == 1 {
		t.Lines[0] = ""
		t.cx = 0
		return line
	}
	t.Lines = append(t.Lines[:t.cy], t.Lines[t.cy+1:]...)
	t.clampCursor()
	return line
}

func leadingWhitespace(s string) string {
	for i, r := range s {
		if r != ' ' && r != '\t' {
			return s[:i]
		}
	}
	return s
}
