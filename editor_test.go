package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codestop/stopper"
)

func newTestEditor(t *testing.T, langID, content string) (*Editor, *Tab) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Stopper.DismissAfter = time.Hour
	e := NewEditor(cfg, EditorDeps{})

	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	e.attach(s)
	t.Cleanup(s.Fini)

	lang, ok := languageByID(langID)
	require.True(t, ok)
	tab := newTab("main"+lang.Extension, "", lang, content)
	e.tabs.push(tab)
	tab.cy = len(tab.Lines) - 1
	tab.cx = len([]rune(tab.Lines[tab.cy]))
	return e, tab
}

func press(e *Editor, key tcell.Key, mod tcell.ModMask) {
	e.handleKey(tcell.NewEventKey(key, 0, mod))
}

func typeText(e *Editor, text string) {
	for _, r := range text {
		e.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

// TestEnterRejectedLineKeepsBuffer checks that a rejected Enter inserts no
// newline and shows the banner.
func TestEnterRejectedLineKeepsBuffer(t *testing.T) {
	e, tab := newTestEditor(t, "python", "")
	typeText(e, "def f()")
	require.Equal(t, []string{"def f()"}, tab.Lines)

	press(e, tcell.KeyEnter, tcell.ModNone)

	assert.Equal(t, []string{"def f()"}, tab.Lines)
	assert.Equal(t, stopper.StateErrorShown, e.stopper.State())
	msg, ok := e.stopper.Banner()
	require.True(t, ok)
	assert.Equal(t, "Python 'def' blocks must end with a colon ':'", msg)
	require.NotNil(t, e.lastRejection)
	assert.Equal(t, 1, e.lastRejection.LineNumber)
}

// TestKeystrokeClearsBanner checks that fixing the line clears the banner and
// the next Enter goes through.
func TestKeystrokeClearsBanner(t *testing.T) {
	e, tab := newTestEditor(t, "python", "")
	typeText(e, "def f()")
	press(e, tcell.KeyEnter, tcell.ModNone)
	require.Equal(t, stopper.StateErrorShown, e.stopper.State())

	typeText(e, ":")
	assert.Equal(t, stopper.StateIdle, e.stopper.State())

	press(e, tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, []string{"def f():", ""}, tab.Lines)
	assert.Equal(t, 1, tab.cy)
}

func TestCursorMotionKeepsBanner(t *testing.T) {
	e, _ := newTestEditor(t, "python", "")
	typeText(e, "if x")
	press(e, tcell.KeyEnter, tcell.ModNone)
	require.Equal(t, stopper.StateErrorShown, e.stopper.State())

	press(e, tcell.KeyLeft, tcell.ModNone)
	assert.Equal(t, stopper.StateErrorShown, e.stopper.State())
}

func TestAltEnterInsertsLiteralNewline(t *testing.T) {
	e, tab := newTestEditor(t, "java", "int x = 1")

	press(e, tcell.KeyEnter, tcell.ModAlt)

	assert.Equal(t, []string{"int x = 1", ""}, tab.Lines)
	assert.Equal(t, stopper.StateIdle, e.stopper.State())
}

func TestToggleStopperDisablesInterception(t *testing.T) {
	e, tab := newTestEditor(t, "java", "int x = 1")

	press(e, tcell.KeyCtrlK, tcell.ModNone)
	require.False(t, e.stopper.Enabled())
	press(e, tcell.KeyEnter, tcell.ModNone)

	assert.Len(t, tab.Lines, 2)
}

func TestEnterValidLineKeepsIndentation(t *testing.T) {
	e, tab := newTestEditor(t, "java", "    int x = 1;")

	press(e, tcell.KeyEnter, tcell.ModNone)

	assert.Equal(t, []string{"    int x = 1;", "    "}, tab.Lines)
	assert.Equal(t, 4, tab.cx)
}

func TestEnterCommentAlwaysAllowed(t *testing.T) {
	e, tab := newTestEditor(t, "cpp", "// int main(")

	press(e, tcell.KeyEnter, tcell.ModNone)

	assert.Len(t, tab.Lines, 2)
	assert.Equal(t, stopper.StateIdle, e.stopper.State())
}

func TestAutoDismissPostsToLoop(t *testing.T) {
	e, _ := newTestEditor(t, "python", "print('x)")
	e.stopper = stopper.NewController(
		stopper.Config{Enabled: true, DismissAfter: 10 * time.Millisecond},
		stopper.WithAfterFunc(e.afterFunc),
	)
	press(e, tcell.KeyEnter, tcell.ModNone)
	require.Equal(t, stopper.StateErrorShown, e.stopper.State())

	// The dismissal arrives as an interrupt event on the screen queue.
	var fn func()
	for fn == nil {
		if intr, ok := e.screen.PollEvent().(*tcell.EventInterrupt); ok {
			fn, _ = intr.Data().(func())
		}
	}
	fn()

	assert.Equal(t, stopper.StateIdle, e.stopper.State())
}

func TestVerdictMetricsRecorded(t *testing.T) {
	e, _ := newTestEditor(t, "python", "")
	typeText(e, "while True")
	press(e, tcell.KeyEnter, tcell.ModNone)
	typeText(e, ":")
	press(e, tcell.KeyEnter, tcell.ModNone)

	assert.Equal(t, 1.0, counterValue(t, e.metrics.verdicts, "python", "rejected"))
	assert.Equal(t, 1.0, counterValue(t, e.metrics.verdicts, "python", "allowed"))
}

func TestRenderShowsBanner(t *testing.T) {
	e, _ := newTestEditor(t, "javascript", "")
	typeText(e, "const f = x =>")
	press(e, tcell.KeyEnter, tcell.ModNone)
	e.render()

	sim := e.screen.(tcell.SimulationScreen)
	cells, w, h := sim.GetContents()
	var row []rune
	for x := 0; x < w; x++ {
		row = append(row, cells[(h-1)*w+x].Runes...)
	}
	assert.Contains(t, string(row), "Arrow function needs a body or expression.")
}

func TestNewTabPromptAndClose(t *testing.T) {
	e, _ := newTestEditor(t, "python", "")

	press(e, tcell.KeyCtrlN, tcell.ModNone)
	require.NotNil(t, e.prompt)
	e.prompt.Value = ""
	typeText(e, "java")
	press(e, tcell.KeyEnter, tcell.ModNone)

	require.Equal(t, 2, e.tabs.Len())
	assert.Equal(t, "main.java", e.tabs.Active().Name)

	press(e, tcell.KeyCtrlW, tcell.ModNone)
	require.Equal(t, 1, e.tabs.Len())
	assert.Equal(t, "main.py", e.tabs.Active().Name)
}

func TestQuitNeedsConfirmationWithUnsavedTabs(t *testing.T) {
	e, _ := newTestEditor(t, "python", "")
	typeText(e, "x = 1")

	press(e, tcell.KeyCtrlQ, tcell.ModNone)
	assert.False(t, e.quit)
	assert.True(t, e.quitArmed)

	press(e, tcell.KeyCtrlQ, tcell.ModNone)
	assert.True(t, e.quit)
}

func TestExplainWithoutAssistant(t *testing.T) {
	e, _ := newTestEditor(t, "python", "")
	press(e, tcell.KeyCtrlE, tcell.ModNone)
	assert.Equal(t, "No rejected line to explain", e.statusText)

	typeText(e, "for x in y")
	press(e, tcell.KeyEnter, tcell.ModNone)
	press(e, tcell.KeyCtrlE, tcell.ModNone)
	assert.Equal(t, ErrNoAPIKey.Error(), e.statusText)
}

func TestSwitchingTabsClearsBanner(t *testing.T) {
	e, _ := newTestEditor(t, "java", "int x = 1")
	java, _ := languageByID("java")
	other := newTab("file2.java", "", java, "")
	e.tabs.tabs = append(e.tabs.tabs, other)

	press(e, tcell.KeyEnter, tcell.ModNone)
	require.Equal(t, stopper.StateErrorShown, e.stopper.State())

	press(e, tcell.KeyCtrlB, tcell.ModNone)
	assert.Same(t, other, e.tabs.Active())
	assert.Equal(t, stopper.StateIdle, e.stopper.State())
}

func TestAltEnterAfterRejectionClearsBanner(t *testing.T) {
	e, tab := newTestEditor(t, "python", "def f()")
	press(e, tcell.KeyEnter, tcell.ModNone)
	require.Equal(t, stopper.StateErrorShown, e.stopper.State())

	press(e, tcell.KeyEnter, tcell.ModAlt)

	assert.Equal(t, []string{"def f()", ""}, tab.Lines)
	assert.Equal(t, stopper.StateIdle, e.stopper.State())
	_, shown := e.stopper.Banner()
	assert.False(t, shown)
}

func TestCompletionOnlyLandsInActiveTab(t *testing.T) {
	e, first := newTestEditor(t, "python", "x = ")
	python, _ := languageByID("python")
	second := newTab("file2.py", "", python, "")
	e.tabs.tabs = append(e.tabs.tabs, second)
	cy, cx := first.cy, first.cx

	press(e, tcell.KeyCtrlB, tcell.ModNone)
	require.Same(t, second, e.tabs.Active())

	assert.False(t, e.applyCompletion(first, cy, cx, "42"))
	assert.Equal(t, []string{"x = "}, first.Lines)
	assert.False(t, first.Modified)

	press(e, tcell.KeyCtrlB, tcell.ModNone)
	require.Same(t, first, e.tabs.Active())
	assert.True(t, e.applyCompletion(first, cy, cx, "42"))
	assert.Equal(t, []string{"x = 42"}, first.Lines)
}

func TestCompletionDroppedWhenCursorMoved(t *testing.T) {
	e, tab := newTestEditor(t, "python", "x = ")
	cy, cx := tab.cy, tab.cx
	press(e, tcell.KeyHome, tcell.ModNone)

	assert.False(t, e.applyCompletion(tab, cy, cx, "42"))
	assert.Equal(t, []string{"x = "}, tab.Lines)
}

// TestStatusMessageExpiryWakesLoop checks that an expired status message is
// followed by an interrupt event so the loop redraws without it.
func TestStatusMessageExpiryWakesLoop(t *testing.T) {
	e, _ := newTestEditor(t, "python", "")
	e.statusTTL = 10 * time.Millisecond
	e.statusMessage("Saved main.py")
	left, _ := e.statusBar()
	require.Contains(t, left, "Saved main.py")

	var fn func()
	for fn == nil {
		if intr, ok := e.screen.PollEvent().(*tcell.EventInterrupt); ok {
			fn, _ = intr.Data().(func())
		}
	}
	fn()

	left, _ = e.statusBar()
	assert.NotContains(t, left, "Saved main.py")
}
