package main

import (
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
)

// handleKey handles keyboard input.
// handleKey обрабатывает ввод с клавиатуры.
func (e *Editor) handleKey(ev *tcell.EventKey) {
	if e.prompt != nil {
		e.handlePromptInput(ev)
		return
	}
	if e.showHelp {
		e.showHelp = false
		return
	}
	if ev.Key() != tcell.KeyCtrlQ {
		e.quitArmed = false
	}

	tab := e.tabs.Active()
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.requestQuit()
	case tcell.KeyCtrlS:
		e.saveActive()
	case tcell.KeyCtrlN:
		e.promptNewTab()
	case tcell.KeyCtrlO:
		e.showPrompt("Open file", "", func(path string) {
			if path == "" {
				return
			}
			if _, err := e.tabs.Open(path); err != nil {
				e.statusMessage(err.Error())
				return
			}
			e.stopper.Edit()
		})
	case tcell.KeyCtrlB:
		if next := e.tabs.Next(); next != nil {
			// The banner belongs to the tab it was raised in.
			e.stopper.Edit()
			e.statusMessage("Tab " + next.Name)
		}
	case tcell.KeyCtrlW:
		e.closeActiveTab()
	case tcell.KeyCtrlK:
		e.toggleStopper()
	case tcell.KeyCtrlR:
		e.runActive()
	case tcell.KeyCtrlE:
		e.explainLast()
	case tcell.KeyCtrlT:
		e.showPrompt("Ask assistant", "", e.askAssistant)
	case tcell.KeyCtrlG:
		e.completeAtCursor()
	case tcell.KeyCtrlL:
		e.console.Clear()
	case tcell.KeyF1:
		e.showHelp = true
	case tcell.KeyEnter:
		e.submitLine(ev.Modifiers())
	default:
		if tab == nil {
			return
		}
		if e.handleMotion(tab, ev) {
			return
		}
		if e.handleEdit(tab, ev) {
			e.stopper.Edit()
		}
	}
}

// submitLine runs the stopper on the current line and inserts the newline
// only when it is allowed.
// submitLine проверяет текущую строку и переводит строку, только если проверка пройдена.
func (e *Editor) submitLine(mod tcell.ModMask) {
	tab := e.tabs.Active()
	literal := mod&(tcell.ModAlt|tcell.ModShift) != 0
	src := tabSource{tab: tab}
	intercepting := e.stopper.Enabled() && !literal && tab != nil

	allowed := e.stopper.Submit(src, literal)
	if intercepting {
		e.metrics.ObserveVerdict(src.Language(), allowed)
	}
	if !allowed || tab == nil {
		return
	}
	tab.newline()
	if literal {
		// A literal newline is an edit like any other keystroke.
		e.stopper.Edit()
	}
	e.ensureVisible()
}

// handleMotion moves the cursor. Motion is not an edit and keeps the banner.
func (e *Editor) handleMotion(tab *Tab, ev *tcell.EventKey) bool {
	tab.clampCursor()
	switch ev.Key() {
	case tcell.KeyLeft:
		if tab.cx > 0 {
			tab.cx--
		} else if tab.cy > 0 {
			tab.cy--
			tab.cx = len([]rune(tab.currentLine()))
		}
	case tcell.KeyRight:
		if tab.cx < len([]rune(tab.currentLine())) {
			tab.cx++
		} else if tab.cy < len(tab.Lines)-1 {
			tab.cy++
			tab.cx = 0
		}
	case tcell.KeyUp:
		if tab.cy > 0 {
			tab.cy--
		}
	case tcell.KeyDown:
		if tab.cy < len(tab.Lines)-1 {
			tab.cy++
		}
	case tcell.KeyHome:
		tab.cx = 0
	case tcell.KeyEnd:
		tab.cx = len([]rune(tab.currentLine()))
	case tcell.KeyPgUp:
		tab.cy -= e.textHeight()
	case tcell.KeyPgDn:
		tab.cy += e.textHeight()
	default:
		return false
	}
	tab.clampCursor()
	e.ensureVisible()
	return true
}

// handleEdit applies a buffer edit and reports whether one happened.
func (e *Editor) handleEdit(tab *Tab, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return tab.backspace()
	case tcell.KeyDelete:
		return tab.deleteForward()
	case tcell.KeyTab:
		tab.insertText("    ")
	case tcell.KeyCtrlZ:
		if !tab.undo() {
			return false
		}
	case tcell.KeyCtrlY:
		if !tab.redo() {
			return false
		}
	case tcell.KeyCtrlC:
		e.copyLine(tab)
		return false
	case tcell.KeyCtrlX:
		e.clipboard = tab.cutLine()
		if err := clipboard.WriteAll(e.clipboard); err != nil {
			e.statusMessage("Copy error clipboard: " + err.Error())
		}
	case tcell.KeyCtrlV:
		text, err := clipboard.ReadAll()
		if err != nil {
			text = e.clipboard
		}
		if text == "" {
			return false
		}
		tab.insertText(text)
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return false
		}
		e.typeRune(tab, ev.Rune())
	default:
		return false
	}
	e.ensureVisible()
	return true
}

// typeRune inserts r with bracket and quote auto-close.
// typeRune вставляет символ с автозакрытием скобок и кавычек.
func (e *Editor) typeRune(tab *Tab, r rune) {
	if shouldSkipClosing(tab, r) {
		tab.cx++
		return
	}
	if closing := closingFor(r); closing != 0 && shouldAutoClose(tab) && !isWordQuote(tab, r) {
		tab.insertText(string([]rune{r, closing}))
		tab.cx--
		return
	}
	tab.insertRune(r)
}

// isWordQuote reports an apostrophe typed right after a letter, as in "it's".
func isWordQuote(tab *Tab, r rune) bool {
	if r != '\'' || tab.cx == 0 {
		return false
	}
	runes := []rune(tab.currentLine())
	prev := runes[tab.cx-1]
	return unicode.IsLetter(prev) || unicode.IsDigit(prev)
}

// copyLine copies the current line to the clipboard.
// copyLine копирует текущую строку в буфер обмена.
func (e *Editor) copyLine(tab *Tab) {
	e.clipboard = tab.currentLine()
	if err := clipboard.WriteAll(e.clipboard); err != nil {
		e.statusMessage("Copy error clipboard: " + err.Error())
		return
	}
	e.statusMessage("Copied current line to clipboard")
}

func (e *Editor) promptNewTab() {
	ids := make([]string, 0, len(languages))
	for _, l := range languages {
		ids = append(ids, l.ID)
	}
	e.showPrompt("New tab ("+strings.Join(ids, ", ")+")", "python", func(id string) {
		lang, ok := languageByID(id)
		if !ok {
			e.statusMessage("Unknown language: " + id)
			return
		}
		tab, err := e.tabs.Add(lang)
		if err != nil {
			e.statusMessage(err.Error())
			return
		}
		e.stopper.Edit()
		e.statusMessage("Created " + tab.Name)
	})
}

func (e *Editor) closeActiveTab() {
	tab := e.tabs.Active()
	if tab == nil {
		return
	}
	e.tabs.Close(tab.ID)
	e.stopper.Edit()
	e.statusMessage("Closed " + tab.Name)
}

// handlePromptInput handles input while the bottom-line prompt is open.
func (e *Editor) handlePromptInput(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEsc:
		e.prompt = nil
	case tcell.KeyEnter:
		val := strings.TrimSpace(e.prompt.Value)
		cb := e.prompt.Callback
		e.prompt = nil
		if cb != nil {
			cb(val)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if runes := []rune(e.prompt.Value); len(runes) > 0 {
			e.prompt.Value = string(runes[:len(runes)-1])
		}
	case tcell.KeyCtrlV:
		if text, err := clipboard.ReadAll(); err == nil {
			e.prompt.Value += strings.ReplaceAll(text, "\n", " ")
		}
	case tcell.KeyRune:
		e.prompt.Value += string(ev.Rune())
	}
}
