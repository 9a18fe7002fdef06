package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	styleDefault  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleKeyword  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack)
	styleString   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack)
	styleComment  = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleType     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 255)).Background(tcell.ColorBlack)
	styleNumber   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 0, 255)).Background(tcell.ColorBlack)
	styleFunction = tcell.StyleDefault.Foreground(tcell.ColorBlue).Background(tcell.ColorBlack)
	styleOperator = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack)
	stylePreproc  = tcell.StyleDefault.Foreground(tcell.ColorPurple).Background(tcell.ColorBlack)

	styleGutter    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray).Background(tcell.ColorBlack)
	styleTab       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	styleTabActive = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
	styleBanner    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
	stylePrompt    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleConsole   = tcell.StyleDefault.Foreground(tcell.ColorLightGray).Background(tcell.ColorBlack)
)

const (
	gutterWidth      = 6
	tabWidth         = 4
	defaultStatusTTL = 5 * time.Second
)

var consoleStyles = map[OutputType]tcell.Style{
	OutputStdout:  styleConsole,
	OutputStderr:  styleConsole.Foreground(tcell.ColorRed),
	OutputInfo:    styleConsole.Foreground(tcell.ColorDarkCyan),
	OutputSuccess: styleConsole.Foreground(tcell.ColorGreen),
	OutputWarning: styleConsole.Foreground(tcell.ColorYellow),
}

// consoleRows is the height of the console panel, zero when it is empty.
func (e *Editor) consoleRows() int {
	if len(e.console.Entries()) == 0 && !e.running {
		return 0
	}
	// Keep at least three text rows.
	return max(0, min(e.consoleHeight, e.height-5))
}

// textHeight is the number of buffer rows on screen.
func (e *Editor) textHeight() int {
	return max(1, e.height-2-e.consoleRows())
}

// ensureVisible scrolls the active tab so the cursor row is on screen.
// ensureVisible обеспечивает видимость курсора на экране.
func (e *Editor) ensureVisible() {
	tab := e.tabs.Active()
	if tab == nil {
		return
	}
	h := e.textHeight()
	if tab.cy < tab.offsetY {
		tab.offsetY = tab.cy
	}
	if tab.cy >= tab.offsetY+h {
		tab.offsetY = tab.cy - h + 1
	}
	if tab.offsetY < 0 {
		tab.offsetY = 0
	}
}

// drawText draws text from x up to maxX and returns the next free column.
func (e *Editor) drawText(x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > maxX {
			break
		}
		e.screen.SetContent(x, y, r, nil, style)
		for c := 1; c < rw; c++ {
			e.screen.SetContent(x+c, y, ' ', nil, style)
		}
		x += rw
	}
	return x
}

func (e *Editor) fillRow(y int, style tcell.Style) {
	for x := 0; x < e.width; x++ {
		e.screen.SetContent(x, y, ' ', nil, style)
	}
}

// cellColumn converts a rune column to a screen cell offset.
func cellColumn(line string, col int) int {
	cells := 0
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if r == '\t' {
			cells += tabWidth - cells%tabWidth
		} else {
			cells += runewidth.RuneWidth(r)
		}
	}
	return cells
}

// render draws the editor to the screen.
// render отрисовывает редактор на экране.
func (e *Editor) render() {
	if e.screen == nil {
		return
	}
	e.screen.Clear()
	e.screen.HideCursor()
	e.fillRow(0, styleTab)
	e.renderTabBar()
	if e.showHelp {
		e.renderHelp()
		e.renderBottom()
		e.screen.Show()
		return
	}
	e.renderText()
	e.renderConsole()
	e.renderBottom()
	e.screen.Show()
}

func (e *Editor) renderTabBar() {
	x := 0
	for i, t := range e.tabs.tabs {
		style := styleTab
		if i == e.tabs.ActiveIndex() {
			style = styleTabActive
		}
		x = e.drawText(x, 0, e.width, " "+t.DisplayName()+" ", style)
		x = e.drawText(x, 0, e.width, "|", styleTab)
		if x >= e.width {
			return
		}
	}
}

func (e *Editor) renderText() {
	tab := e.tabs.Active()
	h := e.textHeight()
	if tab == nil {
		e.drawText(gutterWidth, 1+h/2, e.width, "No open tabs. Press ^N to create one.", styleComment)
		return
	}
	e.ensureVisible()

	textWidth := max(1, e.width-gutterWidth)
	cursorCell := cellColumn(tab.currentLine(), tab.cx)
	offsetX := max(0, cursorCell-textWidth+1)

	pair, hasPair := bracketAtCursor(tab)
	for row := 0; row < h; row++ {
		li := tab.offsetY + row
		y := row + 1
		if li >= len(tab.Lines) {
			e.drawText(0, y, gutterWidth, "~", styleGutter)
			continue
		}
		e.drawText(0, y, gutterWidth, fmt.Sprintf("%*d ", gutterWidth-1, li+1), styleGutter)

		col, cell := 0, 0
		for _, tok := range highlightLine(tab.Lines[li], tab.Language) {
			for _, r := range tok.Text {
				style := tok.Style
				if hasPair && ((li == pair.OpenLine && col == pair.OpenCol) || (li == pair.CloseLine && col == pair.CloseCol)) {
					style = bracketStyle
				}
				w := runewidth.RuneWidth(r)
				draw := r
				if r == '\t' {
					w = tabWidth - cell%tabWidth
					draw = ' '
				}
				for c := 0; c < w; c++ {
					sx := gutterWidth + cell + c - offsetX
					if sx >= gutterWidth && sx < e.width {
						if c > 0 {
							draw = ' '
						}
						e.screen.SetContent(sx, y, draw, nil, style)
					}
				}
				cell += w
				col++
			}
		}
	}

	if e.prompt == nil {
		e.screen.ShowCursor(gutterWidth+cursorCell-offsetX, tab.cy-tab.offsetY+1)
	}
}

func (e *Editor) renderConsole() {
	rows := e.consoleRows()
	if rows == 0 {
		return
	}
	top := e.height - 1 - rows
	e.fillRow(top, styleTab)
	title := " Console "
	if e.running {
		title += "(running...) "
	}
	e.drawText(0, top, e.width, title+"^L clear", styleTab)

	entries := e.console.Entries()
	type consoleLine struct {
		text  string
		style tcell.Style
	}
	var lines []consoleLine
	for _, entry := range entries {
		for _, l := range strings.Split(strings.TrimRight(entry.Content, "\n"), "\n") {
			lines = append(lines, consoleLine{l, consoleStyles[entry.Type]})
		}
	}
	visible := rows - 1
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for i, l := range lines {
		e.fillRow(top+1+i, styleConsole)
		e.drawText(1, top+1+i, e.width, l.text, l.style)
	}
}

func (e *Editor) renderHelp() {
	for i, line := range strings.Split(helpText(detectSystemLanguage(os.Getenv)), "\n") {
		y := i + 1
		if y >= e.height-1 {
			break
		}
		e.drawText(1, y, e.width, line, styleDefault)
	}
}

// renderBottom draws the prompt, the stopper banner or the status bar.
func (e *Editor) renderBottom() {
	y := e.height - 1
	banner, showBanner := e.stopper.Banner()
	switch {
	case e.prompt != nil:
		e.fillRow(y, stylePrompt)
		x := e.drawText(0, y, e.width, " "+e.prompt.Label+": "+e.prompt.Value, stylePrompt)
		e.screen.ShowCursor(min(x, e.width-1), y)
	case showBanner:
		e.fillRow(y, styleBanner)
		e.drawText(0, y, e.width, " "+banner, styleBanner)
	default:
		e.fillRow(y, styleStatus)
		left, right := e.statusBar()
		e.drawText(0, y, e.width, left, styleStatus)
		if w := runewidth.StringWidth(right); w < e.width-runewidth.StringWidth(left) {
			e.drawText(e.width-w, y, e.width, right, styleStatus)
		}
	}
}

func (e *Editor) statusBar() (string, string) {
	mode := "Stopper OFF"
	if e.stopper.Enabled() {
		mode = "Stopper ON"
	}
	left := " " + mode
	if e.statusText != "" && time.Since(e.statusTime) < e.statusTTL {
		left += " | " + e.statusText
	}
	if e.quitArmed {
		left += " | ^Q to quit"
	}
	tab := e.tabs.Active()
	if tab == nil {
		return left, "F1 help "
	}
	lang := "Plain"
	if tab.Language != nil {
		lang = tab.Language.Name
	}
	right := fmt.Sprintf("%s | %s | Ln %d, Col %d | F1 help ", tab.DisplayName(), lang, tab.cy+1, tab.cx+1)
	return left, right
}
