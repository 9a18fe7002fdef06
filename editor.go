package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"codestop/stopper"
)

// Editor is the terminal editor state.
// Editor хранит состояние терминального редактора.
type Editor struct {
	screen        tcell.Screen
	cfg           *Config
	logger        *slog.Logger
	tabs          *TabSet
	stopper       *stopper.Controller
	console       *Console
	assistant     *Assistant
	runner        *Judge0Client
	session       *SessionStore
	metrics       *Metrics
	prompt        *Prompt
	chat          []ChatMessage
	lastRejection *stopper.Rejection
	clipboard     string
	statusText    string
	statusTime    time.Time
	statusTTL     time.Duration
	statusTimer   stopper.Timer
	width         int
	height        int
	consoleHeight int
	showHelp      bool
	running       bool
	quitArmed     bool
	quit          bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Prompt is a single-line input shown on the bottom row.
type Prompt struct {
	Label    string
	Value    string
	Callback func(string)
}

// EditorDeps carries the collaborators built by main. Nil members disable the
// matching feature.
type EditorDeps struct {
	Logger    *slog.Logger
	Assistant *Assistant
	Runner    *Judge0Client
	Session   *SessionStore
	Metrics   *Metrics
}

// NewEditor creates an editor. The screen is attached by Run or by tests.
// NewEditor создаёт редактор; экран подключается в Run.
func NewEditor(cfg *Config, deps EditorDeps) *Editor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Editor{
		cfg:           cfg,
		logger:        logger,
		tabs:          newTabSet(),
		console:       NewConsole(500),
		assistant:     deps.Assistant,
		runner:        deps.Runner,
		session:       deps.Session,
		metrics:       metrics,
		consoleHeight: 6,
		statusTTL:     defaultStatusTTL,
		ctx:           ctx,
		cancel:        cancel,
	}

	// Precedence: --no-stopper, then saved preferences, then the config file.
	enabled := cfg.Stopper.Enabled
	if e.session != nil && !cfg.Stopper.Forced {
		if prefs, ok, err := e.session.LoadPrefs(); err != nil {
			logger.Warn("failed to load preferences", "error", err)
		} else if ok {
			enabled = prefs.StopperEnabled
		}
	}
	e.stopper = stopper.NewController(
		stopper.Config{Enabled: enabled, DismissAfter: cfg.Stopper.DismissAfter},
		stopper.WithAfterFunc(e.afterFunc),
		stopper.WithObserver(e.onRejection),
		stopper.WithLogger(logger.With("component", "stopper")),
	)
	return e
}

// afterFunc arms a timer whose callback runs on the UI loop.
func (e *Editor) afterFunc(d time.Duration, f func()) stopper.Timer {
	return time.AfterFunc(d, func() { e.post(f) })
}

// post schedules fn on the UI goroutine.
func (e *Editor) post(fn func()) {
	if e.screen == nil {
		fn()
		return
	}
	if err := e.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		e.logger.Warn("event queue full, dropping UI update", "error", err)
	}
}

// Open loads the given paths into tabs. With no paths the previous session is
// restored, falling back to a Python tab.
func (e *Editor) Open(paths ...string) {
	for _, p := range paths {
		if _, err := e.tabs.Open(p); err != nil {
			e.console.Add(OutputStderr, err.Error())
			e.logger.Error("failed to open file", "path", p, "error", err)
		}
	}
	if e.tabs.Len() > 0 {
		return
	}
	if e.session != nil {
		if restored, err := e.restoreSession(); err != nil {
			e.logger.Warn("failed to restore session", "error", err)
		} else if restored {
			return
		}
	}
	python, _ := languageByID("python")
	if _, err := e.tabs.Add(python); err != nil {
		e.logger.Error("failed to create default tab", "error", err)
	}
}

func (e *Editor) restoreSession() (bool, error) {
	saved, activeID, err := e.session.LoadTabs()
	if err != nil {
		return false, err
	}
	for _, st := range saved {
		e.tabs.Restore(st.toTab())
	}
	if activeID != "" {
		e.tabs.Activate(activeID)
	}
	return len(saved) > 0, nil
}

// Run starts the editor main loop.
// Run запускает главный цикл редактора.
func (e *Editor) Run() error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	return e.loop(s)
}

func (e *Editor) loop(s tcell.Screen) error {
	e.attach(s)
	defer e.shutdown()
	for !e.quit {
		e.render()
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			e.handleKey(ev)
		case *tcell.EventResize:
			e.refreshSize()
			s.Sync()
		case *tcell.EventInterrupt:
			if fn, ok := ev.Data().(func()); ok {
				fn()
			}
		case nil:
			return nil
		}
	}
	return nil
}

// attach binds the editor to a screen.
func (e *Editor) attach(s tcell.Screen) {
	e.screen = s
	e.refreshSize()
}

// refreshSize updates the editor's dimensions.
// refreshSize обновляет размеры редактора.
func (e *Editor) refreshSize() {
	w, h := e.screen.Size()
	e.width = max(w, 1)
	e.height = max(h, 1)
}

// shutdown stops background work and saves the session.
func (e *Editor) shutdown() {
	e.cancel()
	e.stopper.Close()
	if e.statusTimer != nil {
		e.statusTimer.Stop()
	}
	if e.session == nil {
		return
	}
	if err := e.session.SaveTabs(e.tabs); err != nil {
		e.logger.Error("failed to save session tabs", "error", err)
	}
	if e.cfg.Stopper.Forced {
		return
	}
	if err := e.session.SavePrefs(Prefs{StopperEnabled: e.stopper.Enabled()}); err != nil {
		e.logger.Error("failed to save preferences", "error", err)
	}
}

// statusMessage shows msg on the status bar for statusTTL.
// statusMessage показывает сообщение в строке состояния на время statusTTL.
func (e *Editor) statusMessage(msg string) {
	e.statusText = msg
	e.statusTime = time.Now()
	if e.statusTimer != nil {
		e.statusTimer.Stop()
	}
	// The posted no-op wakes the loop so the expired message gets redrawn away.
	e.statusTimer = e.afterFunc(e.statusTTL, func() {})
}

// tabSource exposes the active tab to the stopper controller.
type tabSource struct {
	tab *Tab
}

func (s tabSource) CurrentLine() (string, int, bool) {
	if s.tab == nil || len(s.tab.Lines) == 0 {
		return "", 0, false
	}
	s.tab.clampCursor()
	return s.tab.currentLine(), s.tab.cy + 1, true
}

func (s tabSource) Language() stopper.Language {
	if s.tab == nil || s.tab.Language == nil {
		return stopper.LangUnknown
	}
	return s.tab.Language.Stopper
}

func (e *Editor) onRejection(r stopper.Rejection) {
	e.lastRejection = &r
	e.logger.Info("line rejected",
		"language", r.Language.String(),
		"line", r.LineNumber,
		"message", r.Verdict.Message)
	if e.cfg.Assistant.AutoExplain && e.assistant != nil {
		e.explainRejection(r)
	}
}

// toggleStopper switches the code stopper on or off.
// toggleStopper включает или выключает code stopper.
func (e *Editor) toggleStopper() {
	enabled := !e.stopper.Enabled()
	e.stopper.SetEnabled(enabled)
	if enabled {
		e.statusMessage("Code Stopper enabled")
	} else {
		e.statusMessage("Code Stopper disabled")
	}
	e.logger.Info("stopper toggled", "enabled", enabled)
}

// saveActive saves the active tab, asking for a path when it has none.
// saveActive сохраняет активную вкладку; без пути запрашивает имя файла.
func (e *Editor) saveActive() {
	tab := e.tabs.Active()
	if tab == nil {
		return
	}
	if tab.Path == "" {
		e.showPrompt("Save as", tab.Name, func(path string) {
			if path == "" {
				return
			}
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			tab.Path = path
			tab.Name = filepath.Base(path)
			if lang, ok := detectLanguage(path); ok {
				tab.Language = lang
			}
			e.saveActive()
		})
		return
	}
	if err := tab.Save(); err != nil {
		e.statusMessage("Unable to save the file: " + err.Error())
		e.logger.Error("save failed", "path", tab.Path, "error", err)
		return
	}
	e.statusMessage(fmt.Sprintf("Saved %s (%d lines)", tab.Path, len(tab.Lines)))
}

// requestQuit quits, asking for confirmation when tabs are unsaved.
func (e *Editor) requestQuit() {
	if len(e.tabs.Modified()) > 0 && !e.quitArmed {
		e.quitArmed = true
		e.statusMessage(fmt.Sprintf("%d tab(s) have unsaved changes. Press ^Q again to quit.", len(e.tabs.Modified())))
		return
	}
	e.quit = true
}

func (e *Editor) showPrompt(label, initial string, cb func(string)) {
	e.prompt = &Prompt{Label: label, Value: initial, Callback: cb}
}
