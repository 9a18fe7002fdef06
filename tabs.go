package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxTabs limits the number of open tabs.
const MaxTabs = 100

// Tab is one open document.
// Tab - один открытый документ.
type Tab struct {
	ID        string
	Name      string
	Path      string
	Language  *LanguageConfig
	Lines     []string
	Modified  bool
	cx, cy    int
	offsetY   int
	undoStack []TabState
	redoStack []TabState
}

func newTab(name, path string, lang *LanguageConfig, content string) *Tab {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return &Tab{
		ID:       uuid.NewString(),
		Name:     name,
		Path:     path,
		Language: lang,
		Lines:    lines,
	}
}

// Content joins the tab lines into file content.
func (t *Tab) Content() string {
	return strings.Join(t.Lines, "\n") + "\n"
}

// DisplayName is the tab title with a modified marker.
func (t *Tab) DisplayName() string {
	if t.Modified {
		return t.Name + "*"
	}
	return t.Name
}

// TabSet is the ordered list of open tabs and the active one.
// TabSet хранит открытые вкладки по порядку и индекс активной.
type TabSet struct {
	tabs   []*Tab
	active int
}

// newTabSet returns an empty set with no active tab.
func newTabSet() *TabSet {
	return &TabSet{active: -1}
}

// Active returns the active tab or nil when none is open.
func (ts *TabSet) Active() *Tab {
	if ts.active < 0 || ts.active >= len(ts.tabs) {
		return nil
	}
	return ts.tabs[ts.active]
}

// Len returns the number of open tabs.
func (ts *TabSet) Len() int { return len(ts.tabs) }

// ActiveIndex is -1 when no tab is open.
func (ts *TabSet) ActiveIndex() int { return ts.active }

// Add creates a tab seeded with the language's default code. The first tab
// of a language is main<ext>, the next ones file<N><ext>.
func (ts *TabSet) Add(lang *LanguageConfig) (*Tab, error) {
	if len(ts.tabs) >= MaxTabs {
		return nil, fmt.Errorf("the maximum number of tabs has been reached (%d)", MaxTabs)
	}
	existing := 0
	for _, t := range ts.tabs {
		if t.Language == lang {
			existing++
		}
	}
	name := "main" + lang.Extension
	if existing > 0 {
		name = fmt.Sprintf("file%d%s", existing+1, lang.Extension)
	}
	tab := newTab(name, "", lang, lang.DefaultCode)
	ts.push(tab)
	return tab, nil
}

// Open activates the tab for path, loading the file when it is not open yet.
// A missing file opens as an empty tab that is created on save.
func (ts *TabSet) Open(path string) (*Tab, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for i, t := range ts.tabs {
		if t.Path == abs {
			ts.active = i
			return t, nil
		}
	}
	if len(ts.tabs) >= MaxTabs {
		return nil, fmt.Errorf("the maximum number of tabs has been reached (%d)", MaxTabs)
	}
	lang, _ := detectLanguage(abs)
	data, err := os.ReadFile(abs)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	tab := newTab(filepath.Base(abs), abs, lang, string(data))
	ts.push(tab)
	return tab, nil
}

// Restore appends a tab recovered from the session store.
func (ts *TabSet) Restore(tab *Tab) {
	ts.tabs = append(ts.tabs, tab)
	if ts.active < 0 {
		ts.active = 0
	}
}

// Activate makes the tab with id active.
func (ts *TabSet) Activate(id string) bool {
	for i, t := range ts.tabs {
		if t.ID == id {
			ts.active = i
			return true
		}
	}
	return false
}

// Next cycles to the following tab.
func (ts *TabSet) Next() *Tab {
	if len(ts.tabs) == 0 {
		return nil
	}
	ts.active = (ts.active + 1) % len(ts.tabs)
	return ts.tabs[ts.active]
}

// Close removes the tab with id. When it was active, the tab that slides
// into its place becomes active, else the one before it.
func (ts *TabSet) Close(id string) bool {
	idx := -1
	for i, t := range ts.tabs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	ts.tabs = append(ts.tabs[:idx], ts.tabs[idx+1:]...)
	switch {
	case len(ts.tabs) == 0:
		ts.active = -1
	case idx < ts.active:
		ts.active--
	case idx == ts.active && idx >= len(ts.tabs):
		ts.active = len(ts.tabs) - 1
	}
	return true
}

// Modified lists tabs with unsaved changes.
func (ts *TabSet) Modified() []*Tab {
	var out []*Tab
	for _, t := range ts.tabs {
		if t.Modified {
			out = append(out, t)
		}
	}
	return out
}

func (ts *TabSet) push(tab *Tab) {
	ts.tabs = append(ts.tabs, tab)
	ts.active = len(ts.tabs) - 1
}

// Save writes the tab to its path.
func (t *Tab) Save() error {
	if t.Path == "" {
		return fmt.Errorf("tab %s has no file path", t.Name)
	}
	if err := os.WriteFile(t.Path, []byte(t.Content()), 0644); err != nil {
		return fmt.Errorf("unable to save %s: %w", t.Path, err)
	}
	t.Modified = false
	return nil
}
