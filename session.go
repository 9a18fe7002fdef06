package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

var (
	keySessionTabs   = []byte("session/tabs")
	keySessionActive = []byte("session/active")
	keySessionPrefs  = []byte("session/prefs")
)

// Prefs are the user settings kept between runs.
// Prefs - настройки, которые сохраняются между запусками.
type Prefs struct {
	StopperEnabled bool `json:"stopper_enabled"`
}

// savedTab is the persisted form of a Tab.
type savedTab struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Path     string   `json:"path,omitempty"`
	Language string   `json:"language,omitempty"`
	Lines    []string `json:"lines"`
	Modified bool     `json:"modified"`
	Cx       int      `json:"cx"`
	Cy       int      `json:"cy"`
}

func (st savedTab) toTab() *Tab {
	var lang *LanguageConfig
	if st.Language != "" {
		lang, _ = languageByID(st.Language)
	}
	lines := st.Lines
	if len(lines) == 0 {
		lines = []string{""}
	}
	t := &Tab{
		ID:       st.ID,
		Name:     st.Name,
		Path:     st.Path,
		Language: lang,
		Lines:    lines,
		Modified: st.Modified,
		cx:       st.Cx,
		cy:       st.Cy,
	}
	t.clampCursor()
	return t
}

func newSavedTab(t *Tab) savedTab {
	st := savedTab{
		ID:       t.ID,
		Name:     t.Name,
		Path:     t.Path,
		Lines:    t.Lines,
		Modified: t.Modified,
		Cx:       t.cx,
		Cy:       t.cy,
	}
	if t.Language != nil {
		st.Language = t.Language.ID
	}
	return st
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// SessionStore persists open tabs and preferences in badger.
// It is safe for concurrent use.
type SessionStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenSessionStore opens the store at path, or in memory when inMemory is set.
func OpenSessionStore(path string, inMemory bool, logger *slog.Logger) (*SessionStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !inMemory && path == "" {
		return nil, errors.New("session path is required for a persistent store")
	}

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("create session directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(&badgerLogger{logger: logger.With("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &SessionStore{db: db, logger: logger}, nil
}

// Close flushes and closes the badger database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// SaveTabs replaces the stored tab list and the active tab id.
func (s *SessionStore) SaveTabs(ts *TabSet) error {
	saved := make([]savedTab, 0, ts.Len())
	for _, t := range ts.tabs {
		saved = append(saved, newSavedTab(t))
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encode tabs: %w", err)
	}
	activeID := ""
	if a := ts.Active(); a != nil {
		activeID = a.ID
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keySessionTabs, data); err != nil {
			return err
		}
		return txn.Set(keySessionActive, []byte(activeID))
	})
	if err != nil {
		return fmt.Errorf("save tabs: %w", err)
	}
	s.logger.Debug("session tabs saved", "count", len(saved))
	return nil
}

// LoadTabs returns the stored tabs and the id of the active one. A store
// with no session yields no tabs and no error.
func (s *SessionStore) LoadTabs() ([]savedTab, string, error) {
	var saved []savedTab
	var activeID string
	err := s.db.View(func(txn *badger.Txn) error {
		data, err := getValue(txn, keySessionTabs)
		if err != nil || data == nil {
			return err
		}
		if err := json.Unmarshal(data, &saved); err != nil {
			return fmt.Errorf("decode tabs: %w", err)
		}
		active, err := getValue(txn, keySessionActive)
		if err != nil {
			return err
		}
		activeID = string(active)
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("load tabs: %w", err)
	}
	return saved, activeID, nil
}

// SavePrefs stores the user preferences.
// SavePrefs сохраняет настройки пользователя.
func (s *SessionStore) SavePrefs(p Prefs) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keySessionPrefs, data)
	}); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// LoadPrefs reports ok=false when no preferences were saved yet.
func (s *SessionStore) LoadPrefs() (Prefs, bool, error) {
	var p Prefs
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		data, err := getValue(txn, keySessionPrefs)
		if err != nil || data == nil {
			return err
		}
		found = true
		return json.Unmarshal(data, &p)
	})
	if err != nil {
		return Prefs{}, false, fmt.Errorf("load prefs: %w", err)
	}
	return p, found, nil
}

// getValue copies the value for key, returning nil when it is absent.
func getValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
