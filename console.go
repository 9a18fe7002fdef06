package main

import (
	"time"

	"github.com/google/uuid"
)

// OutputType classifies a console entry.
type OutputType int

const (
	OutputStdout OutputType = iota
	OutputStderr
	OutputInfo
	OutputSuccess
	OutputWarning
)

func (t OutputType) String() string {
	switch t {
	case OutputStdout:
		return "stdout"
	case OutputStderr:
		return "stderr"
	case OutputInfo:
		return "info"
	case OutputSuccess:
		return "success"
	case OutputWarning:
		return "warning"
	}
	return "unknown"
}

// ConsoleEntry is one block of console output.
type ConsoleEntry struct {
	ID        string
	Type      OutputType
	Content   string
	Timestamp time.Time
}

// Console is the output panel below the text area. It is only touched from
// the UI goroutine.
type Console struct {
	entries []ConsoleEntry
	limit   int
}

// NewConsole returns a console that keeps at most limit entries.
func NewConsole(limit int) *Console {
	if limit <= 0 {
		limit = 500
	}
	return &Console{limit: limit}
}

// Add appends an entry, dropping the oldest ones past the limit.
func (c *Console) Add(t OutputType, content string) ConsoleEntry {
	entry := ConsoleEntry{
		ID:        uuid.NewString(),
		Type:      t,
		Content:   content,
		Timestamp: time.Now(),
	}
	c.entries = append(c.entries, entry)
	if len(c.entries) > c.limit {
		c.entries = c.entries[len(c.entries)-c.limit:]
	}
	return entry
}

// Clear removes all entries.
// Clear очищает консоль.
func (c *Console) Clear() {
	c.entries = nil
}

// Entries returns the entries oldest first.
func (c *Console) Entries() []ConsoleEntry {
	return c.entries
}
