package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLimit(t *testing.T) {
	c := NewConsole(3)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, c.Add(OutputStdout, fmt.Sprint(i)).ID)
	}

	entries := c.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, "2", entries[0].Content)
	assert.Equal(t, "4", entries[2].Content)
	assert.Equal(t, ids[4], entries[2].ID)
	assert.NotEqual(t, ids[3], ids[4])

	c.Clear()
	assert.Empty(t, c.Entries())
}

func TestOutputTypeString(t *testing.T) {
	assert.Equal(t, "stderr", OutputStderr.String())
	assert.Equal(t, "warning", OutputWarning.String())
	assert.Equal(t, "unknown", OutputType(42).String())
}
