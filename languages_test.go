package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codestop/stopper"
)

func TestLanguageByExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.py", "python"},
		{"A.PY", "python"},
		{"x.js", "javascript"},
		{"x.jsx", "javascript"},
		{"x.tsx", "typescript"},
		{"Main.java", "java"},
		{"lib.hpp", "cpp"},
		{"lib.h", "c"},
	}
	for _, tt := range tests {
		lc, ok := detectLanguage(tt.path)
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.want, lc.ID, tt.path)
	}

	_, ok := detectLanguage("README")
	assert.False(t, ok)
}

func TestDetectStopperLanguage(t *testing.T) {
	assert.Equal(t, stopper.LangGo, detectStopperLanguage("main.go"))
	assert.Equal(t, stopper.LangRust, detectStopperLanguage("lib.rs"))
	assert.Equal(t, stopper.LangCpp, detectStopperLanguage("x.cc"))
	assert.Equal(t, stopper.LangUnknown, detectStopperLanguage("notes.md"))
}

func TestEveryStopperLanguageRunsOnJudge0(t *testing.T) {
	for _, lc := range languages {
		_, ok := judge0Languages[lc.Stopper]
		assert.True(t, ok, lc.ID)
		assert.NotEmpty(t, lc.DefaultCode, lc.ID)
	}
	assert.Len(t, judge0Languages, 8)
}
