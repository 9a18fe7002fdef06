package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightPython(t *testing.T) {
	python, _ := languageByID("python")
	tokens := highlightLine(`def f(x): # hi`, python)
	require.NotEmpty(t, tokens)

	assert.Equal(t, HighlightedToken{Text: "def", Style: styleKeyword}, tokens[0])
	assert.Equal(t, HighlightedToken{Text: "f", Style: styleFunction}, tokens[2])
	assert.Equal(t, HighlightedToken{Text: "# hi", Style: styleComment}, tokens[len(tokens)-1])

	var text string
	for _, tok := range tokens {
		text += tok.Text
	}
	assert.Equal(t, `def f(x): # hi`, text)
}

func TestHighlightStringsAndNumbers(t *testing.T) {
	js, _ := languageByID("javascript")
	tokens := highlightLine(`let s = "a\"b" + 42`, js)

	var kinds []string
	for _, tok := range tokens {
		switch tok.Style {
		case styleString:
			kinds = append(kinds, "str:"+tok.Text)
		case styleNumber:
			kinds = append(kinds, "num:"+tok.Text)
		}
	}
	assert.Equal(t, []string{`str:"a\"b"`, "num:42"}, kinds)
}

func TestHighlightPreprocessorAndUnknown(t *testing.T) {
	c, _ := languageByID("c")
	tokens := highlightLine("#include <stdio.h>", c)
	assert.Equal(t, []HighlightedToken{{Text: "#include <stdio.h>", Style: stylePreproc}}, tokens)

	tokens = highlightLine("anything", nil)
	assert.Equal(t, []HighlightedToken{{Text: "anything", Style: styleDefault}}, tokens)
}
