package main

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// HighlightedToken is a run of text drawn with one style.
type HighlightedToken struct {
	Text  string
	Style tcell.Style
}

type syntax struct {
	keywords     map[string]bool
	types        map[string]bool
	lineComment  string
	preprocessor bool
}

func wordSet(words string) map[string]bool {
	m := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		m[w] = true
	}
	return m
}

var jsKeywords = "break case catch class const continue debugger default delete do else export extends " +
	"finally for function if import in instanceof let new return super switch this throw try typeof var " +
	"void while with yield async await of static get set null undefined true false"

var syntaxes = map[string]syntax{
	"python": {
		keywords: wordSet("and as assert async await break class continue def del elif else except finally " +
			"for from global if import in is lambda nonlocal not or pass raise return try while with yield " +
			"match case None True False"),
		types:       wordSet("int float str bool list dict set tuple bytes object self"),
		lineComment: "#",
	},
	"javascript": {
		keywords:    wordSet(jsKeywords),
		types:       wordSet("Array Object String Number Boolean Promise Map Set console"),
		lineComment: "//",
	},
	"typescript": {
		keywords:    wordSet(jsKeywords + " interface type enum implements declare namespace readonly private public protected abstract as"),
		types:       wordSet("string number boolean any unknown never void Array Promise Record"),
		lineComment: "//",
	},
	"java": {
		keywords: wordSet("abstract assert break case catch class const continue default do else enum extends " +
			"final finally for goto if implements import instanceof interface native new package private " +
			"protected public return static strictfp super switch synchronized this throw throws transient " +
			"try volatile while var record null true false"),
		types:       wordSet("boolean byte char double float int long short void String Object Integer List Map"),
		lineComment: "//",
	},
	"cpp": {
		keywords: wordSet("auto break case catch class const constexpr continue default delete do else enum " +
			"explicit extern for friend goto if inline namespace new noexcept nullptr operator private protected " +
			"public return sizeof static struct switch template this throw try typedef typename union using " +
			"virtual volatile while true false"),
		types:        wordSet("bool char double float int long short signed unsigned void size_t std string vector"),
		lineComment:  "//",
		preprocessor: true,
	},
	"c": {
		keywords: wordSet("auto break case const continue default do else enum extern for goto if inline " +
			"register restrict return sizeof static struct switch typedef union volatile while"),
		types:        wordSet("char double float int long short signed unsigned void size_t FILE bool"),
		lineComment:  "//",
		preprocessor: true,
	},
}

// highlightLine splits line into styled tokens for lang. Unknown languages
// get a single default token.
// highlightLine разбивает строку на токены с подсветкой.
func highlightLine(line string, lang *LanguageConfig) []HighlightedToken {
	if lang == nil {
		return []HighlightedToken{{Text: line, Style: styleDefault}}
	}
	syn, ok := syntaxes[lang.ID]
	if !ok {
		return []HighlightedToken{{Text: line, Style: styleDefault}}
	}

	var tokens []HighlightedToken
	runes := []rune(line)
	emit := func(from, to int, style tcell.Style) {
		if to > from {
			tokens = append(tokens, HighlightedToken{Text: string(runes[from:to]), Style: style})
		}
	}

	if syn.preprocessor && strings.HasPrefix(strings.TrimSpace(line), "#") {
		return []HighlightedToken{{Text: line, Style: stylePreproc}}
	}

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case strings.HasPrefix(string(runes[i:]), syn.lineComment):
			emit(i, len(runes), styleComment)
			return tokens
		case r == '"' || r == '\'' || r == '`':
			j := i + 1
			for j < len(runes) && runes[j] != r {
				if runes[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(runes) {
				j++
			}
			if j > len(runes) {
				j = len(runes)
			}
			emit(i, j, styleString)
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || unicode.IsLetter(runes[j]) || runes[j] == '.' || runes[j] == '_') {
				j++
			}
			emit(i, j, styleNumber)
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			style := styleDefault
			switch {
			case syn.keywords[word]:
				style = styleKeyword
			case syn.types[word]:
				style = styleType
			case j < len(runes) && runes[j] == '(':
				style = styleFunction
			}
			emit(i, j, style)
			i = j
		case strings.ContainsRune("+-*/%=<>!&|^~?:", r):
			emit(i, i+1, styleOperator)
			i++
		default:
			j := i + 1
			for j < len(runes) && !isTokenStart(runes[j]) {
				j++
			}
			emit(i, j, styleDefault)
			i = j
		}
	}
	return tokens
}

func isTokenStart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '"' || r == '\'' || r == '`' ||
		r == '#' || r == '/' || strings.ContainsRune("+-*/%=<>!&|^~?:", r)
}
