// Package stopper is the per-keystroke syntax gate of the editor.
//
// It decides whether a single just-typed line looks structurally complete for
// a language and, through Controller, blocks the newline when it does not.
// The rules are heuristics over one line of text: there is no tokenizer, no
// state carried between lines and no attempt at soundness. Anything the rules
// do not understand is allowed.
package stopper

import "strings"

// Language identifies which rule set applies to a line.
type Language int

const (
	LangUnknown Language = iota
	LangPython
	LangJavaScript
	LangTypeScript
	LangJava
	LangCpp
	LangC
	LangGo
	LangRust
)

var languageTags = map[Language]string{
	LangPython:     "python",
	LangJavaScript: "javascript",
	LangTypeScript: "typescript",
	LangJava:       "java",
	LangCpp:        "cpp",
	LangC:          "c",
	LangGo:         "go",
	LangRust:       "rust",
}

var languageAliases = map[string]Language{
	"py":     LangPython,
	"js":     LangJavaScript,
	"ts":     LangTypeScript,
	"c++":    LangCpp,
	"golang": LangGo,
	"rs":     LangRust,
}

// String returns the language tag, e.g. "python".
func (l Language) String() string {
	if tag, ok := languageTags[l]; ok {
		return tag
	}
	return "unknown"
}

// Languages returns every language the rule engine knows, in declaration order.
func Languages() []Language {
	return []Language{LangPython, LangJavaScript, LangTypeScript, LangJava, LangCpp, LangC, LangGo, LangRust}
}

// ParseLanguage maps a tag or common alias to a Language.
func ParseLanguage(tag string) (Language, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for lang, name := range languageTags {
		if name == t {
			return lang, true
		}
	}
	if lang, ok := languageAliases[t]; ok {
		return lang, true
	}
	return LangUnknown, false
}
