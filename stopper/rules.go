package stopper

import "strings"

// RuleSet validates a trimmed, non-comment line for one language.
// Checks run in order and the first failing one decides the verdict.
type RuleSet func(trimmed string) Verdict

var ruleSets = map[Language]RuleSet{
	LangJava:       javaRules,
	LangPython:     pythonRules,
	LangJavaScript: javaScriptRules,
	LangTypeScript: javaScriptRules,
	LangCpp:        cppRules,
	LangC:          cppRules,
	LangGo:         goRules,
	LangRust:       rustRules,
}

// RuleSetFor returns the rule set registered for lang.
func RuleSetFor(lang Language) (RuleSet, bool) {
	rs, ok := ruleSets[lang]
	return rs, ok
}

func javaRules(line string) Verdict {
	if containsAny(line, "class ", "void ", "public ", "private ", "protected ") && !endsWithAny(line, "{", ";", "}") {
		return reject("Java structures must end with '{' or a semicolon ';'")
	}
	if !parensBalanced(line) {
		return reject("Unbalanced parentheses '()'. Close your arguments.")
	}
	if !endsWithAny(line, "{", "}", ";") && !startsWithAny(line, "//", "@", "import", "package") {
		return reject("Missing semicolon ';' at the end of the statement.")
	}
	return accept()
}

var pythonBlockKeywords = map[string]bool{
	"def": true, "if": true, "else": true, "elif": true, "for": true, "while": true,
	"class": true, "with": true, "try": true, "except": true, "finally": true,
	"async": true, "match": true, "case": true,
}

func pythonRules(line string) Verdict {
	first := strings.Fields(line)[0]
	if pythonBlockKeywords[first] && !strings.HasSuffix(line, ":") {
		return reject("Python '" + first + "' blocks must end with a colon ':'")
	}
	if countUnescaped(line, '\'')%2 != 0 && !strings.Contains(line, "'''") {
		return reject("Unclosed single quote detected.")
	}
	if countUnescaped(line, '"')%2 != 0 && !strings.Contains(line, `"""`) {
		return reject("Unclosed double quote detected.")
	}
	return accept()
}

// Plain substring match: "elsewhere(x)" triggers on "else".
var jsBlockKeywords = []string{"function", "if", "else", "for", "while", "switch", "try", "catch"}

func javaScriptRules(line string) Verdict {
	if containsAny(line, jsBlockKeywords...) && strings.Contains(line, "(") &&
		!endsWithAny(line, "{", "}", ";") && parensBalanced(line) {
		return reject("JS block statement missing opening brace '{'")
	}
	if strings.Contains(line, "=>") && !endsWithAny(line, "{", ";", ",", ")") {
		return reject("Arrow function needs a body or expression.")
	}
	return accept()
}

func cppRules(line string) Verdict {
	if containsAny(line, "class ", "void ", "int ", "struct ") && strings.Contains(line, "(") &&
		!endsWithAny(line, "{", ";", "}") {
		return reject("C/C++ function/class definitions must end with '{' or ';'")
	}
	if !parensBalanced(line) {
		return reject("Unbalanced parentheses.")
	}
	return accept()
}

func goRules(line string) Verdict {
	if (strings.HasPrefix(line, "func ") || strings.Contains(line, " func ")) && strings.Contains(line, "(") &&
		!strings.HasSuffix(line, "{") && parensBalanced(line) {
		return reject("Go function declarations must end with '{'")
	}
	if startsWithAny(line, "if ", "for ", "switch ") && !strings.HasSuffix(line, "{") {
		return reject("Go control statements must end with '{'")
	}
	return accept()
}

func rustRules(line string) Verdict {
	if strings.HasPrefix(line, "fn ") && strings.Contains(line, "(") &&
		!strings.HasSuffix(line, "{") && parensBalanced(line) {
		return reject("Rust function declarations must end with '{'")
	}
	if strings.HasPrefix(line, "let ") && !endsWithAny(line, ";", "{") {
		return reject("Rust let statements must end with ';'")
	}
	return accept()
}

// parensBalanced compares the counts of '(' and ')' on the line. Parens
// inside string literals are counted too.
func parensBalanced(line string) bool {
	return strings.Count(line, "(") == strings.Count(line, ")")
}

// countUnescaped counts q, skipping occurrences preceded by an odd run of
// backslashes.
func countUnescaped(line string, q byte) int {
	n := 0
	backslashes := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			backslashes++
			continue
		case q:
			if backslashes%2 == 0 {
				n++
			}
		}
		backslashes = 0
	}
	return n
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func startsWithAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func endsWithAny(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
