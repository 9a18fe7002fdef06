package stopper

import "strings"

var commentMarkers = []string{"//", "#", "/*", "*"}

// Classify trims line and resolves blank lines and single-line comments
// without looking at the language. When resolved is false the trimmed text
// still needs a rule set.
func Classify(line string) (trimmed string, v Verdict, resolved bool) {
	trimmed = strings.TrimSpace(line)
	if trimmed == "" || startsWithAny(trimmed, commentMarkers...) {
		return trimmed, accept(), true
	}
	return trimmed, Verdict{}, false
}

// Validate reports whether line is acceptable for lang. It never panics and
// answers valid for languages without a rule set.
func Validate(line string, lang Language) Verdict {
	trimmed, v, resolved := Classify(line)
	if resolved {
		return v
	}
	rules, ok := ruleSets[lang]
	if !ok {
		return accept()
	}
	return rules(trimmed)
}
