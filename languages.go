package main

import (
	"path/filepath"
	"strings"

	"codestop/stopper"
)

// LanguageConfig describes a language the editor can open tabs for.
type LanguageConfig struct {
	ID          string
	Name        string
	Extension   string
	DefaultCode string
	Stopper     stopper.Language
}

// languages is the host-facing language list. It is narrower than the
// stopper rule engine on purpose: Go and Rust have rule sets but no tab type.
var languages = []LanguageConfig{
	{
		ID:        "python",
		Name:      "Python",
		Extension: ".py",
		Stopper:   stopper.LangPython,
		DefaultCode: `# Python 3
def main():
    print("Hello, World!")

if __name__ == "__main__":
    main()
`,
	},
	{
		ID:        "javascript",
		Name:      "JavaScript",
		Extension: ".js",
		Stopper:   stopper.LangJavaScript,
		DefaultCode: `// JavaScript (Node.js)
function main() {
  console.log("Hello, World!");
}

main();
`,
	},
	{
		ID:        "typescript",
		Name:      "TypeScript",
		Extension: ".ts",
		Stopper:   stopper.LangTypeScript,
		DefaultCode: "// TypeScript\n" +
			"function greet(name: string): void {\n" +
			"  console.log(`Hello, ${name}!`);\n" +
			"}\n\n" +
			"greet(\"World\");\n",
	},
	{
		ID:        "java",
		Name:      "Java",
		Extension: ".java",
		Stopper:   stopper.LangJava,
		DefaultCode: `// Java
public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}
`,
	},
	{
		ID:        "cpp",
		Name:      "C++",
		Extension: ".cpp",
		Stopper:   stopper.LangCpp,
		DefaultCode: `// C++
#include <iostream>

int main() {
    std::cout << "Hello, World!" << std::endl;
    return 0;
}
`,
	},
	{
		ID:        "c",
		Name:      "C",
		Extension: ".c",
		Stopper:   stopper.LangC,
		DefaultCode: `// C
#include <stdio.h>

int main() {
    printf("Hello, World!\n");
    return 0;
}
`,
	},
}

// judge0Languages covers every stopper language, including the ones the
// editor has no tab type for.
var judge0Languages = map[stopper.Language]int{
	stopper.LangPython:     71,
	stopper.LangJavaScript: 63,
	stopper.LangTypeScript: 74,
	stopper.LangJava:       62,
	stopper.LangCpp:        54,
	stopper.LangC:          50,
	stopper.LangGo:         60,
	stopper.LangRust:       73,
}

var extensionAliases = map[string]string{
	".h":   "c",
	".cc":  "cpp",
	".cxx": "cpp",
	".hpp": "cpp",
	".hh":  "cpp",
	".mjs": "javascript",
	".cjs": "javascript",
	".jsx": "javascript",
	".tsx": "typescript",
}

func languageByID(id string) (*LanguageConfig, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for i := range languages {
		if languages[i].ID == id {
			return &languages[i], true
		}
	}
	return nil, false
}

func languageByExtension(ext string) (*LanguageConfig, bool) {
	ext = strings.ToLower(ext)
	for i := range languages {
		if languages[i].Extension == ext {
			return &languages[i], true
		}
	}
	if id, ok := extensionAliases[ext]; ok {
		return languageByID(id)
	}
	return nil, false
}

// detectLanguage detects the tab language from the file extension.
func detectLanguage(path string) (*LanguageConfig, bool) {
	return languageByExtension(filepath.Ext(path))
}

// detectStopperLanguage is the wider detector used by `codestop check`.
func detectStopperLanguage(path string) stopper.Language {
	if lc, ok := detectLanguage(path); ok {
		return lc.Stopper
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return stopper.LangGo
	case ".rs":
		return stopper.LangRust
	}
	return stopper.LangUnknown
}
