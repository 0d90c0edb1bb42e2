package hoist

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language defines the interface for a supported markup-bearing language.
type Language interface {
	// Name returns the language identifier (e.g., "tsx", "javascript").
	Name() string

	// Extensions returns file extensions for this language (e.g., [".tsx"]).
	Extensions() []string

	// TreeSitterLang returns the tree-sitter language grammar.
	TreeSitterLang() *sitter.Language

	// CandidatesQuery returns the tree-sitter query matching declarations
	// that sit directly inside a statement block. Every match is captured
	// as @candidate.
	CandidatesQuery() string
}

// registry holds all registered languages.
var registry = make(map[string]Language)

// Register adds a language to the registry.
// This is typically called from init() functions in language implementation files.
func Register(lang Language) {
	registry[lang.Name()] = lang
}

// Get returns a language by name, or nil if not found.
func Get(name string) Language {
	return registry[name]
}

// List returns all registered language names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByExtension finds a language by file extension.
func ByExtension(ext string) Language {
	for _, lang := range registry {
		for _, e := range lang.Extensions() {
			if e == ext {
				return lang
			}
		}
	}
	return nil
}

// resolveLanguages maps names to registered languages. An empty list means
// every registered language.
func resolveLanguages(names []string) ([]Language, error) {
	if len(names) == 0 {
		names = List()
	}
	langs := make([]Language, 0, len(names))
	for _, name := range names {
		lang := Get(name)
		if lang == nil {
			return nil, errLanguage(name)
		}
		langs = append(langs, lang)
	}
	return langs, nil
}
