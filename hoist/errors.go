package hoist

import (
	"errors"
	"fmt"
)

var (
	// ErrLanguageNotRegistered is returned when a language name or file
	// extension has no registered grammar.
	ErrLanguageNotRegistered = errors.New("language not registered")

	// ErrOverlappingEdits is returned by Apply when two edits touch the same
	// bytes.
	ErrOverlappingEdits = errors.New("overlapping edits")

	// ErrUnhoisted is returned by Run in check mode when at least one file
	// would be rewritten.
	ErrUnhoisted = errors.New("nested components can be hoisted")
)

func errLanguage(name string) error {
	return fmt.Errorf("%s: %w", name, ErrLanguageNotRegistered)
}
