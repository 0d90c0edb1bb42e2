package hoist

import (
	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders the change to one file as a unified diff with three
// lines of context.
func unifiedDiff(name, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}
