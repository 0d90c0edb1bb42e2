package hoist

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces the half-open byte range [Start, End) of the original text
// with Text. Start == End is an insertion; an empty Text is a deletion.
type Edit struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

func insertion(at int, text string) Edit {
	return Edit{Start: at, End: at, Text: text}
}

func deletion(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// Apply commits a batch of edits computed against source. Edits may be given
// in any order; insertions sharing an offset keep their batch order and go
// before a deletion starting at the same offset. Overlapping ranges are
// rejected with ErrOverlappingEdits.
func Apply(source string, edits []Edit) (string, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var sb strings.Builder
	sb.Grow(len(source))
	pos := 0
	for _, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(source) {
			return "", fmt.Errorf("edit [%d, %d) outside source of %d bytes", e.Start, e.End, len(source))
		}
		if e.Start < pos {
			return "", fmt.Errorf("edit [%d, %d) starts before offset %d: %w", e.Start, e.End, pos, ErrOverlappingEdits)
		}
		sb.WriteString(source[pos:e.Start])
		sb.WriteString(e.Text)
		pos = e.End
	}
	sb.WriteString(source[pos:])
	return sb.String(), nil
}
