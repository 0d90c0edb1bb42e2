// Package output writes the hoist CLI's results and errors.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format selects how results are rendered.
type Format string

const (
	// FormatJSON encodes every value as one JSON document.
	FormatJSON Format = "json"
	// FormatPatch writes raw unified diffs, ready for `git apply`.
	FormatPatch Format = "patch"
)

// ParseFormat validates a format name. An empty name means FormatJSON.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatPatch:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Writer handles structured output.
type Writer struct {
	out     io.Writer
	encoder *json.Encoder
	format  Format
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Format  Format
	Output  io.Writer
}

// New creates a new output Writer. Output defaults to stdout and Format to
// FormatJSON.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{out: cfg.Output, encoder: enc, format: cfg.Format}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// Patcher is implemented by results that carry a unified diff.
type Patcher interface {
	Patch() string
}

// WriteResults writes results in the configured format. In patch format
// only the diffs are written, one after another; results without a diff
// are skipped.
func WriteResults[T Patcher](w *Writer, results []T) error {
	if w.format != FormatPatch {
		return w.Write(results)
	}
	for _, r := range results {
		diff := r.Patch()
		if diff == "" {
			continue
		}
		if !strings.HasSuffix(diff, "\n") {
			diff += "\n"
		}
		if _, err := io.WriteString(w.out, diff); err != nil {
			return fmt.Errorf("write patch: %w", err)
		}
	}
	return nil
}

// WriteError writes {"error": "..."} to w, or to stderr when w is nil.
func WriteError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]string{
		"error": err.Error(),
	})
}
