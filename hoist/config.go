package hoist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is loaded from the working directory when present and no
// other file is named.
const DefaultConfigFile = ".hoist.yaml"

// DefaultMarker is the comment text left above a component that reads its
// host's scope.
const DefaultMarker = "hoist: closure-dependent, move manually and pass outer values as props"

// DefaultMaxPasses bounds how many times a file is re-parsed to finish
// components nested more than one level deep.
const DefaultMaxPasses = 8

// defaultIntrinsicElements are HTML and SVG tag names. In a tag position they
// name a host element, not a variable.
var defaultIntrinsicElements = []string{
	"a", "abbr", "address", "area", "article", "aside", "audio", "b", "base",
	"bdi", "bdo", "blockquote", "body", "br", "button", "canvas", "caption",
	"cite", "code", "col", "colgroup", "data", "datalist", "dd", "del", "details",
	"dfn", "dialog", "div", "dl", "dt", "em", "embed", "fieldset", "figcaption",
	"figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "head",
	"header", "hgroup", "hr", "html", "i", "iframe", "img", "input", "ins", "kbd",
	"label", "legend", "li", "link", "main", "map", "mark", "menu", "meta", "meter",
	"nav", "noscript", "object", "ol", "optgroup", "option", "output", "p", "param",
	"picture", "pre", "progress", "q", "rp", "rt", "ruby", "s", "samp", "section",
	"select", "slot", "small", "source", "span", "strong", "style", "sub", "summary",
	"sup", "table", "tbody", "td", "template", "textarea", "tfoot", "th", "thead",
	"time", "title", "tr", "track", "u", "ul", "var", "video", "wbr",
	"svg", "path", "circle", "rect", "line", "ellipse", "polyline", "polygon",
	"g", "defs", "use", "stop", "linearGradient", "radialGradient",
}

// DefaultIntrinsicElements returns a copy of the built-in tag allow-list.
func DefaultIntrinsicElements() []string {
	out := make([]string, len(defaultIntrinsicElements))
	copy(out, defaultIntrinsicElements)
	return out
}

// Config is the file-level configuration. Zero fields take defaults.
type Config struct {
	// IntrinsicElements replaces the built-in tag allow-list.
	IntrinsicElements []string `yaml:"intrinsic_elements"`

	// ExtraIntrinsicElements extends the allow-list, e.g. with custom
	// element names.
	ExtraIntrinsicElements []string `yaml:"extra_intrinsic_elements"`

	// Marker is the comment text inserted above closure-dependent
	// components, without the comment delimiter.
	Marker string `yaml:"marker"`

	// ResolveDefinitions selects lexical resolution (the default) or the
	// name-only fallback when set to false.
	ResolveDefinitions *bool `yaml:"resolve_definitions"`

	// IgnoreDirs replaces the default list of skipped directory names.
	IgnoreDirs []string `yaml:"ignore_dirs"`

	// MaxBytes skips larger files. 0 keeps the 2 MiB default.
	MaxBytes int64 `yaml:"max_bytes"`

	// Languages restricts the repository walk to these language names.
	Languages []string `yaml:"languages"`

	// MaxPasses bounds re-planning of deeply nested components.
	MaxPasses int `yaml:"max_passes"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	resolve := true
	return Config{
		IntrinsicElements:  DefaultIntrinsicElements(),
		Marker:             DefaultMarker,
		ResolveDefinitions: &resolve,
		MaxPasses:          DefaultMaxPasses,
	}
}

// LoadConfig reads a YAML configuration file. An empty path loads
// DefaultConfigFile if it exists and the defaults otherwise.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML configuration, rejecting unknown keys, and fills
// in defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxBytes < 0 {
		return Config{}, fmt.Errorf("parse config: max_bytes must not be negative")
	}
	if cfg.MaxPasses < 0 {
		return Config{}, fmt.Errorf("parse config: max_passes must not be negative")
	}
	if _, err := resolveLanguages(cfg.Languages); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.IntrinsicElements) == 0 {
		c.IntrinsicElements = def.IntrinsicElements
	}
	if c.Marker == "" {
		c.Marker = def.Marker
	}
	if c.ResolveDefinitions == nil {
		c.ResolveDefinitions = def.ResolveDefinitions
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = def.MaxPasses
	}
	return c
}

// intrinsic returns the effective tag allow-list.
func (c Config) intrinsic() []string {
	out := make([]string, 0, len(c.IntrinsicElements)+len(c.ExtraIntrinsicElements))
	out = append(out, c.IntrinsicElements...)
	return append(out, c.ExtraIntrinsicElements...)
}

func (c Config) resolver() Resolver {
	if c.ResolveDefinitions != nil && !*c.ResolveDefinitions {
		return NameResolver{}
	}
	return LexicalResolver{}
}

func (c Config) ignoreDirs() map[string]struct{} {
	if len(c.IgnoreDirs) == 0 {
		return nil
	}
	dirs := make(map[string]struct{}, len(c.IgnoreDirs))
	for _, d := range c.IgnoreDirs {
		dirs[d] = struct{}{}
	}
	return dirs
}
