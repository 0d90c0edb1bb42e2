package hoist

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// defaultIgnoreDirs returns the default list of directories to ignore.
func defaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":         {},
		".hg":          {},
		".svn":         {},
		".jj":          {},
		"node_modules": {},
		"vendor":       {},
		"dist":         {},
		"build":        {},
		"target":       {},
		".next":        {},
		".nuxt":        {},
		".expo":        {},
		".cache":       {},
		".turbo":       {},
		"coverage":     {},
	}
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	root       string
	languages  []Language
	ignoreDirs map[string]struct{}
	maxBytes   int64
}

// scanner discovers files for processing.
type scanner struct {
	cfg scannerConfig
}

// newScanner creates a new scanner with the given configuration.
func newScanner(cfg scannerConfig) *scanner {
	if cfg.ignoreDirs == nil {
		cfg.ignoreDirs = defaultIgnoreDirs()
	}
	return &scanner{cfg: cfg}
}

// collect finds all matching files and returns them as FileJobs.
func (s *scanner) collect() ([]FileJob, error) {
	absRoot, err := filepath.Abs(s.cfg.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var jobs []FileJob
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		lang := s.languageFor(d.Name())
		if lang == nil {
			return nil
		}

		if s.cfg.maxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				return nil
			}
			if info.Size() > s.cfg.maxBytes {
				return nil
			}
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}

		jobs = append(jobs, FileJob{
			AbsPath:     path,
			DisplayPath: filepath.ToSlash(rel),
			Language:    lang,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// collectSingle returns a single file as a FileJob. Its language comes from
// the extension, among all registered languages.
func (s *scanner) collectSingle(filePath string) (FileJob, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return FileJob{}, fmt.Errorf("resolve path: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	lang := ByExtension(ext)
	if lang == nil {
		return FileJob{}, errLanguage(filepath.Base(absPath))
	}

	return FileJob{
		AbsPath:     absPath,
		DisplayPath: filepath.Base(absPath),
		Language:    lang,
	}, nil
}

func (s *scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.ignoreDirs[name]
	return ok
}

// languageFor returns the scanned language owning the file's extension, or
// nil. Declaration files carry no markup and are skipped.
func (s *scanner) languageFor(name string) Language {
	if strings.HasSuffix(name, ".d.ts") {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return nil
	}
	for _, lang := range s.cfg.languages {
		for _, e := range lang.Extensions() {
			if ext == e {
				return lang
			}
		}
	}
	return nil
}
