package hoist

import "log/slog"

// RunOptions configures the Run function.
type RunOptions struct {
	// Path is the root directory to scan for files.
	// If empty, current directory is used.
	Path string

	// File is a single file to transform.
	// If set, Path is ignored.
	File string

	// Config is the loaded configuration. Zero fields take defaults.
	Config Config

	// DryRun computes results without writing files back.
	DryRun bool

	// Diff includes a unified diff for every changed file.
	Diff bool

	// Check implies DryRun and makes Run return ErrUnhoisted when any file
	// would change.
	Check bool

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size. Overrides the config
	// value when set. If both are 0, defaults to 2 MiB.
	MaxBytes int64

	// Reporter receives one increment per decision.
	// If nil, decisions are not reported.
	Reporter Reporter

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// CandidatesOptions configures the Candidates function.
type CandidatesOptions struct {
	// Path is the root directory to scan for files.
	// If empty, current directory is used.
	Path string

	// File is a single file to analyze.
	// If set, Path is ignored.
	File string

	// Config is the loaded configuration. Zero fields take defaults.
	Config Config

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size.
	MaxBytes int64

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

const defaultMaxBytes = 2 * 1024 * 1024

func effectiveMaxBytes(opt int64, cfg Config) int64 {
	switch {
	case opt > 0:
		return opt
	case cfg.MaxBytes > 0:
		return cfg.MaxBytes
	default:
		return defaultMaxBytes
	}
}
