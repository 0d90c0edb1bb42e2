// Package hoist moves UI components declared inside other components out to
// the top level of their file, when the nested component does not read
// anything from its host's scope. Components that do are annotated with a
// marker comment instead.
package hoist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Run transforms every file under opts.Path (or the single opts.File) and
// writes changed files back unless opts.DryRun or opts.Check is set.
// Results are in scan order. In check mode the results are returned together
// with ErrUnhoisted when at least one file would change.
func Run(ctx context.Context, opts RunOptions) ([]FileResult, error) {
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Check {
		opts.DryRun = true
	}
	cfg := opts.Config.withDefaults()

	files, err := collectFiles(opts.Path, opts.File, cfg, effectiveMaxBytes(opts.MaxBytes, cfg))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []FileResult{}, nil
	}

	e := newEngine(cfg, opts.Reporter, opts.Logger)
	results, err := runWorkers(ctx, files, opts.Jobs, func(ctx context.Context, parsers parserSet, job FileJob) (FileResult, error) {
		return e.runFile(ctx, parsers, job, opts)
	})
	if err != nil {
		return nil, err
	}

	if opts.Check {
		for _, r := range results {
			if r.Changed {
				return results, fmt.Errorf("%s: %w", r.File, ErrUnhoisted)
			}
		}
	}
	return results, nil
}

// runFile transforms one file. Files that cannot be read or parsed are
// reported in the result rather than failing the whole run.
func (e *engine) runFile(ctx context.Context, parsers parserSet, job FileJob, opts RunOptions) (FileResult, error) {
	res := FileResult{
		File:      job.DisplayPath,
		Language:  job.Language.Name(),
		Decisions: []Decision{},
	}

	source, err := os.ReadFile(job.AbsPath)
	if err != nil {
		e.logger.Warn("skipping unreadable file", slog.String("file", job.DisplayPath), slog.Any("error", err))
		res.Error = err.Error()
		return res, nil
	}

	out, err := e.transform(ctx, parsers, File{Name: job.DisplayPath, Source: source, Language: job.Language})
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		e.logger.Warn("skipping file", slog.String("file", job.DisplayPath), slog.Any("error", err))
		res.Error = err.Error()
		return res, nil
	}
	res.Changed = out.Changed
	res.Passes = out.Passes
	res.Decisions = out.Decisions
	if !out.Changed {
		return res, nil
	}

	if opts.Diff {
		res.Diff, err = unifiedDiff(job.DisplayPath, string(source), out.Source)
		if err != nil {
			return res, fmt.Errorf("diff %s: %w", job.DisplayPath, err)
		}
	}
	if opts.DryRun {
		return res, nil
	}

	info, err := os.Stat(job.AbsPath)
	if err != nil {
		return res, fmt.Errorf("stat file: %w", err)
	}
	if err := os.WriteFile(job.AbsPath, []byte(out.Source), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("write file: %w", err)
	}
	e.logger.Info("rewrote file",
		slog.String("file", job.DisplayPath),
		slog.Int("decisions", len(out.Decisions)),
		slog.Int("passes", out.Passes))
	return res, nil
}

// Candidates lists the nested components under opts.Path (or in opts.File)
// with the decision a run would make, without touching any file.
func Candidates(ctx context.Context, opts CandidatesOptions) ([]CandidateInfo, error) {
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg := opts.Config.withDefaults()

	files, err := collectFiles(opts.Path, opts.File, cfg, effectiveMaxBytes(opts.MaxBytes, cfg))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []CandidateInfo{}, nil
	}

	e := newEngine(cfg, nil, opts.Logger)
	perFile, err := runWorkers(ctx, files, opts.Jobs, func(ctx context.Context, parsers parserSet, job FileJob) ([]CandidateInfo, error) {
		source, err := os.ReadFile(job.AbsPath)
		if err != nil {
			e.logger.Warn("skipping unreadable file", slog.String("file", job.DisplayPath), slog.Any("error", err))
			return nil, nil
		}
		found, err := e.candidates(ctx, parsers, File{Name: job.DisplayPath, Source: source, Language: job.Language})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Warn("skipping file", slog.String("file", job.DisplayPath), slog.Any("error", err))
			return nil, nil
		}
		return found, nil
	})
	if err != nil {
		return nil, err
	}

	all := []CandidateInfo{}
	for _, found := range perFile {
		all = append(all, found...)
	}
	return all, nil
}

func collectFiles(path, file string, cfg Config, maxBytes int64) ([]FileJob, error) {
	if file != "" {
		job, err := newScanner(scannerConfig{}).collectSingle(file)
		if err != nil {
			return nil, err
		}
		return []FileJob{job}, nil
	}
	langs, err := resolveLanguages(cfg.Languages)
	if err != nil {
		return nil, err
	}
	return newScanner(scannerConfig{
		root:       path,
		languages:  langs,
		ignoreDirs: cfg.ignoreDirs(),
		maxBytes:   maxBytes,
	}).collect()
}

// runWorkers processes files on a bounded pool. Each worker owns its
// parsers. Results keep the order of files. The first error cancels the
// remaining work and is returned.
func runWorkers[T any](
	ctx context.Context,
	files []FileJob,
	jobs int,
	process func(ctx context.Context, parsers parserSet, job FileJob) (T, error),
) ([]T, error) {
	results := make([]T, len(files))
	if len(files) == 0 {
		return results, nil
	}

	workerCount := jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}

	g, ctx := errgroup.WithContext(ctx)
	jobQueue := make(chan int)

	g.Go(func() error {
		defer close(jobQueue)
		for i := range files {
			select {
			case jobQueue <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workerCount; w++ {
		g.Go(func() error {
			parsers := make(parserSet)
			for i := range jobQueue {
				r, err := process(ctx, parsers, files[i])
				if err != nil {
					return err
				}
				results[i] = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
