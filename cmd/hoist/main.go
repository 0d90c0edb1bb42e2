package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/arjunmahishi/hoist/hoist"
	"github.com/arjunmahishi/hoist/output"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func main() {
	app := &cli.Command{
		Name:  "hoist",
		Usage: "move nested React components out of their host components",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "text or json",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			runCommand(),
			candidatesCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		output.WriteError(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return ctx, fmt.Errorf("log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cmd.String("log-format") {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return ctx, fmt.Errorf("log-format: unknown format %q", cmd.String("log-format"))
	}
	slog.SetDefault(slog.New(handler))
	return ctx, nil
}

// sourceFlags are shared by every command that scans files.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "path",
			Value: ".",
			Usage: "root path to scan",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "single file to process",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file (default " + hoist.DefaultConfigFile + " when present)",
		},
		&cli.BoolFlag{
			Name:  "no-resolve",
			Usage: "match outer-scope names without resolving definitions",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "minimize output",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "number of parallel workers",
		},
		&cli.Int64Flag{
			Name:  "max-bytes",
			Usage: "skip files larger than this (default from config, else 2 MiB)",
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "hoist nested components and annotate the ones that read their host's scope",
		Flags: append(sourceFlags(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "report without writing files",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "include a unified diff per changed file",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "exit non-zero when any file would change; implies --dry-run",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: string(output.FormatJSON),
				Usage: "json, or patch to print only unified diffs (implies --diff)",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "write a tally of decisions to stderr when done",
			},
		),
		Action: runRun,
	}
}

func candidatesCommand() *cli.Command {
	return &cli.Command{
		Name:   "candidates",
		Usage:  "list nested components and whether they can be hoisted",
		Flags:  sourceFlags(),
		Action: runCandidates,
	}
}

func loadConfig(cmd *cli.Command) (hoist.Config, error) {
	cfg, err := hoist.LoadConfig(cmd.String("config"))
	if err != nil {
		return hoist.Config{}, err
	}
	if cmd.Bool("no-resolve") {
		resolve := false
		cfg.ResolveDefinitions = &resolve
	}
	return cfg, nil
}

func runRun(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	opts := hoist.RunOptions{
		Path:     cmd.String("path"),
		File:     cmd.String("file"),
		Config:   cfg,
		DryRun:   cmd.Bool("dry-run"),
		Diff:     cmd.Bool("diff") || format == output.FormatPatch,
		Check:    cmd.Bool("check"),
		Jobs:     cmd.Int("jobs"),
		MaxBytes: cmd.Int64("max-bytes"),
		Logger:   slog.Default(),
	}

	var reader *sdkmetric.ManualReader
	if cmd.Bool("metrics") {
		reader = sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = provider.Shutdown(ctx) }()
		reporter, err := hoist.NewOTelReporter(provider)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		opts.Reporter = reporter
	}

	results, runErr := hoist.Run(ctx, opts)
	if runErr != nil && !errors.Is(runErr, hoist.ErrUnhoisted) {
		return runErr
	}

	if reader != nil {
		if err := writeTally(ctx, reader); err != nil {
			return err
		}
	}
	w := output.New(output.Config{Compact: cmd.Bool("compact"), Format: format})
	if err := output.WriteResults(w, results); err != nil {
		return err
	}
	return runErr
}

func runCandidates(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	found, err := hoist.Candidates(ctx, hoist.CandidatesOptions{
		Path:     cmd.String("path"),
		File:     cmd.String("file"),
		Config:   cfg,
		Jobs:     cmd.Int("jobs"),
		MaxBytes: cmd.Int64("max-bytes"),
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}

	return output.New(output.Config{Compact: cmd.Bool("compact")}).Write(found)
}

// writeTally collects the decision counter and writes the count per
// change-type and component-form pair to stderr.
func writeTally(ctx context.Context, reader *sdkmetric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}

	tally := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != hoist.MetricName {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				key := attrString(dp.Attributes, "change-type")
				if form := attrString(dp.Attributes, "component-form"); form != "" {
					key += "/" + form
				}
				tally[key] += dp.Value
			}
		}
	}

	return output.New(output.Config{Compact: true, Output: os.Stderr}).Write(map[string]any{
		"decisions": tally,
	})
}

func attrString(set attribute.Set, key attribute.Key) string {
	v, ok := set.Value(key)
	if !ok {
		return ""
	}
	return v.AsString()
}
