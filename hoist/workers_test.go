package hoist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRunWorkers tests the generic worker pool for concurrency correctness.
// Run with -race flag to detect race conditions: go test -race
func TestRunWorkers(t *testing.T) {
	tests := []struct {
		name      string
		fileCount int
		jobs      int
	}{
		{"single_file_single_worker", 1, 1},
		{"multiple_files_single_worker", 5, 1},
		{"multiple_files_multiple_workers", 10, 4},
		{"more_workers_than_files", 3, 10},
		{"many_files_high_concurrency", 50, 16},
		{"zero_jobs_defaults_to_one", 5, 0},
		{"empty_files", 0, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			expected := generateTestFiles(t, tmpDir, tc.fileCount)

			if tc.fileCount == 0 {
				results, err := runWorkers(context.Background(), []FileJob{}, tc.jobs, nestedNames)
				require.NoError(t, err)
				require.Empty(t, results)
				return
			}

			sc := newScanner(scannerConfig{
				root:      tmpDir,
				languages: []Language{Get("tsx")},
				maxBytes:  2 * 1024 * 1024,
			})
			files, err := sc.collect()
			require.NoError(t, err)
			require.Len(t, files, tc.fileCount)

			results, err := runWorkers(context.Background(), files, tc.jobs, nestedNames)
			require.NoError(t, err)
			require.Len(t, results, tc.fileCount, "should have one result per file")

			// Results keep the order of the input files.
			for i, f := range files {
				require.Equal(t, "Inner"+strings.TrimSuffix(f.DisplayPath, ".tsx"), results[i])
			}

			sort.Strings(results)
			sort.Strings(expected)
			require.Equal(t, expected, results, "every file processed exactly once")
		})
	}
}

func TestRunWorkersStopsOnError(t *testing.T) {
	tmpDir := t.TempDir()
	generateTestFiles(t, tmpDir, 20)
	files, err := newScanner(scannerConfig{root: tmpDir, languages: []Language{Get("tsx")}}).collect()
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = runWorkers(context.Background(), files, 4, func(ctx context.Context, _ parserSet, job FileJob) (string, error) {
		if filepath.Base(job.DisplayPath) == "7.tsx" {
			return "", boom
		}
		return job.DisplayPath, nil
	})
	require.ErrorIs(t, err, boom)
}

func TestRunWorkersCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	generateTestFiles(t, tmpDir, 5)
	files, err := newScanner(scannerConfig{root: tmpDir, languages: []Language{Get("tsx")}}).collect()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runWorkers(ctx, files, 2, func(ctx context.Context, _ parserSet, job FileJob) (string, error) {
		return "", ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
}

// generateTestFiles creates N TSX files, each with one nested component
// named after the file. Returns the expected component names.
func generateTestFiles(t *testing.T, dir string, count int) []string {
	t.Helper()

	var expected []string
	for i := range count {
		name := fmt.Sprintf("Inner%d", i)
		content := fmt.Sprintf(`function Outer() {
	const %s = () => <div />;
	return <%s />;
}
`, name, name)

		err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.tsx", i)), []byte(content), 0644)
		require.NoError(t, err)

		expected = append(expected, name)
	}

	return expected
}

// nestedNames parses a file and returns the name of its first nested
// component.
func nestedNames(ctx context.Context, parsers parserSet, job FileJob) (string, error) {
	tree, err := parsers.get(job.Language).parseFile(ctx, job.AbsPath)
	if err != nil {
		return "", err
	}
	q, err := newQuery(job.Language.CandidatesQuery(), job.Language)
	if err != nil {
		return "", err
	}
	p := &planner{tree: tree, query: q, det: newDetector()}
	cands := p.candidates()
	if len(cands) == 0 {
		return "", nil
	}
	name, _ := p.det.ComponentName(cands[0].Decl)
	return name, nil
}
