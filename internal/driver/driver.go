// Package driver implements the outer multi-file concurrency driver that
// wraps a single-file engine invocation (id-spine-combiner, sharder, or
// pid-data-preparer) so it can be pointed at a glob of input files and run
// a bounded number of them at once, matching how the original pipeline is
// invoked once per (publisher, partner) file pair across a sharded
// dataset rather than once globally.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// Job is one file this driver's worker pool must process.
type Job struct {
	InputPath  string
	OutputPath string
}

// Config parameterizes the worker pool.
type Config struct {
	// Concurrency bounds how many jobs run at once. Values <= 0 are
	// treated as 1.
	Concurrency int
	// TempDirBase is the parent directory under which each job gets its
	// own uuid-suffixed scratch directory.
	TempDirBase string
}

// JobFunc processes a single Job, given a private temp directory it may
// use for intermediate files; the driver removes that directory once
// JobFunc returns.
type JobFunc func(ctx context.Context, job Job, tempDir string) error

// DiscoverFiles expands a glob pattern (which may use doublestar's "**"
// recursive wildcard) into a sorted list of matching file paths.
func DiscoverFiles(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}

// IgnoreBrokenPipe makes the process ignore SIGPIPE, so a downstream
// consumer of this process's stdout closing its end early (e.g. a `head`
// in a shell pipeline) surfaces as a write error instead of killing the
// process outright. Call once at process startup.
func IgnoreBrokenPipe() {
	signal.Ignore(syscall.SIGPIPE)
}

// Run processes every job in jobs through fn, running at most
// cfg.Concurrency at a time, and returns a joined error of every job
// failure (nil if all succeeded).
func Run(ctx context.Context, jobs []Job, cfg Config, fn JobFunc) error {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	errs := make([]error, len(jobs))

	for i, job := range jobs {
		i, job := i, job
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = runOne(ctx, job, cfg.TempDirBase, fn)
		}()
	}
	wg.Wait()

	var joined []error
	for _, e := range errs {
		if e != nil {
			joined = append(joined, e)
		}
	}
	return errors.Join(joined...)
}

func runOne(ctx context.Context, job Job, tempDirBase string, fn JobFunc) error {
	tempDir, err := newTempDir(tempDirBase)
	if err != nil {
		return fmt.Errorf("driver: allocating temp dir for %s: %w", job.InputPath, err)
	}
	defer os.RemoveAll(tempDir)

	if err := fn(ctx, job, tempDir); err != nil {
		return fmt.Errorf("driver: job %s: %w", job.InputPath, err)
	}
	return nil
}

// newTempDir allocates job.InputPath a uuid-suffixed scratch directory
// under base, avoiding name collisions between concurrent runs that
// happen to target the same input file basename.
func newTempDir(base string) (string, error) {
	dir := filepath.Join(base, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
