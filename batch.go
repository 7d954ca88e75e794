package n64tex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var sourceExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".gif":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

func hidden(info os.FileInfo) bool {
	return info.Name()[0] == '.'
}

// FindSources expands paths into a list of source files. Directories are
// walked recursively for anything with an image extension, other paths are
// kept as-is. Duplicates are dropped, the order is otherwise preserved.
func FindSources(ctx context.Context, paths []string) ([]string, error) {
	var sources []string
	seen := make(map[string]struct{})

	add := func(file string) {
		if _, ok := seen[file]; ok {
			return
		}
		seen[file] = struct{}{}
		sources = append(sources, file)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// Let the conversion report anything unreadable
			add(path)
			continue
		}

		if err := filepath.Walk(path, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if err := ctx.Err(); err != nil {
				return err
			}

			// Ignore any hidden files or directories below the starting point
			if file != path && hidden(info) {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if _, ok := sourceExtensions[strings.ToLower(filepath.Ext(file))]; ok {
				add(file)
			}

			return nil
		}); err != nil {
			return nil, err
		}
	}

	return sources, nil
}

type job struct {
	index  int
	source string
}

// planJobs assigns each source its output file. Any source whose output was
// already claimed by an earlier source gets a WriteError in results instead
// of a job.
func planJobs(sources []string, p Parameters, outputDir string, results []Result) []job {
	jobs := make([]job, 0, len(sources))
	claimed := make(map[string]string, len(sources))
	for i, source := range sources {
		output := filepath.Join(outputDir, OutputName(source, p.Format, p.Colors))
		if first, ok := claimed[output]; ok {
			results[i] = Result{
				Source: source,
				Err:    &WriteError{Path: output, Err: fmt.Errorf("%w: %s", ErrDuplicateOutput, first)},
			}
			continue
		}
		claimed[output] = source
		jobs = append(jobs, job{index: i, source: source})
	}
	return jobs
}

func (c *Converter) feedSources(ctx context.Context, jobs []job) (<-chan job, <-chan error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, j := range jobs {
			select {
			case out <- j:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

// convertWorker converts each job into its own slot in results so no locking
// is required.
func (c *Converter) convertWorker(ctx context.Context, in <-chan job, p Parameters, outputDir string, results []Result) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			// Only check between files, a conversion in progress always finishes
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}
			results[j.index] = c.Convert(j.source, p, outputDir)
		}
	}()
	return errc
}

// waitForPipeline blocks until every channel is closed and returns the first
// error seen.
func waitForPipeline(errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ConvertBatch converts every file in sources using p, with up to workers
// files in flight at once. The results are in the same order as sources.
//
// Invalid parameters fail the whole batch before any file is touched. A file
// that fails to convert doesn't stop the batch, its Result carries the error.
// Files are written flat into outputDir so a source whose output name
// collides with an earlier source in the batch is not converted, its Result
// carries a WriteError wrapping ErrDuplicateOutput.
//
// If ctx is cancelled no further files are started, those files get the
// context error in their Result and it is also returned.
func (c *Converter) ConvertBatch(ctx context.Context, sources []string, p Parameters, outputDir string, workers int) ([]Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	results := make([]Result, len(sources))

	var errcList []<-chan error

	jobs, errc := c.feedSources(ctx, planJobs(sources, p, outputDir, results))
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errcList = append(errcList, c.convertWorker(ctx, jobs, p, outputDir, results))
	}

	err := waitForPipeline(errcList...)
	if err != nil {
		for i := range results {
			if results[i].Source == "" {
				results[i] = Result{Source: sources[i], Err: err}
			}
		}
	}

	return results, err
}
