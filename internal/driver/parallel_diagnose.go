package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"go.uber.org/zap"

	"docsniff/internal/diag"
	"docsniff/internal/observ"
	"docsniff/internal/source"
)

// Progress is reported after every file of CheckDir.
type Progress struct {
	Path  string
	Done  int
	Total int
	// Diagnostics is the number of diagnostics of this file.
	Diagnostics int
	Changed     bool
	Err         error
}

// ListFiles returns the files under dir selected by the config, sorted.
func ListFiles(dir string, opts *Options) ([]string, error) {
	cfg := opts.config()
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	base := cfg.Root
	if base == "" {
		base = dir
	} else if base, err = filepath.Abs(base); err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(base, path)
		if relErr != nil {
			rel = path
		}
		if cfg.Match(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every selected file under dir in parallel.
// Each file owns its stream and fixer; results keep the sorted file order.
// Cancellation is honoured between files.
func CheckDir(ctx context.Context, dir string, opts *Options) ([]*FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.logger()
	files, err := ListFiles(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*FileResult, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := CheckFile(path, opts)
			if res == nil {
				// файл не загрузился: ошибка I/O становится диагностикой
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
				res = &FileResult{Path: path, Bag: bag}
				log.Warn("load failed", zap.String("path", path), zap.Error(err))
			} else if err != nil {
				log.Warn("check failed", zap.String("path", path), zap.Error(err))
				if res.Bag == nil {
					res.Bag = diag.NewBag(opts.maxDiagnostics())
				}
			}
			results[i] = res

			n := int(done.Add(1))
			if opts.Progress != nil {
				opts.Progress(Progress{Path: path, Done: n, Total: len(files), Diagnostics: res.Bag.Pending(), Changed: res.Changed, Err: err})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Summary aggregates results of a run.
type Summary struct {
	Files    int
	Errors   int
	Warnings int
	Fixed    int
	Changed  int
	Cached   int
	// Timings sums the per-file phases when timings were enabled.
	Timings *observ.Report
}

// Summarize counts diagnostics and fixes across results.
func Summarize(results []*FileResult) Summary {
	var s Summary
	agg := observ.NewAggregate()
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Files++
		s.Errors += r.Bag.Count(diag.SevError)
		s.Warnings += r.Bag.Count(diag.SevWarning)
		s.Fixed += r.Applied
		if r.Changed {
			s.Changed++
		}
		if r.Cached {
			s.Cached++
		}
		if r.Timing != nil {
			agg.Add(*r.Timing)
		}
	}
	if agg.Files() > 0 {
		report := agg.Report()
		s.Timings = &report
	}
	return s
}
